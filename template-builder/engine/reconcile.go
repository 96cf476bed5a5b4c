package engine

import (
	"fmt"

	"videogen/template-builder/models"
)

// ReconcileAssetURLs overwrites any scene video URL that does not match the
// upload URL of the asset it claims by id. Models copy URLs imperfectly; the
// id is the source of truth. A scene whose id matches no known asset is an
// integrity error, never silently dropped. Running this twice on a correct
// plan is a no-op.
func ReconcileAssetURLs(plan *models.ScenePlan, assets []models.VideoAsset) error {
	for i := range plan.Scenes {
		scene := &plan.Scenes[i]
		if scene.VideoAsset == nil {
			return fmt.Errorf("scene %d has no video asset bound", i+1)
		}
		asset := models.FindAsset(assets, scene.VideoAsset.ID)
		if asset == nil {
			return &IntegrityError{SceneIndex: i, AssetID: scene.VideoAsset.ID}
		}
		if scene.VideoAsset.URL != asset.UploadURL {
			fmt.Printf("Correcting scene %d video URL: %s -> %s\n", i+1, scene.VideoAsset.URL, asset.UploadURL)
			scene.VideoAsset.URL = asset.UploadURL
		}
	}
	return nil
}
