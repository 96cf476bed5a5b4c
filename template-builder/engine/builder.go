package engine

import (
	"context"
	"fmt"
	"strings"

	"videogen/template-builder/ai"
	"videogen/template-builder/captions"
	"videogen/template-builder/models"
)

// BuildRequest is one template generation request. The asset list is
// read-only ground truth for the whole pipeline run.
type BuildRequest struct {
	Script           string
	Assets           []models.VideoAsset
	VoiceID          string
	EditorialProfile string
	Captions         captions.Config
}

// TemplateBuilder runs the full pipeline: plan, validate durations, repair,
// reconcile URLs, generate, post-process, validate structure. Builders are
// cheap; create one per request.
type TemplateBuilder struct {
	planner   *ScenePlanner
	repairer  *SceneRepairer
	generator *TemplateGenerator
	presets   *captions.Library
	durations DurationConfig
}

// NewTemplateBuilder creates a builder on top of the given AI service and
// caption preset library.
func NewTemplateBuilder(svc ai.Service, presets *captions.Library, durations DurationConfig) *TemplateBuilder {
	if presets == nil {
		presets = captions.DefaultLibrary()
	}
	return &TemplateBuilder{
		planner:   NewScenePlanner(svc),
		repairer:  NewSceneRepairer(svc, durations),
		generator: NewTemplateGenerator(svc),
		presets:   presets,
		durations: durations,
	}
}

// Build turns a script, assets, voice and caption settings into a validated
// render template.
func (b *TemplateBuilder) Build(ctx context.Context, req BuildRequest) (*models.RenderTemplate, error) {
	if req.Script == "" {
		return nil, fmt.Errorf("script is required")
	}
	if req.VoiceID == "" {
		return nil, fmt.Errorf("voice id is required")
	}
	if len(req.Assets) == 0 {
		return nil, fmt.Errorf("at least one video asset is required")
	}

	fmt.Printf("🎬 Planning scenes for %d-word script over %d assets...\n",
		len(strings.Fields(req.Script)), len(req.Assets))

	plan, err := b.planner.PlanScenes(ctx, req.Script, req.Assets)
	if err != nil {
		return nil, err
	}

	violations := ValidateSceneDurations(plan, req.Assets, b.durations)
	if len(violations) > 0 {
		plan, err = b.repairer.Repair(ctx, req.Script, req.Assets, plan, violations)
		if err != nil {
			return nil, err
		}
	}

	if err := ReconcileAssetURLs(plan, req.Assets); err != nil {
		return nil, err
	}

	tpl, err := b.generator.Generate(ctx, GenerateInput{
		Script:           req.Script,
		Assets:           req.Assets,
		VoiceID:          req.VoiceID,
		EditorialProfile: req.EditorialProfile,
		Plan:             plan,
		CaptionsEnabled:  req.Captions.Enabled,
	})
	if err != nil {
		return nil, err
	}

	post := NewPostProcessor(req.VoiceID, req.Captions, b.presets)
	post.Apply(tpl)

	if err := ValidateTemplateStructure(tpl); err != nil {
		return nil, err
	}

	fmt.Printf("✓ Template ready: %d scene compositions\n", len(tpl.Elements))
	return tpl, nil
}
