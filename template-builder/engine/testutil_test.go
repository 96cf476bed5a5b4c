package engine

import (
	"context"
	"fmt"

	"videogen/template-builder/models"
)

// fakeAI replays scripted responses in order and records every prompt.
type fakeAI struct {
	responses []string
	calls     int
	systems   []string
	users     []string
}

func (f *fakeAI) GenerateContentWithSystem(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.systems = append(f.systems, systemPrompt)
	f.users = append(f.users, userPrompt)
	if f.calls >= len(f.responses) {
		return "", fmt.Errorf("unexpected AI call %d", f.calls+1)
	}
	response := f.responses[f.calls]
	f.calls++
	return response, nil
}

func testAssets() []models.VideoAsset {
	return []models.VideoAsset{
		{
			ID:              "asset-1",
			UploadURL:       "https://cdn.example.com/videos/asset-1.mp4",
			Title:           "City timelapse",
			UserID:          "user-1",
			DurationSeconds: 30,
			AnalysisData: &models.AnalysisData{Segments: []models.Segment{
				{StartTime: "00:05", EndTime: "00:14", Description: "Crowded crosswalk at rush hour",
					KeyPoints: []string{"pedestrians", "traffic"}},
				{StartTime: "00:14", EndTime: "00:30", Description: "Skyline at dusk"},
			}},
		},
		{
			ID:              "asset-2",
			UploadURL:       "https://cdn.example.com/videos/asset-2.mp4",
			Title:           "Coffee pour close-up",
			UserID:          "user-1",
			DurationSeconds: 12,
		},
	}
}

func testPlan() *models.ScenePlan {
	return &models.ScenePlan{Scenes: []models.Scene{
		{
			SceneNumber: 1,
			ScriptText:  "Cities never sleep and neither does your audience.",
			VideoAsset: &models.SceneAsset{
				ID:           "asset-1",
				URL:          "https://cdn.example.com/videos/asset-1.mp4",
				Title:        "City timelapse",
				TrimStart:    "5",
				TrimDuration: "9",
			},
		},
		{
			SceneNumber: 2,
			ScriptText:  "Start your morning with intent.",
			VideoAsset: &models.SceneAsset{
				ID:  "asset-2",
				URL: "https://cdn.example.com/videos/asset-2.mp4",
			},
		},
	}}
}
