package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPlanScenesParsesFencedResponse(t *testing.T) {
	response := "```json\n" + planJSON(t, testPlan()) + "\n```"
	fake := &fakeAI{responses: []string{response}}
	planner := NewScenePlanner(fake)

	plan, err := planner.PlanScenes(context.Background(), "a short script", testAssets())
	if err != nil {
		t.Fatalf("PlanScenes: %v", err)
	}
	if len(plan.Scenes) != 2 {
		t.Fatalf("got %d scenes, want 2", len(plan.Scenes))
	}
	for i, scene := range plan.Scenes {
		if scene.VideoAsset == nil {
			t.Errorf("scene %d has nil asset", i+1)
		}
	}
}

func TestPlanScenesPromptContainsAssets(t *testing.T) {
	fake := &fakeAI{responses: []string{planJSON(t, testPlan())}}
	planner := NewScenePlanner(fake)

	if _, err := planner.PlanScenes(context.Background(), "a short script", testAssets()); err != nil {
		t.Fatalf("PlanScenes: %v", err)
	}
	prompt := fake.users[0]
	if !strings.Contains(prompt, "asset-1") || !strings.Contains(prompt, "asset-2") {
		t.Errorf("prompt missing asset catalog:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Crowded crosswalk") {
		t.Errorf("prompt missing analysis segment descriptions:\n%s", prompt)
	}
}

func TestParseScenePlanRejectsBadOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not JSON", "sorry, I cannot do that"},
		{"empty plan", `{"scenes": []}`},
		{"null asset", `{"scenes": [{"sceneNumber": 1, "scriptText": "hello", "videoAsset": null}]}`},
		{"missing asset id", `{"scenes": [{"sceneNumber": 1, "scriptText": "hello", "videoAsset": {"id": "", "url": "u"}}]}`},
		{"empty script text", `{"scenes": [{"sceneNumber": 1, "scriptText": "", "videoAsset": {"id": "a", "url": "u"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScenePlan(tt.response)
			var contractErr *ModelContractError
			if !errors.As(err, &contractErr) {
				t.Fatalf("error = %v, want *ModelContractError", err)
			}
			if contractErr.Stage != "scene planning" {
				t.Errorf("Stage = %q, want scene planning", contractErr.Stage)
			}
		})
	}
}

func TestParseScenePlanAcceptsNumericTrims(t *testing.T) {
	// Models sometimes emit trim values as numbers despite instructions.
	response := `{"scenes": [{"sceneNumber": 1, "scriptText": "hello there",
		"videoAsset": {"id": "asset-1", "url": "u", "trimStart": 5, "trimDuration": 9.5}}]}`

	plan, err := parseScenePlan(response)
	if err != nil {
		t.Fatalf("parseScenePlan: %v", err)
	}
	asset := plan.Scenes[0].VideoAsset
	if asset.TrimStart != "5" || asset.TrimDuration != "9.5" {
		t.Errorf("trims = %q/%q, want 5/9.5", asset.TrimStart, asset.TrimDuration)
	}
}

func TestPlanScenesNoAssets(t *testing.T) {
	planner := NewScenePlanner(&fakeAI{})
	if _, err := planner.PlanScenes(context.Background(), "script", nil); err == nil {
		t.Fatal("expected error with no assets")
	}
}
