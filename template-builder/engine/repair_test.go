package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"videogen/template-builder/models"
)

func planJSON(t *testing.T, plan *models.ScenePlan) string {
	t.Helper()
	data, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshalling plan: %v", err)
	}
	return string(data)
}

func overloadedPlan(wordCount int) *models.ScenePlan {
	return &models.ScenePlan{Scenes: []models.Scene{{
		SceneNumber: 1,
		ScriptText:  strings.TrimSpace(strings.Repeat("word ", wordCount)),
		VideoAsset: &models.SceneAsset{
			ID:           "asset-1",
			URL:          "https://cdn.example.com/videos/asset-1.mp4",
			TrimDuration: "5",
		},
	}}}
}

func TestRepairFailsAfterExactlyThreeAttempts(t *testing.T) {
	cfg := DurationConfig{WordsToSeconds: 1.0, SafetyMargin: 0.95}
	bad := overloadedPlan(40) // 40s of narration over 5s of footage

	// The model never shrinks the overage.
	fake := &fakeAI{responses: []string{
		planJSON(t, bad), planJSON(t, bad), planJSON(t, bad), planJSON(t, bad),
	}}
	repairer := NewSceneRepairer(fake, cfg)

	violations := ValidateSceneDurations(bad, testAssets(), cfg)
	if len(violations) == 0 {
		t.Fatal("test setup: expected an initial violation")
	}

	_, err := repairer.Repair(context.Background(), "script", testAssets(), bad, violations)
	var exhausted *RepairExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want *RepairExhaustedError", err)
	}
	if exhausted.Attempts != MaxRepairAttempts {
		t.Errorf("Attempts = %d, want %d", exhausted.Attempts, MaxRepairAttempts)
	}
	if len(exhausted.Violations) == 0 {
		t.Error("exhausted error should carry the surviving violations")
	}
	if fake.calls != MaxRepairAttempts {
		t.Errorf("model invoked %d times, want exactly %d", fake.calls, MaxRepairAttempts)
	}
}

func TestRepairSucceedsOnSecondAttempt(t *testing.T) {
	cfg := DurationConfig{WordsToSeconds: 1.0, SafetyMargin: 0.95}
	bad := overloadedPlan(40)
	good := overloadedPlan(4)

	fake := &fakeAI{responses: []string{planJSON(t, bad), planJSON(t, good)}}
	repairer := NewSceneRepairer(fake, cfg)

	violations := ValidateSceneDurations(bad, testAssets(), cfg)
	repaired, err := repairer.Repair(context.Background(), "script", testAssets(), bad, violations)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if fake.calls != 2 {
		t.Errorf("model invoked %d times, want 2", fake.calls)
	}
	if remaining := ValidateSceneDurations(repaired, testAssets(), cfg); len(remaining) != 0 {
		t.Errorf("repaired plan still violates: %v", remaining)
	}
}

func TestRepairPromptCarriesViolationReport(t *testing.T) {
	cfg := DurationConfig{WordsToSeconds: 1.0, SafetyMargin: 0.95}
	bad := overloadedPlan(40)
	good := overloadedPlan(4)

	fake := &fakeAI{responses: []string{planJSON(t, good)}}
	repairer := NewSceneRepairer(fake, cfg)

	violations := ValidateSceneDurations(bad, testAssets(), cfg)
	if _, err := repairer.Repair(context.Background(), "the script", testAssets(), bad, violations); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	prompt := fake.users[0]
	if !strings.Contains(prompt, "Scene 1:") || !strings.Contains(prompt, "exceeds video duration") {
		t.Errorf("repair prompt missing violation report:\n%s", prompt)
	}
	if !strings.Contains(prompt, "DURATION VIOLATIONS") {
		t.Errorf("repair prompt missing violations section:\n%s", prompt)
	}
}

func TestRepairPropagatesModelContractError(t *testing.T) {
	cfg := DurationConfig{WordsToSeconds: 1.0, SafetyMargin: 0.95}
	bad := overloadedPlan(40)

	fake := &fakeAI{responses: []string{"this is not JSON"}}
	repairer := NewSceneRepairer(fake, cfg)

	violations := ValidateSceneDurations(bad, testAssets(), cfg)
	_, err := repairer.Repair(context.Background(), "script", testAssets(), bad, violations)
	var contractErr *ModelContractError
	if !errors.As(err, &contractErr) {
		t.Fatalf("error = %v, want *ModelContractError", err)
	}
}
