package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"videogen/template-builder/ai"
	"videogen/template-builder/models"
)

// MaxRepairAttempts caps the duration repair loop. After this many failed
// attempts the request fails; there is no "accept with known issues" path.
const MaxRepairAttempts = 3

// SceneRepairer feeds duration violations back to the AI collaborator and
// asks for an adjusted scene plan.
type SceneRepairer struct {
	ai          ai.Service
	maxAttempts int
	durations   DurationConfig
}

// NewSceneRepairer creates a repairer with the standard attempt cap.
func NewSceneRepairer(svc ai.Service, durations DurationConfig) *SceneRepairer {
	return &SceneRepairer{ai: svc, maxAttempts: MaxRepairAttempts, durations: durations}
}

const sceneRepairSystemPrompt = scenePlannerSystemPrompt + `

REPAIR MODE:
The previous plan has scenes whose narration does not fit the assigned footage.
For each violating scene, do ONE of the following:
- Move part of its script text into a neighboring scene so less narration lands on the short clip.
- Pick a longer segment of the same asset, or a different asset with more footage.
- If the scene has no trim, you may keep the text and rely on the renderer stretching the clip: append additional sequential video elements on a secondary track instead of shrinking the narration.
Do not rewrite or shorten the script's wording; every word of the original script must survive.`

// Repair runs up to maxAttempts repair rounds, re-validating after each one.
// It returns the first plan that validates cleanly, or a RepairExhaustedError
// carrying the surviving violations.
func (r *SceneRepairer) Repair(ctx context.Context, script string, assets []models.VideoAsset,
	plan *models.ScenePlan, violations []models.DurationViolation) (*models.ScenePlan, error) {

	current := plan
	currentViolations := violations

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		fmt.Printf("Repairing scene durations (attempt %d/%d, %d violations)...\n",
			attempt, r.maxAttempts, len(currentViolations))

		userPrompt := r.buildRepairPrompt(script, assets, current, currentViolations)
		response, err := r.ai.GenerateContentWithSystem(ctx, sceneRepairSystemPrompt, userPrompt)
		if err != nil {
			return nil, fmt.Errorf("scene repair call failed (attempt %d): %w", attempt, err)
		}

		repaired, err := parseScenePlan(response)
		if err != nil {
			return nil, err
		}

		current = repaired
		currentViolations = ValidateSceneDurations(current, assets, r.durations)
		if len(currentViolations) == 0 {
			fmt.Printf("✓ Scene durations repaired after %d attempt(s)\n", attempt)
			return current, nil
		}
	}

	return nil, &RepairExhaustedError{Attempts: r.maxAttempts, Violations: currentViolations}
}

func (r *SceneRepairer) buildRepairPrompt(script string, assets []models.VideoAsset,
	plan *models.ScenePlan, violations []models.DurationViolation) string {

	report := make([]string, len(violations))
	for i, v := range violations {
		report[i] = "- " + v.String()
	}

	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		planJSON = []byte("{}")
	}

	return fmt.Sprintf(`SCRIPT:
%s

AVAILABLE VIDEO ASSETS:
%s

CURRENT SCENE PLAN:
%s

DURATION VIOLATIONS:
%s

Produce a corrected scene plan now.`,
		script, renderAssetCatalog(assets), string(planJSON), strings.Join(report, "\n"))
}
