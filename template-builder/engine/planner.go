package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"videogen/template-builder/ai"
	"videogen/template-builder/models"
)

// ScenePlanner asks the AI collaborator to partition a voice-over script into
// scenes, each bound to one of the available video assets.
type ScenePlanner struct {
	ai ai.Service
}

// NewScenePlanner creates a new scene planner.
func NewScenePlanner(svc ai.Service) *ScenePlanner {
	return &ScenePlanner{ai: svc}
}

const scenePlannerSystemPrompt = `You are a video editor planning a short vertical video.
You split a voice-over script into scenes and assign each scene one of the available video clips.

RULES:
- Split the script into 3 to 7 scenes at natural breakpoints.
- Every scene MUST be assigned exactly one video asset from the provided list. Never leave a scene without an asset.
- If there are fewer assets than scenes, reuse assets across scenes.
- Copy the asset's "id" and "uploadUrl" exactly as given; do not invent assets.
- When an asset has analysisData, compare the scene's text against each segment's description and keyPoints. If one segment clearly matches, set "trimStart" to the segment's start in seconds and "trimDuration" to (endTime - startTime) in seconds, both as numeric strings like "12".
- If no asset has usable analysis data, OMIT trimStart and trimDuration entirely. Never default them to "0" or any other value.

OUTPUT FORMAT:
Return ONLY a JSON object, no markdown formatting, no backticks, no code blocks:
{
  "scenes": [
    {
      "sceneNumber": 1,
      "scriptText": "the part of the script narrated in this scene",
      "videoAsset": {
        "id": "asset id",
        "url": "the asset's uploadUrl",
        "title": "asset title",
        "trimStart": "14",
        "trimDuration": "9"
      },
      "reasoning": "one sentence on why this clip fits this text"
    }
  ]
}`

// PlanScenes produces a scene plan for the script over the given assets.
func (p *ScenePlanner) PlanScenes(ctx context.Context, script string, assets []models.VideoAsset) (*models.ScenePlan, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("no video assets available for scene planning")
	}

	userPrompt := fmt.Sprintf("SCRIPT:\n%s\n\nAVAILABLE VIDEO ASSETS:\n%s\n\nPlan the scenes now.",
		script, renderAssetCatalog(assets))

	response, err := p.ai.GenerateContentWithSystem(ctx, scenePlannerSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("scene planning call failed: %w", err)
	}

	plan, err := parseScenePlan(response)
	if err != nil {
		return nil, err
	}

	fmt.Printf("✓ Scene plan generated with %d scenes\n", len(plan.Scenes))
	return plan, nil
}

// parseScenePlan parses a model response against the scene plan shape. The
// "every scene has an asset" invariant is re-checked here rather than
// trusted: the model is an untrusted oracle.
func parseScenePlan(response string) (*models.ScenePlan, error) {
	clean := ai.StripCodeFences(response)

	var plan models.ScenePlan
	if err := json.Unmarshal([]byte(clean), &plan); err != nil {
		return nil, &ModelContractError{Stage: "scene planning", Err: err, Raw: clean}
	}
	if len(plan.Scenes) == 0 {
		return nil, &ModelContractError{Stage: "scene planning", Err: fmt.Errorf("plan contains no scenes"), Raw: clean}
	}
	for i, scene := range plan.Scenes {
		if scene.VideoAsset == nil {
			return nil, &ModelContractError{Stage: "scene planning",
				Err: fmt.Errorf("scene %d has no video asset", i+1), Raw: clean}
		}
		if scene.VideoAsset.ID == "" {
			return nil, &ModelContractError{Stage: "scene planning",
				Err: fmt.Errorf("scene %d video asset has empty id", i+1), Raw: clean}
		}
		if scene.ScriptText == "" {
			return nil, &ModelContractError{Stage: "scene planning",
				Err: fmt.Errorf("scene %d has empty script text", i+1), Raw: clean}
		}
	}
	return &plan, nil
}

// renderAssetCatalog renders the asset list as the JSON the prompts embed.
type catalogAsset struct {
	ID              string               `json:"id"`
	UploadURL       string               `json:"uploadUrl"`
	Title           string               `json:"title"`
	Description     string               `json:"description,omitempty"`
	Tags            []string             `json:"tags,omitempty"`
	DurationSeconds float64              `json:"durationSeconds,omitempty"`
	AnalysisData    *models.AnalysisData `json:"analysisData,omitempty"`
}

func renderAssetCatalog(assets []models.VideoAsset) string {
	catalog := make([]catalogAsset, len(assets))
	for i, a := range assets {
		catalog[i] = catalogAsset{
			ID:              a.ID,
			UploadURL:       a.UploadURL,
			Title:           a.Title,
			Description:     a.Description,
			Tags:            a.Tags,
			DurationSeconds: a.DurationSeconds,
			AnalysisData:    a.AnalysisData,
		}
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}
