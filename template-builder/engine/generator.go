package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"videogen/template-builder/ai"
	"videogen/template-builder/models"
)

// TemplateGenerator expands a validated scene plan into the full render
// template. The plan is ground truth: the generator must not change which
// asset a scene uses or how it is trimmed, only wrap each scene in its
// three-element composition.
type TemplateGenerator struct {
	ai ai.Service
}

// NewTemplateGenerator creates a new template generator.
func NewTemplateGenerator(svc ai.Service) *TemplateGenerator {
	return &TemplateGenerator{ai: svc}
}

// GenerateInput carries everything the generator prompt needs.
type GenerateInput struct {
	Script           string
	Assets           []models.VideoAsset
	VoiceID          string
	EditorialProfile string
	Plan             *models.ScenePlan
	CaptionsEnabled  bool
}

func generatorSystemPrompt() string {
	return `You are a video compositor producing a render document for a template-driven rendering engine.

` + renderEngineDocs() + `

HARD RULES:
- The scene plan is ground truth. Do NOT change any scene's asset choice, URL, trim_start or trim_duration. Do NOT merge, split, reorder or drop scenes.
- Emit exactly one composition per scene, each containing exactly one video element, one audio element and one text caption element.
- Every video element: "fit": "cover" and "duration": null.
- Every audio element: "source" is the scene's script text verbatim; "provider" embeds the requested voice id.
- Every caption element: "transcript_source" references its scene's audio element id.
- Output dimensions are fixed: 1080 wide, 1920 high, output_format "mp4".

Return ONLY the JSON document, no markdown formatting, no backticks, no code blocks.`
}

// Generate produces the unvalidated render template for the scene plan.
func (g *TemplateGenerator) Generate(ctx context.Context, in GenerateInput) (*models.RenderTemplate, error) {
	planJSON, err := json.MarshalIndent(in.Plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling scene plan: %w", err)
	}

	captionNote := "Captions are enabled: include a caption text element in every composition."
	if !in.CaptionsEnabled {
		captionNote = "Captions are disabled for this video, but still include the caption text elements; they are stripped in post-processing."
	}

	profile := in.EditorialProfile
	if profile == "" {
		profile = "energetic short-form pacing, hook first, no dead air"
	}

	userPrompt := fmt.Sprintf(`SCRIPT:
%s

SCENE PLAN (ground truth):
%s

AVAILABLE VIDEO ASSETS:
%s

VOICE ID: %s
EDITORIAL PROFILE: %s
%s

Produce the render document now.`,
		in.Script, string(planJSON), renderAssetCatalog(in.Assets), in.VoiceID, profile, captionNote)

	response, err := g.ai.GenerateContentWithSystem(ctx, generatorSystemPrompt(), userPrompt)
	if err != nil {
		return nil, fmt.Errorf("template generation call failed: %w", err)
	}

	return parseRenderTemplate(response)
}

// parseRenderTemplate parses the model output as a render template. Missing
// top-level keys are fatal here; the structure validator re-checks values
// after post-processing.
func parseRenderTemplate(response string) (*models.RenderTemplate, error) {
	clean := ai.StripCodeFences(response)

	var tpl models.RenderTemplate
	if err := json.Unmarshal([]byte(clean), &tpl); err != nil {
		return nil, &ModelContractError{Stage: "template generation", Err: err, Raw: clean}
	}
	if tpl.OutputFormat == "" {
		return nil, &ModelContractError{Stage: "template generation",
			Err: fmt.Errorf("missing top-level key output_format"), Raw: clean}
	}
	if tpl.Width == 0 || tpl.Height == 0 {
		return nil, &ModelContractError{Stage: "template generation",
			Err: fmt.Errorf("missing top-level width/height"), Raw: clean}
	}
	if tpl.Elements == nil {
		return nil, &ModelContractError{Stage: "template generation",
			Err: fmt.Errorf("missing top-level key elements"), Raw: clean}
	}

	fmt.Printf("✓ Render template generated with %d compositions\n", len(tpl.Elements))
	return &tpl, nil
}
