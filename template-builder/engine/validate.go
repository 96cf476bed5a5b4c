package engine

import (
	"fmt"

	"videogen/template-builder/models"
)

// ValidateTemplateStructure is the final acceptance gate before the template
// is handed to the rendering service. Failures here are fatal; nothing is
// auto-repaired past this point.
func ValidateTemplateStructure(tpl *models.RenderTemplate) error {
	if tpl == nil {
		return &StructureError{Field: "template", Expected: "document", Actual: "nil"}
	}
	if tpl.OutputFormat == "" {
		return &StructureError{Field: "output_format", Expected: models.OutputFormatMP4, Actual: "missing"}
	}
	if tpl.Width != models.TemplateWidth {
		return &StructureError{Field: "width",
			Expected: fmt.Sprintf("%d", models.TemplateWidth), Actual: fmt.Sprintf("%d", tpl.Width)}
	}
	if tpl.Height != models.TemplateHeight {
		return &StructureError{Field: "height",
			Expected: fmt.Sprintf("%d", models.TemplateHeight), Actual: fmt.Sprintf("%d", tpl.Height)}
	}
	if tpl.Elements == nil {
		return &StructureError{Field: "elements", Expected: "array", Actual: "missing"}
	}
	return nil
}
