package engine

import (
	"errors"
	"testing"

	"videogen/template-builder/models"
)

func TestValidateTemplateStructure(t *testing.T) {
	valid := func() *models.RenderTemplate {
		return &models.RenderTemplate{
			OutputFormat: models.OutputFormatMP4,
			Width:        models.TemplateWidth,
			Height:       models.TemplateHeight,
			Elements:     []models.Composition{},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*models.RenderTemplate)
		wantField string
	}{
		{"valid template passes", func(tpl *models.RenderTemplate) {}, ""},
		{"missing output format", func(tpl *models.RenderTemplate) { tpl.OutputFormat = "" }, "output_format"},
		{"wrong width", func(tpl *models.RenderTemplate) { tpl.Width = 1920 }, "width"},
		{"wrong height", func(tpl *models.RenderTemplate) { tpl.Height = 1080 }, "height"},
		{"missing elements", func(tpl *models.RenderTemplate) { tpl.Elements = nil }, "elements"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := valid()
			tt.mutate(tpl)
			err := ValidateTemplateStructure(tpl)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var structureErr *StructureError
			if !errors.As(err, &structureErr) {
				t.Fatalf("error = %v, want *StructureError", err)
			}
			if structureErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", structureErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateTemplateStructureNil(t *testing.T) {
	if err := ValidateTemplateStructure(nil); err == nil {
		t.Fatal("expected error for nil template")
	}
}
