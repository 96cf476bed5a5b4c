package captions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the user-facing caption settings attached to one generation
// request. When Enabled is false every caption element is stripped from the
// final template.
type Config struct {
	Enabled          bool   `json:"enabled"`
	PresetID         string `json:"presetId,omitempty"`
	Placement        string `json:"placement,omitempty"` // "top", "center", "bottom"
	TranscriptColor  string `json:"transcriptColor,omitempty"`
	TranscriptEffect string `json:"transcriptEffect,omitempty"`
}

// Preset is one named caption look from the preset library.
type Preset struct {
	FontFamily       string `yaml:"font_family"`
	FontWeight       string `yaml:"font_weight"`
	FontSize         string `yaml:"font_size"`
	FillColor        string `yaml:"fill_color"`
	StrokeColor      string `yaml:"stroke_color"`
	StrokeWidth      string `yaml:"stroke_width"`
	BackgroundColor  string `yaml:"background_color"`
	TranscriptEffect string `yaml:"transcript_effect"`
	TranscriptColor  string `yaml:"transcript_color"`
}

type presetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Library holds the loaded caption presets.
type Library struct {
	presets map[string]Preset
}

// DefaultPresetID is used when a request names no preset or an unknown one.
const DefaultPresetID = "karaoke"

// DefaultLibrary returns the built-in presets used when no preset file is
// configured.
func DefaultLibrary() *Library {
	return &Library{presets: map[string]Preset{
		"karaoke": {
			FontFamily:       "Montserrat",
			FontWeight:       "700",
			FontSize:         "8 vmin",
			FillColor:        "#ffffff",
			StrokeColor:      "#333333",
			StrokeWidth:      "1.05 vmin",
			TranscriptEffect: "karaoke",
			TranscriptColor:  "#04f827",
		},
		"beasty": {
			FontFamily:       "Montserrat",
			FontWeight:       "800",
			FontSize:         "9 vmin",
			FillColor:        "#ffffff",
			StrokeColor:      "#000000",
			StrokeWidth:      "1.6 vmin",
			TranscriptEffect: "highlight",
			TranscriptColor:  "#fffd03",
		},
		"minimal": {
			FontFamily:       "Inter",
			FontWeight:       "600",
			FontSize:         "6 vmin",
			FillColor:        "#ffffff",
			TranscriptEffect: "color",
			TranscriptColor:  "#ffffff",
		},
	}}
}

// LoadLibrary reads a preset file and merges it over the built-in presets.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading caption presets %s: %w", path, err)
	}
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing caption presets %s: %w", path, err)
	}
	lib := DefaultLibrary()
	for id, preset := range file.Presets {
		lib.presets[id] = preset
	}
	return lib, nil
}

// Has reports whether a preset with the given id exists.
func (l *Library) Has(id string) bool {
	_, ok := l.presets[id]
	return ok
}

// Resolve converts a caption configuration into the fixed property set
// applied to every caption element. Explicit overrides in the config win
// over the preset's values.
func (l *Library) Resolve(cfg Config) map[string]any {
	preset, ok := l.presets[cfg.PresetID]
	if !ok {
		preset = l.presets[DefaultPresetID]
	}
	if cfg.TranscriptColor != "" {
		preset.TranscriptColor = cfg.TranscriptColor
	}
	if cfg.TranscriptEffect != "" {
		preset.TranscriptEffect = cfg.TranscriptEffect
	}

	props := map[string]any{
		"width":       "90%",
		"x_alignment": "50%",
		"y_alignment": placementAlignment(cfg.Placement),
	}
	setIf := func(key, value string) {
		if value != "" {
			props[key] = value
		}
	}
	setIf("font_family", preset.FontFamily)
	setIf("font_weight", preset.FontWeight)
	setIf("font_size", preset.FontSize)
	setIf("fill_color", preset.FillColor)
	setIf("stroke_color", preset.StrokeColor)
	setIf("stroke_width", preset.StrokeWidth)
	setIf("background_color", preset.BackgroundColor)
	setIf("transcript_effect", preset.TranscriptEffect)
	setIf("transcript_color", preset.TranscriptColor)
	return props
}

func placementAlignment(placement string) string {
	switch placement {
	case "top":
		return "15%"
	case "center":
		return "50%"
	case "bottom", "":
		return "85%"
	default:
		return "85%"
	}
}
