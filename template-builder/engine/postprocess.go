package engine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"videogen/template-builder/captions"
	"videogen/template-builder/models"
)

// DefaultVoiceProvider is the provider descriptor synthesized when an audio
// element has none. %s is the voice id.
const DefaultVoiceProvider = "elevenlabs model_id=eleven_multilingual_v2 voice_id=%s"

var voiceIDPattern = regexp.MustCompile(`voice_id=\S+`)

// PostProcessor applies the deterministic structural fixes to a generated
// template. Every pass is idempotent and insensitive to the order the passes
// run in.
type PostProcessor struct {
	voiceID         string
	captionsEnabled bool
	captionStyle    map[string]json.RawMessage
}

// NewPostProcessor builds a post-processor for one template. The caption
// configuration is resolved against the preset library once, up front.
func NewPostProcessor(voiceID string, cfg captions.Config, library *captions.Library) *PostProcessor {
	p := &PostProcessor{
		voiceID:         voiceID,
		captionsEnabled: cfg.Enabled,
	}
	if cfg.Enabled {
		style := library.Resolve(cfg)
		p.captionStyle = make(map[string]json.RawMessage, len(style))
		for k, v := range style {
			if raw, err := json.Marshal(v); err == nil {
				p.captionStyle[k] = raw
			}
		}
	}
	return p
}

// Apply runs all passes over every element of every scene composition.
func (p *PostProcessor) Apply(tpl *models.RenderTemplate) {
	p.normalizeAudioSources(tpl)
	p.normalizeVideoElements(tpl)
	p.applyCaptionSettings(tpl)
	p.normalizeVoiceIDs(tpl)
}

// normalizeAudioSources moves narration text emitted under the wrong field
// name ("text") into "source" and drops the old field.
func (p *PostProcessor) normalizeAudioSources(tpl *models.RenderTemplate) {
	for ci := range tpl.Elements {
		for _, el := range tpl.Elements[ci].Elements {
			audio, ok := el.(*models.AudioElement)
			if !ok {
				continue
			}
			raw, exists := audio.Extra["text"]
			if !exists {
				continue
			}
			if audio.Source == "" {
				var text string
				if err := json.Unmarshal(raw, &text); err == nil {
					audio.Source = text
				}
			}
			delete(audio.Extra, "text")
		}
	}
}

// normalizeVideoElements forces fit to "cover" and duration to null on every
// video element, so clip length is driven by the narration, not the footage.
func (p *PostProcessor) normalizeVideoElements(tpl *models.RenderTemplate) {
	for ci := range tpl.Elements {
		for _, el := range tpl.Elements[ci].Elements {
			video, ok := el.(*models.VideoElement)
			if !ok {
				continue
			}
			video.Fit = "cover"
			video.Duration = nil
		}
	}
}

// applyCaptionSettings removes every caption element when captions are
// disabled; otherwise it applies the resolved style to each caption while
// preserving the identity fields that tie the caption to its narration
// (id, name, type, track, time, duration, transcript_source).
func (p *PostProcessor) applyCaptionSettings(tpl *models.RenderTemplate) {
	for ci := range tpl.Elements {
		comp := &tpl.Elements[ci]
		if !p.captionsEnabled {
			kept := comp.Elements[:0]
			for _, el := range comp.Elements {
				if text, ok := el.(*models.TextElement); ok && text.IsCaption() {
					continue
				}
				kept = append(kept, el)
			}
			comp.Elements = kept
			continue
		}
		for _, el := range comp.Elements {
			text, ok := el.(*models.TextElement)
			if !ok || !text.IsCaption() {
				continue
			}
			style := make(map[string]json.RawMessage, len(p.captionStyle))
			for k, v := range p.captionStyle {
				style[k] = v
			}
			text.Extra = style
		}
	}
}

// normalizeVoiceIDs rewrites every audio element's provider descriptor to
// embed the requested voice id. Re-running on a correct descriptor is a
// no-op.
func (p *PostProcessor) normalizeVoiceIDs(tpl *models.RenderTemplate) {
	for ci := range tpl.Elements {
		for _, el := range tpl.Elements[ci].Elements {
			audio, ok := el.(*models.AudioElement)
			if !ok {
				continue
			}
			audio.Provider = normalizeProvider(audio.Provider, p.voiceID)
		}
	}
}

func normalizeProvider(provider, voiceID string) string {
	if strings.TrimSpace(provider) == "" {
		return fmt.Sprintf(DefaultVoiceProvider, voiceID)
	}
	want := "voice_id=" + voiceID
	if match := voiceIDPattern.FindString(provider); match != "" {
		if match == want {
			return provider
		}
		return voiceIDPattern.ReplaceAllString(provider, want)
	}
	return strings.TrimSpace(provider) + " " + want
}
