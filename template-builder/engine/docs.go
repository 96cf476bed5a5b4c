package engine

import (
	"fmt"
	"strings"
	"sync"

	"videogen/template-builder/models"
)

// Render-engine element schema documentation embedded in the generator
// prompt. Assembled once and cached; the text never changes mid-process.
var (
	renderDocsOnce sync.Once
	renderDocs     string
)

func renderEngineDocs() string {
	renderDocsOnce.Do(func() {
		var b strings.Builder
		b.WriteString(`RENDER ENGINE DOCUMENT SCHEMA

Top level:
{
  "output_format": "mp4",
  "width": `)
		fmt.Fprintf(&b, "%d,\n  \"height\": %d,", models.TemplateWidth, models.TemplateHeight)
		b.WriteString(`
  "elements": [ ...one composition per scene... ]
}

Scene composition:
{
  "id": "scene-1",
  "type": "composition",
  "track": 1,
  "elements": [ video element, audio element, text element ]
}

Video element (the scene's footage):
{
  "id": "scene-1-video",
  "type": "video",
  "track": 1,
  "source": "the asset's playable URL",
  "trim_start": "14",        // only when the scene plan specifies a trim
  "trim_duration": "9",      // only when the scene plan specifies a trim
  "fit": "cover",
  "duration": null           // null = stretch to the composition length
}

Audio element (the scene's narration, synthesized by the TTS provider):
{
  "id": "scene-1-audio",
  "type": "audio",
  "track": 3,
  "source": "the scene's script text, verbatim",
  "provider": "elevenlabs model_id=eleven_multilingual_v2 voice_id=VOICE"
}

Text element (the scene's caption, driven by the narration transcript):
{
  "id": "scene-1-caption",
  "type": "text",
  "name": "caption-1",
  "track": 2,
  "transcript_source": "scene-1-audio"
}

Durations are seconds. Tracks within a composition are layers: 1 = footage,
2 = caption overlay, 3 = narration audio.`)
		renderDocs = b.String()
	})
	return renderDocs
}
