package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fixed geometry for vertical short-form output.
const (
	OutputFormatMP4 = "mp4"
	TemplateWidth   = 1080
	TemplateHeight  = 1920
)

// Element type tags used by the render engine.
const (
	ElementTypeComposition = "composition"
	ElementTypeVideo       = "video"
	ElementTypeAudio       = "audio"
	ElementTypeText        = "text"
)

// RenderTemplate is the document handed to the external rendering service.
// Each top-level element is one scene composition.
type RenderTemplate struct {
	OutputFormat string        `json:"output_format"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Elements     []Composition `json:"elements"`
}

// Composition groups the video, narration audio and caption of one scene.
type Composition struct {
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name,omitempty"`
	Type     string    `json:"type"`
	Track    int       `json:"track,omitempty"`
	Time     *float64  `json:"time,omitempty"`
	Duration *float64  `json:"duration,omitempty"`
	Elements []Element `json:"elements"`

	// Extra preserves fields the generator emitted that we don't model.
	Extra map[string]json.RawMessage `json:"-"`
}

// Element is the tagged union of render-engine element kinds. Concrete types
// are *VideoElement, *AudioElement, *TextElement and *OtherElement; consumers
// switch on the concrete type rather than inspecting the type string.
type Element interface {
	ElementType() string
}

// VideoElement plays a source clip. Duration is serialized with an explicit
// key so nil round-trips as JSON null, which the render engine reads as
// "stretch to the composition's length".
type VideoElement struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name,omitempty"`
	Type         string     `json:"type"`
	Track        int        `json:"track,omitempty"`
	Time         *float64   `json:"time,omitempty"`
	Source       string     `json:"source"`
	TrimStart    FlexString `json:"trim_start,omitempty"`
	TrimDuration FlexString `json:"trim_duration,omitempty"`
	Fit          string     `json:"fit,omitempty"`
	Duration     *float64   `json:"duration"`
	Volume       string     `json:"volume,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// AudioElement carries the narration text in Source and the TTS provider
// descriptor (including the voice id) in Provider.
type AudioElement struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name,omitempty"`
	Type     string   `json:"type"`
	Track    int      `json:"track,omitempty"`
	Time     *float64 `json:"time,omitempty"`
	Source   string   `json:"source,omitempty"`
	Provider string   `json:"provider,omitempty"`
	Duration *float64 `json:"duration,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// TextElement renders on-screen text. A caption element is linked to its
// narration audio through TranscriptSource.
type TextElement struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name,omitempty"`
	Type             string   `json:"type"`
	Track            int      `json:"track,omitempty"`
	Time             *float64 `json:"time,omitempty"`
	Duration         *float64 `json:"duration,omitempty"`
	Text             string   `json:"text,omitempty"`
	TranscriptSource string   `json:"transcript_source,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// OtherElement round-trips element kinds we don't model without touching them.
type OtherElement struct {
	Type string
	Raw  map[string]json.RawMessage
}

func (e *VideoElement) ElementType() string { return ElementTypeVideo }
func (e *AudioElement) ElementType() string { return ElementTypeAudio }
func (e *TextElement) ElementType() string  { return ElementTypeText }
func (e *OtherElement) ElementType() string { return e.Type }

// IsCaption reports whether the text element is a caption tied to narration.
func (e *TextElement) IsCaption() bool {
	if e.TranscriptSource != "" {
		return true
	}
	name := strings.ToLower(e.Name)
	return strings.Contains(name, "caption") || strings.Contains(name, "subtitle")
}

// FlexString decodes from either a JSON string or a JSON number. Generation
// models are inconsistent about quoting numeric values like trim offsets.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

// DecodeElement parses one element object by its type tag.
func DecodeElement(data json.RawMessage) (Element, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("reading element type: %w", err)
	}
	switch head.Type {
	case ElementTypeVideo:
		var e VideoElement
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("parsing video element: %w", err)
		}
		return &e, nil
	case ElementTypeAudio:
		var e AudioElement
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("parsing audio element: %w", err)
		}
		return &e, nil
	case ElementTypeText:
		var e TextElement
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("parsing text element: %w", err)
		}
		return &e, nil
	default:
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing element: %w", err)
		}
		return &OtherElement{Type: head.Type, Raw: raw}, nil
	}
}

func (c *Composition) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string            `json:"id"`
		Name     string            `json:"name"`
		Type     string            `json:"type"`
		Track    int               `json:"track"`
		Time     *float64          `json:"time"`
		Duration *float64          `json:"duration"`
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.Name = raw.Name
	c.Type = raw.Type
	c.Track = raw.Track
	c.Time = raw.Time
	c.Duration = raw.Duration
	if raw.Elements != nil {
		c.Elements = make([]Element, 0, len(raw.Elements))
		for i, el := range raw.Elements {
			decoded, err := DecodeElement(el)
			if err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			c.Elements = append(c.Elements, decoded)
		}
	}
	c.Extra = extraFields(data, "id", "name", "type", "track", "time", "duration", "elements")
	return nil
}

func (c Composition) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage, len(c.Extra)+7)
	for k, v := range c.Extra {
		m[k] = v
	}
	set := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		m[key] = b
		return nil
	}
	if err := set("type", c.Type); err != nil {
		return nil, err
	}
	if c.ID != "" {
		set("id", c.ID)
	}
	if c.Name != "" {
		set("name", c.Name)
	}
	if c.Track != 0 {
		set("track", c.Track)
	}
	if c.Time != nil {
		set("time", *c.Time)
	}
	if c.Duration != nil {
		set("duration", *c.Duration)
	}
	elements := c.Elements
	if elements == nil {
		elements = []Element{}
	}
	if err := set("elements", elements); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

func (e *VideoElement) UnmarshalJSON(data []byte) error {
	type plain VideoElement
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = VideoElement(p)
	e.Extra = extraFields(data, "id", "name", "type", "track", "time", "source",
		"trim_start", "trim_duration", "fit", "duration", "volume")
	return nil
}

func (e VideoElement) MarshalJSON() ([]byte, error) {
	type plain VideoElement
	base, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	return mergeExtra(base, e.Extra)
}

func (e *AudioElement) UnmarshalJSON(data []byte) error {
	type plain AudioElement
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = AudioElement(p)
	e.Extra = extraFields(data, "id", "name", "type", "track", "time", "source",
		"provider", "duration")
	return nil
}

func (e AudioElement) MarshalJSON() ([]byte, error) {
	type plain AudioElement
	base, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	return mergeExtra(base, e.Extra)
}

func (e *TextElement) UnmarshalJSON(data []byte) error {
	type plain TextElement
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = TextElement(p)
	e.Extra = extraFields(data, "id", "name", "type", "track", "time", "duration",
		"text", "transcript_source")
	return nil
}

func (e TextElement) MarshalJSON() ([]byte, error) {
	type plain TextElement
	base, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	return mergeExtra(base, e.Extra)
}

func (e OtherElement) MarshalJSON() ([]byte, error) {
	if e.Raw == nil {
		return json.Marshal(map[string]string{"type": e.Type})
	}
	return json.Marshal(e.Raw)
}

// extraFields returns the object's fields minus the known keys, nil if none.
func extraFields(data []byte, known ...string) map[string]json.RawMessage {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil
	}
	return all
}

// mergeExtra folds preserved unknown fields back into a marshalled object.
// Known fields win on collision.
func mergeExtra(base []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return base, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return json.Marshal(m)
}
