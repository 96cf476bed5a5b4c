package models

import "fmt"

// ScenePlan is the ordered scene breakdown produced before full template
// expansion.
type ScenePlan struct {
	Scenes []Scene `json:"scenes"`
}

// Scene is one script segment bound to exactly one video asset.
type Scene struct {
	SceneNumber int         `json:"sceneNumber"`
	ScriptText  string      `json:"scriptText"`
	VideoAsset  *SceneAsset `json:"videoAsset"`
	Reasoning   string      `json:"reasoning,omitempty"`
}

// SceneAsset is the scene's binding to a source clip. TrimStart and
// TrimDuration are numeric-string seconds and are present only when a
// relevant analysis segment was selected; they are never defaulted.
type SceneAsset struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	Title        string     `json:"title,omitempty"`
	TrimStart    FlexString `json:"trimStart,omitempty"`
	TrimDuration FlexString `json:"trimDuration,omitempty"`
}

// DurationViolation records a scene whose estimated narration length exceeds
// the safety-margined available video length. Violations only exist to drive
// the repair loop; they are never persisted.
type DurationViolation struct {
	SceneIndex            int
	EstimatedTextSeconds  float64
	AvailableVideoSeconds float64
	OverageSeconds        float64
}

func (v DurationViolation) String() string {
	return fmt.Sprintf("Scene %d: text %.1fs exceeds video duration %.1fs by %.1fs",
		v.SceneIndex+1, v.EstimatedTextSeconds, v.AvailableVideoSeconds, v.OverageSeconds)
}
