package engine

import (
	"strconv"
	"strings"

	"videogen/template-builder/models"
)

// Duration heuristics. The estimate is word-count based, not an audio
// measurement, so a safety margin keeps narration comfortably inside the
// available footage.
const (
	DefaultWordsToSeconds = 0.75
	DefaultSafetyMargin   = 0.95
)

// DurationConfig holds the tunable constants for duration validation.
type DurationConfig struct {
	WordsToSeconds float64
	SafetyMargin   float64
}

func (c DurationConfig) withDefaults() DurationConfig {
	if c.WordsToSeconds <= 0 {
		c.WordsToSeconds = DefaultWordsToSeconds
	}
	if c.SafetyMargin <= 0 || c.SafetyMargin > 1 {
		c.SafetyMargin = DefaultSafetyMargin
	}
	return c
}

// EstimateSpeechSeconds estimates how long the text takes to narrate.
func EstimateSpeechSeconds(text string, wordsToSeconds float64) float64 {
	return float64(len(strings.Fields(text))) * wordsToSeconds
}

// ValidateSceneDurations checks, per scene, that the estimated narration
// length fits the assigned video segment. Available length comes from the
// scene's trim duration when present, otherwise from the asset's known
// duration. Scenes with no known length are skipped: missing duration data
// must not block generation.
func ValidateSceneDurations(plan *models.ScenePlan, assets []models.VideoAsset, cfg DurationConfig) []models.DurationViolation {
	cfg = cfg.withDefaults()

	var violations []models.DurationViolation
	for i, scene := range plan.Scenes {
		available, ok := availableSeconds(scene, assets)
		if !ok {
			continue
		}
		estimated := EstimateSpeechSeconds(scene.ScriptText, cfg.WordsToSeconds)
		maxAllowed := available * cfg.SafetyMargin
		if estimated > maxAllowed {
			violations = append(violations, models.DurationViolation{
				SceneIndex:            i,
				EstimatedTextSeconds:  estimated,
				AvailableVideoSeconds: available,
				OverageSeconds:        estimated - maxAllowed,
			})
		}
	}
	return violations
}

func availableSeconds(scene models.Scene, assets []models.VideoAsset) (float64, bool) {
	if scene.VideoAsset == nil {
		return 0, false
	}
	if trim := string(scene.VideoAsset.TrimDuration); trim != "" {
		if seconds, err := strconv.ParseFloat(trim, 64); err == nil && seconds > 0 {
			return seconds, true
		}
	}
	if asset := models.FindAsset(assets, scene.VideoAsset.ID); asset != nil && asset.DurationSeconds > 0 {
		return asset.DurationSeconds, true
	}
	return 0, false
}
