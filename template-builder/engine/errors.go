package engine

import (
	"fmt"
	"strings"

	"videogen/template-builder/models"
)

// ModelContractError means the text-generation model returned output that
// does not satisfy the schema expected at that stage. It keeps a snippet of
// the raw response so failures can be diagnosed without replaying the call.
type ModelContractError struct {
	Stage string
	Err   error
	Raw   string
}

func (e *ModelContractError) Error() string {
	snippet := e.Raw
	if len(snippet) > 280 {
		snippet = snippet[:280] + "..."
	}
	return fmt.Sprintf("%s: model returned invalid output: %v (raw: %s)", e.Stage, e.Err, snippet)
}

func (e *ModelContractError) Unwrap() error { return e.Err }

// IntegrityError means a scene references an asset id that is not in the
// request's asset list; the model invented an asset.
type IntegrityError struct {
	SceneIndex int
	AssetID    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("scene %d references unknown video asset %q", e.SceneIndex+1, e.AssetID)
}

// RepairExhaustedError means the duration repair loop used all its attempts
// and violations remain.
type RepairExhaustedError struct {
	Attempts   int
	Violations []models.DurationViolation
}

func (e *RepairExhaustedError) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.String()
	}
	return fmt.Sprintf("scene durations still invalid after %d repair attempts: %s",
		e.Attempts, strings.Join(lines, "; "))
}

// StructureError means the final template failed the shape or dimension gate.
type StructureError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("template structure invalid: %s expected %s, got %s", e.Field, e.Expected, e.Actual)
}
