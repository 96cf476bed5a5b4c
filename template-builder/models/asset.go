package models

import (
	"fmt"
	"strconv"
	"strings"
)

// VideoAsset is a read-only projection of an uploaded video clip. The asset
// list for one generation request is ground truth: the planner may only bind
// scenes to assets that appear in it.
type VideoAsset struct {
	ID              string        `bson:"_id" json:"id"`
	UploadURL       string        `bson:"upload_url" json:"uploadUrl"`
	Title           string        `bson:"title" json:"title"`
	Description     string        `bson:"description,omitempty" json:"description,omitempty"`
	Tags            []string      `bson:"tags,omitempty" json:"tags,omitempty"`
	UserID          string        `bson:"user_id" json:"userId"`
	DurationSeconds float64       `bson:"duration_seconds,omitempty" json:"durationSeconds,omitempty"` // 0 = unknown
	AnalysisData    *AnalysisData `bson:"analysis_data,omitempty" json:"analysisData,omitempty"`
}

// AnalysisData holds the time-coded breakdown produced by video analysis.
type AnalysisData struct {
	Segments []Segment `bson:"segments" json:"segments"`
}

// Segment is one time-coded slice of an analyzed video. Times are MM:SS.
type Segment struct {
	StartTime   string   `bson:"start_time" json:"startTime"`
	EndTime     string   `bson:"end_time" json:"endTime"`
	Description string   `bson:"description" json:"description"`
	KeyPoints   []string `bson:"key_points,omitempty" json:"keyPoints,omitempty"`
}

// ParseTimecode converts an MM:SS timecode into seconds.
func ParseTimecode(tc string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(tc), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid timecode %q: expected MM:SS", tc)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in timecode %q: %w", tc, err)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in timecode %q: %w", tc, err)
	}
	if minutes < 0 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("timecode %q out of range", tc)
	}
	return float64(minutes*60 + seconds), nil
}

// DurationSeconds returns the segment length in seconds.
func (s Segment) DurationSeconds() (float64, error) {
	start, err := ParseTimecode(s.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := ParseTimecode(s.EndTime)
	if err != nil {
		return 0, err
	}
	if end < start {
		return 0, fmt.Errorf("segment ends (%s) before it starts (%s)", s.EndTime, s.StartTime)
	}
	return end - start, nil
}

// FindAsset returns the asset with the given id, or nil.
func FindAsset(assets []VideoAsset, id string) *VideoAsset {
	for i := range assets {
		if assets[i].ID == id {
			return &assets[i]
		}
	}
	return nil
}
