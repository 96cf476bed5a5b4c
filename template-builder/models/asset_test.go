package models

import "testing"

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"00:00", 0, false},
		{"00:30", 30, false},
		{"01:05", 65, false},
		{"12:59", 779, false},
		{" 01:05 ", 65, false},
		{"1:5:0", 0, true},
		{"xx:yy", 0, true},
		{"00:75", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimecode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimecode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseTimecode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSegmentDurationSeconds(t *testing.T) {
	seg := Segment{StartTime: "00:05", EndTime: "00:14"}
	got, err := seg.DurationSeconds()
	if err != nil {
		t.Fatalf("DurationSeconds: %v", err)
	}
	if got != 9 {
		t.Errorf("duration = %v, want 9", got)
	}

	backwards := Segment{StartTime: "00:14", EndTime: "00:05"}
	if _, err := backwards.DurationSeconds(); err == nil {
		t.Error("expected error for segment ending before it starts")
	}
}

func TestFindAsset(t *testing.T) {
	assets := []VideoAsset{{ID: "a"}, {ID: "b"}}
	if got := FindAsset(assets, "b"); got == nil || got.ID != "b" {
		t.Errorf("FindAsset(b) = %v", got)
	}
	if got := FindAsset(assets, "missing"); got != nil {
		t.Errorf("FindAsset(missing) = %v, want nil", got)
	}
}
