package utils

import "testing"

func TestToISO(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-02-03T09:30:00", "2025-02-03T09:30:00"},
		{"2025-02-03 09:30:00", "2025-02-03T09:30:00"},
		{"02/03/2025 09:30:00", "2025-02-03T09:30:00"},
		{"02/03/2025 09:30", "2025-02-03T09:30:00"},
		{"2025-02-03", "2025-02-03T00:00:00"},
		{"", ""},
		{"not a date", "not a date"}, // unparsable values pass through
	}
	for _, tt := range tests {
		if got := ToISO(tt.in); got != tt.want {
			t.Errorf("ToISO(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestampReportsFailure(t *testing.T) {
	if _, ok := ParseTimestamp(""); ok {
		t.Errorf("empty string should not parse")
	}
	if _, ok := ParseTimestamp("garbage"); ok {
		t.Errorf("garbage should not parse")
	}
	if _, ok := ParseTimestamp("2025-02-03T09:30:00"); !ok {
		t.Errorf("valid ISO timestamp should parse")
	}
}

func TestComputeDurationSeconds(t *testing.T) {
	d := ComputeDurationSeconds("2025-02-03T09:30:00", "2025-02-03T09:45:30")
	if d == nil || *d != 930 {
		t.Errorf("duration = %v, want 930", d)
	}

	// exit before entry
	if d := ComputeDurationSeconds("2025-02-03T10:00:00", "2025-02-03T09:00:00"); d != nil {
		t.Errorf("negative duration should be nil, got %v", *d)
	}
	// zero duration
	if d := ComputeDurationSeconds("2025-02-03T09:00:00", "2025-02-03T09:00:00"); d != nil {
		t.Errorf("zero duration should be nil, got %v", *d)
	}
	// unparsable endpoint
	if d := ComputeDurationSeconds("", "2025-02-03T09:00:00"); d != nil {
		t.Errorf("missing entry should be nil, got %v", *d)
	}
	if d := ComputeDurationSeconds("2025-02-03T09:00:00", "pending"); d != nil {
		t.Errorf("unparsable exit should be nil, got %v", *d)
	}
}

func TestFormatDuration(t *testing.T) {
	sec := func(s int64) *int64 { return &s }
	tests := []struct {
		in   *int64
		want string
	}{
		{nil, "—"},
		{sec(0), "—"},
		{sec(-5), "—"},
		{sec(45), "45s"},
		{sec(312), "5m 12s"},
		{sec(5400), "1h 30m"},
		{sec(187200), "2d 4h"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
