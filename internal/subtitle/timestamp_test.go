package subtitle

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"00:00:00,000", 0},
		{"00:00:02,500", 2500 * time.Millisecond},
		{"00:01:30.500", 90*time.Second + 500*time.Millisecond},
		{"01:02:03,004", time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond},
	}

	for _, tt := range tests {
		if got := ParseTimestamp(tt.input); got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "00:00:00,000"},
		{90*time.Second + 500*time.Millisecond, "00:01:30,500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond, "01:02:03,004"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.input); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"01:30", "00:01:30,000"},
		{"01:30.500", "00:01:30,500"},
		{"00:01:30", "00:01:30,000"},
		{"00:01:30.500", "00:01:30,500"},
		{"00:01:30,500", "00:01:30,500"},
		{"00:16:11,560,000", "00:16:11,560"},
		{"1:02:03", "01:02:03,000"},
		{"00:00:05,5", "00:00:05,500"},
		{" 02:15 ", "00:02:15,000"},
	}

	for _, tt := range tests {
		got, err := NormalizeTimestamp(tt.input)
		if err != nil {
			t.Errorf("NormalizeTimestamp(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeTimestamp(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeTimestamp_Invalid(t *testing.T) {
	invalid := []string{"", "abc", "1:2:3:4", "aa:bb", "-1:30"}
	for _, input := range invalid {
		if _, err := NormalizeTimestamp(input); err == nil {
			t.Errorf("NormalizeTimestamp(%q) expected error, got nil", input)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, ts := range []string{"00:00:01,250", "01:30:00,999"} {
		d := ParseTimestamp(ts)
		if got := FormatTimestamp(d); got != ts {
			t.Errorf("round trip %q -> %v -> %q", ts, d, got)
		}
	}
}
