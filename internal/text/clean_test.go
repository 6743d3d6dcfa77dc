package text

import "testing"

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  plain text  ", "plain text"},
	}

	for _, tt := range tests {
		if got := StripCodeFence(tt.input); got != tt.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`Here you go: {"subtitles":[]} hope it helps`, `{"subtitles":[]}`},
		{`{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{`no json here`, `no json here`},
	}

	for _, tt := range tests {
		if got := ExtractJSONObject(tt.input); got != tt.want {
			t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	if got := NormalizeWhitespace("  a \t b\n\nc "); got != "a b c" {
		t.Errorf("NormalizeWhitespace() = %q", got)
	}
}
