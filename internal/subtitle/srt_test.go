package subtitle

import (
	"strings"
	"testing"
	"time"
)

const sampleSRT = `1
00:00:00,000 --> 00:00:02,500
Hello world

2
00:00:02,500 --> 00:00:05,000
Second line
continues here

3
00:00:05,000 --> 00:00:07,000
Third
`

func TestParseSRT(t *testing.T) {
	subs, err := ParseSRT(strings.NewReader(sampleSRT))
	if err != nil {
		t.Fatalf("ParseSRT() error: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 subtitles, got %d", len(subs))
	}

	if subs[0].Index != 1 || subs[0].Text != "Hello world" {
		t.Errorf("first subtitle = %+v", subs[0])
	}
	if subs[0].StartTime != 0 || subs[0].EndTime != 2500*time.Millisecond {
		t.Errorf("first subtitle timing = %v --> %v", subs[0].StartTime, subs[0].EndTime)
	}
	if subs[1].Text != "Second line continues here" {
		t.Errorf("multi-line text = %q", subs[1].Text)
	}
	if subs[2].Index != 3 {
		t.Errorf("third index = %d", subs[2].Index)
	}
}

func TestParseSRT_Empty(t *testing.T) {
	subs, err := ParseSRT(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseSRT() error: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("expected no subtitles, got %d", len(subs))
	}
}

func TestFormatBilingualSRT(t *testing.T) {
	entries := BilingualList{
		{Index: 1, StartTime: 0, EndTime: 2 * time.Second, Source: "Hello", Translation: "你好"},
		{Index: 2, StartTime: 2 * time.Second, EndTime: 4 * time.Second, Source: "", Translation: ""},
		{Index: 3, StartTime: 4 * time.Second, EndTime: 6 * time.Second, Source: "World", Translation: "世界"},
	}

	out := FormatBilingualSRT(entries)

	want := "1\n00:00:00,000 --> 00:00:02,000\nHello\n你好\n\n" +
		"2\n00:00:04,000 --> 00:00:06,000\nWorld\n世界\n\n"
	if out != want {
		t.Errorf("FormatBilingualSRT() =\n%q\nwant\n%q", out, want)
	}
}

// Entries reloaded from a checkpoint carry only the Start/End strings; the
// durations are zero. The SRT must still render the real timing.
func TestFormatBilingualSRT_TimingFromStrings(t *testing.T) {
	entries := BilingualList{
		{Index: 1, Start: "00:00:01,000", End: "00:00:02,000", Source: "Hello", Translation: "你好"},
	}

	out := FormatBilingualSRT(entries)

	if !strings.Contains(out, "00:00:01,000 --> 00:00:02,000") {
		t.Errorf("timing not taken from Start/End strings:\n%s", out)
	}
	if strings.Contains(out, "00:00:00,000 --> 00:00:00,000") {
		t.Errorf("zero durations leaked into the timing line:\n%s", out)
	}
}

func TestList_GetText(t *testing.T) {
	subs := List{
		{Index: 1, Text: "Hello"},
		{Index: 2, Text: ""},
		{Index: 3, Text: "world"},
	}
	if got := subs.GetText(); got != "Hello world" {
		t.Errorf("GetText() = %q", got)
	}
}

func TestList_Lines(t *testing.T) {
	subs := List{
		{Index: 1, Text: "a"},
		{Index: 2, Text: "  "},
		{Index: 3, Text: "b"},
	}
	lines := subs.Lines()
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Errorf("Lines() = %v", lines)
	}
}
