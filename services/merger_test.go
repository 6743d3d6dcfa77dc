package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bilingual-subtitler/internal/checkpoint"
	"bilingual-subtitler/internal/glossary"
	"bilingual-subtitler/internal/subtitle"
)

func bilingualEntry(index int, source, translation string) subtitle.Bilingual {
	return subtitle.Bilingual{
		Index:       index,
		Start:       "00:00:01,000",
		End:         "00:00:02,000",
		Source:      source,
		Translation: translation,
	}
}

func TestMergeChunks(t *testing.T) {
	state := checkpoint.NewState(2, 2, "sample:200")
	state.Commit(1, subtitle.BilingualList{bilingualEntry(3, "c", "三"), bilingualEntry(4, "d", "四")})
	state.Commit(0, subtitle.BilingualList{bilingualEntry(1, "a", "一"), bilingualEntry(2, "b", "二")})

	merged, err := MergeChunks(state, 2)
	if err != nil {
		t.Fatalf("MergeChunks: %v", err)
	}
	want := []int{1, 2, 3, 4}
	got := merged.Indices()
	if len(got) != len(want) {
		t.Fatalf("indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want chunk order regardless of commit order", got)
		}
	}
}

func TestMergeChunksRefusesGaps(t *testing.T) {
	state := checkpoint.NewState(2, 3, "sample:200")
	state.Commit(0, subtitle.BilingualList{bilingualEntry(1, "a", "一")})
	state.Commit(2, subtitle.BilingualList{bilingualEntry(5, "e", "五")})

	if _, err := MergeChunks(state, 3); err == nil {
		t.Fatal("expected an error for a missing chunk")
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "out.srt")
	jsonPath := filepath.Join(dir, "out.json")

	entries := subtitle.BilingualList{
		bilingualEntry(1, "Hello", "你好"),
		bilingualEntry(2, "", ""), // dropped from the SRT
	}
	g := glossary.New()
	g.Add(glossary.Term{Term: "Gemini", Description: "LLM"})

	if err := WriteArtifacts(srtPath, jsonPath, entries, g, "en", "zh-Hans"); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}

	srt, err := os.ReadFile(srtPath)
	if err != nil {
		t.Fatalf("reading SRT: %v", err)
	}
	if !strings.Contains(string(srt), "Hello\n你好") {
		t.Errorf("SRT missing bilingual pair:\n%s", srt)
	}
	if strings.Contains(string(srt), "2\n") {
		t.Errorf("empty entry should be dropped and output renumbered:\n%s", srt)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("reading JSON: %v", err)
	}
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatalf("decoding artifact: %v", err)
	}
	if artifact.SourceLang != "en" || artifact.TargetLang != "zh-Hans" {
		t.Errorf("langs = %q -> %q", artifact.SourceLang, artifact.TargetLang)
	}
	if len(artifact.Glossary) != 1 || artifact.Glossary[0].Term != "Gemini" {
		t.Errorf("glossary = %+v", artifact.Glossary)
	}
	if len(artifact.Subtitles) != 2 {
		t.Errorf("JSON keeps all entries, got %d", len(artifact.Subtitles))
	}
}
