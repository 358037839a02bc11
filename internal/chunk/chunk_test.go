package chunk

import (
	"strings"
	"testing"

	"github.com/vjovkovs/ttscast/internal/dialogue"
)

func oneVoiceLines(voice string, sentences ...string) []dialogue.Line {
	return []dialogue.Line{{Voice: voice, Sentences: sentences}}
}

func TestPlanSentenceLimit(t *testing.T) {
	// 50 sentences of 100 chars each, limit 20 sentences -> 20/20/10
	sent := strings.Repeat("a", 99) + "."
	sents := make([]string, 50)
	for i := range sents {
		sents[i] = sent
	}
	chunks := Plan(oneVoiceLines("v", sents...), 20, 1_000_000)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	want := []int{20, 20, 10}
	for i, c := range chunks {
		if c.SentenceCount() != want[i] {
			t.Fatalf("chunk %d: expected %d sentences, got %d", i, want[i], c.SentenceCount())
		}
	}
}

func TestPlanCharLimit(t *testing.T) {
	sents := []string{strings.Repeat("a", 400), strings.Repeat("b", 400), strings.Repeat("c", 400)}
	chunks := Plan(oneVoiceLines("v", sents...), 100, 900)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].SentenceCount() != 2 || chunks[1].SentenceCount() != 1 {
		t.Fatalf("unexpected split: %d/%d", chunks[0].SentenceCount(), chunks[1].SentenceCount())
	}
}

func TestPlanExactLimitAllowed(t *testing.T) {
	// landing exactly on the limit does not flush
	sents := []string{strings.Repeat("a", 450), strings.Repeat("b", 450)}
	chunks := Plan(oneVoiceLines("v", sents...), 2, 900)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk at the exact limit, got %d", len(chunks))
	}
}

func TestPlanOversizedSentencePlacedAlone(t *testing.T) {
	big := strings.Repeat("x", 2000)
	lines := oneVoiceLines("v", "short one.", big, "another.")
	chunks := Plan(lines, 20, 900)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[1].CharCount() != 2000 || chunks[1].SentenceCount() != 1 {
		t.Fatalf("oversized sentence not isolated: %#v", chunks[1].SentenceCount())
	}
}

func TestPlanMergesAdjacentSameVoice(t *testing.T) {
	lines := []dialogue.Line{
		{Voice: "a", Sentences: []string{"one."}},
		{Voice: "a", Sentences: []string{"two."}},
		{Voice: "b", Sentences: []string{"three."}},
		{Voice: "a", Sentences: []string{"four."}},
	}
	chunks := Plan(lines, 20, 900)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	g := chunks[0].Groups
	if len(g) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(g))
	}
	if len(g[0].Sentences) != 2 || g[0].Voice != "a" {
		t.Fatalf("adjacent same-voice lines not merged: %#v", g[0])
	}
}

func TestPlanPreservesOrder(t *testing.T) {
	var sents []string
	for _, s := range []string{"one.", "two.", "three.", "four.", "five.", "six."} {
		sents = append(sents, s)
	}
	chunks := Plan(oneVoiceLines("v", sents...), 2, 1_000_000)
	var got []string
	for _, c := range chunks {
		for _, g := range c.Groups {
			got = append(got, g.Sentences...)
		}
	}
	for i, s := range sents {
		if got[i] != s {
			t.Fatalf("order broken at %d: %q", i, got[i])
		}
	}
}
