package dialogue

import (
	"reflect"
	"strings"
	"testing"
)

var testVoices = RoleVoices{Host: "en-US-JennyNeural", Scientist: "en-US-GuyNeural"}

func TestSplitSentencesBasic(t *testing.T) {
	got := SplitSentences("First sentence. Second one! A third? Last.")
	want := []string{"First sentence.", "Second one!", "A third?", "Last."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}

func TestSplitSentencesCJK(t *testing.T) {
	got := SplitSentences("你好。 再见！ done")
	want := []string{"你好。", "再见！", "done"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}

func TestSplitSentencesNoBoundary(t *testing.T) {
	got := SplitSentences("no terminal punctuation here")
	if len(got) != 1 || got[0] != "no terminal punctuation here" {
		t.Fatalf("got %#v", got)
	}
}

func TestSplitSentencesTrailingPunctuation(t *testing.T) {
	// terminal punctuation at end of text, no following whitespace
	got := SplitSentences("One. Two.")
	want := []string{"One.", "Two."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}

func TestParseRoleLines(t *testing.T) {
	body := "Host: Hello there.\nSCIENTIST: Indeed it is.\nplain line"
	lines := Parser{Voices: testVoices}.Parse(body)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Voice != testVoices.Host || lines[0].Sentences[0] != "Hello there." {
		t.Fatalf("host line wrong: %#v", lines[0])
	}
	if lines[1].Voice != testVoices.Scientist || lines[1].Sentences[0] != "Indeed it is." {
		t.Fatalf("scientist line wrong: %#v", lines[1])
	}
	if lines[2].Voice != testVoices.Host {
		t.Fatalf("unmatched line should default to host voice: %#v", lines[2])
	}
}

func TestParseMidLineSpeakerSwitch(t *testing.T) {
	lines := Parser{Voices: testVoices}.Parse("Host: Hello there. Scientist: Indeed it is.")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %#v", len(lines), lines)
	}
	if lines[0].Voice != testVoices.Host || lines[0].Sentences[0] != "Hello there." {
		t.Fatalf("host span wrong: %#v", lines[0])
	}
	if lines[1].Voice != testVoices.Scientist || lines[1].Sentences[0] != "Indeed it is." {
		t.Fatalf("scientist span wrong: %#v", lines[1])
	}
}

func TestParseLeadingTextBeforeMarkerIsHost(t *testing.T) {
	lines := Parser{Voices: testVoices}.Parse("An intro. Scientist: Then facts.")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Voice != testVoices.Host || lines[1].Voice != testVoices.Scientist {
		t.Fatalf("voices wrong: %#v", lines)
	}
}

func TestParseDropsBlankLines(t *testing.T) {
	lines := Parser{Voices: testVoices}.Parse("a.\n\n   \nb.")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestParseAppliesClean(t *testing.T) {
	p := Parser{Voices: testVoices, Clean: strings.ToUpper}
	lines := p.Parse("Host: hello there. bye now.")
	want := []string{"HELLO THERE.", "BYE NOW."}
	if !reflect.DeepEqual(lines[0].Sentences, want) {
		t.Fatalf("got %#v", lines[0].Sentences)
	}
}
