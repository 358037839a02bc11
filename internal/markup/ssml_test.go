package markup

import (
	"strings"
	"testing"

	"github.com/vjovkovs/ttscast/internal/chunk"
)

func builder() Builder {
	return Builder{Rate: "30%", BreakMS: 250, Caps: NewCapabilityTable()}
}

func TestBuildStructure(t *testing.T) {
	c := chunk.Chunk{Groups: []chunk.Group{
		{Voice: "en-US-JennyNeural", Sentences: []string{"Hello there."}},
		{Voice: "en-US-GuyNeural", Sentences: []string{"Indeed it is."}},
	}}
	got := builder().Build(c)
	want := `<speak version="1.0" xml:lang="en-US">` +
		`<voice name="en-US-JennyNeural"><prosody rate="30%">` +
		`<s>Hello there.</s><break time='250ms'/></prosody></voice>` +
		`<voice name="en-US-GuyNeural"><prosody rate="30%">` +
		`<s>Indeed it is.</s><break time='250ms'/></prosody></voice>` +
		`</speak>`
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildEscapesText(t *testing.T) {
	c := chunk.Chunk{Groups: []chunk.Group{{Voice: "v", Sentences: []string{`a < b & "c".`}}}}
	got := builder().Build(c)
	if !strings.Contains(got, "<s>a &lt; b &amp; &#34;c&#34;.</s>") {
		t.Fatalf("text not escaped: %s", got)
	}
}

func TestBuildRestrictedVoiceOmitsProsodyAndBreaks(t *testing.T) {
	c := chunk.Chunk{Groups: []chunk.Group{{Voice: "en-US-Ava:DragonHDLatestNeural", Sentences: []string{"Hi."}}}}
	got := builder().Build(c)
	if strings.Contains(got, "<prosody") || strings.Contains(got, "<break") {
		t.Fatalf("restricted voice should get bare delimiters: %s", got)
	}
	if !strings.Contains(got, "<s>Hi.</s>") {
		t.Fatalf("sentence delimiter missing: %s", got)
	}
}

func TestCapabilityOverrideWinsOverMarkerRule(t *testing.T) {
	tab := NewCapabilityTable()
	tab.Set("HD-but-fine", Capabilities{Prosody: true, Breaks: true})
	if c := tab.Lookup("HD-but-fine"); !c.Prosody || !c.Breaks {
		t.Fatalf("override ignored: %+v", c)
	}
	if c := tab.Lookup("SomethingHDNeural"); c.Prosody || c.Breaks {
		t.Fatalf("marker rule should restrict: %+v", c)
	}
}

func TestCanonicalVoice(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "fallback"},
		{"  en-US-JennyNeural  ", "en-US-JennyNeural"},
		{"en-US-Ava:DragonHDLatestNeural", "en-US-Ava"},
		{"en-US-JennyMultilingualNeural", "en-US-JennyNeural"},
		{"en US JennyNeural", "enUSJennyNeural"},
	}
	for _, tc := range cases {
		if got := CanonicalVoice(tc.in, "fallback"); got != tc.want {
			t.Fatalf("CanonicalVoice(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
