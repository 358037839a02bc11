// Package markup renders chunks into the SSML documents the synthesis
// service consumes.
package markup

import (
	"fmt"
	"html"
	"strings"

	"github.com/vjovkovs/ttscast/internal/chunk"
)

// Builder renders chunks with a fixed speech rate and inter-sentence pause.
// Voices whose capability lookup denies prosody or breaks get bare sentence
// delimiters so the service does not reject the request.
type Builder struct {
	Rate    string // prosody rate, e.g. "30%"
	BreakMS int    // pause between sentences
	Caps    *CapabilityTable
}

// Build serializes one chunk. All free text is escaped.
func (b Builder) Build(c chunk.Chunk) string {
	var sb strings.Builder
	sb.WriteString(`<speak version="1.0" xml:lang="en-US">`)
	for _, g := range c.Groups {
		caps := b.Caps.Lookup(g.Voice)
		fmt.Fprintf(&sb, `<voice name="%s">`, html.EscapeString(g.Voice))
		if caps.Prosody {
			fmt.Fprintf(&sb, `<prosody rate="%s">`, html.EscapeString(b.Rate))
		}
		for _, s := range g.Sentences {
			sb.WriteString("<s>")
			sb.WriteString(html.EscapeString(s))
			sb.WriteString("</s>")
			if caps.Breaks {
				fmt.Fprintf(&sb, "<break time='%dms'/>", b.BreakMS)
			}
		}
		if caps.Prosody {
			sb.WriteString("</prosody>")
		}
		sb.WriteString("</voice>")
	}
	sb.WriteString("</speak>")
	return sb.String()
}

// CanonicalVoice normalizes an externally supplied voice identifier: strips
// suffixes after ":", market junk markers, and whitespace, and maps
// MultilingualNeural onto the plain Neural name. Empty input falls back.
func CanonicalVoice(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	if i := strings.Index(v, ":"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	v = strings.ReplaceAll(v, "MultilingualNeural", "Neural")
	for _, junk := range []string{"Dragon", "HD", "Latest"} {
		v = strings.ReplaceAll(v, junk, "")
	}
	v = strings.Join(strings.Fields(v), "")
	if v == "" {
		return fallback
	}
	return v
}
