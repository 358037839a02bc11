// Package dialogue splits normalized post bodies into speaker-tagged lines
// and sentences ahead of chunk planning.
package dialogue

import (
	"regexp"
	"strings"
	"unicode"
)

// RoleVoices binds the two recognized speaker roles to voice identifiers.
type RoleVoices struct {
	Host      string
	Scientist string
}

// Line is a run of sentences resolved to a single voice. Sentence order is
// preserved; the voice never changes after parsing.
type Line struct {
	Voice     string
	Sentences []string
}

// roleMarker matches a speaker prefix anywhere in a line, so a speaker
// switch mid-line ("Host: Hi. Scientist: Hello.") still changes voice.
var roleMarker = regexp.MustCompile(`(?i)\b(host|scientist)\s*:\s*`)

// Parser turns body text into dialogue lines. Clean, when set, is applied to
// each sentence after splitting (e.g. textproc.StrictClean).
type Parser struct {
	Voices RoleVoices
	Clean  func(string) string
}

// Parse walks the body line by line. Text without a role prefix speaks with
// the host voice; blank lines are dropped.
func (p Parser) Parse(body string) []Line {
	var lines []Line
	for _, raw := range strings.Split(body, "\n") {
		ln := strings.TrimSpace(raw)
		if ln == "" {
			continue
		}
		for _, span := range p.splitRoles(ln) {
			sents := SplitSentences(span.content)
			if len(sents) == 0 {
				sents = []string{span.content}
			}
			if p.Clean != nil {
				for i, s := range sents {
					sents[i] = strings.TrimSpace(p.Clean(s))
				}
			}
			lines = append(lines, Line{Voice: span.voice, Sentences: sents})
		}
	}
	return lines
}

type roleSpan struct {
	voice   string
	content string
}

func (p Parser) voiceFor(role string) string {
	if strings.EqualFold(role, "scientist") {
		return p.Voices.Scientist
	}
	return p.Voices.Host
}

// splitRoles cuts one physical line at each role marker. Text before the
// first marker defaults to the host voice.
func (p Parser) splitRoles(ln string) []roleSpan {
	locs := roleMarker.FindAllStringSubmatchIndex(ln, -1)
	if len(locs) == 0 {
		return []roleSpan{{voice: p.Voices.Host, content: ln}}
	}
	var spans []roleSpan
	if lead := strings.TrimSpace(ln[:locs[0][0]]); lead != "" {
		spans = append(spans, roleSpan{voice: p.Voices.Host, content: lead})
	}
	for i, m := range locs {
		end := len(ln)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(ln[m[1]:end])
		if content == "" {
			continue
		}
		spans = append(spans, roleSpan{voice: p.voiceFor(ln[m[2]:m[3]]), content: content})
	}
	return spans
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '?', '!', '。', '！', '？':
		return true
	}
	return false
}

// SplitSentences cuts after terminal punctuation (Latin or CJK) followed by
// whitespace. Text with no detected boundary comes back as one sentence.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if seg := strings.TrimSpace(string(runes[start : i+1])); seg != "" {
			out = append(out, seg)
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}
