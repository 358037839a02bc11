// Package chunk groups speaker-tagged sentences into bounded units for
// synthesis and guards rendered units against the service's size ceiling.
package chunk

import (
	"unicode/utf8"

	"github.com/vjovkovs/ttscast/internal/dialogue"
)

// Group is a run of consecutive sentences spoken by one voice.
type Group struct {
	Voice     string
	Sentences []string
}

// Chunk is an ordered sequence of voice groups, bounded by the planner's
// sentence and character limits. A chunk never splits a sentence.
type Chunk struct {
	Groups []Group
}

func (c Chunk) SentenceCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Sentences)
	}
	return n
}

func (c Chunk) CharCount() int {
	n := 0
	for _, g := range c.Groups {
		for _, s := range g.Sentences {
			n += utf8.RuneCountInString(s)
		}
	}
	return n
}

// add appends a sentence, extending the last group when the voice matches so
// adjacent same-voice runs stay a single group.
func (c *Chunk) add(voice, sentence string) {
	if n := len(c.Groups); n > 0 && c.Groups[n-1].Voice == voice {
		c.Groups[n-1].Sentences = append(c.Groups[n-1].Sentences, sentence)
		return
	}
	c.Groups = append(c.Groups, Group{Voice: voice, Sentences: []string{sentence}})
}

// Plan walks sentences in document order and packs them greedily under both
// limits. A chunk is flushed before a sentence that would push it over either
// limit, unless the chunk is still empty: a lone sentence longer than
// maxChars is placed by itself and left for the rendered-size guard.
func Plan(lines []dialogue.Line, maxSentences, maxChars int) []Chunk {
	var chunks []Chunk
	var cur Chunk
	sentCount, charCount := 0, 0

	flush := func() {
		if len(cur.Groups) > 0 {
			chunks = append(chunks, cur)
			cur = Chunk{}
			sentCount, charCount = 0, 0
		}
	}

	for _, ln := range lines {
		for _, s := range ln.Sentences {
			n := utf8.RuneCountInString(s)
			if sentCount+1 > maxSentences || charCount+n > maxChars {
				flush()
			}
			cur.add(ln.Voice, s)
			sentCount++
			charCount += n
		}
	}
	flush()
	return chunks
}
