package chunk

import (
	"fmt"
	"unicode/utf8"
)

// RenderFunc serializes a chunk to its markup form. The splitter only looks
// at the rendered length, never at the markup itself.
type RenderFunc func(Chunk) string

// SentenceTooLongError reports the irreducible case: a single sentence whose
// lone rendering still exceeds the ceiling. It is a permanent failure; the
// splitter never truncates sentence text.
type SentenceTooLongError struct {
	Rendered int
	Ceiling  int
}

func (e *SentenceTooLongError) Error() string {
	return fmt.Sprintf("single sentence renders to %d chars, over the %d char ceiling", e.Rendered, e.Ceiling)
}

// SplitOversized returns the chunk as-is when its rendering fits the ceiling.
// Otherwise it bisects the group list at the midpoint and recurses on each
// half, keeping document order. A chunk down to one group is bisected by
// sentence instead, weighted by character count.
func SplitOversized(c Chunk, render RenderFunc, ceiling int) ([]Chunk, error) {
	n := utf8.RuneCountInString(render(c))
	if n <= ceiling {
		return []Chunk{c}, nil
	}
	var left, right Chunk
	switch {
	case len(c.Groups) > 1:
		mid := len(c.Groups) / 2
		left = Chunk{Groups: c.Groups[:mid]}
		right = Chunk{Groups: c.Groups[mid:]}
	case len(c.Groups) == 1 && len(c.Groups[0].Sentences) > 1:
		g := c.Groups[0]
		cut := weightedCut(g.Sentences)
		left = Chunk{Groups: []Group{{Voice: g.Voice, Sentences: g.Sentences[:cut]}}}
		right = Chunk{Groups: []Group{{Voice: g.Voice, Sentences: g.Sentences[cut:]}}}
	default:
		return nil, &SentenceTooLongError{Rendered: n, Ceiling: ceiling}
	}

	out, err := SplitOversized(left, render, ceiling)
	if err != nil {
		return nil, err
	}
	rest, err := SplitOversized(right, render, ceiling)
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}

// weightedCut picks the sentence index closest to half the total character
// count, clamped so both halves are non-empty.
func weightedCut(sents []string) int {
	total := 0
	for _, s := range sents {
		total += utf8.RuneCountInString(s)
	}
	acc, cut := 0, 1
	for i, s := range sents {
		acc += utf8.RuneCountInString(s)
		if acc*2 >= total {
			cut = i + 1
			break
		}
	}
	if cut >= len(sents) {
		cut = len(sents) - 1
	}
	if cut < 1 {
		cut = 1
	}
	return cut
}
