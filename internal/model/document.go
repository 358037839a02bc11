package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vjovkovs/ttscast/internal/textproc"
)

// Document is one input post, parsed once and immutable afterwards.
type Document struct {
	Title string
	Date  string // ISO calendar date
	Body  string // normalized text
}

const minBodyChars = 20

// ParseDocument reads the post layout: line 1 title, line 2 an optional
// "Date: YYYY-MM-DD" header, the rest body. The body is normalized; bodies
// too short to narrate are rejected.
func ParseDocument(raw string, now func() time.Time) (Document, error) {
	lines := strings.Split(textproc.Normalize(raw), "\n")
	if len(lines) < 3 {
		return Document{}, fmt.Errorf("post too short: %d lines", len(lines))
	}

	title := strings.TrimSpace(lines[0])
	if title == "" {
		title = "Episode"
	}

	date := ""
	bodyStart := 1
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lines[1])), "date:") {
		_, v, _ := strings.Cut(lines[1], ":")
		date = strings.TrimSpace(v)
		bodyStart = 2
	}
	if date == "" {
		date = now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return Document{}, fmt.Errorf("bad date header %q: %w", date, err)
	}

	body := strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	if utf8.RuneCountInString(body) < minBodyChars {
		return Document{}, fmt.Errorf("body too short: %d chars", utf8.RuneCountInString(body))
	}
	return Document{Title: title, Date: date, Body: body}, nil
}
