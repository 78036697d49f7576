package format

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/microbrews/abs-chapters/model"
	"github.com/microbrews/abs-chapters/timecode"
)

// ToM4B renders chapters as m4b-tool lines, "HH:MM:SS.mmm title".
func ToM4B(chapters []model.Chapter) []string {
	lines := make([]string, 0, len(chapters))
	for _, chapter := range chapters {
		lines = append(lines, fmt.Sprintf("%s %s", timecode.FormatM4B(chapter.Start), chapter.Title))
	}
	return lines
}

// FromM4B parses m4b-tool chapter text. Blank lines are skipped; the title
// is everything after the first run of whitespace following the time.
func FromM4B(text string, duration float64) ([]model.Chapter, error) {
	var titles []string
	var starts []float64

	for i, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		sep := strings.IndexFunc(trimmed, unicode.IsSpace)
		if sep < 0 {
			return nil, &ParseError{Format: M4BTool, Line: i + 1, Text: line, Reason: "missing chapter title"}
		}
		token := trimmed[:sep]
		title := strings.TrimLeftFunc(trimmed[sep:], unicode.IsSpace)

		start, err := timecode.ParseM4B(token)
		if err != nil {
			return nil, &ParseError{Format: M4BTool, Line: i + 1, Text: line, Reason: "bad start time", Err: err}
		}
		if n := len(starts); n > 0 && start <= starts[n-1] {
			return nil, &ParseError{
				Format: M4BTool,
				Line:   i + 1,
				Text:   line,
				Reason: fmt.Sprintf("start %s is not after the previous chapter", token),
			}
		}

		titles = append(titles, title)
		starts = append(starts, start)
	}

	return buildChapters(M4BTool, titles, starts, duration)
}
