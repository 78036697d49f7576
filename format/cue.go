package format

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/microbrews/abs-chapters/model"
	"github.com/microbrews/abs-chapters/timecode"
)

// cueHeader picks the FILE line for an audio extension.
func cueHeader(ext string) string {
	if strings.EqualFold(strings.TrimPrefix(ext, "."), "mp3") {
		return `FILE "" MP3`
	}
	return `FILE "" MP4`
}

// ToCue renders chapters as a cue sheet. Every element after the header is
// one track of three lines joined by newlines. Titles are written verbatim.
func ToCue(chapters []model.Chapter, ext string) []string {
	lines := make([]string, 0, len(chapters)+1)
	lines = append(lines, cueHeader(ext))
	for i, chapter := range chapters {
		lines = append(lines, fmt.Sprintf("TRACK %d AUDIO\n  TITLE \"%s\"\n  INDEX 01 %s",
			i+1, chapter.Title, timecode.FormatCue(chapter.Start)))
	}
	return lines
}

// FromCue parses a cue sheet. TITLE and INDEX lines are collected in the
// order they appear and paired by position; FILE, TRACK and any other
// commands are ignored. TITLE lines before the first TRACK name the disc
// and are dropped when the sheet has tracks.
func FromCue(text string, duration float64) ([]model.Chapter, error) {
	var titles []string
	var starts []float64
	var sawTrack bool
	var discTitles int

	for i, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		upper := strings.ToUpper(trimmed)

		switch {
		case strings.HasPrefix(upper, "FILE"):
			continue

		case strings.HasPrefix(upper, "TRACK"):
			if !sawTrack {
				sawTrack = true
				discTitles = len(titles)
			}

		case strings.HasPrefix(upper, "TITLE"):
			sep := strings.IndexFunc(trimmed, unicode.IsSpace)
			if sep < 0 {
				return nil, &ParseError{Format: Cue, Line: i + 1, Text: line, Reason: "missing chapter title"}
			}
			titles = append(titles, unquote(strings.TrimSpace(trimmed[sep:])))

		case strings.HasPrefix(upper, "INDEX"):
			fields := strings.Fields(trimmed)
			if len(fields) != 3 {
				return nil, &ParseError{Format: Cue, Line: i + 1, Text: line, Reason: "expected INDEX <number> <M:SS:ff>"}
			}
			start, err := timecode.ParseCue(fields[2])
			if err != nil {
				return nil, &ParseError{Format: Cue, Line: i + 1, Text: line, Reason: "bad index time", Err: err}
			}
			if n := len(starts); n > 0 && start <= starts[n-1] {
				return nil, &ParseError{
					Format: Cue,
					Line:   i + 1,
					Text:   line,
					Reason: fmt.Sprintf("index %s is not after the previous track", fields[2]),
				}
			}
			starts = append(starts, start)
		}
	}

	if sawTrack {
		titles = titles[discTitles:]
	}
	if len(titles) != len(starts) {
		return nil, &ParseError{
			Format: Cue,
			Reason: fmt.Sprintf("found %d TITLE lines but %d INDEX lines", len(titles), len(starts)),
		}
	}

	return buildChapters(Cue, titles, starts, duration)
}

// unquote strips one pair of surrounding double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
