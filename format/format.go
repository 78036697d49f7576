// Package format converts chapter lists between the canonical structure and
// the textual formats understood by Audiobookshelf, m4b-tool, cue sheets and
// the forum comment.
//
// Decoders that read formats carrying only start times take the audio
// duration as a required argument; it closes the final chapter.
package format

import (
	"fmt"
	"strings"

	"github.com/microbrews/abs-chapters/model"
)

type Format string

const (
	ABS     Format = "abs"
	M4BTool Format = "m4b-tool"
	Cue     Format = "cue"
	Comment Format = "comment"
)

// Formats lists every format that can be rendered.
var Formats = []Format{ABS, M4BTool, Cue, Comment}

// ParseFormat validates a format tag.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown chapter format %q (want one of %s)", s, joinFormats(Formats))
}

// Uploadable reports whether chapters in this format can be parsed back.
func (f Format) Uploadable() bool {
	return f != Comment
}

// Ext returns the file extension used for files of this format.
func (f Format) Ext() string {
	switch f {
	case ABS:
		return ".json"
	case Cue:
		return ".cue"
	default:
		return ".txt"
	}
}

func (f Format) String() string {
	return string(f)
}

// Render serializes chapters in format f. ext is the audio file extension,
// consulted by the cue and comment formats.
func Render(f Format, chapters []model.Chapter, ext string) ([]byte, error) {
	switch f {
	case ABS:
		return ToABS(chapters)
	case M4BTool:
		return []byte(strings.Join(ToM4B(chapters), "\n")), nil
	case Cue:
		return []byte(strings.Join(ToCue(chapters, ext), "\n")), nil
	case Comment:
		comment, err := ToComment(chapters, ext)
		if err != nil {
			return nil, err
		}
		return []byte(comment), nil
	}
	return nil, fmt.Errorf("unknown chapter format %q", f)
}

// Parse decodes chapters in format f. duration is the total audio length in
// seconds; the abs format carries its own end times and ignores it.
func Parse(f Format, data []byte, duration float64) ([]model.Chapter, error) {
	switch f {
	case ABS:
		return FromABS(data)
	case M4BTool:
		return FromM4B(string(data), duration)
	case Cue:
		return FromCue(string(data), duration)
	case Comment:
		return nil, fmt.Errorf("the %s format is write-only", f)
	}
	return nil, fmt.Errorf("unknown chapter format %q", f)
}

// buildChapters pairs titles with starts by position. The duration is the
// sentinel start after the last chapter.
func buildChapters(f Format, titles []string, starts []float64, duration float64) ([]model.Chapter, error) {
	if len(titles) == 0 {
		return nil, &ParseError{Format: f, Reason: "no chapters found"}
	}
	if last := starts[len(starts)-1]; duration <= last {
		return nil, &ParseError{
			Format: f,
			Reason: fmt.Sprintf("duration %v does not exceed last chapter start %v", duration, last),
		}
	}

	times := append(starts[:len(starts):len(starts)], duration)
	chapters := make([]model.Chapter, 0, len(titles))
	for i, title := range titles {
		chapters = append(chapters, model.Chapter{
			ID:    i,
			Start: times[i],
			End:   times[i+1],
			Title: title,
		})
	}
	return chapters, nil
}

// splitLines splits text on newlines, dropping a trailing carriage return
// from each line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func joinFormats(formats []Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
