package template

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// LineBreak is the forum markup for a line break. The forum drops literal
// newlines, so one is placed before each of them.
const LineBreak = "[br]"

// MAMComment renders the chapter comment posted on the forum. Each argument
// is a newline separated rendering of the same chapter list.
func MAMComment(absJSON, m4bTool, cue string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		sections := []struct {
			label string
			body  string
		}{
			{"ABS format", absJSON},
			{"m4b-tool format", m4bTool},
			{"CUE format", cue},
		}

		if _, err := io.WriteString(w, "Thank you!  Here are the chapters I found:"+LineBreak+LineBreak); err != nil {
			return err
		}
		for _, s := range sections {
			if _, err := io.WriteString(w, "\n\n"+s.label+":\n\n"+Hidden(s.body)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Hidden wraps text in a collapsed fixed-width block.
func Hidden(text string) string {
	return "[hide][fw]" + BreakLines(text) + "[/fw][/hide]"
}

// BreakLines puts a LineBreak before every newline in text.
func BreakLines(text string) string {
	return strings.ReplaceAll(text, "\n", LineBreak+"\n")
}
