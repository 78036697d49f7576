package format

import "fmt"

// ParseError is returned when chapter text cannot be decoded. No partial
// chapter list accompanies it.
type ParseError struct {
	Format Format
	Line   int // 1-based, 0 when not tied to a line
	Text   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d %q: %s", e.Format, e.Line, e.Text, msg)
	}
	return fmt.Sprintf("%s: %s", e.Format, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
