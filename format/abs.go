package format

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/microbrews/abs-chapters/model"
)

// ToABS renders chapters as the Audiobookshelf JSON array, indented by two
// spaces. Titles keep &, < and > unescaped.
func ToABS(chapters []model.Chapter) ([]byte, error) {
	if chapters == nil {
		chapters = []model.Chapter{}
	}
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(chapters); err != nil {
		return nil, fmt.Errorf("failed to marshal chapters: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// FromABS decodes an Audiobookshelf JSON chapter array. The chapters are
// returned as written; end times come from the file.
func FromABS(data []byte) ([]model.Chapter, error) {
	var chapters []model.Chapter
	if err := json.Unmarshal(data, &chapters); err != nil {
		return nil, &ParseError{Format: ABS, Reason: "invalid chapter JSON", Err: err}
	}
	if len(chapters) == 0 {
		return nil, &ParseError{Format: ABS, Reason: "no chapters found"}
	}
	return chapters, nil
}
