package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/microbrews/abs-chapters/model"
	"github.com/microbrews/abs-chapters/template"
)

// ToComment renders the forum comment embedding the abs, m4b-tool and cue
// renderings of chapters. There is no parser for it.
func ToComment(chapters []model.Chapter, ext string) (string, error) {
	absJSON, err := ToABS(chapters)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	err = template.MAMComment(
		string(absJSON),
		strings.Join(ToM4B(chapters), "\n"),
		strings.Join(ToCue(chapters, ext), "\n"),
	).Render(context.Background(), &sb)
	if err != nil {
		return "", fmt.Errorf("failed to render comment: %w", err)
	}
	return sb.String(), nil
}
