// Package export writes every chapter format of an item into a directory.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/microbrews/abs-chapters/format"
	"github.com/microbrews/abs-chapters/model"
	"github.com/microbrews/abs-chapters/utils"
)

// PackItem renders the item's chapters in every format under
// outputPath/<title>/ and returns the written paths in format order.
func PackItem(item *model.Item, outputPath string) ([]string, error) {
	title := utils.CleanFileName(item.Title())
	outputPath = filepath.Join(outputPath, title)

	info, err := os.Stat(outputPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to get output directory: %w", err)
		}
		if err := os.MkdirAll(outputPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("output path %s is not a directory", outputPath)
	}

	paths := make([]string, 0, len(format.Formats))
	for _, f := range format.Formats {
		data, err := format.Render(f, item.Media.Chapters, item.AudioExt())
		if err != nil {
			return nil, fmt.Errorf("failed to render %s chapters: %w", f, err)
		}
		path := filepath.Join(outputPath, fmt.Sprintf("%s-%s%s", title, f, f.Ext()))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s chapters: %w", f, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
