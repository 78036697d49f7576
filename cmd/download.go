package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microbrews/abs-chapters/export"
	"github.com/microbrews/abs-chapters/format"
	"github.com/microbrews/abs-chapters/model"
	"github.com/microbrews/abs-chapters/utils"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download an item's chapters",
	Long:  "Download an item's chapters as abs, m4b-tool, cue or comment",
	RunE:  runDownload,
}

type downloadArgs struct {
	ItemId     string
	Format     string
	outputPath string
	all        bool
}

var dArgs downloadArgs

func init() {
	downloadCmd.Flags().StringVarP(&dArgs.ItemId, "item-id", "i", "", "item id")
	downloadCmd.Flags().StringVarP(&dArgs.Format, "format", "f", string(format.ABS), "chapter format: abs, m4b-tool, cue or comment")
	downloadCmd.Flags().StringVarP(&dArgs.outputPath, "output-path", "o", "", "output file, - for stdout (default derived from the book title)")
	downloadCmd.Flags().BoolVarP(&dArgs.all, "all", "a", false, "write every format into a directory named after the book under --output-path")
	RootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	if dArgs.ItemId == "" {
		return fmt.Errorf("item id is required")
	}
	f, err := format.ParseFormat(dArgs.Format)
	if err != nil {
		return err
	}

	library, err := newLibrary()
	if err != nil {
		return err
	}
	item, err := library.GetItem(cmd.Context(), dArgs.ItemId)
	if err != nil {
		return fmt.Errorf("failed to download chapters: %w", err)
	}

	if dArgs.all {
		return runDownloadAll(cmd, item)
	}

	data, err := format.Render(f, item.Media.Chapters, item.AudioExt())
	if err != nil {
		return fmt.Errorf("failed to render chapters: %w", err)
	}

	outputPath := dArgs.outputPath
	if outputPath == "" {
		outputPath = defaultOutputPath(item, f)
	}
	return writeOutput(cmd, outputPath, data)
}

func runDownloadAll(cmd *cobra.Command, item *model.Item) error {
	outputPath := dArgs.outputPath
	if outputPath == "" || outputPath == "-" {
		outputPath = "."
	}
	paths, err := export.PackItem(item, outputPath)
	if err != nil {
		return fmt.Errorf("failed to export chapters: %w", err)
	}
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote chapters to %s\n", path)
	}
	return nil
}

// defaultOutputPath names the file after the book, e.g. "The Shining-cue.cue".
func defaultOutputPath(item *model.Item, f format.Format) string {
	return fmt.Sprintf("%s-%s%s", utils.CleanFileName(item.Title()), f, f.Ext())
}
