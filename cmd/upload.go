package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/microbrews/abs-chapters/format"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Replace an item's chapters",
	Long:  "Replace an item's chapters with the chapters from an abs, m4b-tool or cue file",
	RunE:  runUpload,
}

type uploadArgs struct {
	ItemId      string
	Format      string
	ChapterFile string
	dryRun      bool
}

var uArgs uploadArgs

func init() {
	uploadCmd.Flags().StringVarP(&uArgs.ItemId, "item-id", "i", "", "item id")
	uploadCmd.Flags().StringVarP(&uArgs.Format, "format", "f", string(format.ABS), "chapter format: abs, m4b-tool or cue")
	uploadCmd.Flags().StringVarP(&uArgs.ChapterFile, "chapter-file", "c", "", "chapter file to upload")
	uploadCmd.Flags().BoolVar(&uArgs.dryRun, "dry-run", false, "print the parsed chapters instead of uploading them")
	RootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uArgs.ItemId == "" {
		return fmt.Errorf("item id is required")
	}
	if uArgs.ChapterFile == "" {
		return fmt.Errorf("chapter file is required")
	}
	f, err := format.ParseFormat(uArgs.Format)
	if err != nil {
		return err
	}
	if !f.Uploadable() {
		return fmt.Errorf("the %s format can not be uploaded", f)
	}

	data, err := os.ReadFile(uArgs.ChapterFile)
	if err != nil {
		return fmt.Errorf("failed to read chapter file: %w", err)
	}

	library, err := newLibrary()
	if err != nil {
		return err
	}

	// abs files carry their own end times; the others need the item duration.
	var duration float64
	if f != format.ABS {
		item, err := library.GetItem(cmd.Context(), uArgs.ItemId)
		if err != nil {
			return fmt.Errorf("failed to get item duration: %w", err)
		}
		duration = item.Media.Duration
	}

	chapters, err := format.Parse(f, data, duration)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", uArgs.ChapterFile, err)
	}

	if uArgs.dryRun {
		return printJSON(cmd, chapters)
	}

	resp, err := library.UpdateChapters(cmd.Context(), uArgs.ItemId, chapters)
	if err != nil {
		return fmt.Errorf("failed to upload chapters: %w", err)
	}
	return printJSON(cmd, resp)
}
