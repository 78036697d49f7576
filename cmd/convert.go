package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/microbrews/abs-chapters/audio"
	"github.com/microbrews/abs-chapters/format"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a chapter file to another format",
	Long:  "Convert a chapter file between abs, m4b-tool and cue, or render it as a comment, without contacting the server",
	RunE:  runConvert,
}

type convertArgs struct {
	From        string
	To          string
	ChapterFile string
	outputPath  string
	duration    float64
	audioPath   string
	ext         string
}

var cArgs convertArgs

func init() {
	convertCmd.Flags().StringVar(&cArgs.From, "from", "", "input format: abs, m4b-tool or cue")
	convertCmd.Flags().StringVar(&cArgs.To, "to", "", "output format: abs, m4b-tool, cue or comment")
	convertCmd.Flags().StringVarP(&cArgs.ChapterFile, "chapter-file", "c", "", "chapter file to convert")
	convertCmd.Flags().StringVarP(&cArgs.outputPath, "output-path", "o", "-", "output file, - for stdout")
	convertCmd.Flags().Float64Var(&cArgs.duration, "duration", 0, "audio duration in seconds")
	convertCmd.Flags().StringVar(&cArgs.audioPath, "audio", "", "audio file to read the duration and extension from")
	convertCmd.Flags().StringVar(&cArgs.ext, "ext", "", "audio file extension for cue and comment output, e.g. .mp3")
	RootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if cArgs.ChapterFile == "" {
		return fmt.Errorf("chapter file is required")
	}
	from, err := format.ParseFormat(cArgs.From)
	if err != nil {
		return err
	}
	if !from.Uploadable() {
		return fmt.Errorf("the %s format can not be read", from)
	}
	to, err := format.ParseFormat(cArgs.To)
	if err != nil {
		return err
	}

	duration, ext := cArgs.duration, cArgs.ext
	if cArgs.audioPath != "" {
		info, err := audio.Probe(cArgs.audioPath)
		if err != nil {
			return err
		}
		if duration == 0 {
			duration = info.Duration
		}
		if ext == "" {
			ext = info.Ext
		}
	}
	if from != format.ABS && duration <= 0 {
		return fmt.Errorf("%s input needs the audio duration: pass --duration or an mp3 with --audio", from)
	}

	data, err := os.ReadFile(cArgs.ChapterFile)
	if err != nil {
		return fmt.Errorf("failed to read chapter file: %w", err)
	}
	chapters, err := format.Parse(from, data, duration)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", cArgs.ChapterFile, err)
	}

	out, err := format.Render(to, chapters, ext)
	if err != nil {
		return fmt.Errorf("failed to render chapters: %w", err)
	}
	return writeOutput(cmd, cArgs.outputPath, out)
}
