package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microbrews/abs-chapters/abs"
	"github.com/microbrews/abs-chapters/config"
	"github.com/microbrews/abs-chapters/model"
	"github.com/microbrews/abs-chapters/utils"
)

var RootCmd = &cobra.Command{
	Use:           "abs-chapters",
	Short:         "Convert audiobook chapters and sync them with Audiobookshelf",
	Long:          "Download an Audiobookshelf item's chapters as abs JSON, m4b-tool text, a cue sheet or a forum comment, upload chapters from those formats, or convert chapter files offline.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

type rootArgs struct {
	configPath string
	baseURL    string
	apiKey     string
	timeout    int
	verbose    bool
}

var gArgs rootArgs

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&gArgs.configPath, "config", "", "config file (default ./abs-chapters.yaml or ~/.config/abs-chapters/config.yaml)")
	flags.StringVar(&gArgs.baseURL, "base-url", "", "Audiobookshelf server url, e.g. https://audiobooks.example.com")
	flags.StringVar(&gArgs.apiKey, "api-key", "", "Audiobookshelf api key")
	flags.IntVar(&gArgs.timeout, "timeout", 0, "request timeout in seconds (default 10)")
	flags.BoolVar(&gArgs.verbose, "verbose", false, "log http requests and responses")
}

// loadConfig layers the persistent flags over the config file and
// environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(gArgs.configPath)
	if err != nil {
		return nil, err
	}
	if gArgs.baseURL != "" {
		cfg.BaseURL = gArgs.baseURL
	}
	if gArgs.apiKey != "" {
		cfg.APIKey = gArgs.apiKey
	}
	if gArgs.timeout != 0 {
		cfg.TimeoutSeconds = gArgs.timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLibrary() (model.Library, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return abs.NewClient(cfg.BaseURL, cfg.APIKey,
		abs.WithTimeout(cfg.Timeout()),
		abs.WithVerbose(gArgs.verbose),
	), nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := utils.WriteFile(path, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote chapters to %s\n", path)
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	return nil
}
