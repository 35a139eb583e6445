// Command docforma runs the methodic pipeline offline: extract a formatting
// spec from a guide, or build a formatted .docx from finished content.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docforma/internal/config"
	"github.com/dgallion1/docforma/internal/normalize"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	profile string
	lang    string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "docforma",
		Short:         "Format academic works according to a methodic guide",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.profile, "profile", os.Getenv("PROFILE_PATH"), "YAML profile with defaults and labels")
	root.PersistentFlags().StringVar(&opts.lang, "lang", "ru", "built-in profile language when --profile is not set (ru|en)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log decisions to stderr")

	root.AddCommand(newExtractCmd(opts), newBuildCmd(opts))
	return root
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) loadProfile() (config.Profile, error) {
	if o.profile != "" {
		return config.LoadProfile(o.profile)
	}
	return config.DefaultProfile(o.lang), nil
}

// readText normalizes a file into plain text.
func readText(path string, log *slog.Logger) (string, error) {
	format := normalize.FormatFromFilename(path)
	if format == "" {
		return "", fmt.Errorf("unsupported file type: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	norm := normalize.New(normalize.Options{PDFFallbackPdftotext: true}, log)
	text := norm.Normalize(path, format)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text could be extracted from %s", path)
	}
	return text, nil
}
