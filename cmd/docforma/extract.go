package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docforma/internal/docspec"
)

func newExtractCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <guide>",
		Short: "Print the formatting spec extracted from a guide as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd.ErrOrStderr())
			profile, err := opts.loadProfile()
			if err != nil {
				return err
			}
			text, err := readText(args[0], log)
			if err != nil {
				return err
			}

			spec, report := docspec.NewExtractor(profile.Defaults, log).ExtractWithReport(text)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(map[string]any{
				"spec":   spec,
				"report": report,
			})
		},
	}
}
