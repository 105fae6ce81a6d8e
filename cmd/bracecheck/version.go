package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bracecheck/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return fmt.Errorf("failed to get json flag: %w", err)
		}
		return renderVersion(cmd.OutOrStdout(), version.Collect(), asJSON)
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "machine-readable output")
}

// renderVersion печатает отпечаток сборки; пустые поля опускаются.
func renderVersion(w io.Writer, info version.Info, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(w, "bracecheck %s\n", info.Version)
	if commit := info.ShortCommit(); commit != "" {
		fmt.Fprintf(w, "  commit  %s\n", commit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(w, "  built   %s\n", info.BuildDate)
	}
	if info.GoVersion != "" {
		fmt.Fprintf(w, "  go      %s\n", info.GoVersion)
	}
	return nil
}
