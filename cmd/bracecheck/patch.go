package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bracecheck/internal/patch"
	"bracecheck/internal/source"
)

var patchCmd = &cobra.Command{
	Use:   "patch [flags] <file>",
	Short: "Apply guarded find-and-replace edits to a file",
	Long:  "Apply exact-text replacements to a file. A needle that cannot be found aborts the whole patch before anything is written.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatch,
}

func init() {
	patchCmd.Flags().String("find", "", "exact text to locate")
	patchCmd.Flags().String("replace", "", "replacement text")
	patchCmd.Flags().Int("count", 1, "number of occurrences to replace")
	patchCmd.Flags().String("script", "", "TOML patch script with [[replace]] entries")
	patchCmd.Flags().Bool("backup", false, "save the original next to the file with a .bak suffix")
	patchCmd.Flags().Bool("dry-run", false, "plan the patch but do not write the file")
}

func runPatch(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	find, err := cmd.Flags().GetString("find")
	if err != nil {
		return err
	}
	replace, err := cmd.Flags().GetString("replace")
	if err != nil {
		return err
	}
	count, err := cmd.Flags().GetInt("count")
	if err != nil {
		return err
	}
	scriptPath, err := cmd.Flags().GetString("script")
	if err != nil {
		return err
	}
	backup, err := cmd.Flags().GetBool("backup")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	if scriptPath != "" && (find != "" || replace != "") {
		return fmt.Errorf("--script cannot be combined with --find/--replace")
	}
	if scriptPath == "" && find == "" {
		return fmt.Errorf("either --find or --script is required")
	}

	var repls []patch.Replacement
	if scriptPath != "" {
		repls, err = patch.LoadScript(scriptPath)
		if err != nil {
			return err
		}
	} else {
		repls = []patch.Replacement{{Find: find, Replace: replace, Count: count}}
	}

	fs := source.NewFileSet()
	fileID, err := fs.Load(targetPath)
	if err != nil {
		return fmt.Errorf("patch: failed to load %s: %w", targetPath, err)
	}
	file := fs.Get(fileID)

	res, err := patch.Apply(file, repls)
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}

	if dryRun {
		fmt.Fprintf(os.Stdout, "Would apply %d edit(s) to %s\n", res.EditCount, res.Path)
		for _, edit := range res.Edits {
			start, _ := fs.Resolve(edit.Span)
			fmt.Fprintf(os.Stdout, "  %d:%d: replace %d byte(s) with %d\n",
				start.Line, start.Col, edit.Span.Len(), len(edit.NewText))
		}
		return nil
	}

	if err := patch.Write(file, res, backup); err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Applied %d edit(s) to %s\n", res.EditCount, res.Path)
	return nil
}
