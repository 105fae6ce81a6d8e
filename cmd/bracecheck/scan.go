package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bracecheck/internal/balance"
	"bracecheck/internal/diagfmt"
	"bracecheck/internal/driver"
	"bracecheck/internal/source"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <file|directory>",
	Short: "Scan a file or directory for delimiter imbalance",
	Long:  `Scan source text for a single nested delimiter pair and report stray closers and unclosed openers with context`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

// init registers CLI flags for the scan command used by runScan.
// It configures output format, the delimiter pair, reporting limits,
// directory concurrency, caching, and the progress UI.
func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	scanCmd.Flags().String("pair", "{}", "delimiter pair to track, e.g. {} () []")
	scanCmd.Flags().Int("context", 3, "lines of context around each unclosed opener")
	scanCmd.Flags().Int("max-negatives", 20, "maximum negative-balance lines to report")
	scanCmd.Flags().Int("max-openers", 10, "maximum unclosed openers to report")
	scanCmd.Flags().Int("jobs", 0, "max parallel workers for directory scans (0=auto)")
	scanCmd.Flags().StringSlice("ext", nil, "file extensions to scan in directories (default: all files)")
	scanCmd.Flags().Bool("cache", false, "cache reports by content hash to skip unchanged files")
	scanCmd.Flags().String("ui", "off", "interactive progress for directory scans (auto|on|off)")
	scanCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	scanCmd.Flags().Int("width", 0, "truncate snippets to this display width (0=unbounded)")
	scanCmd.Flags().Bool("with-context", true, "include context windows in json output")
}

// runScan executes the "scan" command: it resolves flags (with bracecheck.toml
// defaults for those left unset), scans the given file or directory, renders
// every report in the chosen format, and returns a silent error when any
// document is imbalanced so the process exits non-zero.
func runScan(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	pairSpec, err := cmd.Flags().GetString("pair")
	if err != nil {
		return fmt.Errorf("failed to get pair flag: %w", err)
	}
	contextRadius, err := cmd.Flags().GetInt("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	maxNegatives, err := cmd.Flags().GetInt("max-negatives")
	if err != nil {
		return fmt.Errorf("failed to get max-negatives flag: %w", err)
	}
	maxOpeners, err := cmd.Flags().GetInt("max-openers")
	if err != nil {
		return fmt.Errorf("failed to get max-openers flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	exts, err := cmd.Flags().GetStringSlice("ext")
	if err != nil {
		return fmt.Errorf("failed to get ext flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	withContext, err := cmd.Flags().GetBool("with-context")
	if err != nil {
		return fmt.Errorf("failed to get with-context flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	// Значения из bracecheck.toml подставляются только для флагов,
	// не заданных явно.
	if manifest, ok, manifestErr := loadProjectManifest("."); manifestErr != nil {
		return manifestErr
	} else if ok {
		scanCfg := manifest.Config.Scan
		if !cmd.Flags().Changed("pair") && scanCfg.Pair != "" {
			pairSpec = scanCfg.Pair
		}
		if !cmd.Flags().Changed("context") && scanCfg.Context > 0 {
			contextRadius = scanCfg.Context
		}
		if !cmd.Flags().Changed("max-negatives") && scanCfg.MaxNegatives > 0 {
			maxNegatives = scanCfg.MaxNegatives
		}
		if !cmd.Flags().Changed("max-openers") && scanCfg.MaxOpeners > 0 {
			maxOpeners = scanCfg.MaxOpeners
		}
		if !cmd.Flags().Changed("ext") && len(scanCfg.Ext) > 0 {
			exts = scanCfg.Ext
		}
	}

	pair, err := balance.ParsePair(pairSpec)
	if err != nil {
		return err
	}

	useUI, err := useProgressUI(uiFlag, isTerminal(os.Stdout))
	if err != nil {
		return err
	}

	opts := driver.Options{
		Pair: pair,
		Limits: balance.Limits{
			MaxNegatives: maxNegatives,
			MaxOpeners:   maxOpeners,
			Context:      contextRadius,
		},
	}
	if useCache {
		cache, cacheErr := driver.OpenReportCache("bracecheck")
		if cacheErr != nil {
			return fmt.Errorf("failed to open report cache: %w", cacheErr)
		}
		opts.Cache = cache
	}

	st, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	prettyOpts := diagfmt.PrettyOpts{
		Color:    useColor,
		PathMode: pathMode,
		Width:    width,
	}
	jsonOpts := diagfmt.JSONOpts{
		PathMode:       pathMode,
		IncludeContext: withContext,
	}

	var exitCode int
	if !st.IsDir() {
		exitCode, err = runScanFile(cmd, targetPath, opts, format, prettyOpts, jsonOpts)
	} else {
		exitCode, err = runScanDir(cmd, targetPath, opts, jobs, exts, format, useUI, quiet, prettyOpts, jsonOpts)
	}
	if err != nil {
		return err
	}

	if exitCode != 0 {
		// Suppress cobra usage output on imbalance findings
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - report already printed
	}
	return nil
}

// useProgressUI решает, включать ли интерактивный прогресс: "on" и "off"
// безусловны, "auto" смотрит на терминал.
func useProgressUI(value string, tty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return tty, nil
	}
	return false, fmt.Errorf("unknown --ui mode %q, use auto, on or off", value)
}

func runScanFile(cmd *cobra.Command, path string, opts driver.Options, format string, prettyOpts diagfmt.PrettyOpts, jsonOpts diagfmt.JSONOpts) (int, error) {
	fs, result, err := driver.ScanFile(cmd.Context(), path, opts)
	if err != nil {
		return 0, err
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, fs, result.FileID, result.Report, prettyOpts)
	case "json":
		if err := diagfmt.JSON(os.Stdout, fs, result.FileID, opts.Pair, result.Report, jsonOpts); err != nil {
			return 0, fmt.Errorf("failed to format report: %w", err)
		}
	default:
		return 0, fmt.Errorf("unknown format: %s", format)
	}

	if !result.Report.Balanced() {
		return 1, nil
	}
	return 0, nil
}

func runScanDir(cmd *cobra.Command, dir string, opts driver.Options, jobs int, exts []string, format string, useUI bool, quiet bool, prettyOpts diagfmt.PrettyOpts, jsonOpts diagfmt.JSONOpts) (int, error) {
	var (
		fs      *source.FileSet
		results []driver.ScanResult
		err     error
	)
	if format == "pretty" && useUI {
		fs, results, err = runScanDirWithUI(cmd.Context(), "scanning "+dir, dir, opts, jobs, exts)
	} else {
		fs, results, err = driver.ScanDir(cmd.Context(), dir, opts, jobs, exts, nil)
	}
	if err != nil {
		return 0, err
	}

	exit := 0
	switch format {
	case "pretty":
		first := true
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "error: failed to load %s: %v\n", r.Path, r.Err)
				exit = 1
				continue
			}
			if quiet && r.Report.Balanced() {
				continue
			}
			if !first {
				fmt.Fprintln(os.Stdout)
			}
			first = false
			diagfmt.Pretty(os.Stdout, fs, r.FileID, r.Report, prettyOpts)
			if !r.Report.Balanced() {
				exit = 1
			}
		}
	case "json":
		output := make(map[string]diagfmt.ReportJSON, len(results))
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "error: failed to load %s: %v\n", r.Path, r.Err)
				exit = 1
				continue
			}
			data := diagfmt.BuildReportOutput(fs, r.FileID, opts.Pair, r.Report, jsonOpts)
			output[data.File] = data
			if !r.Report.Balanced() {
				exit = 1
			}
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return 0, fmt.Errorf("failed to encode reports: %w", err)
		}
	default:
		return 0, fmt.Errorf("unknown format: %s", format)
	}

	return exit, nil
}
