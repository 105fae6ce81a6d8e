package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bracecheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "bracecheck",
	Short: "Delimiter balance diagnostics for source text",
	Long:  `bracecheck scans source text for an unbalanced delimiter pair and reports where the balance breaks`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
