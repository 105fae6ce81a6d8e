package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bracecheck/internal/driver"
	"bracecheck/internal/source"
	"bracecheck/internal/ui"
)

type scanOutcome struct {
	fs      *source.FileSet
	results []driver.ScanResult
	err     error
}

// runScanDirWithUI runs a directory scan with the interactive progress view.
// The scan happens in a goroutine; ScanDir closes the events channel when it
// finishes, which terminates the UI.
func runScanDirWithUI(ctx context.Context, title, dir string, opts driver.Options, jobs int, exts []string) (*source.FileSet, []driver.ScanResult, error) {
	files, err := driver.ListFiles(dir, exts)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		fs, results, err := driver.ScanDir(ctx, dir, opts, jobs, exts, events)
		outcomeCh <- scanOutcome{fs: fs, results: results, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// UI может умереть раньше сканирования; без дренажа эмиттеры ScanDir
	// упрутся в полный буфер и канал никогда не закроется.
	drainScanEvents(events)
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}

// drainScanEvents discards remaining events until the producer closes the
// channel.
func drainScanEvents(events <-chan driver.Event) {
	for range events {
	}
}
