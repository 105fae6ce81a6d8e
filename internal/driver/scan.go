// Package driver orchestrates scans: loading documents, running the balance
// scanner, fanning out over directories, and caching reports.
package driver

import (
	"context"
	"fmt"

	"bracecheck/internal/balance"
	"bracecheck/internal/source"
)

// Options configures a scan run.
type Options struct {
	// Pair is the delimiter pair to track; the zero value means braces.
	Pair balance.Pair
	// Limits bounds the reported lists; zero fields fall back to defaults.
	Limits balance.Limits
	// Cache, when non-nil, short-circuits scans of unchanged content.
	Cache *ReportCache
}

func (o Options) normalized() Options {
	if o.Pair == (balance.Pair{}) {
		o.Pair = balance.Braces
	}
	o.Limits = o.Limits.WithDefaults()
	return o
}

// ScanResult is the outcome for a single document.
type ScanResult struct {
	Path      string
	FileID    source.FileID
	Report    balance.Report
	FromCache bool
	// Err is set when the document could not be loaded; the report is
	// meaningless in that case (no partial reports).
	Err error
}

// ScanFile loads one document and computes its balance report.
// A missing file is a load error surfaced before any scanning happens.
func ScanFile(ctx context.Context, path string, opts Options) (*source.FileSet, *ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	fs := source.NewFileSet()
	result, err := scanInto(fs, path, opts.normalized())
	if err != nil {
		return nil, nil, err
	}
	return fs, result, nil
}

// scanInto загружает файл в fs и сканирует его. opts уже нормализованы.
func scanInto(fs *source.FileSet, path string, opts Options) (*ScanResult, error) {
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(fileID)

	if opts.Cache != nil {
		var payload reportPayload
		if ok, cacheErr := opts.Cache.Get(file.Hash, &payload); cacheErr == nil && ok && payload.matches(opts.Pair, opts.Limits) {
			return &ScanResult{
				Path:      path,
				FileID:    fileID,
				Report:    payload.toReport(),
				FromCache: true,
			}, nil
		}
	}

	report := balance.Scan(file.Lines(), opts.Pair, opts.Limits)

	if opts.Cache != nil {
		// Ошибки кэша не фатальны для сканирования.
		_ = opts.Cache.Put(file.Hash, payloadFromReport(path, opts.Pair, opts.Limits, report))
	}

	return &ScanResult{
		Path:   path,
		FileID: fileID,
		Report: report,
	}, nil
}
