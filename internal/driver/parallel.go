package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"bracecheck/internal/balance"
	"bracecheck/internal/source"
)

// Status describes the lifecycle of one document inside a directory scan.
type Status uint8

const (
	StatusQueued Status = iota
	StatusScanning
	StatusClean
	StatusImbalanced
	StatusError
)

// Event mirrors the progress of a directory scan; the UI consumes these.
type Event struct {
	File   string
	Status Status
}

// ListFiles returns the sorted list of files under dir with a matching
// extension. An empty extension list matches everything. This is the same
// order ScanDir produces results in.
func ListFiles(dir string, exts []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if matchesExt(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func matchesExt(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ScanDir scans every matching file under dir in parallel. The walk order is
// deterministic; scans are independent (the scanner is a pure function), so
// workers share nothing but the pre-loaded FileSet. When events is non-nil it
// receives per-file progress and is closed before ScanDir returns.
func ScanDir(ctx context.Context, dir string, opts Options, jobs int, exts []string, events chan<- Event) (*source.FileSet, []ScanResult, error) {
	if events != nil {
		defer close(events)
	}

	opts = opts.normalized()

	files, err := ListFiles(dir, exts)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// FileSet не потокобезопасен: загружаем все файлы до запуска воркеров.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Индексы результатов уникальны для каждой горутины, мьютекс не нужен.
	results := make([]ScanResult, len(files))

	emit := func(file string, status Status) {
		if events != nil {
			events <- Event{File: file, Status: status}
		}
	}
	for _, path := range files {
		emit(path, StatusQueued)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			emit(path, StatusScanning)

			if loadErr, hadError := loadErrors[path]; hadError {
				results[i] = ScanResult{Path: path, Err: loadErr}
				emit(path, StatusError)
				return nil
			}

			fileID := fileIDs[path]
			file := fileSet.Get(fileID)

			result := ScanResult{Path: path, FileID: fileID}
			if opts.Cache != nil {
				var payload reportPayload
				if ok, cacheErr := opts.Cache.Get(file.Hash, &payload); cacheErr == nil && ok && payload.matches(opts.Pair, opts.Limits) {
					result.Report = payload.toReport()
					result.FromCache = true
				}
			}
			if !result.FromCache {
				result.Report = balance.Scan(file.Lines(), opts.Pair, opts.Limits)
				if opts.Cache != nil {
					_ = opts.Cache.Put(file.Hash, payloadFromReport(path, opts.Pair, opts.Limits, result.Report))
				}
			}
			results[i] = result

			if result.Report.Balanced() {
				emit(path, StatusClean)
			} else {
				emit(path, StatusImbalanced)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	return fileSet, results, nil
}
