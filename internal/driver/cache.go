package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"bracecheck/internal/balance"
)

// Current schema version - increment when reportPayload format changes
const cacheSchemaVersion uint16 = 1

// ReportCache хранит готовые отчёты по хэшу содержимого на диске.
// Переименованный файл с теми же байтами попадает в кэш; путь хранится
// в payload только для отображения.
// Thread-safe for concurrent access.
type ReportCache struct {
	mu  sync.RWMutex
	dir string
}

// reportPayload stores a cached balance report together with the scan
// parameters that produced it, for safe invalidation.
type reportPayload struct {
	Schema uint16

	// Scan parameters; a lookup with different parameters is a miss.
	Pair         string
	MaxNegatives int
	MaxOpeners   int
	Context      int

	// Report fields.
	Path              string
	FinalBalance      int
	FirstNegativeLine int
	NegativeEvents    []balance.NegativeEvent
	NegativeTotal     int
	Unclosed          []balance.Opener
	UnclosedTotal     int
}

// OpenReportCache initializes and returns a disk cache at the standard location.
func OpenReportCache(app string) (*ReportCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ReportCache{dir: dir}, nil
}

// OpenReportCacheAt создаёт кэш в явно заданной директории (для тестов).
func OpenReportCacheAt(dir string) (*ReportCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ReportCache{dir: dir}, nil
}

func (c *ReportCache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "reports" для удобства очистки.
	return filepath.Join(c.dir, "reports", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache atomically.
func (c *ReportCache) Put(key [32]byte, payload *reportPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Get reads and deserializes a payload from the disk cache.
// A missing entry is (false, nil), not an error.
func (c *ReportCache) Get(key [32]byte, out *reportPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *ReportCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("recreate cache dir: %w", err)
	}
	return os.RemoveAll(old)
}

// matches проверяет, что кэшированный отчёт был посчитан с теми же
// параметрами сканирования.
func (p *reportPayload) matches(pair balance.Pair, limits balance.Limits) bool {
	limits = limits.WithDefaults()
	return p.Pair == pair.String() &&
		p.MaxNegatives == limits.MaxNegatives &&
		p.MaxOpeners == limits.MaxOpeners &&
		p.Context == limits.Context
}

func (p *reportPayload) toReport() balance.Report {
	return balance.Report{
		FinalBalance:      p.FinalBalance,
		FirstNegativeLine: p.FirstNegativeLine,
		NegativeEvents:    p.NegativeEvents,
		NegativeTotal:     p.NegativeTotal,
		Unclosed:          p.Unclosed,
		UnclosedTotal:     p.UnclosedTotal,
	}
}

func payloadFromReport(path string, pair balance.Pair, limits balance.Limits, report balance.Report) *reportPayload {
	limits = limits.WithDefaults()
	return &reportPayload{
		Schema:            cacheSchemaVersion,
		Pair:              pair.String(),
		MaxNegatives:      limits.MaxNegatives,
		MaxOpeners:        limits.MaxOpeners,
		Context:           limits.Context,
		Path:              path,
		FinalBalance:      report.FinalBalance,
		FirstNegativeLine: report.FirstNegativeLine,
		NegativeEvents:    report.NegativeEvents,
		NegativeTotal:     report.NegativeTotal,
		Unclosed:          report.Unclosed,
		UnclosedTotal:     report.UnclosedTotal,
	}
}
