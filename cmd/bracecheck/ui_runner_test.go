package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bracecheck/internal/driver"
)

// Консьюмер событий может отвалиться на середине: дренаж обязан дочитать
// канал до закрытия, иначе ScanDir зависнет на полном буфере.
func TestDrainScanEventsUnblocksScanDir(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 8; i++ {
		path := filepath.Join(dir, fmt.Sprintf("f%d.txt", i))
		if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	// Буфер в одно событие: без читателя ScanDir блокируется сразу.
	events := make(chan driver.Event, 1)
	done := make(chan error, 1)
	go func() {
		_, _, err := driver.ScanDir(context.Background(), dir, driver.Options{}, 2, nil, events)
		done <- err
	}()

	// Читаем одно событие и бросаем канал, как упавший UI.
	<-events
	drainScanEvents(events)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ScanDir returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("ScanDir did not finish after the events channel was drained")
	}
}
