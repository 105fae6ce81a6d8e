// Package patch applies guarded find-and-replace edits to loaded documents.
// It is deliberately non-algorithmic glue: every replacement names the exact
// text it expects, and a needle that cannot be found aborts the whole patch
// before anything touches the disk.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"bracecheck/internal/source"
)

// ErrNeedleNotFound is returned when a replacement's expected text is absent.
var ErrNeedleNotFound = errors.New("expected text not found")

// Replacement describes one guarded substitution.
type Replacement struct {
	// Find is the exact text to locate. Matching runs on normalized (LF)
	// content, so needles should use \n even for CRLF files on disk.
	Find string
	// Replace is the substituted text.
	Replace string
	// Count is the maximum number of occurrences to replace; 0 means 1.
	Count int
}

// Edit is a planned splice, resolved to a concrete byte span.
type Edit struct {
	Span    source.Span
	NewText string
}

// Result holds the outcome of planning and splicing a patch in memory.
// Edits are in plan order (left to right) for reporting.
type Result struct {
	Path      string
	EditCount int
	Edits     []Edit
	Content   []byte
}

// Plan resolves replacements into concrete edits against the document.
// Occurrences are located left to right and never overlap within one
// replacement; overlapping targets across replacements are an error.
// A replacement whose needle is absent fails the whole plan.
func Plan(file *source.File, repls []Replacement) ([]Edit, error) {
	var edits []Edit
	for i, r := range repls {
		if r.Find == "" {
			return nil, fmt.Errorf("replacement %d: empty find text", i+1)
		}
		count := r.Count
		if count <= 0 {
			count = 1
		}

		from := 0
		found := 0
		for found < count {
			idx := bytes.Index(file.Content[from:], []byte(r.Find))
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(r.Find)
			edits = append(edits, Edit{
				Span: source.Span{
					File:  file.ID,
					Start: uint32(start),
					End:   uint32(end),
				},
				NewText: r.Replace,
			})
			from = end
			found++
		}

		if found == 0 {
			return nil, fmt.Errorf("%w: %q in %s", ErrNeedleNotFound, needlePreview(r.Find), file.Path)
		}
	}

	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if edits[i].Span.Overlaps(edits[j].Span) {
				return nil, fmt.Errorf("replacement targets overlap at %s and %s",
					edits[i].Span.String(), edits[j].Span.String())
			}
		}
	}

	return edits, nil
}

// Apply plans the replacements and splices them into a fresh buffer.
// The document itself is not modified; Write persists the result.
func Apply(file *source.File, repls []Replacement) (*Result, error) {
	planned, err := Plan(file, repls)
	if err != nil {
		return nil, err
	}

	// Применяем справа налево, чтобы офсеты не плыли.
	edits := append([]Edit(nil), planned...)
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Span.Start > edits[j].Span.Start
	})

	working := append([]byte(nil), file.Content...)
	for _, edit := range edits {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], []byte(edit.NewText)...), suffix...)
	}

	return &Result{
		Path:      file.Path,
		EditCount: len(planned),
		Edits:     planned,
		Content:   working,
	}, nil
}

// Write persists a patch result to disk, preserving the file mode.
// With backup set, the original content is first saved next to the file
// with a .bak suffix.
func Write(file *source.File, res *Result, backup bool) error {
	if file.Flags&source.FileVirtual != 0 {
		return fmt.Errorf("cannot write virtual document %s", file.Path)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(file.Path); err == nil {
		mode = info.Mode()
	}

	if backup {
		if err := os.WriteFile(file.Path+".bak", file.Content, mode); err != nil {
			return fmt.Errorf("write backup %s.bak: %w", file.Path, err)
		}
	}

	if err := os.WriteFile(file.Path, res.Content, mode); err != nil {
		return fmt.Errorf("write %s: %w", file.Path, err)
	}
	return nil
}

// needlePreview сокращает длинные иглы в сообщениях об ошибках.
func needlePreview(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
