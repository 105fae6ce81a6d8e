package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside a single file.
// The patch engine uses spans to describe replacement targets.
type Span struct {
	File  FileID
	Start uint32 // включительно
	End   uint32 // не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Overlaps reports whether two spans in the same file intersect.
// Empty spans never overlap anything.
func (s Span) Overlaps(other Span) bool {
	if s.File != other.File {
		return false
	}
	if s.Empty() || other.Empty() {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}
