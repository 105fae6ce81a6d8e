package source

import (
	"testing"
)

func TestSpanBasics(t *testing.T) {
	s := Span{File: 1, Start: 10, End: 20}

	if s.Empty() {
		t.Error("Expected non-empty span")
	}
	if s.Len() != 10 {
		t.Errorf("Expected length 10, got %d", s.Len())
	}
	if s.String() != "1:10-20" {
		t.Errorf("Expected \"1:10-20\", got %q", s.String())
	}

	empty := Span{File: 1, Start: 5, End: 5}
	if !empty.Empty() {
		t.Error("Expected empty span")
	}
}

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{
			name: "disjoint",
			a:    Span{File: 1, Start: 0, End: 5},
			b:    Span{File: 1, Start: 5, End: 10},
			want: false,
		},
		{
			name: "overlapping",
			a:    Span{File: 1, Start: 0, End: 6},
			b:    Span{File: 1, Start: 5, End: 10},
			want: true,
		},
		{
			name: "nested",
			a:    Span{File: 1, Start: 0, End: 10},
			b:    Span{File: 1, Start: 3, End: 4},
			want: true,
		},
		{
			name: "different files",
			a:    Span{File: 1, Start: 0, End: 10},
			b:    Span{File: 2, Start: 0, End: 10},
			want: false,
		},
		{
			name: "empty span never overlaps",
			a:    Span{File: 1, Start: 3, End: 3},
			b:    Span{File: 1, Start: 0, End: 10},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// симметрично
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}
