package balance

import (
	"fmt"
	"unicode/utf8"
)

// Pair is a single nested delimiter pair. The counting and replay logic is
// identical for any pair, so the scanner stays parametric even though braces
// are the only pair the original workflow exercised.
type Pair struct {
	Open  rune
	Close rune
}

// Предопределённые пары; Braces — дефолт для сканера.
var (
	Braces   = Pair{Open: '{', Close: '}'}
	Parens   = Pair{Open: '(', Close: ')'}
	Brackets = Pair{Open: '[', Close: ']'}
)

// ParsePair decodes a two-rune spec like "{}", "()" or "[]".
func ParsePair(spec string) (Pair, error) {
	open, n := utf8.DecodeRuneInString(spec)
	if n == 0 || open == utf8.RuneError {
		return Pair{}, fmt.Errorf("invalid delimiter pair %q: want exactly two characters", spec)
	}
	closing, m := utf8.DecodeRuneInString(spec[n:])
	if m == 0 || closing == utf8.RuneError || n+m != len(spec) {
		return Pair{}, fmt.Errorf("invalid delimiter pair %q: want exactly two characters", spec)
	}
	if open == closing {
		return Pair{}, fmt.Errorf("invalid delimiter pair %q: open and close must differ", spec)
	}
	return Pair{Open: open, Close: closing}, nil
}

func (p Pair) String() string {
	return string(p.Open) + string(p.Close)
}
