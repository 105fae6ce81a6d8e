package balance

// Limits bounds the reported lists. The zero value of any field falls back
// to the default; the underlying computation is never affected by limits.
type Limits struct {
	// MaxNegatives caps the negative-event list in the report.
	MaxNegatives int
	// MaxOpeners caps the unclosed-opener list in the report.
	MaxOpeners int
	// Context is the number of lines shown on each side of a reported opener.
	Context int
}

// DefaultLimits are reporting conveniences inherited from the original
// workflow; nothing deeper is meant by these exact numbers.
var DefaultLimits = Limits{
	MaxNegatives: 20,
	MaxOpeners:   10,
	Context:      3,
}

// WithDefaults returns the limits with zero fields replaced by defaults.
func (l Limits) WithDefaults() Limits {
	if l.MaxNegatives <= 0 {
		l.MaxNegatives = DefaultLimits.MaxNegatives
	}
	if l.MaxOpeners <= 0 {
		l.MaxOpeners = DefaultLimits.MaxOpeners
	}
	if l.Context <= 0 {
		l.Context = DefaultLimits.Context
	}
	return l
}

// NegativeEvent records a line whose end-of-line balance dipped below zero.
type NegativeEvent struct {
	// Line is the 1-based line number.
	Line int
	// Balance is the running balance at the end of that line.
	Balance int
	// Snippet is the trimmed line text.
	Snippet string
}

// Window is a band of document lines around a reported position,
// clamped to the document bounds.
type Window struct {
	Start int // 1-based, inclusive
	End   int // 1-based, inclusive
	Lines []string
}

// Opener is an unmatched opening delimiter with its surrounding context.
type Opener struct {
	Line    int
	Context Window
}

// Report is the result of one scan. Lists honour Limits; the *Total fields
// and FinalBalance/FirstNegativeLine are exact regardless of truncation.
type Report struct {
	// FinalBalance is opens minus closes over the whole document.
	FinalBalance int
	// FirstNegativeLine is the first line whose end-of-line balance went
	// negative, or 0 if the balance never dipped below zero.
	FirstNegativeLine int
	// NegativeEvents lists negative-balance lines in order, truncated to
	// Limits.MaxNegatives.
	NegativeEvents []NegativeEvent
	// NegativeTotal is the untruncated number of negative-balance lines.
	NegativeTotal int
	// Unclosed lists the most recent unmatched openers in opening order,
	// truncated to the last Limits.MaxOpeners. Empty unless FinalBalance > 0.
	Unclosed []Opener
	// UnclosedTotal is the untruncated opener-stack size; it equals
	// FinalBalance whenever FinalBalance > 0.
	UnclosedTotal int
}

// Balanced reports whether the document is structurally clean: no trailing
// imbalance and no negative dips along the way.
func (r Report) Balanced() bool {
	return r.FinalBalance == 0 && r.NegativeTotal == 0
}
