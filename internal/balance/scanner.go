package balance

import (
	"strings"
)

// Scan computes the balance Report for a document given as its ordered line
// sequence (1-indexed for reporting). It makes two independent passes:
//
//  1. Forward balance pass: running opens-minus-closes count per character,
//     capturing the first negative line and every negative end-of-line event.
//  2. Opener replay pass: performed only when the final balance is strictly
//     positive, because only then is there anything left open to localize.
//     Openers push their line number, closers pop when the stack is non-empty
//     (a stray closer was already reported by pass 1, so the replay just
//     ignores it).
//
// Truncation happens at report-assembly time; the computed balance, the first
// negative line, and the *Total fields stay exact.
func Scan(lines []string, pair Pair, limits Limits) Report {
	limits = limits.WithDefaults()

	var report Report

	// Проход 1: накопление баланса по строкам.
	running := 0
	var events []NegativeEvent
	for i, line := range lines {
		for _, ch := range line {
			switch ch {
			case pair.Open:
				running++
			case pair.Close:
				running--
			}
		}
		if running < 0 {
			num := i + 1
			if report.FirstNegativeLine == 0 {
				report.FirstNegativeLine = num
			}
			events = append(events, NegativeEvent{
				Line:    num,
				Balance: running,
				Snippet: strings.TrimSpace(line),
			})
		}
	}

	report.FinalBalance = running
	report.NegativeTotal = len(events)
	if len(events) > limits.MaxNegatives {
		events = events[:limits.MaxNegatives]
	}
	report.NegativeEvents = events

	// Проход 2: replay стека открывающих — только при положительном балансе.
	if running > 0 {
		stack := replayOpeners(lines, pair)
		report.UnclosedTotal = len(stack)

		tail := stack
		if len(tail) > limits.MaxOpeners {
			tail = tail[len(tail)-limits.MaxOpeners:]
		}
		report.Unclosed = make([]Opener, 0, len(tail))
		for _, num := range tail {
			report.Unclosed = append(report.Unclosed, Opener{
				Line:    num,
				Context: contextWindow(lines, num, limits.Context),
			})
		}
	}

	return report
}

// replayOpeners re-walks the document and returns, bottom-to-top, the line
// numbers of openers that remain unmatched at end of document.
func replayOpeners(lines []string, pair Pair) []int {
	var stack []int
	for i, line := range lines {
		for _, ch := range line {
			switch ch {
			case pair.Open:
				stack = append(stack, i+1)
			case pair.Close:
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}
	return stack
}

// contextWindow slices lines around num (1-based), clamped to the document.
func contextWindow(lines []string, num, radius int) Window {
	start := num - radius
	if start < 1 {
		start = 1
	}
	end := num + radius
	if end > len(lines) {
		end = len(lines)
	}
	w := Window{Start: start, End: end}
	w.Lines = append(w.Lines, lines[start-1:end]...)
	return w
}
