package balance

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// countPair независимо считает opens-closes по всему тексту,
// чтобы сверять FinalBalance со сканером.
func countPair(lines []string, pair Pair) int {
	total := 0
	for _, line := range lines {
		total += strings.Count(line, string(pair.Open))
		total -= strings.Count(line, string(pair.Close))
	}
	return total
}

func TestScanBalancedDocument(t *testing.T) {
	report := Scan([]string{"{", "}"}, Braces, Limits{})

	if report.FinalBalance != 0 {
		t.Errorf("Expected final balance 0, got %d", report.FinalBalance)
	}
	if report.FirstNegativeLine != 0 {
		t.Errorf("Expected no first negative line, got %d", report.FirstNegativeLine)
	}
	if len(report.NegativeEvents) != 0 {
		t.Errorf("Expected no negative events, got %d", len(report.NegativeEvents))
	}
	if len(report.Unclosed) != 0 {
		t.Errorf("Expected no unclosed openers, got %d", len(report.Unclosed))
	}
	if !report.Balanced() {
		t.Error("Expected report to be balanced")
	}
}

func TestScanStrayCloser(t *testing.T) {
	report := Scan([]string{"}"}, Braces, Limits{})

	if report.FinalBalance != -1 {
		t.Errorf("Expected final balance -1, got %d", report.FinalBalance)
	}
	if report.FirstNegativeLine != 1 {
		t.Errorf("Expected first negative line 1, got %d", report.FirstNegativeLine)
	}
	want := []NegativeEvent{{Line: 1, Balance: -1, Snippet: "}"}}
	if !reflect.DeepEqual(report.NegativeEvents, want) {
		t.Errorf("Expected events %+v, got %+v", want, report.NegativeEvents)
	}
	// Replay пропускается при балансе <= 0
	if len(report.Unclosed) != 0 || report.UnclosedTotal != 0 {
		t.Errorf("Expected replay to be skipped, got %+v", report.Unclosed)
	}
}

func TestScanUnclosedOpeners(t *testing.T) {
	report := Scan([]string{"{", "{", "{"}, Braces, Limits{})

	if report.FinalBalance != 3 {
		t.Errorf("Expected final balance 3, got %d", report.FinalBalance)
	}
	if report.FirstNegativeLine != 0 {
		t.Errorf("Expected no first negative line, got %d", report.FirstNegativeLine)
	}
	if report.UnclosedTotal != 3 {
		t.Errorf("Expected 3 unclosed openers total, got %d", report.UnclosedTotal)
	}
	if len(report.Unclosed) != 3 {
		t.Fatalf("Expected all 3 openers reported, got %d", len(report.Unclosed))
	}
	for i, opener := range report.Unclosed {
		// Порядок открытия: строки 1, 2, 3
		if opener.Line != i+1 {
			t.Errorf("Opener %d: expected line %d, got %d", i, i+1, opener.Line)
		}
		// Документ из 3 строк: окно всегда обрезается до 1..3
		if opener.Context.Start != 1 || opener.Context.End != 3 {
			t.Errorf("Opener %d: expected window 1..3, got %d..%d",
				i, opener.Context.Start, opener.Context.End)
		}
		if len(opener.Context.Lines) != 3 {
			t.Errorf("Opener %d: expected 3 context lines, got %d", i, len(opener.Context.Lines))
		}
	}
}

func TestScanDipThenNegativeFinal(t *testing.T) {
	report := Scan([]string{"{ {", "} } }"}, Braces, Limits{})

	if report.FinalBalance != -1 {
		t.Errorf("Expected final balance -1, got %d", report.FinalBalance)
	}
	if report.FirstNegativeLine != 2 {
		t.Errorf("Expected first negative line 2, got %d", report.FirstNegativeLine)
	}
	want := []NegativeEvent{{Line: 2, Balance: -1, Snippet: "} } }"}}
	if !reflect.DeepEqual(report.NegativeEvents, want) {
		t.Errorf("Expected events %+v, got %+v", want, report.NegativeEvents)
	}
	if len(report.Unclosed) != 0 {
		t.Errorf("Expected no unclosed openers for negative balance, got %d", len(report.Unclosed))
	}
}

func TestScanEmptyDocument(t *testing.T) {
	report := Scan(nil, Braces, Limits{})

	if report.FinalBalance != 0 {
		t.Errorf("Expected final balance 0, got %d", report.FinalBalance)
	}
	if report.FirstNegativeLine != 0 {
		t.Errorf("Expected no first negative line, got %d", report.FirstNegativeLine)
	}
	if len(report.NegativeEvents) != 0 || len(report.Unclosed) != 0 {
		t.Error("Expected empty report lists for empty document")
	}
}

func TestScanDipWithRecovery(t *testing.T) {
	// Баланс уходит в минус и восстанавливается: дип всё равно фиксируется.
	lines := []string{"}", "{", "{}"}
	report := Scan(lines, Braces, Limits{})

	if report.FinalBalance != 0 {
		t.Errorf("Expected final balance 0, got %d", report.FinalBalance)
	}
	if report.FirstNegativeLine != 1 {
		t.Errorf("Expected first negative line 1, got %d", report.FirstNegativeLine)
	}
	if report.NegativeTotal != 1 {
		t.Errorf("Expected 1 negative event, got %d", report.NegativeTotal)
	}
	if report.Balanced() {
		t.Error("Expected report with a dip to not count as balanced")
	}
}

func TestScanNegativeEventsTruncation(t *testing.T) {
	// 25 строк с закрывающей скобкой: баланс -1..-25.
	lines := make([]string, 25)
	for i := range lines {
		lines[i] = "  }  "
	}
	report := Scan(lines, Braces, Limits{})

	if report.FirstNegativeLine != 1 {
		t.Errorf("Expected first negative line 1, got %d", report.FirstNegativeLine)
	}
	if report.NegativeTotal != 25 {
		t.Errorf("Expected 25 negative lines total, got %d", report.NegativeTotal)
	}
	if len(report.NegativeEvents) != DefaultLimits.MaxNegatives {
		t.Fatalf("Expected %d reported events, got %d", DefaultLimits.MaxNegatives, len(report.NegativeEvents))
	}
	// Первые 20 в порядке строк, сниппеты обрезаны
	for i, ev := range report.NegativeEvents {
		if ev.Line != i+1 {
			t.Errorf("Event %d: expected line %d, got %d", i, i+1, ev.Line)
		}
		if ev.Balance != -(i + 1) {
			t.Errorf("Event %d: expected balance %d, got %d", i, -(i + 1), ev.Balance)
		}
		if ev.Snippet != "}" {
			t.Errorf("Event %d: expected trimmed snippet, got %q", i, ev.Snippet)
		}
	}
}

func TestScanOpenerTruncationKeepsMostRecent(t *testing.T) {
	// 15 незакрытых открывающих: в отчёте последние 10, стек полный.
	lines := make([]string, 15)
	for i := range lines {
		lines[i] = fmt.Sprintf("block%d {", i+1)
	}
	report := Scan(lines, Braces, Limits{})

	if report.FinalBalance != 15 {
		t.Errorf("Expected final balance 15, got %d", report.FinalBalance)
	}
	if report.UnclosedTotal != 15 {
		t.Errorf("Expected untruncated opener count 15, got %d", report.UnclosedTotal)
	}
	if len(report.Unclosed) != DefaultLimits.MaxOpeners {
		t.Fatalf("Expected %d reported openers, got %d", DefaultLimits.MaxOpeners, len(report.Unclosed))
	}
	// Верхушка стека: строки 6..15 в порядке открытия.
	for i, opener := range report.Unclosed {
		if opener.Line != i+6 {
			t.Errorf("Opener %d: expected line %d, got %d", i, i+6, opener.Line)
		}
	}
}

func TestScanContextWindowClamping(t *testing.T) {
	lines := []string{"{", "a", "b", "c", "d", "e", "f"}
	report := Scan(lines, Braces, Limits{})

	if len(report.Unclosed) != 1 {
		t.Fatalf("Expected 1 unclosed opener, got %d", len(report.Unclosed))
	}
	w := report.Unclosed[0].Context
	// Окно вокруг строки 1 с радиусом 3: 1..4
	if w.Start != 1 || w.End != 4 {
		t.Errorf("Expected window 1..4, got %d..%d", w.Start, w.End)
	}
	want := []string{"{", "a", "b", "c"}
	if !reflect.DeepEqual(w.Lines, want) {
		t.Errorf("Expected window lines %q, got %q", want, w.Lines)
	}
}

func TestScanStackMatchesFinalBalance(t *testing.T) {
	// Свойство: при положительном балансе размер полного стека равен балансу.
	docs := [][]string{
		{"{", "{", "}", "{"},
		{"fn a() {", "  if x {", "}", "fn b() {"},
		{"{{{", "}", "{"},
		{"{}{}{", "{", "{"},
	}

	for i, lines := range docs {
		report := Scan(lines, Braces, Limits{})
		independent := countPair(lines, Braces)
		if report.FinalBalance != independent {
			t.Errorf("doc %d: scanner balance %d != independent count %d", i, report.FinalBalance, independent)
		}
		if report.FinalBalance > 0 && report.UnclosedTotal != report.FinalBalance {
			t.Errorf("doc %d: opener stack size %d != final balance %d", i, report.UnclosedTotal, report.FinalBalance)
		}
	}
}

func TestScanIsPure(t *testing.T) {
	lines := []string{"{ {", "}", "{", "} } }", "{"}

	first := Scan(lines, Braces, Limits{})
	second := Scan(lines, Braces, Limits{})

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical reports from repeated scans:\n%+v\n%+v", first, second)
	}
}

func TestScanIgnoresOtherCharacters(t *testing.T) {
	// Символы вне пары не влияют на баланс; кавычки не понимаются —
	// скобка в строковом литерале считается структурной.
	lines := []string{`let s = "{";`}
	report := Scan(lines, Braces, Limits{})

	if report.FinalBalance != 1 {
		t.Errorf("Expected brace inside string literal to count, got balance %d", report.FinalBalance)
	}
}

func TestScanAlternativePairs(t *testing.T) {
	lines := []string{"(a (b)", "c)"}

	parens := Scan(lines, Parens, Limits{})
	if parens.FinalBalance != 0 {
		t.Errorf("Expected paren balance 0, got %d", parens.FinalBalance)
	}

	// Та же пара скобок не трогает квадратные
	brackets := Scan(lines, Brackets, Limits{})
	if brackets.FinalBalance != 0 || brackets.NegativeTotal != 0 {
		t.Errorf("Expected bracket scan to see no delimiters, got %+v", brackets)
	}
}

func TestScanCustomLimits(t *testing.T) {
	lines := []string{"{", "{", "{", "{"}
	report := Scan(lines, Braces, Limits{MaxOpeners: 2, Context: 1})

	if len(report.Unclosed) != 2 {
		t.Fatalf("Expected 2 reported openers, got %d", len(report.Unclosed))
	}
	if report.Unclosed[0].Line != 3 || report.Unclosed[1].Line != 4 {
		t.Errorf("Expected most recent openers 3 and 4, got %d and %d",
			report.Unclosed[0].Line, report.Unclosed[1].Line)
	}
	w := report.Unclosed[0].Context
	if w.Start != 2 || w.End != 4 {
		t.Errorf("Expected radius-1 window 2..4, got %d..%d", w.Start, w.End)
	}
}
