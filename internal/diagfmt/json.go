package diagfmt

import (
	"encoding/json"
	"io"

	"bracecheck/internal/balance"
	"bracecheck/internal/source"
)

// NegativeEventJSON представляет одну строку с отрицательным балансом.
type NegativeEventJSON struct {
	Line    int    `json:"line"`
	Balance int    `json:"balance"`
	Snippet string `json:"snippet"`
}

// WindowJSON представляет контекстное окно вокруг строки.
type WindowJSON struct {
	Start int      `json:"start"`
	End   int      `json:"end"`
	Lines []string `json:"lines"`
}

// OpenerJSON представляет незакрытую открывающую скобку.
type OpenerJSON struct {
	Line    int         `json:"line"`
	Context *WindowJSON `json:"context,omitempty"`
}

// ReportJSON представляет корневую структуру JSON вывода для одного файла.
type ReportJSON struct {
	File              string              `json:"file"`
	Pair              string              `json:"pair"`
	FinalBalance      int                 `json:"final_balance"`
	Balanced          bool                `json:"balanced"`
	FirstNegativeLine int                 `json:"first_negative_line,omitempty"`
	NegativeEvents    []NegativeEventJSON `json:"negative_events,omitempty"`
	NegativeTotal     int                 `json:"negative_total,omitempty"`
	Unclosed          []OpenerJSON        `json:"unclosed_openers,omitempty"`
	UnclosedTotal     int                 `json:"unclosed_total,omitempty"`
}

// BuildReportOutput конвертирует отчёт сканера в JSON-представление.
func BuildReportOutput(fs *source.FileSet, fileID source.FileID, pair balance.Pair, report balance.Report, opts JSONOpts) ReportJSON {
	file := fs.Get(fileID)

	out := ReportJSON{
		File:              file.FormatPath(opts.PathMode.formatMode(), fs.BaseDir()),
		Pair:              pair.String(),
		FinalBalance:      report.FinalBalance,
		Balanced:          report.Balanced(),
		FirstNegativeLine: report.FirstNegativeLine,
		NegativeTotal:     report.NegativeTotal,
		UnclosedTotal:     report.UnclosedTotal,
	}

	for _, ev := range report.NegativeEvents {
		out.NegativeEvents = append(out.NegativeEvents, NegativeEventJSON{
			Line:    ev.Line,
			Balance: ev.Balance,
			Snippet: ev.Snippet,
		})
	}

	for _, opener := range report.Unclosed {
		entry := OpenerJSON{Line: opener.Line}
		if opts.IncludeContext {
			entry.Context = &WindowJSON{
				Start: opener.Context.Start,
				End:   opener.Context.End,
				Lines: opener.Context.Lines,
			}
		}
		out.Unclosed = append(out.Unclosed, entry)
	}

	return out
}

// JSON сериализует отчёт в машинно-читаемый вид.
func JSON(w io.Writer, fs *source.FileSet, fileID source.FileID, pair balance.Pair, report balance.Report, opts JSONOpts) error {
	out := BuildReportOutput(fs, fileID, pair, report, opts)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
