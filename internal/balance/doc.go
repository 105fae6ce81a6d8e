// Package balance implements the structural-balance scanner at the core of
// bracecheck.
//
// # Purpose
//
//   - Track the running open/close balance of a single nested delimiter pair
//     across an ordered line sequence.
//   - Record every line whose end-of-line balance is negative (a stray closer
//     somewhere above), plus the first such line separately.
//   - When the document ends with a positive balance, replay the document with
//     a LIFO stack to localize which openers were never closed, and attach a
//     small context window to each.
//
// # Scope
//
// The scanner is not a lexer: it has no notion of strings, comments, or escape
// sequences, so a delimiter inside a string literal counts as structural. That
// is an accepted limitation of the tool, not a defect. Loading documents lives
// in internal/source; rendering reports lives in internal/diagfmt.
//
// Scan is a pure function: any input (including an empty document) produces a
// valid Report, there are no error paths, and repeated invocations yield
// identical results. Truncation of the reported lists is presentation-level
// only; FinalBalance, FirstNegativeLine, and the *Total fields stay exact.
package balance
