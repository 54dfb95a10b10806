// Package deck assembles the logical records (cards) of an MCNP input deck
// from its physical lines.
//
// # Overview
//
// A card may span several physical lines. Two conventions continue a card:
//
//   - a single '&' as the very last byte of a line continues the card on the
//     next line (explicit continuation);
//   - a line starting with at least five spaces continues the card on the
//     line before it (indented continuation).
//
// Blank lines end the open card and separate the cell, surface and data
// blocks of the deck. Lines starting with "c " (after optional spaces) are
// comments and never join a card.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Scanner   │────▶│ Classifier  │────▶│  Assembler  │
//	│ (lines)     │     │ (LineClass) │     │ (Items)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// The Classifier looks back exactly one line. The Assembler holds at most
// one open record. Reader composes the three and hands out items lazily.
//
// # Items
//
// The output is a sequence of Item values. Each holds either a Record or a
// Diagnostic:
//
//	r := deck.NewReader(data, deck.WithFile("inp"))
//	for it := range r.All() {
//	    if it.Diagnostic != nil {
//	        log.Println(it.Diagnostic)
//	        continue
//	    }
//	    fmt.Println(it.Record.StartLine(), it.Record.Content)
//	}
//
// Record content has its continuation markers removed and its segments
// trimmed and joined with single spaces, so
//
//	1 0 2 &
//	-5 6
//	     imp:n=1
//
// becomes one Data record "1 0 2 -5 6 imp:n=1" covering lines 1-3.
//
// # Error Recovery
//
// Parsing never stops early. Problems are reported as diagnostics in the
// stream:
//
//   - MalformedLine: the line is not valid UTF-8 and is skipped. An open
//     record stays open across it (WithReplaceInvalid keeps the line with
//     the bad bytes replaced).
//   - DanglingContinuation: a continuation with no open record; the line
//     starts a new record.
//   - TrailingAmpersand: '&' followed by spaces, which does not continue.
//   - LineTooLong: the line exceeds the WithVersion limit and was cut.
//   - VerticalFormat: '#' in columns 1-5.
//   - ReadFailed: a READ card that could not be included. The package
//     only recognises READ cards (Record.IsRead, Record.ReadFile); callers
//     that do I/O resolve them and report failures with NewReadDiagnostic.
//
// # Input
//
// Input must use '\n' line endings. Package source normalises files read
// from disk.
//
// # Thread Safety
//
// A Reader is not safe for concurrent use. Separate readers share nothing
// and may run in parallel over the same buffer.
package deck
