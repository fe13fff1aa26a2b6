// Package diag holds the diagnostics semdoc reports while loading attribute
// registries and rendering their documentation.
//
// Markdown and rendering problems never fail a run. The parser falls back to
// literal text and the renderer degrades formatting, and each such fallback is
// reported here so the CLI can show what was degraded and where.
//
// # Data model
//
//   - Severity: Info, Warning, Error.
//   - Code: numeric identifier with a stable string ID (DOC1001, REN2001, ...).
//   - Subject: the attribute ID or file the diagnostic refers to.
//   - Pos: 1-based line and column inside the note, zero when not applicable.
//
// Producers depend only on Reporter. BagReporter collects into a Bag, which can
// be sorted, deduplicated and merged across workers.
package diag
