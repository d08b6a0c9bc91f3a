// Package diag defines the diagnostic model shared by every compiler stage.
//
// A Diagnostic records one finding about a markdown document: its Severity,
// a stable Code, a message and the byte offset it refers to. Reporters resolve
// the offset into a 1-based line and column plus a short snippet of the source
// line, so consumers never need the source file to print a diagnostic.
//
// Severities are tri-level. Info and warning diagnostics accumulate and remain
// available after compilation; an error diagnostic aborts the compilation that
// produced it (see internal/compiler). The severity of most content diagnostics
// is configurable through internal/config.
//
// Package diag does not perform formatting for terminals; that lives in
// internal/diagfmt. FormatShortDiagnostics is the one exception, a stable
// single-line form used by tests and the CLI short output.
package diag
