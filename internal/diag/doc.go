// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string ID (LEXnnnn, SYNnnnn, IOnnnn), a short message, the primary span and
// optional notes pointing at related locations.
//
// Phases emit through a Reporter and never touch storage directly. BagReporter
// collects into a bounded Bag, DedupReporter drops repeats before forwarding.
// Rendering lives in internal/diagfmt; FormatShortDiagnostics is the one
// plain-text form kept here so golden tests do not depend on colors.
package diag
