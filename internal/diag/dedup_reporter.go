package diag

import "unsafescan/internal/source"

// Повтор - та же диагностика, пришедшая второй раз: модуль, подключённый
// через два `#[path]`, или парсер, восстанавливающийся на одном токене.
type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// DedupReporter drops repeated diagnostics and forwards the rest to next.
// It also counts what it forwarded, so a caller knows how many errors a
// file produced even after a bounded Bag stopped accepting them.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]struct{}
	counts     [SevError + 1]int
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, sev: sev, span: primary, msg: msg}
	if _, ok := r.seen[key]; ok {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if sev <= SevError {
		r.counts[sev]++
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Count returns how many distinct diagnostics of sev were forwarded.
func (r *DedupReporter) Count(sev Severity) int {
	if r == nil || sev > SevError {
		return 0
	}
	return r.counts[sev]
}

// Errors is Count(SevError).
func (r *DedupReporter) Errors() int { return r.Count(SevError) }

// Suppressed returns how many repeats were dropped.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
