package driver

import (
	"time"

	"unsafescan/internal/observ"
)

// Phase selects how far the front end runs. Nothing runs after collection.
type Phase uint8

const (
	PhaseTokenize Phase = iota
	PhaseParse          // parse-only
	PhaseCollect
)

func (p Phase) String() string {
	switch p {
	case PhaseTokenize:
		return "tokenize"
	case PhaseParse:
		return "parse"
	case PhaseCollect:
		return "collect"
	default:
		return "phase(?)"
	}
}

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Note    string
}

// PhaseObserver receives phase events. It is called from the goroutine that
// drives the run, never from the per-file workers.
type PhaseObserver func(PhaseEvent)

// TimerObserver records phase events into t.
func TimerObserver(t *observ.Timer) PhaseObserver {
	open := make(map[string]int)
	return func(ev PhaseEvent) {
		switch ev.Status {
		case PhaseStart:
			open[ev.Name] = t.Begin(ev.Name)
		case PhaseEnd:
			if idx, ok := open[ev.Name]; ok {
				t.End(idx, ev.Note)
				delete(open, ev.Name)
			}
		}
	}
}

type phaseRunner struct {
	observe PhaseObserver
}

// run wraps fn in start/end events; note is read after fn returns.
func (r phaseRunner) run(name string, note *string, fn func() error) error {
	if r.observe == nil {
		return fn()
	}
	r.observe(PhaseEvent{Name: name, Status: PhaseStart})
	start := time.Now()
	err := fn()
	ev := PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)}
	if note != nil {
		ev.Note = *note
	}
	r.observe(ev)
	return err
}
