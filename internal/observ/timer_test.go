package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	load := tm.Begin("load")
	tm.End(load, "3 files")
	parse := tm.Begin("parse")
	tm.End(parse, "")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "3 files" || r.Phases[0].DurationMS != 2 {
		t.Errorf("load phase = %+v", r.Phases[0])
	}
	if r.TotalMS != 4 {
		t.Errorf("total = %v ms, want 4", r.TotalMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	tm.End(tm.Begin("collect"), "12 regions")

	got := tm.Summary()
	want := "timings:\n" +
		"  collect          1.000 ms  // 12 regions\n" +
		"  total            1.000 ms\n"
	if got != want {
		t.Errorf("summary mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	boom := errors.New("boom")
	if err := tm.Measure("report", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(tm.Summary(), "report") || tm.Report().Phases[0].Note != "failed" {
		t.Errorf("failed phase not recorded: %s", tm.Summary())
	}
}

func TestTimerEndUnknownIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "ignored")
	if r := tm.Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Errorf("report = %+v, want empty", r)
	}
}
