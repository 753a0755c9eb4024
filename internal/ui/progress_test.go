package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"unsafescan/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("scanning src", []string{"a.rs", "b.rs"}, events).(*scanModel)

	m.applyEvent(driver.Event{File: "a.rs", Stage: driver.StageParse, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "b.rs", Stage: driver.StageCollect, Status: driver.StatusDone, Regions: 3})
	m.applyEvent(driver.Event{File: "late.rs", Stage: driver.StageParse, Status: driver.StatusError, Err: errors.New("parse failed")})

	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}
	want := map[string]string{"a.rs": "parsing", "b.rs": "done", "late.rs": "error"}
	for _, r := range m.rows {
		if got := statusLabel(r.stage, r.status); got != want[r.path] {
			t.Errorf("%s status = %q, want %q", r.path, got, want[r.path])
		}
	}
	if m.regions != 3 {
		t.Errorf("regions = %d, want 3", m.regions)
	}

	view := m.View()
	for _, s := range []string{"scanning src", "2/3 files", "3 unsafe", "1 failed", "a.rs", "late.rs: parse failed"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q:\n%s", s, view)
		}
	}
}

func TestProgressModelIgnoresEventsAfterFinish(t *testing.T) {
	m := NewProgressModel("scan", nil, make(chan driver.Event)).(*scanModel)
	m.applyEvent(driver.Event{File: "a.rs", Stage: driver.StageCollect, Status: driver.StatusDone, Regions: 2})
	m.applyEvent(driver.Event{File: "a.rs", Stage: driver.StageCollect, Status: driver.StatusDone, Regions: 2})
	if m.regions != 2 {
		t.Fatalf("regions = %d, want 2", m.regions)
	}
	if p := m.percent(); p != 1 {
		t.Errorf("percent = %v, want 1", p)
	}
}

func TestProgressModelWindow(t *testing.T) {
	files := make([]string, 30)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.rs", i)
	}
	m := NewProgressModel("scan", files, make(chan driver.Event)).(*scanModel)
	m.applyEvent(driver.Event{File: "f29.rs", Stage: driver.StageParse, Status: driver.StatusWorking})

	visible := m.visible()
	if len(visible) != maxRows {
		t.Fatalf("visible = %d rows, want %d", len(visible), maxRows)
	}
	if visible[len(visible)-1] != 29 {
		t.Errorf("active file f29.rs not shown: %v", visible)
	}
	if view := m.View(); !strings.Contains(view, fmt.Sprintf("... %d more", 30-maxRows)) {
		t.Errorf("view has no overflow line:\n%s", view)
	}
}

func TestProgressModelQuitsOnClose(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("scan", nil, events).(*scanModel)
	if msg := m.listenForEvent()(); msg != (doneMsg{}) {
		t.Fatalf("msg = %#v, want doneMsg", msg)
	}
	m.Update(doneMsg{})
	if !m.done {
		t.Error("model must be done after the channel closes")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.rs", 20, "short.rs"},
		{"src/very/long/path.rs", 10, "...path.rs"},
		{"абвгд", 3, "абв"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
