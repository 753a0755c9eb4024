// Package ui draws the interactive progress of a directory scan.
package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"unsafescan/internal/driver"
)

// maxRows bounds the file list; large trees only show the files touched last.
const maxRows = 12

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type scanModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	index   map[string]int
	touched []int // индексы rows в порядке последнего события
	width   int
	regions int
	done    bool
}

type fileRow struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	regions int
	err     error
}

func (r fileRow) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model for a directory scan. files
// may be empty: a file is added when its first event arrives. The model
// quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &scanModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for _, file := range files {
		m.row(file)
	}
	return m
}

func (m *scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *scanModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	nameWidth := max(m.width-18, 20)
	visible := m.visible()
	for _, idx := range visible {
		b.WriteString(m.line(m.rows[idx], nameWidth))
		b.WriteString("\n")
	}
	if hidden := len(m.rows) - len(visible); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *scanModel) header() string {
	finished, failed := 0, 0
	for _, r := range m.rows {
		if r.finished() {
			finished++
		}
		if r.status == driver.StatusError {
			failed++
		}
	}
	lead := m.spinner.View()
	if m.done {
		lead = "done:"
	}
	h := titleStyle.Render(fmt.Sprintf("%s %s", lead, m.title)) +
		fmt.Sprintf("  %d/%d files  ", finished, len(m.rows)) +
		countStyle.Render(fmt.Sprintf("%d unsafe", m.regions))
	if failed > 0 {
		h += "  " + failureStyle.Render(fmt.Sprintf("%d failed", failed))
	}
	return h
}

func (m *scanModel) line(r fileRow, nameWidth int) string {
	label := statusLabel(r.stage, r.status)
	count := ""
	if r.status == driver.StatusDone {
		count = fmt.Sprintf("%d", r.regions)
	}
	name := truncate(r.path, nameWidth)
	if r.err != nil {
		name = truncate(r.path+": "+r.err.Error(), nameWidth)
	}
	return fmt.Sprintf("  %s %4s  %s", styleStatus(r.status).Render(fmt.Sprintf("%9s", label)), count, name)
}

// visible returns up to maxRows row indexes: the most recently touched
// ones first in scan order, then untouched files to fill the window.
func (m *scanModel) visible() []int {
	if len(m.rows) <= maxRows {
		out := make([]int, len(m.rows))
		for i := range out {
			out[i] = i
		}
		return out
	}
	pick := make(map[int]bool, maxRows)
	for i := len(m.touched) - 1; i >= 0 && len(pick) < maxRows; i-- {
		pick[m.touched[i]] = true
	}
	for i := 0; i < len(m.rows) && len(pick) < maxRows; i++ {
		pick[i] = true
	}
	out := make([]int, 0, maxRows)
	for i := range m.rows {
		if pick[i] {
			out = append(out, i)
		}
	}
	return out
}

func (m *scanModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *scanModel) row(path string) int {
	if idx, ok := m.index[path]; ok {
		return idx
	}
	idx := len(m.rows)
	m.index[path] = idx
	m.rows = append(m.rows, fileRow{path: path, status: driver.StatusQueued})
	return idx
}

func (m *scanModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	idx := m.row(ev.File)
	r := &m.rows[idx]
	if r.finished() {
		return nil
	}
	r.stage, r.status, r.err = ev.Stage, ev.Status, ev.Err
	if ev.Status == driver.StatusDone {
		r.regions = ev.Regions
		m.regions += ev.Regions
	}
	if ev.Status != driver.StatusQueued {
		if i := slices.Index(m.touched, idx); i >= 0 {
			m.touched = slices.Delete(m.touched, i, i+1)
		}
		m.touched = append(m.touched, idx)
	}
	return m.bar.SetPercent(m.percent())
}

func (m *scanModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range m.rows {
		if r.finished() {
			total++
			continue
		}
		total += stageWeight(r.stage, r.status)
	}
	return total / float64(len(m.rows))
}

func stageWeight(stage driver.Stage, status driver.Status) float64 {
	if status == driver.StatusQueued {
		return 0
	}
	switch stage {
	case driver.StageLoad:
		return 0.1
	case driver.StageParse:
		return 0.4
	case driver.StageCollect:
		return 0.8
	default:
		return 0
	}
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	}
	switch stage {
	case driver.StageLoad:
		return "loading"
	case driver.StageParse:
		return "parsing"
	case driver.StageCollect:
		return "scanning"
	default:
		return ""
	}
}

func styleStatus(status driver.Status) lipgloss.Style {
	switch status {
	case driver.StatusDone:
		return successStyle
	case driver.StatusError:
		return failureStyle
	case driver.StatusWorking:
		return activeStyle
	default:
		return dimStyle
	}
}

// truncate shortens a path to width cells, keeping its tail: the file name
// matters more than the leading directories.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	const ellipsis = "..."
	if width <= len(ellipsis) {
		return runewidth.Truncate(value, width, "")
	}
	runes := []rune(value)
	keep, w := len(runes), 0
	for keep > 0 {
		rw := runewidth.RuneWidth(runes[keep-1])
		if w+rw > width-len(ellipsis) {
			break
		}
		w += rw
		keep--
	}
	return ellipsis + string(runes[keep:])
}
