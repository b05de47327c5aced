// Package ui renders the interactive progress view of natec generate.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"nate/internal/pipeline"
)

// stageInfo is how far a template has got once it enters a stage.
var stageInfo = map[pipeline.Stage]struct {
	label  string
	weight float64
}{
	pipeline.StageScan:     {"scanning", 0.25},
	pipeline.StageGenerate: {"generating", 0.5},
	pipeline.StageWrite:    {"writing", 0.85},
	pipeline.StageCheck:    {"checking", 0.5},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	queuedStyle  = lipgloss.NewStyle().Faint(true)
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const statusWidth = 10

type row struct {
	name    string
	status  pipeline.Status
	stage   pipeline.Stage
	elapsed time.Duration
	err     error
}

func (r row) label() string {
	switch r.status {
	case pipeline.StatusWorking:
		if info, ok := stageInfo[r.stage]; ok {
			return info.label
		}
		return string(r.stage)
	case pipeline.StatusDone:
		return "done"
	case pipeline.StatusError:
		return "failed"
	}
	return "queued"
}

func (r row) style() lipgloss.Style {
	switch r.status {
	case pipeline.StatusWorking:
		return workingStyle
	case pipeline.StatusDone:
		return doneStyle
	case pipeline.StatusError:
		return failedStyle
	}
	return queuedStyle
}

func (r row) fraction() float64 {
	switch r.status {
	case pipeline.StatusDone, pipeline.StatusError:
		return 1
	case pipeline.StatusWorking:
		return stageInfo[r.stage].weight
	}
	return 0
}

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []row
	byName  map[string]int
	width   int
	done    bool
}

type eventMsg pipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model with one row per template
// name. It quits once events is closed.
func NewProgressModel(title string, templates []string, events <-chan pipeline.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(workingStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:    make([]row, len(templates)),
		byName:  make(map[string]int, len(templates)),
		width:   80,
	}
	for i, name := range templates {
		m.rows[i] = row{name: name, status: pipeline.StatusQueued}
		m.byName[name] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for the following pipeline event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(pipeline.Event(msg)), m.next())
	case closedMsg:
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
			m.bar.Width = max(msg.Width-4, 10)
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) apply(ev pipeline.Event) tea.Cmd {
	i, ok := m.byName[ev.Template]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	// после ошибки строка больше не меняется
	if r.status == pipeline.StatusError {
		return nil
	}
	r.status, r.stage = ev.Status, ev.Stage
	if ev.Status == pipeline.StatusDone {
		r.elapsed = ev.Elapsed
	}
	if ev.Status == pipeline.StatusError {
		r.err = ev.Err
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.fraction()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, r := range m.rows {
		switch r.status {
		case pipeline.StatusDone:
			finished++
		case pipeline.StatusError:
			finished++
			failed++
		}
	}
	return finished, failed
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	finished, failed := m.counts()
	header := fmt.Sprintf("%s %d/%d", m.title, finished, len(m.rows))
	if failed > 0 {
		header += fmt.Sprintf(", %d failed", failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-16, 20)
	for _, r := range m.rows {
		status := r.style().Render(fmt.Sprintf("%*s", statusWidth, r.label()))
		fmt.Fprintf(&b, "  %s %s", status, truncate(r.name, nameWidth))
		if r.status == pipeline.StatusDone && r.elapsed > 0 {
			b.WriteString(queuedStyle.Render(fmt.Sprintf("  %.1fms", float64(r.elapsed)/float64(time.Millisecond))))
		}
		b.WriteByte('\n')
		if r.err != nil {
			// первая строка ошибки, полный текст печатает diagfmt
			first, _, _ := strings.Cut(r.err.Error(), "\n")
			b.WriteString(failedStyle.Render(strings.Repeat(" ", statusWidth+3) + truncate(first, nameWidth)))
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
