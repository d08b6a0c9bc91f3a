package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"kekpiler/internal/buildpipeline"
	"kekpiler/internal/compiler"
)

// maxRows bounds the file list; larger builds show only active rows.
const maxRows = 12

type fileState uint8

const (
	stateQueued fileState = iota
	stateActive
	stateDone
	stateCached
	stateFailed
)

type fileRow struct {
	path     string
	state    fileState
	label    string
	fraction float64
}

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	phase   string
	width   int
	done    bool
	styles  styles
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model rendering the progress of a
// document build. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	st := defaultStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(st.active))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(60)),
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
		styles:  st,
	}
	for i, file := range files {
		m.rows[i] = fileRow{path: file, label: "queued"}
		m.byPath[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(10, msg.Width-4)
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// next waits for one build event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == buildpipeline.StatusWorking {
			m.phase = verb(ev.Stage)
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	switch ev.Status {
	case buildpipeline.StatusQueued:
		row.state, row.label = stateQueued, "queued"
	case buildpipeline.StatusWorking:
		row.state = stateActive
		row.label = verb(ev.Stage)
		if ev.Stage == buildpipeline.StageCompile && ev.Detail != "" {
			row.label = ev.Detail
		}
		row.fraction = max(row.fraction, stageFraction(ev.Stage, ev.Detail))
	case buildpipeline.StatusDone:
		// write завершает документ, остальные стадии - лишь шаг
		if ev.Stage == buildpipeline.StageWrite {
			row.state, row.label, row.fraction = stateDone, "done", 1
		} else {
			row.fraction = max(row.fraction, stageFraction(ev.Stage, ""))
		}
	case buildpipeline.StatusCached:
		row.state, row.label, row.fraction = stateCached, "cached", 1
	case buildpipeline.StatusError:
		row.state, row.label, row.fraction = stateFailed, "error", 1
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range m.rows {
		sum += row.fraction
	}
	return sum / float64(len(m.rows))
}

// tally counts rows per state.
func (m *progressModel) tally() map[fileState]int {
	counts := make(map[fileState]int, 5)
	for _, row := range m.rows {
		counts[row.state]++
	}
	return counts
}

var compileFractions = map[string]float64{
	compiler.StageReset:        0.15,
	compiler.StagePreprocess:   0.2,
	compiler.StageTokenize:     0.3,
	compiler.StageResolve:      0.45,
	compiler.StagePreRender:    0.55,
	compiler.StageRender:       0.65,
	compiler.StagePreStringify: 0.75,
	compiler.StageStringify:    0.8,
}

func stageFraction(stage buildpipeline.Stage, detail string) float64 {
	switch stage {
	case buildpipeline.StageRead:
		return 0.1
	case buildpipeline.StageCompile:
		if f, ok := compileFractions[detail]; ok {
			return f
		}
		return 0.15
	case buildpipeline.StageWrite:
		return 0.9
	case buildpipeline.StageCache:
		return 0.95
	}
	return 0
}

func verb(stage buildpipeline.Stage) string {
	switch stage {
	case buildpipeline.StageRead:
		return "reading"
	case buildpipeline.StageCompile:
		return "compiling"
	case buildpipeline.StageWrite:
		return "writing"
	case buildpipeline.StageCache:
		return "caching"
	}
	return ""
}
