// Package tui provides a Bubble Tea terminal user interface for photosite.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/handiism/photosite/internal/app"
	"github.com/handiism/photosite/internal/config"
	"github.com/handiism/photosite/internal/logger"
	"github.com/handiism/photosite/internal/site"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F4A261")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateBuilding
	StateComplete
	StateError
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

var errCancelled = errors.New("cancelled by user")

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Path    string
	Level   site.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	result   app.Result
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	app    *app.App
	events chan site.ProgressEvent

	done  int32
	total int32

	width  int
	height int
}

// NewModel creates a new TUI model with inputs prefilled from settings.
func NewModel(settings *config.Settings) Model {
	source := newInput("/home/me/photos", settings.Source)
	source.Focus()
	destination := newInput("/var/www/photos", settings.Destination)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4A261"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   []textinput.Model{source, destination},
		spinner:  sp,
		progress: prog,
		settings: settings,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 500
	ti.Width = 60
	ti.SetValue(value)
	return ti
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one build progress event.
	ProgressMsg struct {
		Event site.ProgressEvent
	}

	// BuildDoneMsg is sent when the build finishes.
	BuildDoneMsg struct {
		Result app.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateBuilding {
				m.cancel()
			}

		case "tab", "shift+tab", "up", "down":
			if m.state == StateInput {
				step := 1
				if msg.String() == "shift+tab" || msg.String() == "up" {
					step = len(m.inputs) - 1
				}
				m.inputs[m.focus].Blur()
				m.focus = (m.focus + step) % len(m.inputs)
				return m, m.inputs[m.focus].Focus()
			}

		case "enter":
			if m.state == StateInput && m.inputValue(0) != "" && m.inputValue(1) != "" {
				return m, m.startBuild()
			}

		case "ctrl+n":
			if m.state == StateInput {
				m.settings.DryRun = !m.settings.DryRun
			}

		case "ctrl+k":
			if m.state == StateInput {
				m.settings.KeepGoing = !m.settings.KeepGoing
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.settings.Verbose = !m.settings.Verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.result = app.Result{}
				m.done, m.total = 0, 0
				m.app = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				return m, m.inputs[m.focus].Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if m.events != nil {
			cmds = append(cmds, waitForEvent(m.events))
		}
		if msg.Event.Level == site.LevelVerbose && !m.settings.Verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Path:    msg.Event.Path,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case BuildDoneMsg:
		m.result = msg.Result
		m.events = nil
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.app != nil && m.state == StateBuilding {
			m.done, m.total = m.app.Progress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) inputValue(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

func (m Model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Photosite"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Build a static photo website"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateBuilding:
		b.WriteString(m.viewBuilding())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Source directory:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Website root:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[1].View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Dry run (ctrl+n)\n", check(m.settings.DryRun)))
	b.WriteString(fmt.Sprintf("  %s Keep going after failures (ctrl+k)\n", check(m.settings.KeepGoing)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", check(m.settings.Verbose)))

	return b.String()
}

func check(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewBuilding() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Building " + m.inputValue(1)))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Nodes: %d/%d", m.done, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	res := m.result
	heading := "Build complete"
	if m.settings.DryRun {
		heading = "Dry run complete"
	}
	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Albums: %d\n"+
			"Images: %d (%d updated)\n"+
			"Previews: %d\n"+
			"Pages: %d\n"+
			"Removed: %d\n"+
			"Written: %s\n"+
			"Time: %s",
		heading,
		res.Albums,
		res.Images, res.Stats.Images,
		res.Stats.Previews,
		res.Stats.Pages,
		res.Stats.Deleted,
		humanize.Bytes(uint64(res.Stats.BytesWritten)),
		res.Elapsed.Round(time.Millisecond),
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Build failed:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case site.LevelError:
			style = errorStyle
			prefix = "✗"
		case site.LevelWarning:
			style = warningStyle
			prefix = "!"
		case site.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case site.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		line := prefix + " " + log.Message
		if log.Path != "" {
			line += " " + dimStyle.Render(log.Path)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: build • tab: next field • ctrl+n: dry run • ctrl+k: keep going • ctrl+v: verbose • esc: quit"
	case StateBuilding:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new build • q: quit"
	}
	return ""
}

// startBuild creates the App from the inputs and runs it in the background.
// Progress events are delivered through a channel; node counts are polled.
func (m *Model) startBuild() tea.Cmd {
	m.settings.Source = m.inputValue(0)
	m.settings.Destination = m.inputValue(1)

	events := make(chan site.ProgressEvent, 64)
	a, err := app.New(m.settings, logger.Nop(), func(event site.ProgressEvent) {
		select {
		case events <- event:
		default:
			// The log tail is best effort; never stall the build on it.
		}
	})
	if err != nil {
		m.state = StateError
		m.err = err
		return nil
	}

	m.app = a
	m.events = events
	m.state = StateBuilding

	ctx := m.ctx
	run := func() tea.Msg {
		res, err := a.Run(ctx)
		close(events)
		return BuildDoneMsg{Result: res, Err: err}
	}
	return tea.Batch(run, waitForEvent(events), m.tickProgress(), m.spinner.Tick)
}

func waitForEvent(events <-chan site.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
