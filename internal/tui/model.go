package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"famedia/internal/domain"
	"famedia/internal/presentation"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseDone
	PhaseAborted
)

const recentLimit = 8

// Messages for the TUI
type (
	EventMsg struct {
		Event domain.Event
	}
	// StreamClosedMsg is sent once the event channel is drained.
	StreamClosedMsg struct{}
	tickMsg         time.Time
)

type Config struct {
	AppName   string
	SourceDir string
	TargetDir string
	Move      bool
	Verbose   bool
	// Events delivers the batch progress and is closed when the batch ends.
	Events <-chan domain.Event
}

// Model is the main TUI model
type Model struct {
	config   Config
	Phase    Phase
	Summary  presentation.Summary
	spinner  spinner.Model
	progress progress.Model
	index    int
	total    int
	current  string
	recent   []domain.Event
	Quitting bool
	width    int
	height   int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseRunning,
		spinner:  s,
		progress: p,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd(), waitForEvent(m.config.Events))
}

// waitForEvent turns the next event of ch into a message.
func waitForEvent(ch <-chan domain.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return StreamClosedMsg{}
		}
		return EventMsg{Event: ev}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		case "enter":
			if m.Phase != PhaseRunning {
				return m, tea.Quit
			}
		}

	case EventMsg:
		m.apply(msg.Event)
		return m, waitForEvent(m.config.Events)

	case StreamClosedMsg:
		if m.Phase == PhaseRunning {
			// The batch ended without a final event, e.g. after cancellation.
			m.Phase = PhaseAborted
		}
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseRunning {
			var cmds []tea.Cmd
			if m.total > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.index)/float64(m.total)))
			}
			cmds = append(cmds, tickCmd())
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func (m *Model) apply(ev domain.Event) {
	m.Summary.Add(ev)
	if ev.Total > 0 {
		m.index, m.total = ev.Index, ev.Total
		m.current = ev.File
	}

	if ev.Kind != domain.EventMetadata || m.config.Verbose {
		m.recent = append(m.recent, ev)
		if len(m.recent) > recentLimit {
			m.recent = m.recent[len(m.recent)-recentLimit:]
		}
	}

	switch ev.Kind {
	case domain.EventCompleted:
		m.Phase = PhaseDone
		m.index = m.total
	case domain.EventAborted:
		m.Phase = PhaseAborted
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseRunning:
		b.WriteString(m.renderProgress())
		b.WriteString("\n")
		b.WriteString(m.renderRecent())
	case PhaseDone, PhaseAborted:
		b.WriteString(m.renderRecent())
		b.WriteString("\n")
		b.WriteString(m.renderCompletion())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	name := m.config.AppName
	if name == "" {
		name = "Family Media Processor"
	}
	title := titleStyle.Render(fmt.Sprintf("%s %s", iconCamera, name))
	subtitle := subtitleStyle.Render("Names in, metadata out")

	lines := []string{
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.SourceDir))),
	}
	if m.config.Move {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s Archive: %s", iconFolder, shortenPath(m.config.TargetDir))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderProgress() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Processing"))
	b.WriteString("\n\n")

	if m.total == 0 {
		b.WriteString(fmt.Sprintf("  %s Selecting files...\n", m.spinner.View()))
		return b.String()
	}

	percent := float64(m.index) / float64(m.total)
	b.WriteString(fmt.Sprintf("  %s Processing...\n\n", m.spinner.View()))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.index, m.total)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.current != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconArrow, fileNameStyle.Render(m.current)))
	}
	return b.String()
}

func (m Model) renderRecent() string {
	if len(m.recent) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Log"))
	b.WriteString("\n\n")
	for _, ev := range m.recent {
		b.WriteString("  ")
		b.WriteString(formatEvent(ev))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder

	if m.Phase == PhaseAborted {
		b.WriteString(sectionStyle.Render("Ended Early"))
	} else {
		b.WriteString(sectionStyle.Render("Complete"))
	}
	b.WriteString("\n\n")

	final := m.Summary.Final
	if final == "" {
		final = "Processing stopped."
	}
	if m.Phase == PhaseAborted {
		b.WriteString(highlightBoxStyle.BorderForeground(errorColor).
			Render(fmt.Sprintf("%s %s", errorStyle.Render(iconError), errorStyle.Render(final))))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s", successStyle.Render(iconSuccess), successStyle.Render(final)))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Files processed:"), statValueStyle.Render(fmt.Sprintf("%d", m.Summary.Processed))))
	if m.Summary.Deleted > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Files deleted:"), dimStyle.Render(fmt.Sprintf("%s %d", iconDeleted, m.Summary.Deleted))))
	}
	if len(m.Summary.Warnings) > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Warnings:"), warningStyle.Render(fmt.Sprintf("%s %d", iconWarning, len(m.Summary.Warnings)))))
	}
	return b.String()
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseRunning:
		help = "Processing files... q to stop"
	default:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

func formatEvent(ev domain.Event) string {
	msg := strings.TrimSpace(ev.Message)
	switch ev.Kind {
	case domain.EventSuccess, domain.EventCompleted:
		return fmt.Sprintf("%s %s", successStyle.Render(iconSuccess), msg)
	case domain.EventWarning:
		return warningStyle.Render(fmt.Sprintf("%s %s", iconWarning, msg))
	case domain.EventError, domain.EventAborted:
		return errorStyle.Render(fmt.Sprintf("%s %s", iconError, msg))
	case domain.EventDeleted:
		return dimStyle.Render(fmt.Sprintf("%s %s", iconDeleted, msg))
	case domain.EventMetadata:
		return metadataStyle.Render(fmt.Sprintf("%s %s", iconMetadata, strings.ReplaceAll(msg, "\n", "\n    ")))
	default:
		return dimStyle.Render(fmt.Sprintf("%s %s", iconInfo, msg))
	}
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
