// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typecard/internal/model"
	"github.com/verte-zerg/typecard/internal/session"
	"github.com/verte-zerg/typecard/internal/share"
	"github.com/verte-zerg/typecard/internal/stats"
)

const (
	defaultContentWidth = 60
	challengeNotice     = "Challenge feature coming soon!"
)

type tickMsg struct {
	gen int
}

type sharedMsg struct {
	outcome share.Outcome
	err     error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config  model.Config
	session *session.Session
	input   textinput.Model
	keys    keyMap
	help    help.Model
	opener  share.Opener
	now     func() time.Time

	width  int
	height int

	notice    string
	noticeErr bool

	last    model.Stats
	hasLast bool
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F2937")).Bold(true)
	timerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	samplePanel    = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#818CF8"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9333EA"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tileStyle   = lipgloss.NewStyle().
			Padding(0, 2).
			Margin(0, 1).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder(), true)
)

type tileSpec struct {
	label  string
	value  string
	accent lipgloss.Color
	strong lipgloss.Color
}

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, opener share.Opener) *Model {
	if cfg.Sample == "" {
		cfg.Sample = model.SampleText
	}
	input := textinput.New()
	input.Placeholder = "Start typing..."
	input.Prompt = "› "
	input.CharLimit = len([]rune(cfg.Sample))
	input.Focus()

	return &Model{
		config:  cfg,
		session: session.New(cfg.Sample),
		input:   input,
		keys:    newKeyMap(),
		help:    help.New(),
		opener:  opener,
		now:     time.Now,
	}
}

// Result returns the most recent completed result, if any.
func (m *Model) Result() (model.Stats, bool) {
	return m.last, m.hasLast
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.session.Tick(msg.gen) {
			return m, tick(msg.gen)
		}
		return m, nil
	case sharedMsg:
		m.handleShared(msg)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			return m, m.reset()
		case key.Matches(msg, m.keys.Share):
			return m, m.share()
		case key.Matches(msg, m.keys.Challenge):
			m.setNotice(challengeNotice, false)
			return m, nil
		}
		if m.session.Phase() == session.Complete {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, tea.Batch(cmd, m.syncInput())
}

// syncInput feeds the input control's value into the session and writes
// back the truncated value.
func (m *Model) syncInput() tea.Cmd {
	value := m.input.Value()
	if value == m.session.Input() {
		return nil
	}
	var cmd tea.Cmd
	switch m.session.Change(value, m.now()) {
	case session.Started:
		cmd = tick(m.session.TimerGen())
	case session.Completed:
		m.complete()
	}
	if m.input.Value() != m.session.Input() {
		m.input.SetValue(m.session.Input())
	}
	return cmd
}

func (m *Model) complete() {
	m.input.Blur()
	st, ok := m.session.Stats()
	if !ok {
		return
	}
	m.last = st
	m.hasLast = true
	m.keys.setResultAvailable(true)
}

func (m *Model) reset() tea.Cmd {
	m.session.Reset()
	m.input.Reset()
	m.keys.setResultAvailable(false)
	m.notice = ""
	m.noticeErr = false
	return m.input.Focus()
}

func (m *Model) share() tea.Cmd {
	st, ok := m.session.Stats()
	if !ok || m.opener == nil {
		return nil
	}
	link := share.ComposeLink(m.config.ComposeURL, st)
	opener := m.opener
	return func() tea.Msg {
		outcome, err := opener.Deliver(link)
		return sharedMsg{outcome: outcome, err: err}
	}
}

func (m *Model) handleShared(msg sharedMsg) {
	if msg.err != nil {
		m.setNotice(fmt.Sprintf("Share failed: %v", msg.err), true)
		return
	}
	if msg.outcome == share.Copied {
		m.setNotice("No browser available; share link copied to clipboard.", false)
		return
	}
	m.setNotice("Opened share link in your browser.", false)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := defaultContentWidth
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 20 {
			contentWidth = 20
		}
	}

	sections := []string{
		m.renderHeader(contentWidth),
		m.renderSample(contentWidth),
		m.input.View(),
	}
	if st, ok := m.session.Stats(); ok {
		sections = append(sections, renderTiles(st))
	}
	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.notice))
	}
	sections = append(sections, m.help.View(m.keys))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderHeader(width int) string {
	title := titleStyle.Render("Typing Speed Test")
	timer := timerStyle.Render("⏱ " + stats.FormatClock(m.session.Elapsed()))
	gap := width - lipgloss.Width(title) - lipgloss.Width(timer)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + timer
}

func (m *Model) renderSample(width int) string {
	sample := []rune(m.session.Sample())
	cursor := -1
	if m.session.Phase() != session.Complete {
		cursor = len([]rune(m.session.Input()))
	}
	inner := width - samplePanel.GetHorizontalFrameSize()
	runes := buildStyledRunes(sample, m.session.Marks(), cursor)
	return samplePanel.Width(width - samplePanel.GetHorizontalBorderSize()).Render(wrapStyledRunes(runes, inner))
}

func renderTiles(st model.Stats) string {
	specs := []tileSpec{
		{label: "WPM", value: fmt.Sprintf("%d", st.WPM), accent: "#4F46E5", strong: "#3730A3"},
		{label: "Accuracy", value: fmt.Sprintf("%d%%", st.Accuracy), accent: "#16A34A", strong: "#166534"},
		{label: "Time", value: fmt.Sprintf("%ds", st.Seconds), accent: "#9333EA", strong: "#6B21A8"},
	}
	tiles := make([]string, 0, len(specs))
	for _, spec := range specs {
		label := lipgloss.NewStyle().Foreground(spec.accent).Render(spec.label)
		value := lipgloss.NewStyle().Foreground(spec.strong).Bold(true).Render(spec.value)
		tiles = append(tiles, tileStyle.BorderForeground(spec.accent).Render(label+"\n"+value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}
