// Package repl implements the interactive nex session.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexlang/nex/lang"
	"github.com/nexlang/nex/log"
)

const prompt = "➜ "

func helpMessage() string {
	return `
Commands:

  help     Print this cruft
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement to execute it (Let, Say, assignment, ...)
  Bindings persist across lines
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to dismiss candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// Repl starts an interactive session over a persistent engine scope.
type Repl struct {
	History   string `default:"${cache}/history.nex" help:"History file path."         type:"path"`
	LoopLimit int    `default:"10000"                help:"Loop iteration safety cap." name:"loop-limit"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	logger.TraceContext(ctx, "repl start",
		slog.String("history", r.History),
		slog.Int("loop_limit", r.LoopLimit),
	)

	session := lang.NewSession(
		lang.WithLoopLimit(r.LoopLimit),
		lang.WithLogger(logger),
	)

	history := NewHistory(r.History)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", r.History),
			slog.Any("error", err),
		)
	}

	m := newModel(ctx, session, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *lang.Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

func newModel(
	ctx context.Context,
	session *lang.Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyCtrlC:
		if strings.TrimSpace(m.input.Value()) == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.resetCompletion()
		m.historyIdx = m.history.Len()

		return m, nil

	case tea.KeyEnter:
		return m.handleEnter()

	case tea.KeyTab:
		return m.cycleCandidate(1)

	case tea.KeyShiftTab:
		return m.cycleCandidate(-1)

	case tea.KeyEsc:
		if m.tabActive {
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
		}

		m.resetCompletion()

		return m, nil

	case tea.KeyUp:
		return m.navigateHistory(-1)

	case tea.KeyDown:
		return m.navigateHistory(1)
	}

	m.tabActive = false

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = 0

	return m, cmd
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())

	m.input.SetValue("")
	m.resetCompletion()

	if line == "" {
		return m, nil
	}

	echo := formatCommand(line)

	if _, err := m.history.Write(line); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	switch line {
	case "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "clear":
		return m, tea.ClearScreen

	case "help":
		return m, tea.Println(echo + "\n" + hintStyle.Render(helpMessage()))
	}

	output, err := m.session.Exec(line)
	if err != nil {
		return m, tea.Println(
			echo + "\n" + errorStyle.Render("🗴 "+err.Error()),
		)
	}

	output = strings.TrimRight(output, "\n")
	if output == "" {
		return m, tea.Println(echo)
	}

	return m, tea.Println(echo + "\n" + resultStyle.Render(output))
}

// cycleCandidate advances the completion selection by delta, splicing the
// selected candidate over the current word.
func (m model) cycleCandidate(delta int) (tea.Model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	} else {
		m.suggIdx = (m.suggIdx + delta + len(m.matches)) % len(m.matches)
	}

	selected := m.matches[m.suggIdx].Str

	text := m.preTabText[:m.wordStart] + selected + m.preTabText[m.wordEnd:]
	m.input.SetValue(text)
	m.input.SetCursor(m.wordStart + len(selected))

	return m, nil
}

// navigateHistory moves through saved lines, clamping at both ends. Moving
// past the newest entry restores an empty input.
func (m model) navigateHistory(delta int) (tea.Model, tea.Cmd) {
	next := m.historyIdx + delta
	if next < 0 || next > m.history.Len() {
		return m, nil
	}

	m.historyIdx = next
	m.resetCompletion()

	if next == m.history.Len() {
		m.input.SetValue("")

		return m, nil
	}

	line, err := m.history.GetLine(next)
	if err != nil {
		return m, nil
	}

	m.input.SetValue(line)
	m.input.SetCursor(len(line))

	return m, nil
}

func (m *model) resetCompletion() {
	m.matches = nil
	m.candidates = nil
	m.suggIdx = 0
	m.tabActive = false
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		// Show history position indicator.
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).
				Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render(
			"Type a statement, or: help, clear, quit",
		))
		b.WriteString("\n")

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))
		b.WriteString("\n")

	default:
		b.WriteString("\n")
	}

	return b.String()
}
