package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ti84 "github.com/ianjrobertson/ti84"
	"github.com/ianjrobertson/ti84/ast"
	"github.com/ianjrobertson/ti84/runtime"
)

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
)

type displayMsg struct {
	text string
}

type inputReqMsg struct {
	prompt string
	resp   chan string
}

type progDoneMsg struct {
	err error
}

type model struct {
	st       *runtime.State
	viewport viewport.Model
	input    textinput.Model
	lines    []string
	ready    bool
	running  bool
	interp   *runtime.Interp
	events   chan tea.Msg
	pending  *inputReqMsg
}

func runTUI(st *runtime.State) error {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 1024
	ti.Focus()
	m := model{st: st, input: ti}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func waitEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-2)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 2
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.running && m.interp != nil {
				m.interp.Cancel()
				if m.pending != nil {
					m.pending.resp <- ""
					m.pending = nil
					m.input.Prompt = "> "
					return m, waitEvent(m.events)
				}
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	case displayMsg:
		m.append(msg.text)
		return m, waitEvent(m.events)
	case inputReqMsg:
		m.pending = &msg
		m.input.Prompt = promptStyle.Render(msg.prompt + " ")
		return m, nil
	case progDoneMsg:
		m.running = false
		m.interp = nil
		m.input.Prompt = "> "
		if msg.err != nil {
			m.append(errStyle.Render(formatErr(msg.err)))
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if m.pending != nil {
		req := m.pending
		m.pending = nil
		m.input.Prompt = "> "
		m.append(req.prompt + " " + text)
		req.resp <- text
		return m, waitEvent(m.events)
	}
	if text == "" || m.running {
		return m, nil
	}
	m.append(promptStyle.Render("> ") + text)

	if name, ok := strings.CutPrefix(text, "prgm "); ok {
		return m.startProgram(strings.ToUpper(strings.TrimSpace(name)))
	}

	v, err := ti84.Eval(m.st, text)
	if err != nil {
		m.append(errStyle.Render(formatErr(err)))
	} else {
		m.append(resultStyle.Render(v.String()))
	}
	return m, nil
}

func (m model) startProgram(name string) (tea.Model, tea.Cmd) {
	events := make(chan tea.Msg, 64)
	interp := runtime.NewInterp(m.st, &teaTerm{events: events})
	m.events = events
	m.interp = interp
	m.running = true
	go func() {
		err := interp.Run(name)
		events <- progDoneMsg{err: err}
	}()
	return m, waitEvent(events)
}

func (m *model) append(line string) {
	m.lines = append(m.lines, line)
	m.refresh()
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return "starting"
	}
	return m.viewport.View() + "\n" + m.input.View()
}

// teaTerm routes the interpreter's I/O through the bubbletea event loop:
// outputs post messages, inputs block the program goroutine on a reply
// channel the Update loop answers.
type teaTerm struct {
	events chan tea.Msg
}

func (t *teaTerm) emit(text string) {
	t.events <- displayMsg{text: text}
}

func (t *teaTerm) ask(prompt string) (string, error) {
	resp := make(chan string, 1)
	t.events <- inputReqMsg{prompt: prompt, resp: resp}
	return <-resp, nil
}

func (t *teaTerm) Display(text string) {
	t.emit(text)
}

func (t *teaTerm) Output(row, col int, text string) {
	t.emit(fmt.Sprintf("%*s", col-1+len(text), text))
}

func (t *teaTerm) Input(prompt string) (string, error) {
	return t.ask(prompt)
}

func (t *teaTerm) Pause(string) error {
	_, err := t.ask("[enter]")
	return err
}

func (t *teaTerm) GetKey() (int, error) {
	text, err := t.ask("key?")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (t *teaTerm) ClearHome() {}

func (t *teaTerm) ShowMenu(title string, entries []ast.MenuEntry) (string, error) {
	t.emit(title)
	for i, e := range entries {
		t.emit(fmt.Sprintf("%d: %s", i+1, e.Text))
	}
	for {
		text, err := t.ask("?")
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err == nil && n >= 1 && n <= len(entries) {
			return entries[n-1].Label, nil
		}
	}
}

func (t *teaTerm) DrawLine(x1, y1, x2, y2 float64) {
	t.emit(fmt.Sprintf("line (%g,%g)-(%g,%g)", x1, y1, x2, y2))
}

func (t *teaTerm) DrawCircle(x, y, r float64) {
	t.emit(fmt.Sprintf("circle (%g,%g) r=%g", x, y, r))
}

func (t *teaTerm) DrawText(row, col int, text string) {
	t.emit(text)
}

func (t *teaTerm) PlotPoint(x, y float64, on bool) {
	t.emit(fmt.Sprintf("point (%g,%g) %v", x, y, on))
}

func (t *teaTerm) ClearDraw() {}
