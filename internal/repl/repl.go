// Package repl implements the interactive console. Lines are submitted to
// the dispatch queue; outcomes and live dispatch events render in a
// BubbleTea transcript view.
package repl

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ProfessorXZ/Headquarters/internal/events"
	"github.com/ProfessorXZ/Headquarters/internal/exec"
	"github.com/ProfessorXZ/Headquarters/internal/token"

	"github.com/google/uuid"
)

// Submitter is the queue surface the console needs.
type Submitter interface {
	Submit(text string, env map[string]any, cb exec.Callback) (uuid.UUID, error)
}

const maxTranscript = 200

type entry struct {
	seq     uint64
	id      uuid.UUID
	input   string
	pending bool
	outcome exec.Outcome
	output  string
	errText string
}

type resultMsg struct {
	seq     uint64
	outcome exec.Outcome
	payload any
}

type eventMsg events.Event

// Model is the BubbleTea model for the console.
type Model struct {
	queue Submitter
	hub   *events.Hub

	input   textinput.Model
	entries []entry

	results  chan resultMsg
	nextSeq  uint64
	missed   atomic.Int64
	hubCh    <-chan events.Event
	hubStop  func()
	activity string

	theme  Theme
	width  int
	height int
}

// New creates a console model over queue. hub may be nil.
func New(queue Submitter, hub *events.Hub, prompt string) *Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = "type a command, pipe with |"
	ti.Focus()

	return &Model{
		queue:   queue,
		hub:     hub,
		input:   ti,
		results: make(chan resultMsg, 64),
		theme:   NewDefaultTheme(),
	}
}

// Run blocks until the user quits the console.
func Run(queue Submitter, hub *events.Hub, prompt string) error {
	m := New(queue, hub, prompt)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.awaitResult()}
	if m.hub != nil {
		ch, cancel := m.hub.Subscribe()
		m.hubCh = ch
		m.hubStop = cancel
		cmds = append(cmds, m.awaitEvent())
	}
	return tea.Batch(cmds...)
}

func (m *Model) awaitResult() tea.Cmd {
	return func() tea.Msg { return <-m.results }
}

func (m *Model) awaitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.hubCh
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.hubStop != nil {
				m.hubStop()
			}
			return m, tea.Quit
		case "enter":
			return m, m.submitLine()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case resultMsg:
		m.applyResult(msg)
		return m, m.awaitResult()

	case eventMsg:
		m.activity = fmt.Sprintf("%s %s", msg.Type, msg.Input)
		return m, m.awaitEvent()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitLine() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return nil
	}
	m.input.Reset()

	m.nextSeq++
	seq := m.nextSeq

	id, err := m.queue.Submit(line, nil, func(o exec.Outcome, payload any) {
		// Runs on an executor goroutine; hand off to the UI loop
		// without ever blocking the executor on it.
		select {
		case m.results <- resultMsg{seq: seq, outcome: o, payload: payload}:
		default:
			m.missed.Add(1)
		}
	})
	e := entry{seq: seq, input: line, pending: true}
	if err != nil {
		e.pending = false
		e.outcome = exec.OutcomeFailure
		e.errText = err.Error()
	} else {
		e.id = id
	}
	m.push(e)
	return nil
}

// applyResult resolves the entry the result belongs to. Submissions can
// finish out of order, so matching is by sequence, not position.
func (m *Model) applyResult(msg resultMsg) {
	idx := -1
	for i := range m.entries {
		if m.entries[i].pending && m.entries[i].seq == msg.seq {
			idx = i
			break
		}
	}
	if idx < 0 {
		// The entry aged out of the transcript before its result landed.
		return
	}

	e := &m.entries[idx]
	e.pending = false
	e.outcome = msg.outcome
	switch p := msg.payload.(type) {
	case token.Value:
		if !p.IsNone() {
			e.output = p.Text()
		}
	case error:
		e.errText = p.Error()
	}
}

func (m *Model) push(e entry) {
	m.entries = append(m.entries, e)
	if len(m.entries) > maxTranscript {
		m.entries = m.entries[len(m.entries)-maxTranscript:]
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("hq console"))
	b.WriteString("\n\n")

	visible := m.entries
	if max := m.height - 6; max > 0 && len(visible) > max {
		visible = visible[len(visible)-max:]
	}
	for _, e := range visible {
		b.WriteString(m.theme.Prompt.Render("> "))
		b.WriteString(e.input)
		b.WriteString("\n")
		b.WriteString(m.renderResult(e))
	}

	if m.activity != "" {
		b.WriteString(m.theme.Dim.Render(m.activity))
		b.WriteString("\n")
	}
	if n := m.missed.Load(); n > 0 {
		b.WriteString(m.theme.Failure.Render(fmt.Sprintf("%d result(s) missed", n)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (m *Model) renderResult(e entry) string {
	if e.pending {
		return m.theme.Pending.Render("  ...") + "\n"
	}
	switch e.outcome {
	case exec.OutcomeSuccess:
		if e.output == "" {
			return m.theme.Success.Render("  ok") + "\n"
		}
		out := strings.ReplaceAll(e.output, "\n", "\n  ")
		return m.theme.Success.Render("  "+out) + "\n"
	case exec.OutcomeUnhandled:
		return m.theme.Dim.Render("  no such command") + "\n"
	default:
		return m.theme.Failure.Render("  error: "+e.errText) + "\n"
	}
}
