// Package tui is the terminal chat front end.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookbot/internal/chat"
	"bookbot/internal/schedule"
)

var (
	titleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1).
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

type replyMsg struct {
	text string
	err  error
}

type Model struct {
	service *chat.Service
	rules   schedule.Rules

	viewport viewport.Model
	input    textinput.Model
	lines    []string
	waiting  bool
	ready    bool
	quitting bool
}

func NewModel(service *chat.Service, rules schedule.Rules) Model {
	ti := textinput.New()
	ti.Placeholder = `Try "book tomorrow at 2 PM"`
	ti.Focus()
	ti.CharLimit = 280

	return Model{
		service: service,
		rules:   rules,
		input:   ti,
		lines: []string{
			botStyle.Render("Assistant: ") +
				"Hi! I book appointments (" + rules.HoursDisplay() + "). Ask away.",
		},
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.input.Width = msg.Width - 4
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			if text == "/clear" {
				m.service.Clear()
				m.lines = m.lines[:1]
				m.input.Reset()
				m.refresh()
				return m, nil
			}
			m.lines = append(m.lines, userStyle.Render("You: ")+text)
			m.input.Reset()
			m.waiting = true
			m.refresh()
			return m, m.send(text)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, errStyle.Render("Error: ")+msg.err.Error())
		} else {
			m.lines = append(m.lines, botStyle.Render("Assistant: ")+msg.text)
		}
		m.refresh()
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

func (m Model) View() string {
	if m.quitting {
		return "Bye!\n"
	}
	if !m.ready {
		return "Starting..."
	}
	prompt := m.input.View()
	if m.waiting {
		prompt = helpStyle.Render("thinking...")
	}
	return titleStyle.Render("Booking Assistant") + "\n\n" +
		m.viewport.View() + "\n\n" +
		prompt + "\n" +
		helpStyle.Render("enter: send · /clear: reset · esc: quit")
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n\n"))
	m.viewport.GotoBottom()
}

func (m Model) send(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		reply, err := m.service.Send(ctx, text)
		if err != nil {
			return replyMsg{err: err}
		}
		return replyMsg{text: reply.Text}
	}
}

// Run starts the interactive chat screen.
func Run(service *chat.Service, rules schedule.Rules) error {
	p := tea.NewProgram(NewModel(service, rules), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
