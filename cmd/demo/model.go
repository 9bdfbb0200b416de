package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/nfw/app"
	"github.com/yourusername/nfw/view"
)

var (
	colorText     = lipgloss.Color("#cdd6f4")
	colorFocus    = lipgloss.Color("#b4befe")
	colorSubtle   = lipgloss.Color("#7f849c")
	colorError    = lipgloss.Color("#f38ba8")
	colorDisabled = lipgloss.Color("#585b70")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	labelStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(0, 1)
	focusStyle  = boxStyle.BorderForeground(colorFocus)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	footerStyle = lipgloss.NewStyle().Foreground(colorSubtle)
)

// typer is a widget that takes text
type typer interface {
	Type(value string)
}

// clicker is a widget that can be pressed
type clicker interface {
	Click()
}

// enabler is a clicker that can be disabled
type enabler interface {
	Enabled() bool
}

type model struct {
	controller *app.Controller
	surfaces   view.Surfaces
	ids        []string
	focusable  []string
	focus      int
	width      int
}

func newModel(c *app.Controller, surfaces view.Surfaces, ids []string) model {
	m := model{controller: c, surfaces: surfaces, ids: ids, width: 60}
	for _, id := range ids {
		comp, ok := c.Component(id)
		if !ok {
			continue
		}
		switch comp.(type) {
		case typer, clicker:
			m.focusable = append(m.focusable, id)
		}
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) focused() string {
	if len(m.focusable) == 0 {
		return ""
	}
	return m.focusable[m.focus]
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-4, 20)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			if n := len(m.focusable); n > 0 {
				m.focus = (m.focus + 1) % n
			}
			return m, nil
		case "shift+tab", "up":
			if n := len(m.focusable); n > 0 {
				m.focus = (m.focus + n - 1) % n
			}
			return m, nil
		}

		comp, ok := m.controller.Component(m.focused())
		if !ok {
			return m, nil
		}

		switch w := comp.(type) {
		case typer:
			current, _ := m.surfaces.Read(m.focused())
			switch msg.Type {
			case tea.KeyBackspace:
				if r := []rune(current); len(r) > 0 {
					w.Type(string(r[:len(r)-1]))
				}
			case tea.KeyRunes, tea.KeySpace:
				w.Type(current + string(msg.Runes))
			}
		case clicker:
			if msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace {
				w.Click()
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("nfw · "+m.controller.Namespace()) + "\n\n")

	for _, id := range m.ids {
		b.WriteString(labelStyle.Render(id) + "\n")

		comp, ok := m.controller.Component(id)
		if !ok {
			b.WriteString(errorStyle.Render("  component not created") + "\n\n")
			continue
		}

		content, err := m.surfaces.Read(id)
		if err != nil {
			content = errorStyle.Render(err.Error())
		}

		style := boxStyle
		if id == m.focused() {
			style = focusStyle
		}
		if e, ok := comp.(enabler); ok && !e.Enabled() {
			style = style.Foreground(colorDisabled)
		} else {
			style = style.Foreground(colorText)
		}
		if _, ok := comp.(clicker); ok {
			content = "[ " + id + " ] " + content
		}

		b.WriteString(style.Width(m.width).Render(strings.TrimRight(content, "\n")) + "\n")
	}

	b.WriteString("\n" + footerStyle.Render("tab/↑↓ focus  type to edit  enter click  esc quit"))
	return b.String()
}
