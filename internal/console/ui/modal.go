package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

/**
 * @time: 2025/6/25
 * @file: modal.go
 * @description: 确认弹窗、输入表单与一次性密钥展示
 */

// modal is an exclusive overlay. While one is open it owns all key input.
type modal interface {
	update(msg tea.KeyMsg) (modal, tea.Cmd)
	view() string
}

// confirmModal asks before a destructive action runs.
type confirmModal struct {
	prompt string
	action func() tea.Cmd
}

func newConfirm(prompt string, action func() tea.Cmd) *confirmModal {
	return &confirmModal{prompt: prompt, action: action}
}

func (m *confirmModal) update(msg tea.KeyMsg) (modal, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return nil, m.action()
	case "n", "N", "esc":
		return nil, nil
	}
	return m, nil
}

func (m *confirmModal) view() string {
	var b strings.Builder
	b.WriteString(errStyle.Render(m.prompt))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("y confirm · n cancel"))
	return panelStyle.Render(b.String())
}

// formField is one labeled input of a form modal.
type formField struct {
	label string
	input textinput.Model
}

// formModal collects field values and submits them as one action.
type formModal struct {
	title  string
	fields []formField
	focus  int
	submit func(values []string) tea.Cmd
}

func newForm(title string, submit func(values []string) tea.Cmd, labels ...fieldSpec) *formModal {
	m := &formModal{title: title, submit: submit}
	for i, spec := range labels {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = 120
		in.SetValue(spec.initial)
		if i == 0 {
			in.Focus()
		}
		m.fields = append(m.fields, formField{label: spec.label, input: in})
	}
	return m
}

// fieldSpec declares one form field.
type fieldSpec struct {
	label   string
	initial string
}

func field(label string) fieldSpec              { return fieldSpec{label: label} }
func fieldWith(label, initial string) fieldSpec { return fieldSpec{label: label, initial: initial} }

func (m *formModal) update(msg tea.KeyMsg) (modal, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return nil, nil
	case "enter":
		if m.focus < len(m.fields)-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		values := make([]string, len(m.fields))
		for i, f := range m.fields {
			values[i] = strings.TrimSpace(f.input.Value())
		}
		return nil, m.submit(values)
	case "tab", "down":
		m.setFocus((m.focus + 1) % len(m.fields))
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + len(m.fields)) % len(m.fields))
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

func (m *formModal) setFocus(i int) {
	m.fields[m.focus].input.Blur()
	m.focus = i
	m.fields[m.focus].input.Focus()
}

func (m *formModal) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for _, f := range m.fields {
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter submit · tab next · esc cancel"))
	return panelStyle.Render(b.String())
}

// secretModal shows a freshly created credential exactly once. The value
// lives only in this overlay; closing it is final.
type secretModal struct {
	title    string
	username string
	secret   string
}

func (m *secretModal) update(msg tea.KeyMsg) (modal, tea.Cmd) {
	if msg.String() == "esc" || msg.String() == "enter" {
		return nil, nil
	}
	return m, nil
}

func (m *secretModal) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	if m.username != "" {
		b.WriteString(labelStyle.Render("username  "))
		b.WriteString(m.username)
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("secret    "))
	b.WriteString(secretStyle.Render(m.secret))
	b.WriteString("\n\n")
	b.WriteString(warnStyle.Render("copy it now, it will not be shown again"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter close"))
	return panelStyle.Render(b.String())
}
