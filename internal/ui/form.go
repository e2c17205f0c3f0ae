package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhaohua/mpconsole/internal/jsontable"
	"github.com/zhaohua/mpconsole/internal/sizes"
)

// creationForm has one input per column that is not hidden in creation.
type creationForm struct {
	columns []jsontable.ColumnConfig
	inputs  []textinput.Model
	focus   int
	err     string
}

func newCreationForm(conf jsontable.TableConfig) *creationForm {
	cols := conf.CreationColumns()
	inputs := make([]textinput.Model, len(cols))
	for i, c := range cols {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = c.DisplayLabel()
		ti.CharLimit = 1024
		ti.Width = FormWidth - 24
		inputs[i] = ti
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return &creationForm{columns: cols, inputs: inputs}
}

// values returns the input text keyed by column key.
func (f *creationForm) values() map[string]string {
	out := make(map[string]string, len(f.columns))
	for i, c := range f.columns {
		out[c.Key] = f.inputs[i].Value()
	}
	return out
}

func (f *creationForm) move(delta int) tea.Cmd {
	n := len(f.inputs)
	if n == 0 {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = ((f.focus+delta)%n + n) % n
	return f.inputs[f.focus].Focus()
}

func (f *creationForm) onLast() bool {
	return f.focus >= len(f.inputs)-1
}

func (f *creationForm) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	m.form = newCreationForm(sizes.WatchColumns())
	return m, textinput.Blink
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil
	case "tab", "down":
		return m, m.form.move(1)
	case "shift+tab", "up":
		return m, m.form.move(-1)
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.form.onLast() {
			return m.submitForm()
		}
		return m, m.form.move(1)
	}
	return m, m.form.update(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	watch := sizes.WatchFromValues(m.form.values())
	if err := watch.Validate(); err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.form = nil
	return m, m.addWatch(watch)
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("New watch directory"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", FormWidth-8)))
	b.WriteString("\n\n")

	for i, c := range f.columns {
		label := padRight(c.DisplayLabel(), 18)
		style := styles.MutedText
		if i == f.focus {
			style = styles.AccentText
		}
		b.WriteString(style.Render(label))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab next · enter submit on last field · esc cancel"))

	modal := styles.Modal.Width(FormWidth).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
