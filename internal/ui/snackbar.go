package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// snackbar is a transient one-line message above everything else in the
// footer. Each show gets a fresh id so a stale expiry cannot hide a newer one.
type snackbar struct {
	id     int
	text   string
	danger bool
}

func (s snackbar) active() bool { return s.text != "" }

type snackbarExpiredMsg struct{ id int }

func (m *Model) showSnackbar(text string) tea.Cmd {
	return m.raiseSnackbar(text, false)
}

func (m *Model) showError(text string) tea.Cmd {
	return m.raiseSnackbar(text, true)
}

func (m *Model) raiseSnackbar(text string, danger bool) tea.Cmd {
	m.snackSeq++
	id := m.snackSeq
	m.snack = snackbar{id: id, text: text, danger: danger}
	return tea.Tick(SnackbarTimeout, func(time.Time) tea.Msg {
		return snackbarExpiredMsg{id: id}
	})
}

func (m *Model) dismissSnackbar() {
	m.snack = snackbar{}
}

func (m Model) renderSnackbar() string {
	styles := m.theme.Styles()
	style := styles.Snackbar
	if m.snack.danger {
		style = style.Background(styles.DangerText.GetForeground())
	}
	hint := "  esc"
	return style.Width(m.width).MaxWidth(m.width).Render(truncate(m.snack.text, max(m.width-len(hint)-2, 1)) + hint)
}
