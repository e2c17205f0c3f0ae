package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/zhaohua/mpconsole/internal/jsontable"
)

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search..."
	ti.CharLimit = 256
	return ti
}

// filterItems keeps the items with a primitive value containing query,
// case-insensitively. Filtering happens before the render pass.
func filterItems(items []*jsontable.Object, query string) []*jsontable.Object {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]*jsontable.Object, 0, len(items))
	for _, item := range items {
		if matchesQuery(item, q) {
			out = append(out, item)
		}
	}
	return out
}

func matchesQuery(item *jsontable.Object, q string) bool {
	found := false
	item.Range(func(_ string, v jsontable.Value) bool {
		if v.IsPrimitive() && strings.Contains(strings.ToLower(v.Content()), q) {
			found = true
			return false
		}
		return true
	})
	return found
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	m.searching = true
	m.search.SetValue(m.query)
	m.search.CursorEnd()
	m.search.Width = max(m.width/3, 10)
	cmd := m.search.Focus()
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.query = strings.TrimSpace(m.search.Value())
		m.rebuildTable()
		if m.query == "" {
			cmd := m.showSnackbar("Search cleared")
			return m, cmd
		}
		m.logger.Debug("search applied", zap.String("query", m.query), zap.Int("matches", len(m.visible)))
		cmd := m.showSnackbar(fmt.Sprintf("Searching `%s`: %d of %d items", m.query, len(m.visible), m.total))
		return m, cmd

	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		if m.query != "" {
			m.query = ""
			m.rebuildTable()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) renderTopBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	title := "MPConsole"
	if !m.permanentDrawer() {
		title = "≡ " + title
	}
	left := bg.Render(" "+title+" ", styles.Title)

	var search string
	switch {
	case m.searching:
		search = m.search.View()
	case m.query != "":
		search = bg.Render("/ "+truncate(m.query, max(m.width/3, 10)), styles.AccentText)
	default:
		search = bg.Render("/ Search...", styles.FaintText)
	}

	right := bg.Render(m.theme.Name+" ", styles.FaintText)
	return bg.Split(bg.Join([]string{left, search}, "  "), right, m.width)
}
