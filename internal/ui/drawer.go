package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/zhaohua/mpconsole/internal/prefs"
)

// Page keys shown in the drawer.
const (
	pageHome     = "home"
	pageSettings = "settings"
	pageLargest  = "largest"
	pageProgress = "progress"
	pageLogs     = "logs"
)

// drawerItem is one navigation entry. Key selects the page supplier.
type drawerItem struct {
	Key   string
	Label string
	Icon  string
}

func defaultDrawerItems() []drawerItem {
	return []drawerItem{
		{Key: pageHome, Label: "Home", Icon: "⌂"},
		{Key: pageSettings, Label: "Settings", Icon: "⚙"},
		{Key: pageLargest, Label: "Largest", Icon: "▦"},
		{Key: pageProgress, Label: "Progress", Icon: "◔"},
		{Key: pageLogs, Label: "Logs", Icon: "☰"},
	}
}

// PageKeys lists the drawer page keys in display order.
func PageKeys() []string {
	items := defaultDrawerItems()
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	return keys
}

// permanentDrawer reports whether the terminal is wide enough to dock the drawer.
func (m Model) permanentDrawer() bool {
	return m.width >= LayoutPermanentDrawerWidth
}

func (m Model) drawerVisible() bool {
	return m.permanentDrawer() || m.drawerOpen
}

func (m Model) currentItem() (drawerItem, bool) {
	if m.selected < 0 || m.selected >= len(m.items) {
		return drawerItem{}, false
	}
	return m.items[m.selected], true
}

func (m Model) indexOfPage(key string) int {
	for i, it := range m.items {
		if it.Key == key {
			return i
		}
	}
	return -1
}

// selectItem switches the page, closes a modal drawer and remembers the page.
func (m *Model) selectItem(i int) tea.Cmd {
	if i < 0 || i >= len(m.items) {
		return nil
	}
	item := m.items[i]
	m.selected = i
	m.drawerCursor = i
	m.drawerOpen = false
	m.query = ""
	m.search.SetValue("")
	m.rebuildTable()
	m.savePrefs()
	m.logger.Debug("page selected", zap.String("page", item.Key))

	return m.pageLoadCmd(item.Key)
}

func (m *Model) cyclePage(delta int) tea.Cmd {
	n := len(m.items)
	if n == 0 {
		return nil
	}
	next := 0
	if m.selected >= 0 {
		next = ((m.selected+delta)%n + n) % n
	}
	return m.selectItem(next)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name}
	if item, ok := m.currentItem(); ok {
		p.LastPage = item.Key
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

func (m Model) handleDrawerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.drawerCursor > 0 {
			m.drawerCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.drawerCursor < len(m.items)-1 {
			m.drawerCursor++
		}
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.selectItem(m.drawerCursor)
		return m, cmd
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ToggleDrawer):
		m.drawerOpen = false
		m.rebuildTable()
	default:
		if i, ok := digitIndex(msg); ok {
			cmd := m.selectItem(i)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) renderDrawer(height int) string {
	styles := m.theme.Styles()
	inner := DrawerWidth - 1

	lines := []string{
		styles.Title.Render(padRight(" MPConsole", inner)),
		styles.FaintText.Render(strings.Repeat("─", inner)),
	}
	for i, it := range m.items {
		label := truncate(fmt.Sprintf("%d %s %s", i+1, it.Icon, it.Label), inner-2)
		style := styles.DrawerItem
		switch {
		case i == m.selected:
			style = styles.DrawerActive
		case m.drawerOpen && i == m.drawerCursor:
			style = styles.DrawerCursor
		}
		lines = append(lines, style.Width(inner).Render(label))
	}
	return styles.Drawer.
		Width(inner).
		Height(height).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
