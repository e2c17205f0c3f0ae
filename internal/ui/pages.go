package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/zhaohua/mpconsole/internal/jsontable"
	"github.com/zhaohua/mpconsole/internal/logtail"
	"github.com/zhaohua/mpconsole/internal/sizes"
)

// pageSupplier produces the table data for one drawer page. An error is shown
// as a panel in place of the table.
type pageSupplier func(m Model) (jsontable.TableData, error)

func defaultSuppliers() map[string]pageSupplier {
	return map[string]pageSupplier{
		pageHome:     homePage,
		pageSettings: settingsPage,
		pageLargest:  largestPage,
		pageProgress: progressPage,
		pageLogs:     logsPage,
	}
}

func homePage(Model) (jsontable.TableData, error) {
	return jsontable.DemoData(), nil
}

func settingsPage(m Model) (jsontable.TableData, error) {
	if !m.snapshot.HasWatches && m.snapshot.LastError != nil {
		return jsontable.EmptyTableData(), m.snapshot.LastError
	}
	return jsontable.NewTableData(sizes.WatchObjects(m.snapshot.Watches), sizes.WatchColumns()), nil
}

func largestPage(m Model) (jsontable.TableData, error) {
	if !m.snapshot.HasLargest && m.snapshot.LastError != nil {
		return jsontable.EmptyTableData(), m.snapshot.LastError
	}
	return jsontable.TableData{Items: m.snapshot.Largest}, nil
}

func logsPage(m Model) (jsontable.TableData, error) {
	if m.logErr != nil {
		return jsontable.EmptyTableData(), m.logErr
	}
	return jsontable.TableData{Items: m.logItems}, nil
}

func progressPage(m Model) (jsontable.TableData, error) {
	if m.progressErr != nil {
		return jsontable.EmptyTableData(), m.progressErr
	}
	return jsontable.TableData{Items: m.progressItems}, nil
}

type logsLoadedMsg struct {
	items []*jsontable.Object
	err   error
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsLoadedMsg{}
		}
		items, err := logtail.ReadObjects(path, LogTailLines)
		return logsLoadedMsg{items: items, err: err}
	}
}

type progressLoadedMsg struct {
	items []*jsontable.Object
	err   error
}

func loadProgressCmd(ctx context.Context, client sizes.API) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return progressLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		items, err := client.FetchObjects(ctx, sizes.ProgressPath)
		return progressLoadedMsg{items: items, err: err}
	}
}

// pageLoadCmd returns the command that refreshes a page's own data, or nil
// for pages fed by the store.
func (m Model) pageLoadCmd(page string) tea.Cmd {
	switch page {
	case pageLogs:
		return loadLogsCmd(m.logPath)
	case pageProgress:
		return loadProgressCmd(m.ctx, m.client)
	}
	return nil
}

// contentSize is the area left for the page once the bars and the drawer
// are laid out. One line of it goes to the page title.
func (m Model) contentSize() (int, int) {
	width := m.width
	if m.drawerVisible() {
		width -= DrawerWidth
	}
	return max(width, 1), max(m.height-2, 1)
}

// rebuildTable re-runs the render pass for the current page. The table cursor
// survives when the page did not change.
func (m *Model) rebuildTable() {
	item, ok := m.currentItem()
	supplier := m.suppliers[item.Key]
	if !ok || supplier == nil {
		m.view = tableView{}
		m.viewPage = ""
		m.visible = nil
		m.total = 0
		return
	}

	data, err := supplier(*m)
	m.total = len(data.Items)
	data.Items = filterItems(data.Items, m.query)
	m.visible = data.Items

	var rendered jsontable.RenderedTable
	if err == nil {
		rendered, err = jsontable.Render(data)
		if err != nil {
			m.logger.Debug("render failed", zap.String("page", item.Key), zap.Error(err))
		}
	}

	width, height := m.contentSize()
	cursor := -1
	if m.viewPage == item.Key {
		cursor = m.view.cursor()
	}
	m.view = newTableView(rendered, err, width, max(height-1, 1), m.theme, m.keys)
	m.view.setCursor(cursor)
	m.viewPage = item.Key
}

func (m Model) renderContent() string {
	styles := m.theme.Styles()
	width, height := m.contentSize()
	box := lipgloss.NewStyle().Width(width).Height(height).MaxWidth(width).MaxHeight(height)

	item, ok := m.currentItem()
	if !ok || m.suppliers[item.Key] == nil {
		label := "non-selected"
		if ok {
			label = item.Label
		}
		return box.Render(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styles.Text.Render("Content for "+label)))
	}

	title := styles.AccentText.Bold(true).Render(" " + item.Label)
	count := fmt.Sprintf("%d items", len(m.visible))
	if m.query != "" {
		count = fmt.Sprintf("%d of %d items", len(m.visible), m.total)
	}
	header := title + styles.FaintText.Render("  "+count)
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.view.view(styles)))
}
