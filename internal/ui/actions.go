package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/zhaohua/mpconsole/internal/jsontable"
	"github.com/zhaohua/mpconsole/internal/sizes"
)

// Settings page actions.
const (
	actionAdd    = "add watch"
	actionRemove = "remove watch"
	actionScan   = "queue scan"
	actionStat   = "scan totals"
)

// actionDoneMsg carries the result of a backend call started from the UI.
// watches is the updated list for add and remove, nil for scans.
type actionDoneMsg struct {
	action  string
	path    string
	watches []sizes.WatchDirectoryConfiguration
	text    string
	err     error
}

type actionFunc func(ctx context.Context, client sizes.API) ([]sizes.WatchDirectoryConfiguration, string, error)

func (m Model) runAction(action, path string, fn actionFunc) tea.Cmd {
	if m.client == nil {
		return func() tea.Msg {
			return actionDoneMsg{action: action, path: path, err: fmt.Errorf("backend client not configured")}
		}
	}
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		watches, text, err := fn(ctx, client)
		return actionDoneMsg{action: action, path: path, watches: watches, text: text, err: err}
	}
}

func (m Model) addWatch(w sizes.WatchDirectoryConfiguration) tea.Cmd {
	return m.runAction(actionAdd, w.Path, func(ctx context.Context, c sizes.API) ([]sizes.WatchDirectoryConfiguration, string, error) {
		watches, err := c.AddWatch(ctx, w)
		return watches, "", err
	})
}

func (m Model) removeWatch(w sizes.WatchDirectoryConfiguration) tea.Cmd {
	return m.runAction(actionRemove, w.Path, func(ctx context.Context, c sizes.API) ([]sizes.WatchDirectoryConfiguration, string, error) {
		watches, err := c.RemoveWatch(ctx, w)
		return watches, "", err
	})
}

func (m Model) queueScan(w sizes.WatchDirectoryConfiguration) tea.Cmd {
	return m.runAction(actionScan, w.Path, func(ctx context.Context, c sizes.API) ([]sizes.WatchDirectoryConfiguration, string, error) {
		text, err := c.QueueScan(ctx, w.Path)
		return nil, text, err
	})
}

func (m Model) scanStats(w sizes.WatchDirectoryConfiguration) tea.Cmd {
	return m.runAction(actionStat, w.Path, func(ctx context.Context, c sizes.API) ([]sizes.WatchDirectoryConfiguration, string, error) {
		stat, err := c.FetchStat(ctx, w.Path)
		if err != nil {
			return nil, "", err
		}
		text := fmt.Sprintf("%d dirs, %d files, %s", stat.Dirs, stat.Files, formatBytes(stat.Bytes()))
		if stat.IsCached {
			text += " (cached)"
		}
		return nil, text, nil
	})
}

// selectedWatch maps the highlighted settings row back to a watch.
func (m Model) selectedWatch() (sizes.WatchDirectoryConfiguration, bool) {
	i := m.view.cursor()
	if i < 0 || i >= len(m.visible) {
		return sizes.WatchDirectoryConfiguration{}, false
	}
	return watchFromObject(m.visible[i]), true
}

func watchFromObject(obj *jsontable.Object) sizes.WatchDirectoryConfiguration {
	values := make(map[string]string, obj.Len())
	obj.Range(func(k string, v jsontable.Value) bool {
		if v.IsPrimitive() && !v.IsNull() {
			values[k] = v.Content()
		}
		return true
	})
	return sizes.WatchFromValues(values)
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, m.keys.NewWatch) {
		model, cmd := m.openForm()
		return model, cmd, true
	}

	var run func(sizes.WatchDirectoryConfiguration) tea.Cmd
	switch {
	case key.Matches(msg, m.keys.RemoveWatch):
		run = m.removeWatch
	case key.Matches(msg, m.keys.QueueScan):
		run = m.queueScan
	case key.Matches(msg, m.keys.ScanStats):
		run = m.scanStats
	default:
		return m, nil, false
	}

	w, ok := m.selectedWatch()
	if !ok {
		cmd := m.showSnackbar("No watch selected")
		return m, cmd, true
	}
	return m, run(w), true
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("watch action failed",
			zap.String("action", msg.action),
			zap.String("path", msg.path),
			zap.Error(msg.err),
		)
		cmd := m.showError(fmt.Sprintf("%s failed: %v", msg.action, msg.err))
		return m, cmd
	}

	m.logger.Info("watch action",
		zap.String("action", msg.action),
		zap.String("path", msg.path),
	)

	path := truncateMiddle(msg.path, 40)
	var text string
	switch msg.action {
	case actionAdd:
		text = "Added watch " + path
	case actionRemove:
		text = "Removed watch " + path
	case actionStat:
		text = path + ": " + msg.text
	default:
		text = "Scan queued for " + path
		if msg.text != "" {
			text += ": " + msg.text
		}
	}

	if msg.watches != nil {
		m.snapshot.Watches = msg.watches
		m.snapshot.HasWatches = true
		if m.store != nil {
			m.store.SetWatches(msg.watches)
		}
		if item, ok := m.currentItem(); ok && item.Key == pageSettings {
			m.rebuildTable()
		}
	}
	cmd := m.showSnackbar(text)
	return m, cmd
}
