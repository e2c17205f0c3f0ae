package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/zhaohua/mpconsole/internal/jsontable"
	"github.com/zhaohua/mpconsole/internal/sizes"
	"github.com/zhaohua/mpconsole/internal/state"
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Client       sizes.API
	Store        *state.Store
	Reload       func() // asks the poller for an immediate refresh
	Logger       *zap.Logger
	LogPath      string        // application log shown on the logs page
	RefreshEvery time.Duration // reload interval for the logs page
	ThemeName    string
	LastPage     string
	PrefsPath    string // empty disables saving preferences
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	client       sizes.API
	store        *state.Store
	reload       func()
	logger       *zap.Logger
	logPath      string
	prefsPath    string
	refreshEvery time.Duration
	keys         keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	// Drawer state
	items        []drawerItem
	suppliers    map[string]pageSupplier
	selected     int // -1 until a page is chosen
	drawerOpen   bool
	drawerCursor int

	// Top bar search
	search    textinput.Model
	searching bool
	query     string

	// Overlays
	snack    snackbar
	snackSeq int
	form     *creationForm

	// Data state
	snapshot state.Snapshot
	logItems []*jsontable.Object
	logErr   error

	progressItems []*jsontable.Object
	progressErr   error

	// Current render pass
	view     tableView
	viewPage string
	visible  []*jsontable.Object
	total    int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	refreshEvery := opts.RefreshEvery
	if refreshEvery <= 0 {
		refreshEvery = DefaultUIInterval
	}

	m := Model{
		ctx:          ctx,
		client:       opts.Client,
		store:        opts.Store,
		reload:       opts.Reload,
		logger:       logger,
		logPath:      opts.LogPath,
		prefsPath:    opts.PrefsPath,
		refreshEvery: refreshEvery,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(opts.ThemeName),
		items:        defaultDrawerItems(),
		suppliers:    defaultSuppliers(),
		search:       newSearchInput(),
	}
	m.selected = m.indexOfPage(opts.LastPage)
	m.drawerCursor = max(m.selected, 0)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refreshEvery)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if item, ok := m.currentItem(); ok {
		cmds = append(cmds, m.pageLoadCmd(item.Key))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.permanentDrawer() {
			m.drawerOpen = false
		}
		m.rebuildTable()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		if item, ok := m.currentItem(); ok && (item.Key == pageSettings || item.Key == pageLargest) {
			m.rebuildTable()
		}
		return m, nil

	case logsLoadedMsg:
		m.logItems = msg.items
		m.logErr = msg.err
		if item, ok := m.currentItem(); ok && item.Key == pageLogs {
			m.rebuildTable()
		}
		return m, nil

	case progressLoadedMsg:
		m.progressItems = msg.items
		m.progressErr = msg.err
		if item, ok := m.currentItem(); ok && item.Key == pageProgress {
			m.rebuildTable()
		}
		return m, nil

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case snackbarExpiredMsg:
		if msg.id == m.snack.id {
			m.dismissSnackbar()
		}
		return m, nil
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	if m.form != nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.form != nil {
		return m.renderForm()
	}
	return m.renderMain()
}

// handleKey routes input to the topmost layer: help, form, search, modal
// drawer, then the page.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.drawerOpen {
		return m.handleDrawerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.rebuildTable()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.snack.active() {
			m.dismissSnackbar()
		} else if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			m.rebuildTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleDrawer):
		if !m.permanentDrawer() {
			m.drawerOpen = true
			m.drawerCursor = max(m.selected, 0)
			m.rebuildTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m.startSearch()

	case key.Matches(msg, m.keys.NextPage):
		cmd := m.cyclePage(1)
		return m, cmd

	case key.Matches(msg, m.keys.PrevPage):
		cmd := m.cyclePage(-1)
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refreshPage()
		return m, cmd
	}

	if i, ok := digitIndex(msg); ok {
		cmd := m.selectItem(i)
		return m, cmd
	}

	if item, ok := m.currentItem(); ok && item.Key == pageSettings {
		if model, cmd, handled := m.handleSettingsKey(msg); handled {
			return model, cmd
		}
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.update(msg)
	return m, cmd
}

// digitIndex maps the keys 1-9 to drawer positions.
func digitIndex(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

// refreshPage reloads the current page. Store-fed pages ask the poller for
// a poll; the new snapshot arrives through the store subscription.
func (m *Model) refreshPage() tea.Cmd {
	item, ok := m.currentItem()
	if !ok {
		return nil
	}
	switch item.Key {
	case pageLogs, pageProgress:
		return m.pageLoadCmd(item.Key)
	case pageSettings, pageLargest:
		if m.reload == nil {
			return m.showSnackbar("Reload unavailable")
		}
		m.logger.Debug("reload requested", zap.String("page", item.Key))
		return reloadCmd(m.reload)
	}
	return nil
}

func reloadCmd(reload func()) tea.Cmd {
	return func() tea.Msg {
		reload()
		return nil
	}
}

// handleTick reloads pages the poller does not feed. Watches and largest
// entries arrive via the store.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.refreshEvery)}
	if item, ok := m.currentItem(); ok {
		cmds = append(cmds, m.pageLoadCmd(item.Key))
	}
	return m, tea.Batch(cmds...)
}

// renderMain renders the top bar, the drawer and page, and the footer.
func (m Model) renderMain() string {
	_, bodyHeight := m.contentSize()
	body := m.renderContent()
	if m.drawerVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderDrawer(bodyHeight), body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTopBar(), body, m.renderFooter())
}

func (m Model) renderFooter() string {
	if m.snack.active() {
		return m.renderSnackbar()
	}
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var status string
	switch {
	case m.snapshot.IsOffline():
		status = bg.Render(" offline: "+truncate(m.snapshot.LastError.Error(), max(m.width/2, 10)), styles.DangerText)
	case m.snapshot.LastUpdated.IsZero():
		status = bg.Render(" connecting...", styles.MutedText)
	default:
		status = bg.Render(" updated "+m.snapshot.LastUpdated.Format("15:04:05"), styles.MutedText)
	}

	hints := ternary(m.permanentDrawer(), "/ search  tab page  h help  e quit ", "/ search  m menu  h help  e quit ")
	return bg.Split(status, bg.Render(hints, styles.FaintText), m.width)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// forwardSnapshots relays store updates into the program. Store subscribers
// must not block, so only the latest pending snapshot is kept.
func forwardSnapshots(ctx context.Context, store *state.Store, send func(tea.Msg)) (cancel func()) {
	updates := make(chan state.Snapshot, 1)
	unsubscribe := store.Subscribe(func(s state.Snapshot) {
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- s:
		default:
		}
	})

	ctx, stop := context.WithCancel(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-updates:
				send(snapshotMsg(s))
			}
		}
	}()

	return func() {
		unsubscribe()
		stop()
	}
}

// Run starts the Bubble Tea program and blocks until it exits or the
// context is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Store != nil {
		cancel := forwardSnapshots(ctx, opts.Store, p.Send)
		defer cancel()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
