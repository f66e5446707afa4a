package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storeadmin/internal/logtail"
	"github.com/five82/storeadmin/internal/state"
)

// page identifies the mounted view.
type page int

const (
	pageProducts page = iota
	pageProduct
	pageProductNew
	pageUsers
	pageUser
	pageActivity
)

func (p page) title() string {
	switch p {
	case pageProduct:
		return "Product"
	case pageProductNew:
		return "New Product"
	case pageUsers:
		return "Users"
	case pageUser:
		return "User"
	case pageActivity:
		return "Activity"
	default:
		return "Products"
	}
}

// DefaultActivityLines is how many activity log lines the activity view shows.
const DefaultActivityLines = 200

// Options configures the UI.
type Options struct {
	Context       context.Context
	Dispatcher    *state.Dispatcher
	ActivityLog   string
	ActivityLines int
	Tick          time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx           context.Context
	dispatch      *state.Dispatcher
	store         *state.Store
	activityLog   string
	activityLines int
	tick          time.Duration
	keys          keyMap

	// UI state
	page     page
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// selectedID is the record shown on detail pages.
	selectedID int
	cursor     int

	search    textinput.Model
	searching bool

	form    *form
	confirm *confirmPrompt
	toast   toast

	activity     []logtail.Entry
	activityErr  error
	activityView viewport.Model
}

// confirmPrompt is a pending yes/no question. onYes runs when confirmed.
type confirmPrompt struct {
	prompt string
	onYes  func(m *Model) tea.Cmd
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}

	lines := opts.ActivityLines
	if lines <= 0 {
		lines = DefaultActivityLines
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "Search..."
	ti.CharLimit = 60

	m := Model{
		ctx:           ctx,
		dispatch:      opts.Dispatcher,
		store:         opts.Dispatcher.Store(),
		activityLog:   opts.ActivityLog,
		activityLines: lines,
		tick:          tick,
		keys:          DefaultKeyMap(),
		page:          pageProducts,
		search:        ti,
	}
	m.sync()
	return m
}

// Init implements tea.Model. It mounts the product list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.tick),
		m.enter(pageProducts),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.activityView = viewport.New(max(m.width-2, 0), max(m.contentHeight()-2, 0))
		} else {
			m.activityView.Width = max(m.width-2, 0)
			m.activityView.Height = max(m.contentHeight()-2, 0)
		}
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.clampCursor()
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)

	case activityMsg:
		m.activity = msg.entries
		m.activityErr = msg.err
		m.activityView.SetContent(m.renderActivityLines())
		m.activityView.GotoBottom()
		return m, nil
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
	if m.confirm != nil {
		return m.renderConfirm()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays and inputs take precedence
// over global keys, which take precedence over page keys.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.form != nil {
		return m.handleFormKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		m.store.ChangeTheme()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.ViewProducts):
		return m, m.navigate(pageProducts, 0)

	case key.Matches(msg, m.keys.ViewUsers):
		return m, m.navigate(pageUsers, 0)

	case key.Matches(msg, m.keys.ViewActivity):
		return m, m.navigate(pageActivity, 0)
	}

	switch m.page {
	case pageProducts:
		return m.handleProductListKey(msg)
	case pageProduct:
		return m.handleProductKey(msg)
	case pageProductNew:
		if key.Matches(msg, m.keys.Back) {
			return m, m.navigate(pageProducts, 0)
		}
	case pageUsers:
		return m.handleUserListKey(msg)
	case pageUser:
		return m.handleUserKey(msg)
	case pageActivity:
		return m.handleActivityKey(msg)
	}

	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prompt := m.confirm
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.confirm = nil
		cmd := prompt.onYes(&m)
		m.sync()
		return m, cmd
	case key.Matches(msg, m.keys.No):
		m.confirm = nil
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch("")
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch(m.search.Value())
	return m, cmd
}

// startSearch focuses the search input seeded with the current query.
func (m *Model) startSearch(current string) tea.Cmd {
	m.searching = true
	m.search.SetValue(current)
	m.search.CursorEnd()
	return m.search.Focus()
}

func (m *Model) applySearch(query string) {
	switch m.page {
	case pageProducts:
		m.store.SetProductFilter(state.ProductFilterPatch{Query: &query})
	case pageUsers:
		m.store.SetUserFilter(query)
	}
	m.cursor = 0
	m.sync()
}

// navigate unmounts the current page and mounts the target.
func (m *Model) navigate(to page, id int) tea.Cmd {
	m.leave(m.page)
	m.page = to
	m.selectedID = id
	m.cursor = 0
	m.form = nil
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
	cmd := m.enter(to)
	m.sync()
	return cmd
}

// enter runs the mount effects of p.
func (m *Model) enter(p page) tea.Cmd {
	switch p {
	case pageProducts:
		return m.mountProductList()
	case pageProduct:
		return m.run(opFetchProduct, m.selectedID, m.dispatch.FetchProduct(m.selectedID))
	case pageProductNew:
		m.form = newProductForm("New product", productDraft{})
		return m.form.focusCmd()
	case pageUsers:
		return m.mountUserList()
	case pageUser:
		return m.run(opFetchUser, m.selectedID, m.dispatch.FetchUser(m.selectedID))
	case pageActivity:
		return loadActivityCmd(m.activityLog, m.activityLines)
	}
	return nil
}

// leave runs the unmount effects of p.
func (m *Model) leave(p page) {
	switch p {
	case pageProducts:
		m.store.ClearProductFilter()
		m.store.ResetProduct(state.ProductDelete)
	case pageProduct:
		m.store.ResetProduct(state.ProductDetail, state.ProductUpdate)
	case pageProductNew:
		m.store.ResetProduct(state.ProductCreate)
	case pageUsers:
		m.store.SetUserFilter("")
		m.store.ResetUser(state.UserDelete)
	case pageUser:
		m.store.ResetUser(state.UserDetail, state.UserUpdate)
	}
}

// sync reads the store snapshot synchronously after a local mutation.
func (m *Model) sync() {
	m.snapshot = m.store.Snapshot()
	m.lastUpdated = time.Now()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := m.rowCount()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) rowCount() int {
	switch m.page {
	case pageProducts:
		return len(m.snapshot.Products.List.FilteredData)
	case pageUsers:
		return len(m.snapshot.Users.List.FilteredData)
	}
	return 0
}

// moveCursor applies list navigation keys. It reports whether msg was one.
func (m *Model) moveCursor(msg tea.KeyMsg) bool {
	n := m.rowCount()
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(n-1, 0)
	default:
		return false
	}
	return true
}

func (m Model) theme() Theme {
	return GetTheme(m.snapshot.Theme)
}

// handleTick refreshes the snapshot, expires the toast and reloads the
// activity view.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.toast = m.toast.expire(now)

	cmds := []tea.Cmd{fetchSnapshotCmd(m.store)}
	if m.page == pageActivity {
		cmds = append(cmds, loadActivityCmd(m.activityLog, m.activityLines))
	}
	cmds = append(cmds, tickCmd(m.tick))
	return m, tea.Batch(cmds...)
}

// renderMain renders header, command bar, page content and the toast line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderToast())
	return b.String()
}

// contentHeight is the height left for the page between the bars.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

func (m Model) renderContent() string {
	switch m.page {
	case pageProducts:
		return m.renderProductList()
	case pageProduct:
		return m.renderProduct()
	case pageProductNew:
		return m.renderProductNew()
	case pageUsers:
		return m.renderUserList()
	case pageUser:
		return m.renderUser()
	case pageActivity:
		return m.renderActivity()
	default:
		return ""
	}
}

// Operations

// opKind names the intent an opDoneMsg completes.
type opKind int

const (
	opFetchProducts opKind = iota
	opFetchCategories
	opFetchProduct
	opCreateProduct
	opUpdateProduct
	opDeleteProduct
	opFetchUsers
	opFetchUser
	opUpdateUser
	opDeleteUser
)

// run executes op off the update loop and reports its result.
func (m Model) run(kind opKind, id int, op state.Op) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{kind: kind, id: id, err: op(ctx)}
	}
}

// handleOpDone reacts to a finished operation. Superseded operations are
// silent; their trackers already belong to a newer request.
func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.sync()
	if errors.Is(msg.err, state.ErrSuperseded) {
		return m, nil
	}
	failed := msg.err != nil
	now := time.Now()

	switch msg.kind {
	case opFetchProducts:
		if failed {
			m.toast = errorToast("Could not load products.", now)
		}
	case opFetchCategories:
		if failed {
			m.toast = errorToast("Could not load categories.", now)
		}
	case opFetchProduct:
		if failed && m.page == pageProduct && m.selectedID == msg.id {
			m.toast = errorToast("Could not load product.", now)
			return m, m.navigate(pageProducts, 0)
		}
	case opCreateProduct:
		if failed {
			m.toast = errorToast("Could not create product.", now)
			return m, nil
		}
		m.toast = successToast("Product created.", now)
		if m.page == pageProductNew {
			return m, m.navigate(pageProducts, 0)
		}
	case opUpdateProduct:
		if failed {
			m.toast = errorToast("Could not update product.", now)
		} else {
			m.toast = successToast("Product updated.", now)
		}
	case opDeleteProduct:
		if failed {
			m.toast = errorToast("Could not delete product.", now)
		} else {
			m.toast = successToast("Product deleted.", now)
		}
	case opFetchUsers:
		if failed {
			m.toast = errorToast("Could not load users.", now)
		}
	case opFetchUser:
		if failed && m.page == pageUser && m.selectedID == msg.id {
			m.toast = errorToast("Could not load user.", now)
			return m, m.navigate(pageUsers, 0)
		}
	case opUpdateUser:
		if failed {
			m.toast = errorToast("Could not update user.", now)
		} else {
			m.toast = successToast("User updated.", now)
		}
	case opDeleteUser:
		if failed {
			m.toast = errorToast("Could not delete user.", now)
		} else {
			m.toast = successToast("User deleted.", now)
		}
	}
	return m, nil
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type opDoneMsg struct {
	kind opKind
	id   int
	err  error
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

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

func loadActivityCmd(path string, lines int) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		entries, err := logtail.ReadEntries(path, lines)
		return activityMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx ends.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
