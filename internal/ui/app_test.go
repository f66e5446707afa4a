package ui

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storeadmin/internal/api"
	"github.com/five82/storeadmin/internal/catalog"
	"github.com/five82/storeadmin/internal/mockapi"
	"github.com/five82/storeadmin/internal/state"
)

func fixtureProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Desk Lamp", Price: 650, Category: "lighting", Description: "Dimmable desk light"},
		{ID: 2, Name: "Oak Desk", Price: 4200, Category: "furniture", Description: "Solid oak desk"},
		{ID: 3, Name: "Floor Lamp", Price: 900, Category: "lighting", Description: "Tall reading light"},
	}
}

func fixtureUsers() []catalog.User {
	return []catalog.User{
		{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"},
		{ID: 2, Name: "Alan Turing", Email: "alan@example.com"},
	}
}

// newTestModel wires a sized model to an in-process mock backend that
// answers immediately.
func newTestModel(t *testing.T, opts ...mockapi.Option) (Model, *mockapi.Server) {
	t.Helper()
	base := []mockapi.Option{mockapi.WithDelay(0), mockapi.WithData(fixtureProducts(), fixtureUsers())}
	srv, err := mockapi.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("mockapi.New returned error: %v", err)
	}
	client, err := api.NewClient("", api.WithTransport(mockapi.Transport(srv)))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	store := state.NewStore(state.ThemeLight)
	m := New(Options{Dispatcher: state.NewDispatcher(store, client, client)})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model), srv
}

// mounted returns a test model with the product list loaded.
func mounted(t *testing.T, opts ...mockapi.Option) (Model, *mockapi.Server) {
	t.Helper()
	m, srv := newTestModel(t, opts...)
	cmd := m.enter(pageProducts)
	return drain(t, m, cmd), srv
}

// drain runs cmd and feeds every message it produces back into the model
// until no command is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("drain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		next, more := m.Update(msg)
		m = next.(Model)
		queue = append(queue, more)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends one key and returns the command without running it.
func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyMsg(k))
	return next.(Model), cmd
}

// pressRun sends one key and drains the resulting commands.
func pressRun(t *testing.T, m Model, k string) Model {
	t.Helper()
	m, cmd := press(m, k)
	return drain(t, m, cmd)
}

func productIDs(ps []catalog.Product) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestViewLoadingBeforeWindowSize(t *testing.T) {
	srv, _ := mockapi.New(mockapi.WithDelay(0))
	client, _ := api.NewClient("", api.WithTransport(mockapi.Transport(srv)))
	m := New(Options{Dispatcher: state.NewDispatcher(state.NewStore(state.ThemeLight), client, client)})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() = %q, want Loading...", got)
	}
}

func TestProductListMountFetchesOnce(t *testing.T) {
	m, _ := mounted(t)

	list := m.snapshot.Products.List
	if !list.IsSuccess || !reflect.DeepEqual(productIDs(list.FilteredData), []int{1, 2, 3}) {
		t.Fatalf("list = %+v, want three loaded products", list)
	}
	if got := m.snapshot.Products.Categories.Data; !reflect.DeepEqual(got, []string{"lighting", "furniture"}) {
		t.Fatalf("categories = %v", got)
	}

	cmd := m.navigate(pageUsers, 0)
	m = drain(t, m, cmd)
	if cmd := m.navigate(pageProducts, 0); cmd != nil {
		t.Fatal("remounting the list issued requests although it was loaded")
	}
}

func TestFavoriteToggleStaysLocal(t *testing.T) {
	m, srv := mounted(t)

	m, cmd := press(m, "f")
	if cmd != nil {
		t.Fatal("favorite toggle returned a command")
	}
	if !m.snapshot.Products.List.FilteredData[0].IsFavorite {
		t.Fatal("first product not marked favorite")
	}
	if srv.Products()[0].IsFavorite {
		t.Fatal("favorite toggle reached the backend")
	}
	if !strings.Contains(m.View(), "★") {
		t.Fatal("favorite star not rendered")
	}
}

func TestCategoryCycleIncludesAll(t *testing.T) {
	m, _ := mounted(t)

	want := []struct {
		category string
		ids      []int
	}{
		{"lighting", []int{1, 3}},
		{"furniture", []int{2}},
		{"", []int{1, 2, 3}},
	}
	for _, w := range want {
		m, _ = press(m, "c")
		products := m.snapshot.Products
		if products.Filter.Category != w.category {
			t.Fatalf("category = %q, want %q", products.Filter.Category, w.category)
		}
		if got := productIDs(products.List.FilteredData); !reflect.DeepEqual(got, w.ids) {
			t.Fatalf("category %q ids = %v, want %v", w.category, got, w.ids)
		}
	}
}

func TestSearchFiltersAndUnmountClears(t *testing.T) {
	m, _ := mounted(t)

	m, _ = press(m, "/")
	if !m.searching {
		t.Fatal("search not active after /")
	}
	for _, r := range "LAMP" {
		m, _ = press(m, string(r))
	}
	m, _ = press(m, "enter")
	if m.searching {
		t.Fatal("search still active after enter")
	}
	products := m.snapshot.Products
	if products.Filter.Query != "lamp" {
		t.Fatalf("query = %q, want lowercased lamp", products.Filter.Query)
	}
	if got := productIDs(products.List.FilteredData); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("filtered ids = %v, want [1 3]", got)
	}

	m = pressRun(t, m, "u")
	if f := m.store.Snapshot().Products.Filter; !f.IsZero() {
		t.Fatalf("filter after leaving products = %+v, want empty", f)
	}
}

func TestSearchEscClearsQuery(t *testing.T) {
	m, _ := mounted(t)
	m, _ = press(m, "/")
	m, _ = press(m, "o")
	m, _ = press(m, "esc")
	if q := m.snapshot.Products.Filter.Query; q != "" {
		t.Fatalf("query = %q after esc, want empty", q)
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m, srv := mounted(t)

	m, _ = press(m, "d")
	if m.confirm == nil {
		t.Fatal("delete did not ask for confirmation")
	}
	m, _ = press(m, "n")
	if m.confirm != nil || len(srv.Products()) != 3 {
		t.Fatal("cancelled delete still ran")
	}

	m, _ = press(m, "j")
	m, _ = press(m, "d")
	m = pressRun(t, m, "y")

	if got := productIDs(m.snapshot.Products.List.Data); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("list ids = %v, want [1 3]", got)
	}
	if len(srv.Products()) != 2 {
		t.Fatalf("backend has %d products, want 2", len(srv.Products()))
	}
	if m.toast.kind != toastSuccess {
		t.Fatalf("toast = %+v, want success", m.toast)
	}
}

func TestDeleteIgnoredWhileDeleteInFlight(t *testing.T) {
	m, srv := mounted(t)

	m, _ = press(m, "d")
	m, pending := press(m, "y")
	if !m.snapshot.Products.Delete.IsLoading {
		t.Fatal("delete tracker not pending after confirmation")
	}

	m, _ = press(m, "j")
	m, cmd := press(m, "d")
	if m.confirm != nil || cmd != nil {
		t.Fatalf("second delete was offered while the first is in flight (confirm=%v)", m.confirm)
	}
	if m.toast.kind != toastError || !strings.Contains(m.toast.text, "already in progress") {
		t.Fatalf("toast = %+v, want in-progress error", m.toast)
	}

	m = drain(t, m, pending)
	if got := productIDs(m.snapshot.Products.List.Data); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Fatalf("list ids = %v, want [2 3]", got)
	}
	if len(srv.Products()) != 2 {
		t.Fatalf("backend has %d products, want 2", len(srv.Products()))
	}
}

func TestDetailGenuineErrorReturnsToList(t *testing.T) {
	m, _ := mounted(t)

	cmd := m.navigate(pageProduct, 999)
	m = drain(t, m, cmd)

	if m.page != pageProducts {
		t.Fatalf("page = %v, want product list", m.page.title())
	}
	if m.toast.kind != toastError || !strings.HasSuffix(m.toast.text, "Please try again later.") {
		t.Fatalf("toast = %+v, want generic error", m.toast)
	}
	if m.snapshot.Products.Detail.Phase() != state.PhaseIdle {
		t.Fatalf("detail phase = %v, want reset on unmount", m.snapshot.Products.Detail.Phase())
	}
}

func TestDetailSoftSuccessStaysOnPage(t *testing.T) {
	m, _ := mounted(t, mockapi.WithMode(mockapi.ModeLists))

	m = pressRun(t, m, "enter")

	if m.page != pageProduct || m.selectedID != 1 {
		t.Fatalf("page = %v id %d, want product 1", m.page.title(), m.selectedID)
	}
	if d := m.snapshot.Products.Detail; !d.IsSuccess || d.Data == nil || d.Data.Name != "Desk Lamp" {
		t.Fatalf("detail = %+v, want canonical copy", d)
	}
	if m.toast.kind != toastNone {
		t.Fatalf("toast = %+v, want none", m.toast)
	}
}

func TestEditProductSubmitsAfterConfirmation(t *testing.T) {
	m, srv := mounted(t)

	m = pressRun(t, m, "e")
	if m.page != pageProduct || m.form == nil {
		t.Fatalf("page = %v form = %v, want edit form", m.page.title(), m.form)
	}
	m.form.fields[fieldName].input.SetValue("Desk Lamp XL")
	for range 3 {
		m, _ = press(m, "tab")
	}
	m, _ = press(m, "enter")
	if m.confirm == nil {
		t.Fatal("submit did not ask for confirmation")
	}
	m = pressRun(t, m, "y")

	if m.form != nil {
		t.Fatal("form still open after save")
	}
	if got := srv.Products()[0].Name; got != "Desk Lamp XL" {
		t.Fatalf("backend name = %q, want Desk Lamp XL", got)
	}
	if got, _ := m.snapshot.Products.Find(1); got.Name != "Desk Lamp XL" {
		t.Fatalf("canonical name = %q, want Desk Lamp XL", got.Name)
	}
	if m.toast.kind != toastSuccess {
		t.Fatalf("toast = %+v, want success", m.toast)
	}

	m = pressRun(t, m, "esc")
	if u := m.snapshot.Products.Update; u.Phase() != state.PhaseIdle {
		t.Fatalf("update phase = %v after leaving, want idle", u.Phase())
	}
}

func TestEditValidationKeepsForm(t *testing.T) {
	m, _ := mounted(t)
	m = pressRun(t, m, "e")

	m.form.fields[fieldPrice].input.SetValue("cheap")
	m.form.fields[fieldName].input.SetValue("ab")
	m.form.focus = fieldDescription
	m, cmd := press(m, "enter")

	if cmd != nil || m.confirm != nil {
		t.Fatal("invalid form was submitted")
	}
	if !strings.Contains(m.form.err, "price") || !strings.Contains(m.form.err, "name") {
		t.Fatalf("form error = %q, want price and name", m.form.err)
	}
}

func TestCreateNavigatesToListOnSuccess(t *testing.T) {
	m, srv := mounted(t, mockapi.WithIDSource(func(int) int { return 77 }))

	m = pressRun(t, m, "n")
	if m.page != pageProductNew || m.form == nil {
		t.Fatalf("page = %v, want new product form", m.page.title())
	}
	values := []string{"Wall Lamp", "120", "lighting", "Mounted wall light"}
	for i, v := range values {
		m.form.fields[i].input.SetValue(v)
	}
	m.form.focus = len(values) - 1
	m = pressRun(t, m, "enter")

	if m.page != pageProducts {
		t.Fatalf("page = %v, want list after create", m.page.title())
	}
	if got := productIDs(m.snapshot.Products.List.Data); !reflect.DeepEqual(got, []int{77, 1, 2, 3}) {
		t.Fatalf("list ids = %v, want created first", got)
	}
	if len(srv.Products()) != 4 {
		t.Fatalf("backend has %d products, want 4", len(srv.Products()))
	}
	if c := m.snapshot.Products.Create; c.Phase() != state.PhaseIdle {
		t.Fatalf("create phase = %v, want reset on unmount", c.Phase())
	}
}

func TestCreateFailureShowsRetryToast(t *testing.T) {
	m, _ := mounted(t, mockapi.WithMode(mockapi.ModeLists))

	m = pressRun(t, m, "n")
	for i, v := range []string{"Wall Lamp", "120", "lighting", "Mounted wall light"} {
		m.form.fields[i].input.SetValue(v)
	}
	m.form.focus = fieldDescription
	m = pressRun(t, m, "enter")

	if m.page != pageProductNew {
		t.Fatalf("page = %v, want to stay on the form", m.page.title())
	}
	if m.toast.text != "Could not create product. Please try again later." {
		t.Fatalf("toast = %q", m.toast.text)
	}
}

func TestThemeToggleUpdatesSnapshot(t *testing.T) {
	m, _ := mounted(t)
	if m.theme().Name != "Light" {
		t.Fatalf("theme = %q, want Light", m.theme().Name)
	}
	m, _ = press(m, "T")
	if m.snapshot.Theme != state.ThemeDark || m.theme().Name != "Dark" {
		t.Fatalf("theme = %q / %q, want dark", m.snapshot.Theme, m.theme().Name)
	}
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	m, _ := mounted(t)
	m, _ = press(m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m, _ = press(m, "x")
	if m.showHelp {
		t.Fatal("help overlay still shown")
	}
}

func TestUserEditAndDelete(t *testing.T) {
	m, srv := newTestModel(t)
	m = pressRun(t, m, "u")
	if got := len(m.snapshot.Users.List.FilteredData); got != 2 {
		t.Fatalf("users = %d, want 2", got)
	}

	m = pressRun(t, m, "e")
	m.form.fields[fieldUserEmail].input.SetValue("ada@lovelace.dev")
	m.form.focus = fieldUserEmail
	m, _ = press(m, "enter")
	m = pressRun(t, m, "y")
	if got := srv.Users()[0].Email; got != "ada@lovelace.dev" {
		t.Fatalf("backend email = %q", got)
	}

	m = pressRun(t, m, "esc")
	if m.page != pageUsers {
		t.Fatalf("page = %v, want users", m.page.title())
	}
	m, _ = press(m, "d")
	m = pressRun(t, m, "y")
	if len(srv.Users()) != 1 || len(m.snapshot.Users.List.Data) != 1 {
		t.Fatalf("backend %d, list %d users; want 1 each", len(srv.Users()), len(m.snapshot.Users.List.Data))
	}
}

func TestActivityViewReadsLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.log")
	content := "2026/01/02 15:04:05 request=r1 op=products.list outcome=success\n" +
		"2026/01/02 15:04:06 request=r2 op=products.get id=9 outcome=error err=api GET /products/9 returned status 404\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m, _ := newTestModel(t)
	m.activityLog = path
	m = pressRun(t, m, "a")

	if m.page != pageActivity || len(m.activity) != 2 {
		t.Fatalf("page = %v entries = %d, want activity with 2", m.page.title(), len(m.activity))
	}
	if m.activity[1].Op != "products.get" || m.activity[1].ID != "9" {
		t.Fatalf("entry = %+v", m.activity[1])
	}
	if view := m.View(); !strings.Contains(view, "products.get") {
		t.Fatalf("view missing entry:\n%s", view)
	}
}

func TestTickExpiresToast(t *testing.T) {
	now := time.Now()
	tt := errorToast("Could not load users.", now)
	if tt.text != "Could not load users. Please try again later." {
		t.Fatalf("text = %q", tt.text)
	}
	if got := tt.expire(now.Add(time.Second)); got.kind != toastError {
		t.Fatal("toast expired early")
	}
	if got := tt.expire(now.Add(toastTTL)); got.kind != toastNone {
		t.Fatal("toast did not expire")
	}
}

func TestNextCategory(t *testing.T) {
	cats := []string{"a", "b"}
	cases := []struct{ in, want string }{
		{"", "a"},
		{"a", "b"},
		{"b", ""},
		{"gone", "a"},
	}
	for _, tc := range cases {
		if got := nextCategory(cats, tc.in); got != tc.want {
			t.Fatalf("nextCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := nextCategory(nil, "a"); got != "" {
		t.Fatalf("nextCategory(nil) = %q, want empty", got)
	}
}
