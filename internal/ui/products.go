package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/storeadmin/internal/catalog"
	"github.com/five82/storeadmin/internal/state"
)

// mountProductList fetches the list and categories unless they are already
// loading or loaded.
func (m *Model) mountProductList() tea.Cmd {
	snap := m.store.Snapshot()
	var cmds []tea.Cmd
	if list := snap.Products.List; !list.IsLoading && !list.IsSuccess {
		cmds = append(cmds, m.run(opFetchProducts, 0, m.dispatch.FetchProducts()))
	}
	if cats := snap.Products.Categories; !cats.IsLoading && !cats.IsSuccess {
		cmds = append(cmds, m.run(opFetchCategories, 0, m.dispatch.FetchCategories()))
	}
	return tea.Batch(cmds...)
}

func (m Model) selectedProduct() (catalog.Product, bool) {
	rows := m.snapshot.Products.List.FilteredData
	if m.cursor < 0 || m.cursor >= len(rows) {
		return catalog.Product{}, false
	}
	return rows[m.cursor], true
}

func (m Model) handleProductListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.startSearch(m.snapshot.Products.Filter.Query)

	case key.Matches(msg, m.keys.CycleCategory):
		next := nextCategory(m.snapshot.Products.Categories.Data, m.snapshot.Products.Filter.Category)
		m.store.SetProductFilter(state.ProductFilterPatch{Category: &next})
		m.cursor = 0
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.Create):
		return m, m.navigate(pageProductNew, 0)

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.run(opFetchProducts, 0, m.dispatch.FetchProducts())
		m.sync()
		return m, cmd
	}

	p, ok := m.selectedProduct()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ToggleFavorite):
		m.store.ToggleFavorite(p.ID)
		m.sync()

	case key.Matches(msg, m.keys.Open):
		return m, m.navigate(pageProduct, p.ID)

	case key.Matches(msg, m.keys.Edit):
		cmd := m.navigate(pageProduct, p.ID)
		m.form = newProductForm(fmt.Sprintf("Edit product #%d", p.ID), draftOf(p))
		return m, tea.Batch(cmd, m.form.focusCmd())

	case key.Matches(msg, m.keys.Delete):
		if m.snapshot.Products.Delete.IsLoading {
			m.toast = errorToast("A delete is already in progress.", time.Now())
			return m, nil
		}
		id := p.ID
		m.confirm = &confirmPrompt{
			prompt: fmt.Sprintf("Delete %q?", p.Name),
			onYes: func(m *Model) tea.Cmd {
				return m.run(opDeleteProduct, id, m.dispatch.DeleteProduct(id))
			},
		}
	}
	return m, nil
}

// nextCategory cycles "" (all) through the known categories.
func nextCategory(categories []string, current string) string {
	if len(categories) == 0 {
		return ""
	}
	i := slices.Index(categories, current)
	if i == len(categories)-1 {
		return ""
	}
	return categories[i+1]
}

func (m Model) renderProductList() string {
	theme := m.theme()
	styles := theme.Styles()
	height := m.contentHeight()
	list := m.snapshot.Products.List
	filter := m.snapshot.Products.Filter

	title := fmt.Sprintf("Products (%d/%d)", len(list.FilteredData), len(list.Data))
	if filter.Category != "" {
		title += " · " + filter.Category
	}
	if filter.Query != "" {
		title += " · /" + truncate(filter.Query, 18)
	}

	var body string
	switch {
	case list.IsLoading:
		body = styles.WarningText.Render("Loading products...")
	case list.IsError:
		body = styles.DangerText.Render("Products could not be loaded." + retryLater)
	case len(list.FilteredData) == 0 && list.IsSuccess:
		body = styles.MutedText.Render("No products match the filter")
	default:
		body = m.renderProductRows(theme, list.FilteredData, m.width-2)
	}

	if m.searching {
		body = m.search.View() + "\n\n" + body
	}
	if del := m.snapshot.Products.Delete; del.IsLoading {
		body += "\n\n" + styles.WarningText.Render("Deleting...")
	}
	return renderTitledBox(theme, title, body, m.width, height, true)
}

// renderProductRows renders one line per product with the selection
// highlighted. Rows scroll so the cursor stays visible.
func (m Model) renderProductRows(theme Theme, rows []catalog.Product, width int) string {
	visible := max(m.contentHeight()-2, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	styles := theme.Styles()
	nameWidth := max(width-40, 12)
	lines := make([]string, 0, visible)
	for i := start; i < len(rows) && i < start+visible; i++ {
		p := rows[i]
		star := " "
		if p.IsFavorite {
			star = "★"
		}
		text := fmt.Sprintf("%s #%-6d %s %s %10s",
			star, p.ID,
			padRight(truncate(p.Name, nameWidth), nameWidth),
			padRight(truncate(p.Category, 12), 12),
			formatPrice(p.Price))

		if i == m.cursor {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(theme.SelectionBg)).
				Foreground(lipgloss.Color(theme.SelectionText)).
				Width(width).
				Render(text))
			continue
		}
		if p.IsFavorite {
			lines = append(lines, styles.StarText.Render(star)+styles.Text.Render(text[len(star):]))
			continue
		}
		lines = append(lines, styles.Text.Render(text))
	}
	return strings.Join(lines, "\n")
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// Detail and edit

// productBase is the record the detail page shows and edits.
func (m Model) productBase() (catalog.Product, bool) {
	if p := m.snapshot.Products.Detail.Data; p != nil && p.ID == m.selectedID {
		base := *p
		if c, ok := m.snapshot.Products.Find(base.ID); ok {
			base.IsFavorite = c.IsFavorite
		}
		return base, true
	}
	return m.snapshot.Products.Find(m.selectedID)
}

func (m Model) handleProductKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.navigate(pageProducts, 0)

	case key.Matches(msg, m.keys.ToggleFavorite):
		m.store.ToggleFavorite(m.selectedID)
		m.sync()

	case key.Matches(msg, m.keys.Edit):
		p, ok := m.productBase()
		if !ok {
			return m, nil
		}
		m.form = newProductForm(fmt.Sprintf("Edit product #%d", p.ID), draftOf(p))
		return m, m.form.focusCmd()
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := m.form.update(msg, m.keys)
	switch action {
	case formCancel:
		if m.page == pageProductNew {
			return m, m.navigate(pageProducts, 0)
		}
		m.form = nil
		return m, nil
	case formSubmit:
		switch m.page {
		case pageProductNew:
			return m.submitProductCreate()
		case pageProduct:
			return m.submitProductEdit()
		case pageUser:
			return m.submitUserEdit()
		}
	}
	return m, cmd
}

func (m Model) submitProductCreate() (tea.Model, tea.Cmd) {
	in, err := productInput(m.form)
	if err != nil {
		m.form.err = describeInvalid(err)
		return m, nil
	}
	m.form.err = ""
	if m.snapshot.Products.Create.IsLoading {
		return m, nil
	}
	cmd := m.run(opCreateProduct, 0, m.dispatch.CreateProduct(in))
	m.sync()
	return m, cmd
}

// submitProductEdit validates the form and asks for confirmation before
// sending the changed fields.
func (m Model) submitProductEdit() (tea.Model, tea.Cmd) {
	base, ok := m.productBase()
	if !ok {
		m.form = nil
		return m, nil
	}
	in, err := productInput(m.form)
	if err != nil {
		m.form.err = describeInvalid(err)
		return m, nil
	}
	m.form.err = ""

	patch := productPatch(base, in)
	if patch.IsEmpty() {
		m.form = nil
		m.toast = successToast("No changes to save.", time.Now())
		return m, nil
	}

	id := base.ID
	m.confirm = &confirmPrompt{
		prompt: fmt.Sprintf("Save changes to %q?", base.Name),
		onYes: func(m *Model) tea.Cmd {
			m.form = nil
			return m.run(opUpdateProduct, id, m.dispatch.UpdateProduct(id, patch))
		},
	}
	return m, nil
}

func (m Model) renderProduct() string {
	theme := m.theme()
	styles := theme.Styles()
	products := m.snapshot.Products
	title := fmt.Sprintf("Product #%d", m.selectedID)

	var body string
	p, ok := m.productBase()
	switch {
	case m.form != nil:
		body = m.form.view(theme, m.width-4)
	case products.Detail.IsLoading && !ok:
		body = styles.WarningText.Render("Loading product...")
	case !ok:
		body = styles.MutedText.Render("Product not available")
	default:
		body = renderProductFields(styles, p)
		if products.Detail.IsLoading {
			body += "\n\n" + styles.WarningText.Render("Refreshing...")
		}
	}

	switch {
	case products.Update.IsLoading:
		body += "\n\n" + styles.WarningText.Render("Saving...")
	case products.Update.IsSuccess && m.form == nil:
		body += "\n\n" + styles.SuccessText.Render("Saved")
	}
	return renderTitledBox(theme, title, body, m.width, m.contentHeight(), true)
}

func renderProductFields(styles Styles, p catalog.Product) string {
	favorite := styles.MutedText.Render("no")
	if p.IsFavorite {
		favorite = styles.StarText.Render("★ yes")
	}
	rows := [][2]string{
		{"Name", styles.Text.Bold(true).Render(p.Name)},
		{"Price", styles.Text.Render(formatPrice(p.Price))},
		{"Category", styles.AccentText.Render(p.Category)},
		{"Description", styles.Text.Render(p.Description)},
		{"Favorite", favorite},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, styles.MutedText.Render(padRight(r[0], 13))+r[1])
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderProductNew() string {
	theme := m.theme()
	styles := theme.Styles()
	var body string
	if m.form != nil {
		body = m.form.view(theme, m.width-4)
	}
	if m.snapshot.Products.Create.IsLoading {
		body += "\n\n" + styles.WarningText.Render("Creating...")
	}
	return renderTitledBox(theme, "New Product", body, m.width, m.contentHeight(), true)
}
