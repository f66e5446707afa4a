package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/storeadmin/internal/catalog"
)

func (m *Model) mountUserList() tea.Cmd {
	list := m.store.Snapshot().Users.List
	if list.IsLoading || list.IsSuccess {
		return nil
	}
	return m.run(opFetchUsers, 0, m.dispatch.FetchUsers())
}

func (m Model) selectedUser() (catalog.User, bool) {
	rows := m.snapshot.Users.List.FilteredData
	if m.cursor < 0 || m.cursor >= len(rows) {
		return catalog.User{}, false
	}
	return rows[m.cursor], true
}

func (m Model) handleUserListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.startSearch(m.snapshot.Users.Filter.Query)
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.run(opFetchUsers, 0, m.dispatch.FetchUsers())
		m.sync()
		return m, cmd
	}

	u, ok := m.selectedUser()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		return m, m.navigate(pageUser, u.ID)

	case key.Matches(msg, m.keys.Edit):
		cmd := m.navigate(pageUser, u.ID)
		m.form = newUserForm(u)
		return m, tea.Batch(cmd, m.form.focusCmd())

	case key.Matches(msg, m.keys.Delete):
		if m.snapshot.Users.Delete.IsLoading {
			m.toast = errorToast("A delete is already in progress.", time.Now())
			return m, nil
		}
		id := u.ID
		m.confirm = &confirmPrompt{
			prompt: fmt.Sprintf("Delete user %q?", u.Name),
			onYes: func(m *Model) tea.Cmd {
				return m.run(opDeleteUser, id, m.dispatch.DeleteUser(id))
			},
		}
	}
	return m, nil
}

func (m Model) renderUserList() string {
	theme := m.theme()
	styles := theme.Styles()
	list := m.snapshot.Users.List

	title := fmt.Sprintf("Users (%d/%d)", len(list.FilteredData), len(list.Data))
	if q := m.snapshot.Users.Filter.Query; q != "" {
		title += " · /" + truncate(q, 18)
	}

	var body string
	switch {
	case list.IsLoading:
		body = styles.WarningText.Render("Loading users...")
	case list.IsError:
		body = styles.DangerText.Render("Users could not be loaded." + retryLater)
	case len(list.FilteredData) == 0 && list.IsSuccess:
		body = styles.MutedText.Render("No users match the search")
	default:
		body = m.renderUserRows(theme, list.FilteredData, m.width-2)
	}

	if m.searching {
		body = m.search.View() + "\n\n" + body
	}
	if m.snapshot.Users.Delete.IsLoading {
		body += "\n\n" + styles.WarningText.Render("Deleting...")
	}
	return renderTitledBox(theme, title, body, m.width, m.contentHeight(), true)
}

func (m Model) renderUserRows(theme Theme, rows []catalog.User, width int) string {
	visible := max(m.contentHeight()-2, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	styles := theme.Styles()
	nameWidth := max(width/3, 12)
	lines := make([]string, 0, visible)
	for i := start; i < len(rows) && i < start+visible; i++ {
		u := rows[i]
		text := fmt.Sprintf("#%-6d %s %s", u.ID, padRight(truncate(u.Name, nameWidth), nameWidth), u.Email)
		if i == m.cursor {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(theme.SelectionBg)).
				Foreground(lipgloss.Color(theme.SelectionText)).
				Width(width).
				Render(text))
			continue
		}
		lines = append(lines, styles.Text.Render(text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) userBase() (catalog.User, bool) {
	if u := m.snapshot.Users.Detail.Data; u != nil && u.ID == m.selectedID {
		return *u, true
	}
	return m.snapshot.Users.Find(m.selectedID)
}

func (m Model) handleUserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.navigate(pageUsers, 0)
	case key.Matches(msg, m.keys.Edit):
		u, ok := m.userBase()
		if !ok {
			return m, nil
		}
		m.form = newUserForm(u)
		return m, m.form.focusCmd()
	}
	return m, nil
}

func (m Model) submitUserEdit() (tea.Model, tea.Cmd) {
	base, ok := m.userBase()
	if !ok {
		m.form = nil
		return m, nil
	}
	patch, err := userPatch(base, m.form)
	if err != nil {
		m.form.err = describeInvalid(err)
		return m, nil
	}
	m.form.err = ""
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
			return m.run(opUpdateUser, id, m.dispatch.UpdateUser(id, patch))
		},
	}
	return m, nil
}

func (m Model) renderUser() string {
	theme := m.theme()
	styles := theme.Styles()
	users := m.snapshot.Users

	var body string
	u, ok := m.userBase()
	switch {
	case m.form != nil:
		body = m.form.view(theme, m.width-4)
	case users.Detail.IsLoading && !ok:
		body = styles.WarningText.Render("Loading user...")
	case !ok:
		body = styles.MutedText.Render("User not available")
	default:
		body = styles.MutedText.Render(padRight("Name", 8)) + styles.Text.Bold(true).Render(u.Name) + "\n" +
			styles.MutedText.Render(padRight("Email", 8)) + styles.AccentText.Render(u.Email)
	}

	switch {
	case users.Update.IsLoading:
		body += "\n\n" + styles.WarningText.Render("Saving...")
	case users.Update.IsSuccess && m.form == nil:
		body += "\n\n" + styles.SuccessText.Render("Saved")
	}
	return renderTitledBox(theme, fmt.Sprintf("User #%d", m.selectedID), body, m.width, m.contentHeight(), true)
}
