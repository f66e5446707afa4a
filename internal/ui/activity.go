package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storeadmin/internal/logtail"
)

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "g", "home":
		m.activityView.GotoTop()
		return m, nil
	case "G", "end":
		m.activityView.GotoBottom()
		return m, nil
	case "r":
		return m, loadActivityCmd(m.activityLog, m.activityLines)
	}
	var cmd tea.Cmd
	m.activityView, cmd = m.activityView.Update(msg)
	return m, cmd
}

func (m Model) renderActivity() string {
	theme := m.theme()
	title := fmt.Sprintf("Activity (%d)", len(m.activity))
	if m.activityLog == "" {
		title = "Activity"
	}
	return renderTitledBox(theme, title, m.activityView.View(), m.width, m.contentHeight(), true)
}

// renderActivityLines formats the loaded entries for the viewport.
func (m Model) renderActivityLines() string {
	styles := m.theme().Styles()
	switch {
	case m.activityLog == "":
		return styles.MutedText.Render("Activity logging is disabled")
	case m.activityErr != nil:
		return styles.DangerText.Render("Activity log unavailable: " + m.activityErr.Error())
	case len(m.activity) == 0:
		return styles.MutedText.Render("No activity yet")
	}

	lines := make([]string, 0, len(m.activity))
	for _, e := range m.activity {
		lines = append(lines, formatEntry(styles, e))
	}
	return strings.Join(lines, "\n")
}

// formatEntry renders one activity line. Lines that are not request
// records are shown verbatim.
func formatEntry(styles Styles, e logtail.Entry) string {
	if e.Op == "" {
		return styles.FaintText.Render(e.Raw)
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(styles.FaintText.Render(e.Time.Format("15:04:05")))
		b.WriteString(" ")
	}
	b.WriteString(styles.AccentText.Render(padRight(e.Op, 20)))
	if e.ID != "" {
		b.WriteString(styles.MutedText.Render(padRight("#"+e.ID, 8)))
	} else {
		b.WriteString(padRight("", 8))
	}
	b.WriteString(styles.OutcomeStyle(e.Outcome).Render(padRight(e.Outcome, 13)))
	if e.Err != "" {
		b.WriteString(styles.DangerText.Render(e.Err))
	}
	if e.RequestID != "" {
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(truncate(e.RequestID, 8)))
	}
	return b.String()
}
