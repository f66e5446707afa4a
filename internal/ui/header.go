package ui

import (
	"fmt"
	"strings"

	"github.com/five82/storeadmin/internal/state"
)

// renderHeader renders the logo, view tabs and the in-flight request count.
func (m Model) renderHeader() string {
	theme := m.theme()
	styles := theme.Styles().WithBackground(theme.Surface)
	bg := newBgStyle(theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("storeadmin", styles.Logo)}

	active := m.page
	switch active {
	case pageProduct, pageProductNew:
		active = pageProducts
	case pageUser:
		active = pageUsers
	}
	for _, p := range []page{pageProducts, pageUsers, pageActivity} {
		label := p.title()
		if p == active {
			parts = append(parts, bg.Render("["+label+"]", styles.AccentText.Bold(true)))
		} else {
			parts = append(parts, bg.Render(label, styles.MutedText))
		}
	}

	if n := pendingRequests(m.snapshot); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d loading", n), styles.WarningText.Bold(true)))
	}
	if !m.lastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.lastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// pendingRequests counts the trackers that are waiting on the backend.
func pendingRequests(snap state.Snapshot) int {
	p, u := snap.Products, snap.Users
	n := 0
	for _, loading := range []bool{
		p.List.IsLoading, p.Detail.IsLoading, p.Create.IsLoading,
		p.Update.IsLoading, p.Delete.IsLoading, p.Categories.IsLoading,
		u.List.IsLoading, u.Detail.IsLoading, u.Update.IsLoading, u.Delete.IsLoading,
	} {
		if loading {
			n++
		}
	}
	return n
}

// renderCommandBar lists the keys that act on the current page.
func (m Model) renderCommandBar() string {
	theme := m.theme()
	styles := theme.Styles().WithBackground(theme.Surface)
	bg := newBgStyle(theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.form != nil:
		commands = []cmd{
			{"tab", "Next"},
			{"shift+tab", "Prev"},
			{"enter", "Submit"},
			{"esc", "Cancel"},
		}
	case m.searching:
		commands = []cmd{
			{"enter", "Keep"},
			{"esc", "Clear"},
		}
	case m.page == pageProducts:
		commands = []cmd{
			{"/", "Search"},
			{"c", categoryLabel(m.snapshot.Products.Filter.Category)},
			{"f", "Favorite"},
			{"enter", "View"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"n", "New"},
			{"r", "Reload"},
			{"?", "More"},
		}
	case m.page == pageUsers:
		commands = []cmd{
			{"/", "Search"},
			{"enter", "View"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"r", "Reload"},
			{"?", "More"},
		}
	case m.page == pageProduct:
		commands = []cmd{
			{"e", "Edit"},
			{"f", "Favorite"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case m.page == pageUser:
		commands = []cmd{
			{"e", "Edit"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

func categoryLabel(category string) string {
	if category == "" {
		return "All categories"
	}
	return category
}
