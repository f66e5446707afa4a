package ui

import (
	"time"
)

// toastTTL is how long a toast stays on screen.
const toastTTL = 4 * time.Second

const retryLater = " Please try again later."

type toastKind int

const (
	toastNone toastKind = iota
	toastSuccess
	toastError
)

// toast is a transient status message shown under the page.
type toast struct {
	kind  toastKind
	text  string
	until time.Time
}

func successToast(text string, now time.Time) toast {
	return toast{kind: toastSuccess, text: text, until: now.Add(toastTTL)}
}

// errorToast appends the generic retry hint. Error details go to the
// activity log only.
func errorToast(text string, now time.Time) toast {
	return toast{kind: toastError, text: text + retryLater, until: now.Add(toastTTL)}
}

func (t toast) expire(now time.Time) toast {
	if t.kind != toastNone && !now.Before(t.until) {
		return toast{}
	}
	return t
}

func (m Model) renderToast() string {
	theme := m.theme()
	styles := theme.Styles().WithBackground(theme.Surface)
	bar := styles.Header.Width(m.width)

	switch m.toast.kind {
	case toastSuccess:
		return bar.Render(styles.SuccessText.Render("✔ " + m.toast.text))
	case toastError:
		return bar.Render(styles.DangerText.Render("✖ " + m.toast.text))
	default:
		return bar.Render("")
	}
}
