package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/storeadmin/internal/catalog"
)

// form is a vertical list of labelled text inputs.
type form struct {
	title  string
	fields []formField
	focus  int
	err    string
}

type formField struct {
	label string
	input textinput.Model
}

func newField(label, value string) formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = catalog.MaxTextLen
	ti.SetValue(value)
	return formField{label: label, input: ti}
}

func newForm(title string, fields ...formField) *form {
	f := &form{title: title, fields: fields}
	f.fields[0].input.Focus()
	return f
}

func (f *form) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

func (f *form) move(delta int) {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// formAction is what a key press asked the form owner to do.
type formAction int

const (
	formEdit formAction = iota
	formSubmit
	formCancel
)

// update applies a key to the form. Enter on the last field submits; on
// any other field it advances.
func (f *form) update(msg tea.KeyMsg, keys keyMap) (formAction, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		return formCancel, nil
	case key.Matches(msg, keys.Submit):
		if f.focus == len(f.fields)-1 {
			return formSubmit, nil
		}
		f.move(1)
		return formEdit, nil
	case key.Matches(msg, keys.NextField):
		f.move(1)
		return formEdit, nil
	case key.Matches(msg, keys.PrevField):
		f.move(-1)
		return formEdit, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return formEdit, cmd
}

func (f *form) view(theme Theme, width int) string {
	styles := theme.Styles()
	labelWidth := 0
	for _, fld := range f.fields {
		labelWidth = max(labelWidth, len(fld.label))
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n\n")
	for i, fld := range f.fields {
		label := styles.MutedText.Render(padRight(fld.label, labelWidth+2))
		if i == f.focus {
			label = styles.AccentText.Bold(true).Render(padRight(fld.label, labelWidth+2))
		}
		fld.input.Width = max(width-labelWidth-6, 10)
		b.WriteString(label + fld.input.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		wrap := lipgloss.NewStyle().Width(max(width-2, 10))
		b.WriteString(wrap.Render(styles.DangerText.Render(f.err)))
	}
	return b.String()
}

// describeInvalid flattens joined validation errors into one line.
func describeInvalid(err error) string {
	var parts []string
	var collect func(error)
	collect = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				collect(e)
			}
			return
		}
		parts = append(parts, err.Error())
	}
	collect(err)
	return strings.Join(parts, "; ")
}

// productDraft is the editable text of a product form.
type productDraft struct {
	Name, Price, Category, Description string
}

func draftOf(p catalog.Product) productDraft {
	return productDraft{
		Name:        p.Name,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Category:    p.Category,
		Description: p.Description,
	}
}

const (
	fieldName = iota
	fieldPrice
	fieldCategory
	fieldDescription
)

func newProductForm(title string, d productDraft) *form {
	return newForm(title,
		newField("Name", d.Name),
		newField("Price", d.Price),
		newField("Category", d.Category),
		newField("Description", d.Description),
	)
}

// productInput parses and validates the product form.
func productInput(f *form) (catalog.ProductInput, error) {
	in := catalog.ProductInput{
		Name:        f.value(fieldName),
		Category:    f.value(fieldCategory),
		Description: f.value(fieldDescription),
	}
	price, err := strconv.ParseFloat(f.value(fieldPrice), 64)
	if err != nil {
		return in, errors.Join(&catalog.FieldError{Field: "price", Reason: "must be a number"}, in.Validate())
	}
	in.Price = price
	return in, in.Validate()
}

// productPatch holds the fields of in that differ from base.
func productPatch(base catalog.Product, in catalog.ProductInput) catalog.ProductPatch {
	var p catalog.ProductPatch
	if in.Name != base.Name {
		p.Name = catalog.Ptr(in.Name)
	}
	if in.Price != base.Price {
		p.Price = catalog.Ptr(in.Price)
	}
	if in.Category != base.Category {
		p.Category = catalog.Ptr(in.Category)
	}
	if in.Description != base.Description {
		p.Description = catalog.Ptr(in.Description)
	}
	return p
}

const (
	fieldUserName = iota
	fieldUserEmail
)

func newUserForm(u catalog.User) *form {
	return newForm(fmt.Sprintf("Edit user #%d", u.ID),
		newField("Name", u.Name),
		newField("Email", u.Email),
	)
}

// userPatch validates the user form and returns the changed fields.
func userPatch(base catalog.User, f *form) (catalog.UserPatch, error) {
	var p catalog.UserPatch
	if name := f.value(fieldUserName); name != base.Name {
		p.Name = catalog.Ptr(name)
	}
	if email := f.value(fieldUserEmail); email != base.Email {
		p.Email = catalog.Ptr(email)
	}
	return p, p.Apply(base).Validate()
}
