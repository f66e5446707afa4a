package catalog

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field limits enforced by the create and edit forms and by the mock backend.
const (
	MinTextLen = 3
	MaxTextLen = 60
	MinPrice   = 1
	MaxPrice   = 200000
)

// FieldError reports one invalid field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// Validate checks a product against the form rules. Every failing field is
// reported, joined with errors.Join.
func (p Product) Validate() error {
	var errs []error
	errs = appendText(errs, "name", p.Name)
	if p.Price < MinPrice || p.Price > MaxPrice {
		errs = append(errs, &FieldError{Field: "price", Reason: fmt.Sprintf("must be between %d and %d", MinPrice, MaxPrice)})
	}
	if strings.TrimSpace(p.Category) == "" {
		errs = append(errs, &FieldError{Field: "category", Reason: "is required"})
	}
	errs = appendText(errs, "description", p.Description)
	return errors.Join(errs...)
}

// Validate checks a create payload.
func (in ProductInput) Validate() error {
	return in.WithID(0).Validate()
}

// Validate checks a user against the form rules.
func (u User) Validate() error {
	var errs []error
	errs = appendText(errs, "name", u.Name)
	if strings.TrimSpace(u.Email) == "" {
		errs = append(errs, &FieldError{Field: "email", Reason: "is required"})
	} else if _, err := mail.ParseAddress(u.Email); err != nil {
		errs = append(errs, &FieldError{Field: "email", Reason: "is not a valid address"})
	}
	return errors.Join(errs...)
}

func appendText(errs []error, field, value string) []error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n == 0:
		return append(errs, &FieldError{Field: field, Reason: "is required"})
	case n < MinTextLen || n > MaxTextLen:
		return append(errs, &FieldError{Field: field, Reason: fmt.Sprintf("must be %d to %d characters", MinTextLen, MaxTextLen)})
	}
	return errs
}
