package state

import (
	"strings"

	"github.com/five82/storeadmin/internal/catalog"
)

// ProductFilter constrains the product list. An empty dimension means no
// constraint. Query is stored lowercased.
type ProductFilter struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

// ProductFilterPatch updates the filter dimensions that are set.
type ProductFilterPatch struct {
	Query    *string
	Category *string
}

// apply merges the patch into f, lowercasing the query.
func (p ProductFilterPatch) apply(f ProductFilter) ProductFilter {
	if p.Query != nil {
		f.Query = strings.ToLower(*p.Query)
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	return f
}

// IsZero reports whether the filter has no constraint.
func (f ProductFilter) IsZero() bool {
	return f.Query == "" && f.Category == ""
}

// UserFilter constrains the user list by a lowercased query.
type UserFilter struct {
	Query string `json:"query"`
}

// ProjectProducts returns the products matching filter, in canonical order.
// The result is always a fresh slice; list is never modified.
func ProjectProducts(list []catalog.Product, filter ProductFilter) []catalog.Product {
	query := strings.ToLower(filter.Query)
	category := filter.Category

	return project(list, func(p catalog.Product) bool {
		queryMatch := strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query)
		categoryMatch := p.Category == category

		switch {
		case query != "" && category != "":
			return queryMatch && categoryMatch
		case query != "":
			return queryMatch
		case category != "":
			return categoryMatch
		default:
			return true
		}
	})
}

// ProjectUsers returns the users whose name or email contains the query.
func ProjectUsers(list []catalog.User, filter UserFilter) []catalog.User {
	query := strings.ToLower(filter.Query)
	return project(list, func(u catalog.User) bool {
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strings.ToLower(u.Email), query)
	})
}

func project[T any](list []T, keep func(T) bool) []T {
	if list == nil {
		return nil
	}
	out := make([]T, 0, len(list))
	for _, item := range list {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
