// Package catalog defines the records managed by the admin console.
package catalog

import "slices"

// Product mirrors the product payload exchanged with the admin API.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	IsFavorite  bool    `json:"isFavorite"`
}

// ProductInput is the create payload: a product without an id.
type ProductInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	IsFavorite  bool    `json:"isFavorite"`
}

// WithID returns the product the input describes once the backend assigned id.
func (in ProductInput) WithID(id int) Product {
	return Product{
		ID:          id,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		IsFavorite:  in.IsFavorite,
	}
}

// ProductPatch is a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	IsFavorite  *bool    `json:"isFavorite,omitempty"`
}

// Apply overlays the set fields of p onto base.
func (p ProductPatch) Apply(base Product) Product {
	out := base
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Price != nil {
		out.Price = *p.Price
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.IsFavorite != nil {
		out.IsFavorite = *p.IsFavorite
	}
	return out
}

// IsEmpty reports whether the patch sets no field.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.Category == nil && p.IsFavorite == nil
}

// User mirrors the user payload exchanged with the admin API.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch is a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Apply overlays the set fields of p onto base.
func (p UserPatch) Apply(base User) User {
	out := base
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	return out
}

// IsEmpty reports whether the patch sets no field.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}

// Categories returns the distinct product categories in first-seen order.
func Categories(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		if p.Category == "" || slices.Contains(out, p.Category) {
			continue
		}
		out = append(out, p.Category)
	}
	return out
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
