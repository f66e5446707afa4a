package catalog

import (
	"reflect"
	"testing"
)

func TestProductPatch_ApplyOnlySetFields(t *testing.T) {
	base := Product{ID: 3, Name: "Desk", Price: 100, Description: "oak", Category: "furniture"}

	got := ProductPatch{Price: Ptr(80.5), IsFavorite: Ptr(true)}.Apply(base)
	want := Product{ID: 3, Name: "Desk", Price: 80.5, Description: "oak", Category: "furniture", IsFavorite: true}
	if got != want {
		t.Fatalf("Apply = %#v, want %#v", got, want)
	}
	if base.Price != 100 {
		t.Fatalf("Apply mutated base: %#v", base)
	}
}

func TestProductPatch_IsEmpty(t *testing.T) {
	if !(ProductPatch{}).IsEmpty() {
		t.Fatalf("zero patch should be empty")
	}
	if (ProductPatch{Category: Ptr("")}).IsEmpty() {
		t.Fatalf("patch with empty category set should not be empty")
	}
}

func TestUserPatch_Apply(t *testing.T) {
	got := UserPatch{Email: Ptr("new@example.com")}.Apply(User{ID: 1, Name: "Ada", Email: "old@example.com"})
	if got.Name != "Ada" || got.Email != "new@example.com" {
		t.Fatalf("Apply = %#v, want name kept and email replaced", got)
	}
}

func TestCategories_DistinctInFirstSeenOrder(t *testing.T) {
	products := []Product{
		{ID: 1, Category: "books"},
		{ID: 2, Category: "garden"},
		{ID: 3, Category: "books"},
		{ID: 4, Category: ""},
		{ID: 5, Category: "toys"},
	}
	got := Categories(products)
	want := []string{"books", "garden", "toys"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories = %v, want %v", got, want)
	}
}

func TestProductInput_WithID(t *testing.T) {
	in := ProductInput{Name: "Lamp", Price: 12, Category: "home"}
	got := in.WithID(42)
	if got.ID != 42 || got.Name != "Lamp" || got.Category != "home" {
		t.Fatalf("WithID = %#v", got)
	}
}
