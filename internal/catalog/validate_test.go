package catalog

import (
	"errors"
	"testing"
)

func TestProductValidate(t *testing.T) {
	valid := Product{Name: "Desk", Price: 10, Category: "office", Description: "Oak desk"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name  string
		p     Product
		field string
	}{
		{"short name", Product{Name: "ab", Price: 10, Category: "x", Description: "long enough"}, "name"},
		{"zero price", Product{Name: "Desk", Price: 0, Category: "x", Description: "long enough"}, "price"},
		{"huge price", Product{Name: "Desk", Price: 200001, Category: "x", Description: "long enough"}, "price"},
		{"no category", Product{Name: "Desk", Price: 5, Category: " ", Description: "long enough"}, "category"},
		{"no description", Product{Name: "Desk", Price: 5, Category: "x"}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Fatalf("Validate() = %v, want error on %s", err, tt.field)
			}
		})
	}
}

func TestProductInputValidateReportsEveryField(t *testing.T) {
	err := ProductInput{}.Validate()
	if err == nil {
		t.Fatal("Validate() = nil for empty input")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 4 {
		t.Fatalf("Validate() = %v, want four field errors", err)
	}
}

func TestUserValidate(t *testing.T) {
	if err := (User{Name: "Ada", Email: "ada@example.com"}).Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	err := User{Name: "Ada", Email: "not-an-email"}.Validate()
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "email" {
		t.Fatalf("Validate() = %v, want email error", err)
	}
}
