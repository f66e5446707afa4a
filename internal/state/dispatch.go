package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/five82/storeadmin/internal/catalog"
	"github.com/five82/storeadmin/internal/requestid"
)

// ProductAPI is the product side of the admin backend.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int) (catalog.Product, error)
	CreateProduct(ctx context.Context, input catalog.ProductInput) (catalog.Product, error)
	UpdateProduct(ctx context.Context, id int, patch catalog.ProductPatch) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id int) (*catalog.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// UserAPI is the user side of the admin backend.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]catalog.User, error)
	GetUser(ctx context.Context, id int) (catalog.User, error)
	UpdateUser(ctx context.Context, id int, patch catalog.UserPatch) (catalog.User, error)
	DeleteUser(ctx context.Context, id int) (*catalog.User, error)
}

// Op performs the backend call of an intent and applies its terminal
// transition. It returns nil on success or soft success, the classified
// *Rejection on a genuine error, and ErrSuperseded when the result was dropped.
type Op func(ctx context.Context) error

// Dispatcher turns intents into tracker transitions and backend calls.
type Dispatcher struct {
	store    *Store
	products ProductAPI
	users    UserAPI
	logger   *log.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the activity logger. Nil keeps the default, which discards.
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher wires store to the backend.
func NewDispatcher(store *Store, products ProductAPI, users UserAPI, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		products: products,
		users:    users,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the store the dispatcher writes to.
func (d *Dispatcher) Store() *Store {
	return d.store
}

// FetchProducts loads the canonical product list.
func (d *Dispatcher) FetchProducts() Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.products.List.Start() })

	return d.op("products.list", nil, func(ctx context.Context) (Outcome, error) {
		list, err := d.products.ListProducts(ctx)
		if err != nil {
			rej := Classify(err, 0, false)
			return d.store.settle(func() Outcome { return d.store.products.rejectList(tk) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.products.fulfillList(tk, list) }), nil
	})
}

// FetchProduct loads one product into the detail tracker.
func (d *Dispatcher) FetchProduct(id int) Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.products.Detail.Start() })

	return d.op("products.get", &id, func(ctx context.Context) (Outcome, error) {
		p, err := d.products.GetProduct(ctx, id)
		if err != nil {
			rej := Classify(err, id, true)
			return d.store.settle(func() Outcome { return d.store.products.rejectDetail(tk, rej) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.products.fulfillDetail(tk, p) }), nil
	})
}

// CreateProduct submits a new product. The created entity is prepended to
// the canonical list.
func (d *Dispatcher) CreateProduct(input catalog.ProductInput) Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.products.Create.Start() })

	return d.op("products.create", nil, func(ctx context.Context) (Outcome, error) {
		p, err := d.products.CreateProduct(ctx, input)
		if err != nil {
			rej := Classify(err, 0, false)
			return d.store.settle(func() Outcome { return d.store.products.rejectCreate(tk) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.products.fulfillCreate(tk, p) }), nil
	})
}

// UpdateProduct applies patch to the product with id.
func (d *Dispatcher) UpdateProduct(id int, patch catalog.ProductPatch) Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.products.Update.Start() })

	return d.op("products.update", &id, func(ctx context.Context) (Outcome, error) {
		p, err := d.products.UpdateProduct(ctx, id, patch)
		if err != nil {
			rej := Classify(err, id, true)
			return d.store.settle(func() Outcome { return d.store.products.rejectUpdate(tk, id, patch, rej) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.products.fulfillUpdate(tk, p) }), nil
	})
}

// DeleteProduct removes the product with id.
func (d *Dispatcher) DeleteProduct(id int) Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.products.Delete.Start() })

	return d.op("products.delete", &id, func(ctx context.Context) (Outcome, error) {
		deleted, err := d.products.DeleteProduct(ctx, id)
		if err != nil {
			rej := Classify(err, id, true)
			return d.store.settle(func() Outcome { return d.store.products.rejectDelete(tk, id, rej) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.products.fulfillDelete(tk, id, deleted) }), nil
	})
}

// FetchCategories loads the distinct product categories.
func (d *Dispatcher) FetchCategories() Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.products.Categories.Start() })

	return d.op("products.categories", nil, func(ctx context.Context) (Outcome, error) {
		categories, err := d.products.ListCategories(ctx)
		if err != nil {
			rej := Classify(err, 0, false)
			return d.store.settle(func() Outcome { return d.store.products.rejectCategories(tk) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.products.fulfillCategories(tk, categories) }), nil
	})
}

// FetchUsers loads the canonical user list.
func (d *Dispatcher) FetchUsers() Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.users.List.Start() })

	return d.op("users.list", nil, func(ctx context.Context) (Outcome, error) {
		list, err := d.users.ListUsers(ctx)
		if err != nil {
			rej := Classify(err, 0, false)
			return d.store.settle(func() Outcome { return d.store.users.rejectList(tk) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.users.fulfillList(tk, list) }), nil
	})
}

// FetchUser loads one user into the detail tracker.
func (d *Dispatcher) FetchUser(id int) Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.users.Detail.Start() })

	return d.op("users.get", &id, func(ctx context.Context) (Outcome, error) {
		u, err := d.users.GetUser(ctx, id)
		if err != nil {
			rej := Classify(err, id, true)
			return d.store.settle(func() Outcome { return d.store.users.rejectDetail(tk, rej) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.users.fulfillDetail(tk, u) }), nil
	})
}

// UpdateUser applies patch to the user with id.
func (d *Dispatcher) UpdateUser(id int, patch catalog.UserPatch) Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.users.Update.Start() })

	return d.op("users.update", &id, func(ctx context.Context) (Outcome, error) {
		u, err := d.users.UpdateUser(ctx, id, patch)
		if err != nil {
			rej := Classify(err, id, true)
			return d.store.settle(func() Outcome { return d.store.users.rejectUpdate(tk, id, patch, rej) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.users.fulfillUpdate(tk, u) }), nil
	})
}

// DeleteUser removes the user with id.
func (d *Dispatcher) DeleteUser(id int) Op {
	var tk Ticket
	d.store.mutate(func() { tk = d.store.users.Delete.Start() })

	return d.op("users.delete", &id, func(ctx context.Context) (Outcome, error) {
		deleted, err := d.users.DeleteUser(ctx, id)
		if err != nil {
			rej := Classify(err, id, true)
			return d.store.settle(func() Outcome { return d.store.users.rejectDelete(tk, id, rej) }), rej
		}
		return d.store.settle(func() Outcome { return d.store.users.fulfillDelete(tk, id, deleted) }), nil
	})
}

// op tags the call with a request id and logs its outcome.
func (d *Dispatcher) op(name string, id *int, call func(ctx context.Context) (Outcome, error)) Op {
	return func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		reqID := requestid.From(ctx)
		if reqID == "" {
			reqID = requestid.New()
			ctx = requestid.With(ctx, reqID)
		}

		outcome, err := call(ctx)

		target := ""
		if id != nil {
			target = fmt.Sprintf(" id=%d", *id)
		}
		if err != nil {
			d.logger.Printf("request=%s op=%s%s outcome=%s err=%v", reqID, name, target, outcome, err)
		} else {
			d.logger.Printf("request=%s op=%s%s outcome=%s", reqID, name, target, outcome)
		}

		switch outcome {
		case OutcomeStale:
			if err != nil {
				return errors.Join(ErrSuperseded, err)
			}
			return ErrSuperseded
		case OutcomeError:
			return err
		default:
			return nil
		}
	}
}
