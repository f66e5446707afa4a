package state

import (
	"slices"

	"github.com/five82/storeadmin/internal/catalog"
)

// ProductTracker names one of the product trackers for Reset.
type ProductTracker int

const (
	ProductList ProductTracker = iota
	ProductDetail
	ProductCreate
	ProductUpdate
	ProductDelete
	ProductCategories
)

// ProductState is the product entity store.
type ProductState struct {
	Filter     ProductFilter                `json:"listFilter"`
	List       ListTracker[catalog.Product] `json:"listResponse"`
	Detail     Tracker[*catalog.Product]    `json:"detailResponse"`
	Create     Tracker[*catalog.Product]    `json:"createResponse"`
	Update     Tracker[*catalog.Product]    `json:"updateResponse"`
	Delete     Tracker[*catalog.Product]    `json:"deleteResponse"`
	Categories Tracker[[]string]            `json:"categoryListResponse"`

	// edits counts canonical list patches applied by mutation results.
	edits uint64
}

// Find returns the canonical product with id.
func (s *ProductState) Find(id int) (catalog.Product, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return catalog.Product{}, false
	}
	return s.List.Data[idx], true
}

func (s *ProductState) indexOf(id int) int {
	return slices.IndexFunc(s.List.Data, func(p catalog.Product) bool { return p.ID == id })
}

// reproject recomputes the filtered list from canonical data.
func (s *ProductState) reproject() {
	s.List.FilteredData = ProjectProducts(s.List.Data, s.Filter)
}

func (s *ProductState) replace(p catalog.Product) bool {
	idx := s.indexOf(p.ID)
	if idx < 0 {
		return false
	}
	data := slices.Clone(s.List.Data)
	data[idx] = p
	s.List.Data = data
	s.edits++
	return true
}

func (s *ProductState) remove(id int) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.List.Data = slices.Delete(slices.Clone(s.List.Data), idx, idx+1)
	s.edits++
	return true
}

func (s *ProductState) setFilter(patch ProductFilterPatch) {
	s.Filter = patch.apply(s.Filter)
	s.reproject()
}

// toggleFavorite flips IsFavorite on the canonical element. It touches no
// tracker and never reaches the backend.
func (s *ProductState) toggleFavorite(id int) bool {
	p, ok := s.Find(id)
	if !ok {
		return false
	}
	p.IsFavorite = !p.IsFavorite
	s.replace(p)
	s.reproject()
	return true
}

func (s *ProductState) reset(which ProductTracker) {
	switch which {
	case ProductList:
		s.List.Reset()
	case ProductDetail:
		s.Detail.Reset()
	case ProductCreate:
		s.Create.Reset()
	case ProductUpdate:
		s.Update.Reset()
	case ProductDelete:
		s.Delete.Reset()
	case ProductCategories:
		s.Categories.Reset()
	}
}

func (s *ProductState) fulfillList(tk Ticket, products []catalog.Product) Outcome {
	if products == nil {
		products = []catalog.Product{}
	}
	if !s.List.Succeed(tk, products) {
		return OutcomeStale
	}
	s.reproject()
	return OutcomeSuccess
}

func (s *ProductState) rejectList(tk Ticket) Outcome {
	if !s.List.Settle(tk, false, []catalog.Product{}) {
		return OutcomeStale
	}
	s.reproject()
	return OutcomeError
}

func (s *ProductState) fulfillDetail(tk Ticket, p catalog.Product) Outcome {
	if !s.Detail.Succeed(tk, &p) {
		return OutcomeStale
	}
	return OutcomeSuccess
}

// rejectDetail falls back to the canonical copy when the backend claims a
// known id is missing.
func (s *ProductState) rejectDetail(tk Ticket, rej *Rejection) Outcome {
	if !s.Detail.Accepts(tk) {
		return OutcomeStale
	}
	if rej.knownMissing(rej.ID) {
		if p, ok := s.Find(rej.ID); ok {
			s.Detail.Succeed(tk, &p)
			return OutcomeSoftSuccess
		}
	}
	s.Detail.Fail(tk)
	return OutcomeError
}

// fulfillCreate prepends the created product even when the ticket is stale:
// the backend holds it either way, only the tracker outcome is dropped.
func (s *ProductState) fulfillCreate(tk Ticket, p catalog.Product) Outcome {
	data := make([]catalog.Product, 0, len(s.List.Data)+1)
	data = append(data, p)
	s.List.Data = append(data, s.List.Data...)
	s.edits++
	s.reproject()
	if !s.Create.Succeed(tk, &p) {
		return OutcomeStale
	}
	return OutcomeSuccess
}

// rejectCreate has no soft-success path.
func (s *ProductState) rejectCreate(tk Ticket) Outcome {
	if !s.Create.Fail(tk) {
		return OutcomeStale
	}
	return OutcomeError
}

func (s *ProductState) fulfillUpdate(tk Ticket, p catalog.Product) Outcome {
	s.replace(p)
	s.reproject()
	if !s.Update.Succeed(tk, &p) {
		return OutcomeStale
	}
	return OutcomeSuccess
}

// rejectUpdate treats a 404 on a known id as a stale-read race: the patch is
// merged onto the canonical copy and reported as applied.
func (s *ProductState) rejectUpdate(tk Ticket, id int, patch catalog.ProductPatch, rej *Rejection) Outcome {
	if !s.Update.Accepts(tk) {
		return OutcomeStale
	}
	if rej.knownMissing(id) {
		if current, ok := s.Find(id); ok {
			merged := patch.Apply(current)
			s.replace(merged)
			s.reproject()
			s.Update.Succeed(tk, &merged)
			return OutcomeSoftSuccess
		}
	}
	s.Update.Fail(tk)
	return OutcomeError
}

func (s *ProductState) fulfillDelete(tk Ticket, id int, deleted *catalog.Product) Outcome {
	if s.remove(id) {
		s.reproject()
	}
	if !s.Delete.Succeed(tk, deleted) {
		return OutcomeStale
	}
	return OutcomeSuccess
}

// rejectDelete treats a 404 on a known id as already achieved: the entity is
// dropped locally when present, also for a superseded ticket.
func (s *ProductState) rejectDelete(tk Ticket, id int, rej *Rejection) Outcome {
	if rej.knownMissing(id) && s.remove(id) {
		s.reproject()
		if !s.Delete.Settle(tk, true, nil) {
			return OutcomeStale
		}
		return OutcomeSoftSuccess
	}
	if !s.Delete.Fail(tk) {
		return OutcomeStale
	}
	return OutcomeError
}

func (s *ProductState) fulfillCategories(tk Ticket, categories []string) Outcome {
	if categories == nil {
		categories = []string{}
	}
	if !s.Categories.Succeed(tk, categories) {
		return OutcomeStale
	}
	return OutcomeSuccess
}

func (s *ProductState) rejectCategories(tk Ticket) Outcome {
	if !s.Categories.Settle(tk, false, []string{}) {
		return OutcomeStale
	}
	return OutcomeError
}

func (s ProductState) clone() ProductState {
	out := s
	out.List.Data = slices.Clone(s.List.Data)
	out.List.FilteredData = slices.Clone(s.List.FilteredData)
	out.Detail.Data = clonePtr(s.Detail.Data)
	out.Create.Data = clonePtr(s.Create.Data)
	out.Update.Data = clonePtr(s.Update.Data)
	out.Delete.Data = clonePtr(s.Delete.Data)
	out.Categories.Data = slices.Clone(s.Categories.Data)
	return out
}

// adopt installs restored state while keeping the generations of prev.
func (s *ProductState) adopt(prev ProductState) {
	s.List.rebase(prev.List.gen)
	s.Detail.rebase(prev.Detail.gen)
	s.Create.rebase(prev.Create.gen)
	s.Update.rebase(prev.Update.gen)
	s.Delete.rebase(prev.Delete.gen)
	s.Categories.rebase(prev.Categories.gen)
	s.reproject()
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
