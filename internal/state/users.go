package state

import (
	"slices"
	"strings"

	"github.com/five82/storeadmin/internal/catalog"
)

// UserTracker names one of the user trackers for Reset.
type UserTracker int

const (
	UserList UserTracker = iota
	UserDetail
	UserUpdate
	UserDelete
)

// UserState is the user entity store.
type UserState struct {
	Filter UserFilter                `json:"listFilter"`
	List   ListTracker[catalog.User] `json:"listResponse"`
	Detail Tracker[*catalog.User]    `json:"detailResponse"`
	Update Tracker[*catalog.User]    `json:"updateResponse"`
	Delete Tracker[*catalog.User]    `json:"deleteResponse"`

	edits uint64
}

// Find returns the canonical user with id.
func (s *UserState) Find(id int) (catalog.User, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return catalog.User{}, false
	}
	return s.List.Data[idx], true
}

func (s *UserState) indexOf(id int) int {
	return slices.IndexFunc(s.List.Data, func(u catalog.User) bool { return u.ID == id })
}

func (s *UserState) reproject() {
	s.List.FilteredData = ProjectUsers(s.List.Data, s.Filter)
}

func (s *UserState) replace(u catalog.User) bool {
	idx := s.indexOf(u.ID)
	if idx < 0 {
		return false
	}
	data := slices.Clone(s.List.Data)
	data[idx] = u
	s.List.Data = data
	s.edits++
	return true
}

func (s *UserState) remove(id int) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.List.Data = slices.Delete(slices.Clone(s.List.Data), idx, idx+1)
	s.edits++
	return true
}

func (s *UserState) setFilter(query string) {
	s.Filter.Query = strings.ToLower(query)
	s.reproject()
}

func (s *UserState) reset(which UserTracker) {
	switch which {
	case UserList:
		s.List.Reset()
	case UserDetail:
		s.Detail.Reset()
	case UserUpdate:
		s.Update.Reset()
	case UserDelete:
		s.Delete.Reset()
	}
}

func (s *UserState) fulfillList(tk Ticket, users []catalog.User) Outcome {
	if users == nil {
		users = []catalog.User{}
	}
	if !s.List.Succeed(tk, users) {
		return OutcomeStale
	}
	s.reproject()
	return OutcomeSuccess
}

func (s *UserState) rejectList(tk Ticket) Outcome {
	if !s.List.Settle(tk, false, []catalog.User{}) {
		return OutcomeStale
	}
	s.reproject()
	return OutcomeError
}

func (s *UserState) fulfillDetail(tk Ticket, u catalog.User) Outcome {
	if !s.Detail.Succeed(tk, &u) {
		return OutcomeStale
	}
	return OutcomeSuccess
}

func (s *UserState) rejectDetail(tk Ticket, rej *Rejection) Outcome {
	if !s.Detail.Accepts(tk) {
		return OutcomeStale
	}
	if rej.knownMissing(rej.ID) {
		if u, ok := s.Find(rej.ID); ok {
			s.Detail.Succeed(tk, &u)
			return OutcomeSoftSuccess
		}
	}
	s.Detail.Fail(tk)
	return OutcomeError
}

func (s *UserState) fulfillUpdate(tk Ticket, u catalog.User) Outcome {
	s.replace(u)
	s.reproject()
	if !s.Update.Succeed(tk, &u) {
		return OutcomeStale
	}
	return OutcomeSuccess
}

func (s *UserState) rejectUpdate(tk Ticket, id int, patch catalog.UserPatch, rej *Rejection) Outcome {
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

// fulfillDelete drops the user even for a superseded ticket. The backend
// applied the delete; only the tracker outcome belongs to the newer request.
func (s *UserState) fulfillDelete(tk Ticket, id int, deleted *catalog.User) Outcome {
	if s.remove(id) {
		s.reproject()
	}
	if !s.Delete.Succeed(tk, deleted) {
		return OutcomeStale
	}
	return OutcomeSuccess
}

func (s *UserState) rejectDelete(tk Ticket, id int, rej *Rejection) Outcome {
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

func (s UserState) clone() UserState {
	out := s
	out.List.Data = slices.Clone(s.List.Data)
	out.List.FilteredData = slices.Clone(s.List.FilteredData)
	out.Detail.Data = clonePtr(s.Detail.Data)
	out.Update.Data = clonePtr(s.Update.Data)
	out.Delete.Data = clonePtr(s.Delete.Data)
	return out
}

func (s *UserState) adopt(prev UserState) {
	s.List.rebase(prev.List.gen)
	s.Detail.rebase(prev.Detail.gen)
	s.Update.rebase(prev.Update.gen)
	s.Delete.rebase(prev.Delete.gen)
	s.reproject()
}
