package state

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a backend rejection for the reconciliation policy.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindNotFoundKnownID is a 404 for a request that targeted a specific id.
	// It is the only kind eligible for soft success.
	KindNotFoundKnownID
	KindNotFoundUnknownID
	KindForbidden
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFoundKnownID:
		return "not-found-known-id"
	case KindNotFoundUnknownID:
		return "not-found-unknown-id"
	case KindForbidden:
		return "forbidden"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ErrSuperseded is returned by an Op whose result was dropped because its
// tracker was restarted or reset while it was in flight.
var ErrSuperseded = errors.New("operation superseded")

// Rejection is a classified backend failure.
type Rejection struct {
	Kind   ErrorKind
	Status int // HTTP status when the backend answered, 0 otherwise
	ID     int
	HasID  bool
	Err    error
}

func (r *Rejection) Error() string {
	if r.HasID {
		return fmt.Sprintf("%s (id %d): %v", r.Kind, r.ID, r.Err)
	}
	return fmt.Sprintf("%s: %v", r.Kind, r.Err)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// knownMissing reports whether the rejection claims id is absent on the backend.
func (r *Rejection) knownMissing(id int) bool {
	return r != nil && r.Kind == KindNotFoundKnownID && r.HasID && r.ID == id
}

type statusCoder interface {
	StatusCode() int
}

// Classify turns a backend error into a Rejection. hasID tells whether the
// failed request targeted the entity id.
func Classify(err error, id int, hasID bool) *Rejection {
	rej := &Rejection{Kind: KindUnknown, Err: err}
	if hasID {
		rej.ID = id
		rej.HasID = true
	}

	var sc statusCoder
	if !errors.As(err, &sc) {
		return rej
	}
	rej.Status = sc.StatusCode()

	switch rej.Status {
	case http.StatusNotFound:
		if hasID {
			rej.Kind = KindNotFoundKnownID
		} else {
			rej.Kind = KindNotFoundUnknownID
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		rej.Kind = KindForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		rej.Kind = KindMalformed
	}
	return rej
}
