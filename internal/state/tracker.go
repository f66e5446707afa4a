package state

// Ticket identifies one start of a tracker. Terminal events carry the ticket
// of the start they complete.
type Ticket uint64

// Phase is the lifecycle state of a tracker.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Outcome reports what a terminal event did to its tracker.
type Outcome int

const (
	// OutcomeStale means the event belonged to a superseded start and was dropped.
	OutcomeStale Outcome = iota
	OutcomeSuccess
	// OutcomeSoftSuccess is a rejection reported as success because the
	// canonical state already matches the intent.
	OutcomeSoftSuccess
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSoftSuccess:
		return "soft-success"
	case OutcomeError:
		return "error"
	default:
		return "stale"
	}
}

// Tracker follows the request lifecycle of one asynchronous operation.
// IsLoading, IsSuccess and IsError are mutually exclusive.
type Tracker[T any] struct {
	IsLoading bool `json:"isLoading"`
	IsSuccess bool `json:"isSuccess"`
	IsError   bool `json:"isError"`
	Data      T    `json:"data"`

	gen Ticket
}

// Phase derives the lifecycle state from the flags.
func (t Tracker[T]) Phase() Phase {
	switch {
	case t.IsLoading:
		return PhasePending
	case t.IsSuccess:
		return PhaseSuccess
	case t.IsError:
		return PhaseError
	default:
		return PhaseIdle
	}
}

// Start moves the tracker to pending, clears its data and returns the ticket
// the matching terminal event must present.
func (t *Tracker[T]) Start() Ticket {
	var zero T
	t.gen++
	t.IsLoading = true
	t.IsSuccess = false
	t.IsError = false
	t.Data = zero
	return t.gen
}

// Accepts reports whether a terminal event carrying tk would be applied.
func (t *Tracker[T]) Accepts(tk Ticket) bool {
	return t.IsLoading && tk == t.gen
}

// Settle applies a terminal event. ok selects which of the success or error
// flags is raised. Events for a superseded start are dropped.
func (t *Tracker[T]) Settle(tk Ticket, ok bool, data T) bool {
	if !t.Accepts(tk) {
		return false
	}
	t.IsLoading = false
	t.IsSuccess = ok
	t.IsError = !ok
	t.Data = data
	return true
}

// Succeed settles the tracker with data.
func (t *Tracker[T]) Succeed(tk Ticket, data T) bool {
	return t.Settle(tk, true, data)
}

// Fail settles the tracker as a genuine error with empty data.
func (t *Tracker[T]) Fail(tk Ticket) bool {
	var zero T
	return t.Settle(tk, false, zero)
}

// Reset returns the tracker to idle. Any in-flight start is superseded.
func (t *Tracker[T]) Reset() {
	var zero T
	t.gen++
	t.IsLoading = false
	t.IsSuccess = false
	t.IsError = false
	t.Data = zero
}

// rebase carries the generation of prev over after a restore so tickets stay
// monotonic. A restored pending tracker goes back to idle.
func (t *Tracker[T]) rebase(prev Ticket) {
	t.gen = prev
	if t.IsLoading {
		t.Reset()
	}
}

// ListTracker is a Tracker over a canonical list plus its filtered
// projection. FilteredData is only ever written by the code path that writes
// Data.
type ListTracker[T any] struct {
	Tracker[[]T]
	FilteredData []T `json:"filteredData"`
}

// Reset returns the list tracker to idle with empty canonical and filtered data.
func (l *ListTracker[T]) Reset() {
	l.Tracker.Reset()
	l.FilteredData = nil
}

// Start moves the list tracker to pending and clears both lists.
func (l *ListTracker[T]) Start() Ticket {
	l.FilteredData = nil
	return l.Tracker.Start()
}
