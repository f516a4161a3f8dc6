package search

import (
	"context"
	"sync"

	"github.com/dharmasatrya/flightmatch/internal/models"
)

type State int

const (
	StateIdle State = iota
	StateValidating
	StateInvalid
	StateFiltering
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateInvalid:
		return "invalid"
	case StateFiltering:
		return "filtering"
	}
	return "unknown"
}

// Form keeps the inline error state of a search form between submissions.
// Every Submit runs idle → validating → invalid or filtering → idle; the
// field errors of the last pass stay visible until edited or replaced by
// the next Submit.
type Form struct {
	service *Service

	mu       sync.Mutex
	state    State
	errors   map[string]string
	observer func(from, to State)
}

func NewForm(service *Service) *Form {
	return &Form{
		service: service,
		errors:  make(map[string]string),
	}
}

// Observe registers fn to be called on every state change.
func (f *Form) Observe(fn func(from, to State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observer = fn
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) transition(to State) {
	from := f.state
	f.state = to
	if f.observer != nil {
		f.observer(from, to)
	}
}

func (f *Form) Submit(ctx context.Context, raw models.SearchRequest) (*models.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer f.transition(StateIdle)

	f.transition(StateValidating)
	now := f.service.now()
	criteria, errs := f.service.validator.Validate(raw, now)

	f.errors = make(map[string]string, len(errs))
	for _, fe := range errs {
		f.errors[fe.Field] = fe.Message
	}
	if len(errs) > 0 {
		f.transition(StateInvalid)
		return nil, errs
	}

	f.transition(StateFiltering)
	return f.service.run(ctx, criteria, now)
}

// Edit clears the error on one field.
func (f *Form) Edit(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.errors, field)
}

// SwapRoute exchanges origin and destination. Both count as edited.
func (f *Form) SwapRoute(raw models.SearchRequest) models.SearchRequest {
	f.Edit(models.FieldOrigin)
	f.Edit(models.FieldDestination)
	return raw.SwapRoute()
}

func (f *Form) FieldError(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

func (f *Form) Invalid(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.errors[field]
	return ok
}
