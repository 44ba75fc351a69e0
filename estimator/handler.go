package estimator

import (
	"fmt"

	"github.com/phil-mansfield/gocollide/event"
	"github.com/phil-mansfield/gocollide/particle"
)

// Result is an export snapshot of an estimator. Mean and RelativeError are
// indexed first by entity and then by global phase space bin.
type Result struct {
	ID         uint64
	Kind       string
	Multiplier float64
	Entities   []uint64
	Norms      []float64
	Dimensions []Dimension
	Labels     []string
	// Edges holds the bin boundaries of the first dimension when it is
	// ordered, and is nil otherwise.
	Edges         []float64
	ParticleTypes []particle.Type
	Histories     uint64

	Mean, RelativeError [][]float64
}

// Handler owns a set of estimators and the dispatcher which routes events to
// them.
type Handler struct {
	estimators []Estimator
	byID       map[uint64]int
	dispatcher *event.Dispatcher
}

func NewHandler() *Handler {
	return &Handler{byID: map[uint64]int{}, dispatcher: event.NewDispatcher()}
}

// Add registers e and attaches it to the dispatcher on all of its entities.
func (h *Handler) Add(e Estimator) error {
	if _, ok := h.byID[e.ID()]; ok {
		return fmt.Errorf("%w: estimator id %d used twice", ErrDiscretization, e.ID())
	}
	if err := h.dispatcher.AttachObserver(e, e.Entities()); err != nil {
		return err
	}
	h.byID[e.ID()] = len(h.estimators)
	h.estimators = append(h.estimators, e)
	return nil
}

func (h *Handler) Dispatcher() *event.Dispatcher { return h.dispatcher }
func (h *Handler) Estimators() []Estimator       { return h.estimators }

// Estimator returns the estimator with the given id.
func (h *Handler) Estimator(id uint64) (Estimator, bool) {
	i, ok := h.byID[id]
	if !ok {
		return nil, false
	}
	return h.estimators[i], true
}

// CommitHistory ends the current history on every estimator.
func (h *Handler) CommitHistory() {
	for _, e := range h.estimators {
		e.CommitHistory()
	}
}

// DiscardHistory drops the current history on every estimator.
func (h *Handler) DiscardHistory() {
	for _, e := range h.estimators {
		e.DiscardHistory()
	}
}

// Histories returns the number of committed histories.
func (h *Handler) Histories() uint64 {
	if len(h.estimators) == 0 {
		return 0
	}
	return h.estimators[0].Histories()
}

// Fork returns a handler with forks of every estimator attached to a new
// dispatcher.
func (h *Handler) Fork() *Handler {
	f := NewHandler()
	for _, e := range h.estimators {
		if err := f.Add(e.Fork()); err != nil {
			panic(fmt.Sprintf("estimator: forked estimator %d rejected: %v", e.ID(), err))
		}
	}
	return f
}

// Merge adds the committed scores of a fork of h.
func (h *Handler) Merge(h2 *Handler) error {
	if len(h.estimators) != len(h2.estimators) {
		return fmt.Errorf(
			"%w: merging handlers with %d and %d estimators",
			ErrDiscretization, len(h.estimators), len(h2.estimators),
		)
	}
	for i, e := range h.estimators {
		if err := e.Merge(h2.estimators[i]); err != nil {
			return err
		}
	}
	return nil
}

// Results returns a snapshot of every estimator, in the order they were
// added.
func (h *Handler) Results() []Result {
	out := make([]Result, len(h.estimators))
	for i, e := range h.estimators {
		out[i] = e.Result()
	}
	return out
}
