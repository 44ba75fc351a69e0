package particle

import (
	"errors"
)

var (
	// ErrEmptyBank is returned when popping from an empty Bank.
	ErrEmptyBank = errors.New("particle: pop from empty bank")
)

// Bank is the stack of particles which still need to be transported in the
// current history. The most recently pushed particle is transported next.
//
// A Bank belongs to a single history and so to a single goroutine. It owns
// every particle between Push and Pop; Pop hands ownership back to the
// caller.
type Bank struct {
	ps []*State
}

// NewBank creates an empty bank.
func NewBank() *Bank { return &Bank{} }

// Push adds a particle to the top of the bank.
func (b *Bank) Push(p *State) { b.ps = append(b.ps, p) }

// Pop removes and returns the particle on top of the bank.
func (b *Bank) Pop() (*State, error) {
	if len(b.ps) == 0 {
		return nil, ErrEmptyBank
	}
	i := len(b.ps) - 1
	p := b.ps[i]
	b.ps[i] = nil
	b.ps = b.ps[:i]
	return p, nil
}

// Top returns the particle on top of the bank without removing it.
func (b *Bank) Top() (*State, error) {
	if len(b.ps) == 0 {
		return nil, ErrEmptyBank
	}
	return b.ps[len(b.ps)-1], nil
}

func (b *Bank) IsEmpty() bool { return len(b.ps) == 0 }
func (b *Bank) Size() int     { return len(b.ps) }

// Clear drops every particle in the bank. The backing storage is kept for
// the next history.
func (b *Bank) Clear() {
	for i := range b.ps {
		b.ps[i] = nil
	}
	b.ps = b.ps[:0]
}
