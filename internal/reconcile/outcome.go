package reconcile

import (
	"context"
	"fmt"
)

type OutcomeState int

const (
	OutcomePending OutcomeState = iota
	OutcomeCommitted
	OutcomeFailed
	// OutcomeRejected means the operation was refused locally and the store
	// was never called.
	OutcomeRejected
)

func (s OutcomeState) String() string {
	switch s {
	case OutcomePending:
		return "pending"
	case OutcomeCommitted:
		return "committed"
	case OutcomeFailed:
		return "failed"
	case OutcomeRejected:
		return "rejected"
	default:
		return fmt.Sprintf("OutcomeState(%d)", int(s))
	}
}

type Outcome struct {
	Op    string
	State OutcomeState
	Err   error
}

func (o Outcome) Committed() bool { return o.State == OutcomeCommitted }

// Pending is the handle of an operation started with Session.Start.
type Pending struct {
	done chan struct{}
	out  Outcome
}

// Start runs op in its own goroutine and returns immediately.
func (s *Session) Start(ctx context.Context, op func(context.Context) Outcome) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.out = op(ctx)
	}()
	return p
}

// State is OutcomePending until the operation finishes.
func (p *Pending) State() OutcomeState {
	select {
	case <-p.done:
		return p.out.State
	default:
		return OutcomePending
	}
}

func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the operation finishes and returns its outcome.
func (p *Pending) Wait() Outcome {
	<-p.done
	return p.out
}
