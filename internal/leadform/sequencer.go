package leadform

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/freightform/internal/logging"
)

// Transport delivers a finished lead. Retries, timeouts and response
// handling are the transport's business.
type Transport interface {
	Send(ctx context.Context, payload Payload) error
}

// TransportFunc adapts a function to Transport
type TransportFunc func(ctx context.Context, payload Payload) error

// Send calls f
func (f TransportFunc) Send(ctx context.Context, payload Payload) error {
	return f(ctx, payload)
}

// Receipt describes a delivered lead
type Receipt struct {
	SubmissionID string
	SubmittedAt  time.Time
	Payload      Payload
}

// Sequencer moves a Store through the steps, refusing to leave a step
// while any of its currently required fields is not valid.
type Sequencer struct {
	store *Store

	// Source is sent as the payload's source (e.g., "freightform/1.2.0")
	Source string

	now   func() time.Time
	newID func() string

	receipt *Receipt
}

// NewSequencer creates a sequencer driving store
func NewSequencer(store *Store) *Sequencer {
	return &Sequencer{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Store returns the driven store
func (q *Sequencer) Store() *Store {
	return q.store
}

// Receipt returns the receipt of the last successful submission
func (q *Sequencer) Receipt() *Receipt {
	return q.receipt
}

// Missing returns the required fields of the current step (and goods
// sub-step) that are not valid yet
func (q *Sequencer) Missing() []FieldName {
	s := q.store
	return s.Missing(RequiredFields(s.step, s.subStep, &s.data))
}

// CanAdvance reports whether Next would succeed, and if not which fields block it.
// On the review step it reports submission readiness instead.
func (q *Sequencer) CanAdvance() (bool, []FieldName) {
	switch q.store.step {
	case StepConfirmation:
		return false, nil
	case StepReview:
		missing := q.MissingForSubmit()
		return len(missing) == 0, missing
	}
	missing := q.Missing()
	return len(missing) == 0, missing
}

// Next advances one sub-step within goods details, otherwise one step.
// The review step is left through Submit only.
func (q *Sequencer) Next() error {
	s := q.store
	switch s.step {
	case StepConfirmation:
		return NewTransitionError("request already submitted", nil)
	case StepReview:
		return NewTransitionError("the review step is completed by submitting", nil)
	}

	if ok, missing := q.CanAdvance(); !ok {
		logging.LogTransitionBlocked(s.step.String(), fieldStrings(missing))
		return NewTransitionError("cannot leave "+s.step.String(), missing)
	}

	from := s.step
	if s.step == StepGoodsDetails && s.subStep < GoodsSubSteps {
		s.moveTo(s.step, s.subStep+1)
	} else {
		s.moveTo(s.step+1, 1)
	}
	s.ClosePickers()

	logging.LogTransition(from.String(), s.step.String(), s.subStep)
	return nil
}

// Previous goes back one sub-step or step. Nothing entered is lost.
func (q *Sequencer) Previous() error {
	s := q.store
	switch s.step {
	case StepDestination:
		return NewTransitionError("already at the first step", nil)
	case StepConfirmation:
		return NewTransitionError("request already submitted", nil)
	}

	from := s.step
	switch {
	case s.step == StepGoodsDetails && s.subStep > 1:
		s.moveTo(s.step, s.subStep-1)
	case s.step-1 == StepGoodsDetails:
		s.moveTo(StepGoodsDetails, GoodsSubSteps)
	default:
		s.moveTo(s.step-1, 1)
	}
	s.ClosePickers()

	logging.LogTransition(from.String(), s.step.String(), s.subStep)
	return nil
}

// GoTo jumps to a step already reached, as the review step's edit action does.
// Jumping never validates; the gates apply again on the way forward.
func (q *Sequencer) GoTo(step Step) error {
	s := q.store
	if s.step == StepConfirmation {
		return NewTransitionError("request already submitted", nil)
	}
	if step < StepDestination || step >= StepConfirmation || step > s.reached {
		return NewTransitionError("step "+step.String()+" has not been reached", nil)
	}

	from := s.step
	s.moveTo(step, 1)
	s.ClosePickers()

	logging.LogTransition(from.String(), s.step.String(), s.subStep)
	return nil
}

// MissingForSubmit returns every required field of every input step that is
// not valid yet. Optional fields (goods sub-step 3, remarks) never appear.
func (q *Sequencer) MissingForSubmit() []FieldName {
	s := q.store
	var missing []FieldName
	for _, step := range InputSteps() {
		missing = append(missing, s.Missing(StepRequiredFields(step, &s.data))...)
	}
	return missing
}

// SubmitReady reports whether every required field is valid
func (q *Sequencer) SubmitReady() bool {
	return q.store.step != StepConfirmation && len(q.MissingForSubmit()) == 0
}

// Submission is a lead flattened and stamped, ready to hand to a transport
type Submission struct {
	Meta    Meta
	Payload Payload
}

// Prepare checks that every required field is valid and flattens the lead.
// Nothing changes in the store; Complete records the outcome once the
// payload has been delivered.
func (q *Sequencer) Prepare() (*Submission, error) {
	s := q.store
	if s.step == StepConfirmation {
		return nil, NewTransitionError("request already submitted", nil)
	}
	if missing := q.MissingForSubmit(); len(missing) > 0 {
		logging.LogTransitionBlocked("submit", fieldStrings(missing))
		return nil, NewTransitionError("the request is incomplete", missing)
	}

	meta := Meta{
		SubmissionID: q.newID(),
		Language:     s.language,
		SubmittedAt:  q.now().UTC(),
		Source:       q.Source,
	}
	return &Submission{Meta: meta, Payload: BuildPayload(s.Snapshot(), meta)}, nil
}

// Complete keeps the receipt of a delivered submission and moves the store
// to the confirmation step
func (q *Sequencer) Complete(sub *Submission) *Receipt {
	s := q.store
	q.receipt = &Receipt{
		SubmissionID: sub.Meta.SubmissionID,
		SubmittedAt:  sub.Meta.SubmittedAt,
		Payload:      sub.Payload,
	}
	from := s.step
	s.ClosePickers()
	s.moveTo(StepConfirmation, 1)
	logging.LogTransition(from.String(), s.step.String(), 1)

	return q.receipt
}

// Submit flattens the lead and hands it to t. On success the store moves to
// the confirmation step and the receipt is kept.
func (q *Sequencer) Submit(ctx context.Context, t Transport) (*Receipt, error) {
	sub, err := q.Prepare()
	if err != nil {
		return nil, err
	}
	if err := t.Send(ctx, sub.Payload); err != nil {
		return nil, NewSubmissionError("failed to send the request", err)
	}
	return q.Complete(sub), nil
}

// StartOver clears the lead after a submission (or at any time) and returns
// to the first step
func (q *Sequencer) StartOver() {
	q.receipt = nil
	q.store.Reset()
}
