package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cogstack/cogstack-api/internal/models"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"go.uber.org/zap"
)

// SubmissionState is the lifecycle position of a Controller
type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrSubmissionInFlight is returned when Submit or Reset is called while Submitting
var ErrSubmissionInFlight = apperrors.ConflictError("a submission is already in flight")

// transitions lists the states reachable from each state
var transitions = map[SubmissionState][]SubmissionState{
	StateIdle:       {StateSubmitting},
	StateSubmitting: {StateSucceeded, StateFailed, StateIdle},
	StateSucceeded:  {StateIdle},
	StateFailed:     {StateIdle},
}

func canTransition(from, to SubmissionState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Snapshot is an immutable view of a Controller after a transition
type Snapshot struct {
	State    SubmissionState
	Previous SubmissionState
	// Working is the record being sent, or kept after a failure. Nil after success.
	Working *models.ContactSubmission
	Receipt *models.DeliveryReceipt
	// Failure is a message fit for the end user; Cause is the underlying error
	Failure string
	Cause   error
}

// SubmitDisabled reports whether submit controls must be disabled
func (s Snapshot) SubmitDisabled() bool {
	return s.State == StateSubmitting
}

// Observer receives a Snapshot after every transition, on the goroutine that caused it.
// Snapshots are delivered in transition order even when transitions happen on
// different goroutines. Observers may read the controller but must not call Submit
// or Reset synchronously.
type Observer func(Snapshot)

type observerEntry struct {
	id int
	fn Observer
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithLogger sets the logger used for transition logs
func WithLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = l
	}
}

// WithObserver subscribes o before the controller is used
func WithObserver(o Observer) ControllerOption {
	return func(c *Controller) {
		c.subscribeLocked(o)
	}
}

// Controller drives one contact form through Idle, Submitting, Succeeded and Failed.
// It never re-validates: callers run Validate first and only submit valid records.
type Controller struct {
	transport Transport
	log       *zap.Logger

	mu        sync.Mutex
	state     SubmissionState
	working   *models.ContactSubmission
	receipt   *models.DeliveryReceipt
	failure   string
	cause     error
	observers []observerEntry
	nextID    int
	seq       uint64

	// emitMu orders observer calls by seq
	emitMu   sync.Mutex
	emitted  uint64
	emitTurn *sync.Cond
}

// NewController creates a Controller in the Idle state
func NewController(transport Transport, opts ...ControllerOption) *Controller {
	c := &Controller{
		transport: transport,
		log:       zap.NewNop(),
		state:     StateIdle,
	}
	c.emitTurn = sync.NewCond(&c.emitMu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers o and returns a func that removes it
func (c *Controller) Subscribe(o Observer) func() {
	c.mu.Lock()
	id := c.subscribeLocked(o)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, entry := range c.observers {
			if entry.id == id {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) subscribeLocked(o Observer) int {
	c.nextID++
	c.observers = append(c.observers, observerEntry{id: c.nextID, fn: o})
	return c.nextID
}

// State returns the current state
func (c *Controller) State() SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(c.state)
}

// Submit sends candidate through the transport and blocks until it settles.
//
// From Succeeded or Failed the controller is reset first. While Submitting the call is
// rejected with ErrSubmissionInFlight and nothing changes. Transport failures end in
// Failed and are not returned; cancelling ctx returns the controller to Idle.
func (c *Controller) Submit(ctx context.Context, candidate models.ContactSubmission) error {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}

	var emits []emission
	if c.state == StateSucceeded || c.state == StateFailed {
		emits = append(emits, c.resetLocked())
	}
	record := candidate
	c.working = &record
	emits = append(emits, c.moveLocked(StateSubmitting))
	c.mu.Unlock()
	c.emit(emits...)

	receipt, err := c.send(ctx, candidate)

	c.mu.Lock()
	var done emission
	switch {
	case err == nil:
		c.receipt = receipt
		c.working = nil
		done = c.moveLocked(StateSucceeded)
	case errors.Is(ctx.Err(), context.Canceled):
		c.log.Info("Contact submission cancelled")
		done = c.moveLocked(StateIdle)
	default:
		c.failure = describeFailure(err)
		c.cause = err
		c.log.Warn("Contact submission failed", zap.Error(err))
		done = c.moveLocked(StateFailed)
	}
	c.mu.Unlock()
	c.emit(done)

	return nil
}

// Reset returns a settled controller to Idle and clears its receipt and failure.
// The working record of a failed submission is kept so it can be sent again.
func (c *Controller) Reset() error {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return ErrSubmissionInFlight
	case StateIdle:
		c.mu.Unlock()
		return nil
	}
	e := c.resetLocked()
	c.mu.Unlock()
	c.emit(e)
	return nil
}

// send calls the transport, turning a panic into an error so it surfaces as Failed
func (c *Controller) send(ctx context.Context, candidate models.ContactSubmission) (receipt *models.DeliveryReceipt, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.InternalError(fmt.Sprintf("transport panicked: %v", r))
		}
	}()

	receipt, err = c.transport.Send(ctx, candidate)
	if err == nil && receipt == nil {
		err = apperrors.InternalError("transport returned no receipt")
	}
	return receipt, err
}

type emission struct {
	seq       uint64
	snapshot  Snapshot
	observers []observerEntry
}

func (c *Controller) resetLocked() emission {
	c.receipt = nil
	c.failure = ""
	c.cause = nil
	return c.moveLocked(StateIdle)
}

func (c *Controller) moveLocked(to SubmissionState) emission {
	from := c.state
	if !canTransition(from, to) {
		// Every caller checks the state first; reaching this is a bug in this file
		panic(fmt.Sprintf("contact: illegal transition %s -> %s", from, to))
	}
	c.state = to
	c.log.Debug("Contact submission state changed",
		zap.String("from", from.String()),
		zap.String("to", to.String()))

	observers := make([]observerEntry, len(c.observers))
	copy(observers, c.observers)
	c.seq++
	return emission{seq: c.seq, snapshot: c.snapshotLocked(from), observers: observers}
}

func (c *Controller) snapshotLocked(previous SubmissionState) Snapshot {
	s := Snapshot{
		State:    c.state,
		Previous: previous,
		Failure:  c.failure,
		Cause:    c.cause,
	}
	if c.working != nil {
		w := *c.working
		s.Working = &w
	}
	if c.receipt != nil {
		r := *c.receipt
		s.Receipt = &r
	}
	return s
}

func (c *Controller) emit(emits ...emission) {
	for _, e := range emits {
		c.emitInOrder(e)
	}
}

// emitInOrder waits until every earlier transition has been delivered
func (c *Controller) emitInOrder(e emission) {
	c.emitMu.Lock()
	for c.emitted+1 != e.seq {
		c.emitTurn.Wait()
	}
	c.emitMu.Unlock()

	defer func() {
		c.emitMu.Lock()
		c.emitted = e.seq
		c.emitTurn.Broadcast()
		c.emitMu.Unlock()
	}()

	for _, o := range e.observers {
		o.fn(e.snapshot)
	}
}

// describeFailure turns a transport error into a message for the end user
func describeFailure(err error) string {
	var derr *DeliveryError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Sending timed out. Please try again."
	case errors.Is(err, apperrors.ErrUnavailable):
		return "Contact service temporarily unavailable. Please try again later."
	case errors.As(err, &derr) && !derr.Temporary():
		return fmt.Sprintf("The message was rejected by the contact service (HTTP %d).", derr.StatusCode)
	default:
		return "Failed to send message. Please try again later."
	}
}
