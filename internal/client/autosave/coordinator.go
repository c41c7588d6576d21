// Package autosave coordinates background saves of a single edited document.
//
// Edits are debounced on the trailing edge: every Edit restarts a timer and
// only a pause of the configured delay triggers a save. At most one save runs
// at a time; a trigger arriving while a save is in flight is dropped and the
// next edit picks up the drift. FlushAndClose converts a pending timer into
// an immediate save and waits for it.
//
// A Coordinator belongs to one editing session and is safe for concurrent
// use: timer callbacks run on their own goroutines and share state with the
// caller under a mutex.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultDelay  = 600 * time.Millisecond
	DefaultSettle = 1200 * time.Millisecond
)

type Coordinator struct {
	saver    Saver
	clock    clockwork.Clock
	delay    time.Duration
	settle   time.Duration
	logger   logging.Logger
	onStatus func(Status)
	ctx      context.Context

	mu       sync.Mutex
	id       string
	fields   Fields
	baseline Fields
	status   Status
	inFlight bool
	done     chan struct{}
	closed   bool

	// gen invalidates timer callbacks that already fired but have not run
	// yet when the timer is cancelled or replaced.
	gen         uint64
	timer       clockwork.Timer
	settleGen   uint64
	settleTimer clockwork.Timer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.delay = d }
}

// WithSettle sets how long StatusSaved is shown before returning to idle.
func WithSettle(d time.Duration) Option {
	return func(c *Coordinator) { c.settle = d }
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Coordinator) { c.clock = clock }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithStatusFunc registers a callback for status transitions. It is called
// without the coordinator lock held.
func WithStatusFunc(fn func(Status)) Option {
	return func(c *Coordinator) { c.onStatus = fn }
}

// WithDocumentID opens an existing document: saves use update semantics.
func WithDocumentID(id string) Option {
	return func(c *Coordinator) { c.id = id }
}

// WithContext sets the context used by timer-triggered saves.
func WithContext(ctx context.Context) Option {
	return func(c *Coordinator) { c.ctx = ctx }
}

// New returns a coordinator for a document without a baseline. Nothing is
// saved until Initialize is called.
func New(saver Saver, opts ...Option) *Coordinator {
	c := &Coordinator{
		saver:  saver,
		clock:  clockwork.NewRealClock(),
		delay:  DefaultDelay,
		settle: DefaultSettle,
		logger: logging.Nop(),
		ctx:    context.Background(),
		id:     Unsaved,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Initialize sets both the current fields and the baseline to baseline.
func (c *Coordinator) Initialize(baseline Fields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = baseline.Clone()
	c.baseline = baseline.Clone()
	if c.baseline == nil {
		c.fields, c.baseline = Fields{}, Fields{}
	}
}

// Edit sets one field and restarts the debounce timer. Edits after
// FlushAndClose are ignored.
func (c *Coordinator) Edit(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.fields == nil {
		c.fields = Fields{}
	}
	c.fields[name] = value

	c.cancelTimerLocked()
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.delay, func() { c.fire(gen) })
}

func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	// Failures are reported through the status; the next edit retries.
	_ = c.AttemptSave(c.ctx)
}

// cancelTimerLocked stops the pending save timer. Must hold c.mu.
func (c *Coordinator) cancelTimerLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// AttemptSave persists the current fields if a baseline exists, no save is
// in flight and the fields differ from the baseline. Otherwise it returns nil
// without calling the server.
func (c *Coordinator) AttemptSave(ctx context.Context) error {
	c.mu.Lock()
	if c.baseline == nil || c.inFlight || c.fields.Equal(c.baseline) {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	c.done = make(chan struct{})
	id := c.id
	sent := c.fields.Clone()
	c.stopSettleLocked()
	c.status = StatusSaving
	c.mu.Unlock()
	c.notify(StatusSaving)

	log := c.logger.With("document", id)
	log.Debug(ctx, "saving document", "fields", len(sent))

	var (
		doc Document
		err error
	)
	if id == Unsaved {
		doc, err = c.saver.Create(ctx, sent)
	} else {
		doc, err = c.saver.Update(ctx, id, sent)
	}

	c.mu.Lock()
	c.inFlight = false
	close(c.done)

	if err != nil {
		c.status = StatusError
		c.mu.Unlock()
		log.Warn(ctx, "save failed", "error", err)
		c.notify(StatusError)
		return err
	}

	if id == Unsaved && doc.ID != "" {
		c.id = doc.ID
		log.Info(ctx, "document created", "id", doc.ID)
	}
	baseline := sent
	for k, v := range doc.Fields {
		baseline[k] = v
	}
	c.baseline = baseline
	c.status = StatusSaved
	c.settleGen++
	settleGen := c.settleGen
	c.settleTimer = c.clock.AfterFunc(c.settle, func() { c.relax(settleGen) })
	c.mu.Unlock()

	c.notify(StatusSaved)
	return nil
}

func (c *Coordinator) relax(gen uint64) {
	c.mu.Lock()
	if gen != c.settleGen || c.status != StatusSaved {
		c.mu.Unlock()
		return
	}
	c.status = StatusIdle
	c.settleTimer = nil
	c.mu.Unlock()
	c.notify(StatusIdle)
}

func (c *Coordinator) stopSettleLocked() {
	c.settleGen++
	if c.settleTimer != nil {
		c.settleTimer.Stop()
		c.settleTimer = nil
	}
}

func (c *Coordinator) notify(s Status) {
	if c.onStatus != nil {
		c.onStatus(s)
	}
}

// FlushAndClose cancels the pending timer, waits for an in-flight save and
// then saves the current fields before returning. Later edits are ignored.
func (c *Coordinator) FlushAndClose(ctx context.Context) error {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.closed = true
	for c.inFlight {
		done := c.done
		c.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.mu.Lock()
	}
	c.mu.Unlock()

	return c.AttemptSave(ctx)
}

// ID returns the server identity, or Unsaved.
func (c *Coordinator) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Fields returns a copy of the current fields.
func (c *Coordinator) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields.Clone()
}

// Baseline returns a copy of the last persisted fields, nil before Initialize.
func (c *Coordinator) Baseline() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseline.Clone()
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Dirty reports whether the fields differ from the baseline.
func (c *Coordinator) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseline != nil && !c.fields.Equal(c.baseline)
}

// Pending reports whether a debounced save is scheduled.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}
