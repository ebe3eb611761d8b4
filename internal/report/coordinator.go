package report

import (
	"context"
	"errors"
	"sync"

	"stockdesk/internal/domain"
)

// ErrSuperseded is returned by a load whose response arrived after a newer
// load started. Its outcome was discarded.
var ErrSuperseded = errors.New("report request superseded by a newer one")

// ErrExportInProgress is returned when Export is called while one is running.
var ErrExportInProgress = errors.New("report export already in progress")

// Fetcher loads one report response for a filter.
type Fetcher[T, S any] func(ctx context.Context, f domain.ReportFilter) (*domain.Result[T, S], error)

// ExportFunc performs an export for a filter.
type ExportFunc func(ctx context.Context, f domain.ReportFilter) error

// Coordinator owns the state of one report instance. It has a single
// in-flight slot: starting a load cancels the previous one, and a response
// that is not for the latest load never reaches the state.
type Coordinator[T, S any] struct {
	fetch    Fetcher[T, S]
	onChange func(State[T, S])

	mu     sync.Mutex
	state  State[T, S]
	seq    uint64
	cancel context.CancelFunc
}

// NewCoordinator creates a coordinator starting at filter. onChange, when
// non-nil, receives every new state synchronously after it is applied.
func NewCoordinator[T, S any](fetch Fetcher[T, S], filter domain.ReportFilter, onChange func(State[T, S])) *Coordinator[T, S] {
	return &Coordinator[T, S]{
		fetch:    fetch,
		onChange: onChange,
		state:    State[T, S]{Filter: filter},
	}
}

// State returns a snapshot of the current state.
func (c *Coordinator[T, S]) State() State[T, S] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mount performs the initial load.
func (c *Coordinator[T, S]) Mount(ctx context.Context) error {
	return c.load(ctx)
}

// Refresh re-runs the load with the current filter.
func (c *Coordinator[T, S]) Refresh(ctx context.Context) error {
	return c.load(ctx)
}

// SetFilter replaces the filter and loads it.
func (c *Coordinator[T, S]) SetFilter(ctx context.Context, f domain.ReportFilter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	c.dispatch(Event[T, S]{Kind: FilterChanged, Filter: f})
	return c.load(ctx)
}

// SetPage moves to page, clamped to the known page range, and loads it.
func (c *Coordinator[T, S]) SetPage(ctx context.Context, page int) error {
	c.dispatch(Event[T, S]{Kind: PageChanged, Page: page})
	return c.load(ctx)
}

// Export runs fn with the current filter under the export flag. The report
// data is not touched.
func (c *Coordinator[T, S]) Export(ctx context.Context, fn ExportFunc) error {
	c.mu.Lock()
	if c.state.Exporting {
		c.mu.Unlock()
		return ErrExportInProgress
	}
	c.state = Reduce(c.state, Event[T, S]{Kind: ExportStarted})
	filter := c.state.Filter
	snapshot := c.state
	c.mu.Unlock()
	c.notify(snapshot)

	err := fn(ctx, filter)

	c.dispatch(Event[T, S]{Kind: ExportFinished, Err: err})
	return err
}

// Close cancels an in-flight load.
func (c *Coordinator[T, S]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Coordinator[T, S]) load(parent context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	id := c.seq
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	filter := c.state.Filter
	c.state = Reduce(c.state, Event[T, S]{Kind: FetchStarted, RequestID: id, Filter: filter})
	snapshot := c.state
	c.mu.Unlock()
	c.notify(snapshot)

	res, err := c.fetch(ctx, filter)
	cancel()

	c.mu.Lock()
	if id != c.state.LatestRequest {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.cancel = nil
	if err != nil {
		c.state = Reduce(c.state, Event[T, S]{Kind: FetchFailed, RequestID: id, Filter: filter, Err: err})
	} else {
		c.state = Reduce(c.state, Event[T, S]{Kind: FetchSucceeded, RequestID: id, Filter: filter, Result: res})
	}
	snapshot = c.state
	c.mu.Unlock()
	c.notify(snapshot)
	return err
}

func (c *Coordinator[T, S]) dispatch(e Event[T, S]) {
	c.mu.Lock()
	c.state = Reduce(c.state, e)
	snapshot := c.state
	c.mu.Unlock()
	c.notify(snapshot)
}

func (c *Coordinator[T, S]) notify(s State[T, S]) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
