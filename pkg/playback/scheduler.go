// Package playback drives a timed slideshow over a lazily paged collection.
//
// A Scheduler owns the step counter. Each step maps the counter onto an index
// with a cursor.Mapper, makes sure the item is resident in the content store
// (fetching pages when needed), hands it to the Renderer and then waits a
// fixed interval measured from the end of rendering. Steps never overlap.
//
// There is no pause, resume or seek. Playback ends when the context given to
// Start is cancelled or when a fetch fails; the core never retries.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/slides/pkg/content"
	"github.com/entrhq/slides/pkg/cursor"
	"github.com/entrhq/slides/pkg/logging"
)

// DefaultInterval is the delay between the end of one render and the next step.
const DefaultInterval = 5 * time.Second

var (
	// ErrAlreadyStarted is returned by Start on a scheduler that is not idle.
	ErrAlreadyStarted = errors.New("playback: already started")

	// ErrNotStarted is returned by Wait on a scheduler that never started.
	ErrNotStarted = errors.New("playback: not started")
)

// Status is the lifecycle state of a Scheduler.
type Status int

const (
	// StatusIdle is the state before a successful Start.
	StatusIdle Status = iota
	// StatusStarting is held while Start performs the initial load.
	StatusStarting
	// StatusRunning is the state after a successful Start. The loop may have
	// halted since; Done reports that.
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusStarting:
		return "starting"
	case StatusRunning:
		return "running"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// PlaybackState is the mutable state of one playback session.
type PlaybackState struct {
	// StepCounter is the number of completed steps. The next step maps this
	// value. It never decreases.
	StepCounter int

	// PagesLoaded is the highest page number fetched so far.
	PagesLoaded int

	// ResolvedIndex is the index the last completed step rendered.
	ResolvedIndex int
}

// Scheduler plays one collection.
type Scheduler struct {
	fetcher  content.Fetcher
	renderer Renderer
	observer Observer
	mapper   cursor.Mapper
	interval time.Duration
	per      int
	logger   *logging.Logger

	mu         sync.Mutex
	status     Status
	state      PlaybackState
	store      *content.Store
	collection content.Collection

	done chan struct{}
	err  error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the delay between steps.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = d
	}
}

// WithMapper sets the counter to index traversal.
func WithMapper(m cursor.Mapper) Option {
	return func(s *Scheduler) {
		s.mapper = m
	}
}

// WithPerPage sets the page size used for fetches.
func WithPerPage(per int) Option {
	return func(s *Scheduler) {
		s.per = per
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithObserver registers an observer for fetch and halt notifications.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		s.observer = o
	}
}

// NewScheduler creates an idle scheduler that fetches through fetcher and
// renders to renderer.
func NewScheduler(fetcher content.Fetcher, renderer Renderer, opts ...Option) *Scheduler {
	s := &Scheduler{
		fetcher:  fetcher,
		renderer: renderer,
		mapper:   cursor.Bounce,
		interval: DefaultInterval,
		per:      content.DefaultPerPage,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger("playback")
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	return s
}

// Start loads the collection metadata and first page, renders the first
// step and schedules the loop. It returns once the first slide has been
// rendered, or with the error that prevented it, in which case the scheduler
// stays idle and nothing is scheduled.
//
// The loop runs until ctx is cancelled or a step fails.
func (s *Scheduler) Start(ctx context.Context, collectionID string) error {
	s.mu.Lock()
	if s.status != StatusIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.status = StatusStarting
	s.logger = s.logger.WithField("collection", collectionID)
	s.mu.Unlock()

	if err := s.load(ctx, collectionID); err != nil {
		s.setStatus(StatusIdle)
		s.logger.Errorf("start failed: %v", err)
		return err
	}

	if err := s.step(ctx); err != nil {
		s.setStatus(StatusIdle)
		s.logger.Errorf("first step failed: %v", err)
		return err
	}

	s.setStatus(StatusRunning)
	s.logger.Infof("playing %q (%d items) every %s", s.collection.Title, s.collection.Size, s.interval)

	go s.loop(ctx)
	return nil
}

func (s *Scheduler) load(ctx context.Context, collectionID string) error {
	store := content.NewStore(s.fetcher, collectionID, s.per, content.WithLogger(s.logger.With("content")))

	c, err := store.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.store = store
	s.collection = *c
	s.state.PagesLoaded = store.PagesLoaded()
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.finish(nil)
			return
		case <-timer.C:
		}

		if err := s.step(ctx); err != nil {
			if ctx.Err() != nil {
				s.finish(nil)
				return
			}
			s.finish(err)
			return
		}

		// measured from the end of rendering
		timer.Reset(s.interval)
	}
}

// step resolves and renders the current counter, then advances it.
func (s *Scheduler) step(ctx context.Context) error {
	s.mu.Lock()
	counter := s.state.StepCounter
	store := s.store
	collection := s.collection
	s.mu.Unlock()

	index, err := s.mapper(counter, collection.Size)
	if err != nil {
		return err
	}

	if _, resident := store.Item(index); !resident {
		s.observer.OnFetch(counter, index)
	}

	item, err := store.Ensure(ctx, index)
	if err != nil {
		return err
	}

	pages := store.PagesLoaded()
	s.renderer.Render(Slide{
		Collection:  collection,
		Item:        item,
		Index:       index,
		Total:       collection.Size,
		Step:        counter,
		PagesLoaded: pages,
	})

	s.mu.Lock()
	s.state.StepCounter = counter + 1
	s.state.ResolvedIndex = index
	s.state.PagesLoaded = pages
	s.mu.Unlock()

	s.logger.Debugf("step %d rendered index %d/%d (%d pages)", counter, index, collection.Size, pages)
	return nil
}

func (s *Scheduler) finish(err error) {
	if err != nil {
		if errors.Is(err, content.ErrOutOfRange) {
			s.logger.Errorf("content store inconsistent with collection size: %v", err)
		} else {
			s.logger.Errorf("playback halted: %v", err)
		}
		s.observer.OnHalt(err)
	} else {
		s.logger.Infof("playback stopped by host")
	}

	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.done)
}

func (s *Scheduler) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Status returns the lifecycle state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// State returns a copy of the playback state.
func (s *Scheduler) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Collection returns the collection being played. It is the zero value
// before a successful Start.
func (s *Scheduler) Collection() content.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection
}

// Done is closed when the loop has ended.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that halted the loop, or nil.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the loop ends. It returns the fetch error that halted
// playback, or nil when the loop ended because the context was cancelled.
func (s *Scheduler) Wait() error {
	if s.Status() != StatusRunning {
		return ErrNotStarted
	}
	<-s.done
	return s.Err()
}
