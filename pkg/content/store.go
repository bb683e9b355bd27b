package content

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/slides/pkg/logging"
	"golang.org/x/sync/singleflight"
)

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 25

// nextPageKey is the only singleflight key: there is never more than one
// page fetch in flight, whichever page it is.
const nextPageKey = "next-page"

// Store is an append-only, lazily paged view of one collection.
//
// Resident items always form the prefix [0, Len()). Pages are requested in
// strictly increasing order and a failed fetch leaves the store untouched.
// Concurrent Ensure calls that need data share one outstanding request.
type Store struct {
	fetcher      Fetcher
	collectionID string
	per          int
	logger       *logging.Logger

	mu         sync.RWMutex
	items      []Item
	loaded     int // highest page number appended
	collection *Collection

	group singleflight.Group
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *logging.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty store for collectionID. A per value below one
// falls back to DefaultPerPage.
func NewStore(fetcher Fetcher, collectionID string, per int, opts ...StoreOption) *Store {
	if per < 1 {
		per = DefaultPerPage
	}
	s := &Store{
		fetcher:      fetcher,
		collectionID: collectionID,
		per:          per,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger("content")
	}
	return s
}

// CollectionID returns the id the store was created for.
func (s *Store) CollectionID() string {
	return s.collectionID
}

// Per returns the page size.
func (s *Store) Per() int {
	return s.per
}

// Load fetches the collection metadata together with the first page. It is a
// no-op once the collection is known. A collection with no items yields
// ErrEmptyCollection alongside the metadata.
func (s *Store) Load(ctx context.Context) (*Collection, error) {
	if c := s.Collection(); c != nil {
		return c, nil
	}

	if _, err := s.fetchNext(ctx, metadataOnly); err != nil {
		return nil, err
	}

	c := s.Collection()
	if c.Size == 0 {
		return c, ErrEmptyCollection
	}
	return c, nil
}

// Ensure returns the item at index, fetching pages until it is resident.
func (s *Store) Ensure(ctx context.Context, index int) (Item, error) {
	if index < 0 {
		return Item{}, fmt.Errorf("index %d: %w", index, ErrOutOfRange)
	}

	for {
		s.mu.RLock()
		if index < len(s.items) {
			item := s.items[index]
			s.mu.RUnlock()
			return item, nil
		}
		c := s.collection
		s.mu.RUnlock()

		if c != nil && index >= c.Size {
			return Item{}, fmt.Errorf("index %d beyond collection size %d: %w", index, c.Size, ErrOutOfRange)
		}

		appended, err := s.fetchNext(ctx, index)
		if err != nil {
			return Item{}, err
		}
		if appended != 0 {
			continue
		}
		// another caller's page may have landed between our check and the fetch
		if item, ok := s.Item(index); ok {
			return item, nil
		}
		s.logger.Errorf("collection exhausted at %d items while looking for index %d", s.Len(), index)
		return Item{}, &FetchError{
			CollectionID: s.collectionID,
			Page:         s.PagesLoaded() + 1,
			Err:          fmt.Errorf("index %d: %w", index, ErrOutOfRange),
		}
	}
}

const (
	// metadataOnly asks fetchNext for the collection metadata rather than
	// an item; it is satisfied by any loaded page.
	metadataOnly = -1

	// skipped is returned by fetchNext when no request was made because the
	// wanted index was already resident. Callers sharing that flight may
	// still need a page and must check again.
	skipped = -1
)

// fetchNext appends page loaded+1 and returns the number of items added, or
// skipped when index became resident in the meantime. Callers arriving while
// a fetch is outstanding wait for that fetch instead of issuing their own.
func (s *Store) fetchNext(ctx context.Context, index int) (int, error) {
	v, err, shared := s.group.Do(nextPageKey, func() (any, error) {
		return s.appendNextPage(ctx, index)
	})
	if shared {
		s.logger.Debugf("joined in-flight fetch for index %d", index)
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *Store) appendNextPage(ctx context.Context, index int) (int, error) {
	s.mu.RLock()
	if s.collection != nil && index < len(s.items) {
		s.mu.RUnlock()
		return skipped, nil
	}
	page := s.loaded + 1
	s.mu.RUnlock()

	s.logger.Debugf("fetching page %d (per %d)", page, s.per)
	p, err := s.fetcher.FetchPage(ctx, s.collectionID, page, s.per)
	if err != nil {
		s.logger.Warnf("fetch page %d failed: %v", page, err)
		return 0, s.wrapFetchError(ctx, page, err)
	}
	if p == nil {
		p = &Page{Number: page, Per: s.per}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collection == nil {
		c := p.Collection
		if c.ID == "" {
			c.ID = s.collectionID
		}
		s.collection = &c
	}

	items := p.Items
	if room := s.collection.Size - len(s.items); len(items) > room {
		if room < 0 {
			room = 0
		}
		items = items[:room]
	}
	s.items = append(s.items, items...)
	s.loaded = page

	s.logger.Debugf("page %d appended %d items, %d/%d resident", page, len(items), len(s.items), s.collection.Size)
	return len(items), nil
}

func (s *Store) wrapFetchError(ctx context.Context, page int, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	if !IsNotFound(err) && !IsTransport(err) && ctx.Err() == nil {
		err = fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return &FetchError{CollectionID: s.collectionID, Page: page, Err: err}
}

// Item returns the resident item at index without fetching.
func (s *Store) Item(index int) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.items) {
		return Item{}, false
	}
	return s.items[index], true
}

// Len returns the number of resident items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// PagesLoaded returns the highest page number fetched so far.
func (s *Store) PagesLoaded() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Collection returns a copy of the collection metadata, or nil before Load.
func (s *Store) Collection() *Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.collection == nil {
		return nil
	}
	c := *s.collection
	return &c
}
