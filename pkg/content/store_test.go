package content

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves a synthetic collection of size items.
type fakeFetcher struct {
	size int

	mu      sync.Mutex
	calls   []int         // page numbers in request order
	failOn  map[int]error // page -> error
	gate    chan struct{} // when set, fetches block until closed
	entered chan int      // receives the page number when a fetch starts
	short   bool          // when set, upstream serves one page less than size implies
}

func newFakeFetcher(size int) *fakeFetcher {
	return &fakeFetcher{size: size, failOn: map[int]error{}}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, collectionID string, page, per int) (*Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	err := f.failOn[page]
	gate := f.gate
	entered := f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- page
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	available := f.size
	if f.short {
		available -= per
	}

	p := &Page{
		Number:     page,
		Per:        per,
		Collection: Collection{ID: collectionID, Slug: "slug-" + collectionID, Title: "Title", Size: f.size},
	}
	for i := (page - 1) * per; i < page*per && i < available; i++ {
		p.Items = append(p.Items, Item{
			ID:     fmt.Sprintf("item-%d", i),
			Entity: Entity{Kind: KindText, ID: fmt.Sprintf("text-%d", i), Body: fmt.Sprintf("<p>%d</p>", i)},
		})
	}
	return p, nil
}

func (f *fakeFetcher) pageCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func assertNoGaps(t *testing.T, s *Store) {
	t.Helper()
	for i := 0; i < s.Len(); i++ {
		item, ok := s.Item(i)
		require.True(t, ok, "index %d not resident", i)
		assert.Equal(t, fmt.Sprintf("item-%d", i), item.ID)
	}
	_, ok := s.Item(s.Len())
	assert.False(t, ok)
}

func TestStore_LoadEstablishesCollection(t *testing.T) {
	f := newFakeFetcher(60)
	s := NewStore(f, "atlas", 25)

	c, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, c.Size)
	assert.Equal(t, "atlas", c.ID)
	assert.Equal(t, 25, s.Len())
	assert.Equal(t, 1, s.PagesLoaded())

	// second call is served from memory
	_, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, f.pageCalls())
}

func TestStore_LoadEmptyCollection(t *testing.T) {
	f := newFakeFetcher(0)
	s := NewStore(f, "empty", 25)

	c, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCollection)
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Size)
	assert.Equal(t, []int{1}, f.pageCalls())
}

func TestStore_EnsureResidentDoesNoIO(t *testing.T) {
	f := newFakeFetcher(10)
	s := NewStore(f, "atlas", 5)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	item, err := s.Ensure(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "item-4", item.ID)
	assert.Equal(t, []int{1}, f.pageCalls())
}

func TestStore_EnsureFetchesSequentialPages(t *testing.T) {
	f := newFakeFetcher(100)
	s := NewStore(f, "atlas", 10)

	item, err := s.Ensure(context.Background(), 37)
	require.NoError(t, err)
	assert.Equal(t, "item-37", item.ID)
	assert.Equal(t, []int{1, 2, 3, 4}, f.pageCalls())
	assert.Equal(t, 40, s.Len())
	assertNoGaps(t, s)
}

func TestStore_FailedFetchLeavesStateUnchanged(t *testing.T) {
	f := newFakeFetcher(30)
	boom := errors.New("connection reset")
	f.failOn[2] = boom
	s := NewStore(f, "atlas", 10)

	_, err := s.Load(context.Background())
	require.NoError(t, err)

	_, err = s.Ensure(context.Background(), 15)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, boom)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Page)
	assert.Equal(t, "atlas", fe.CollectionID)

	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 1, s.PagesLoaded())

	// page 2 is retried on the next call, never skipped
	delete(f.failOn, 2)
	item, err := s.Ensure(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, "item-15", item.ID)
	assert.Equal(t, []int{1, 2, 2}, f.pageCalls())
	assertNoGaps(t, s)
}

func TestStore_NotFoundPassesThrough(t *testing.T) {
	f := newFakeFetcher(30)
	f.failOn[1] = fmt.Errorf("graph says: %w", ErrNotFound)
	s := NewStore(f, "missing", 10)

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsTransport(err))
	assert.Nil(t, s.Collection())
}

func TestStore_OutOfRangeExhaustion(t *testing.T) {
	f := newFakeFetcher(20)
	f.short = true // upstream claims 20 items but only serves 10
	s := NewStore(f, "liar", 10)

	_, err := s.Load(context.Background())
	require.NoError(t, err)

	_, err = s.Ensure(context.Background(), 15)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 10, s.Len())
}

func TestStore_IndexBeyondSize(t *testing.T) {
	f := newFakeFetcher(5)
	s := NewStore(f, "atlas", 5)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	_, err = s.Ensure(context.Background(), 5)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.Ensure(context.Background(), -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, []int{1}, f.pageCalls())
}

func TestStore_OversizedPageIsTruncated(t *testing.T) {
	f := FetcherFunc(func(ctx context.Context, id string, page, per int) (*Page, error) {
		p := &Page{Number: page, Per: per, Collection: Collection{ID: id, Size: 3}}
		for i := 0; i < 5; i++ {
			p.Items = append(p.Items, Item{ID: fmt.Sprintf("item-%d", i)})
		}
		return p, nil
	})
	s := NewStore(f, "atlas", 5)

	_, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestStore_ConcurrentEnsureCoalesces(t *testing.T) {
	f := newFakeFetcher(100)
	s := NewStore(f, "atlas", 25)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	f.mu.Lock()
	f.gate = make(chan struct{})
	f.entered = make(chan int, 10)
	f.mu.Unlock()

	var wg sync.WaitGroup
	results := make([]Item, 2)
	errs := make([]error, 2)
	for i, idx := range []int{30, 40} {
		wg.Add(1)
		go func(i, idx int) {
			defer wg.Done()
			results[i], errs[i] = s.Ensure(context.Background(), idx)
		}(i, idx)
		if i == 0 {
			select {
			case page := <-f.entered:
				assert.Equal(t, 2, page)
			case <-time.After(2 * time.Second):
				t.Fatal("first fetch never started")
			}
		}
	}

	// give the second caller time to join the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, "item-30", results[0].ID)
	assert.Equal(t, "item-40", results[1].ID)
	assert.Equal(t, []int{1, 2}, f.pageCalls())
	assertNoGaps(t, s)
}

func TestStore_ConcurrentEnsureKeepsPageOrder(t *testing.T) {
	f := newFakeFetcher(200)
	s := NewStore(f, "atlas", 10)

	var wg sync.WaitGroup
	for _, idx := range []int{95, 12, 57, 3, 140, 88} {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			item, err := s.Ensure(context.Background(), idx)
			assert.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("item-%d", idx), item.ID)
		}(idx)
	}
	wg.Wait()

	calls := f.pageCalls()
	for i, page := range calls {
		assert.Equal(t, i+1, page, "pages must be requested once each, in order: %v", calls)
	}
	assert.Equal(t, 15, s.PagesLoaded())
	assertNoGaps(t, s)
}

func TestStore_DefaultPerPage(t *testing.T) {
	s := NewStore(newFakeFetcher(1), "atlas", 0)
	assert.Equal(t, DefaultPerPage, s.Per())
	assert.Equal(t, "atlas", s.CollectionID())
}

func TestStore_LateCallerDoesNotFetchPastLandedPage(t *testing.T) {
	f := newFakeFetcher(20)
	s := NewStore(f, "atlas", 10)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	// first caller lands page 2, which holds index 15
	item, err := s.Ensure(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, "item-15", item.ID)

	// a second caller that checked residency before page 2 landed now
	// reaches the fetch; it must not request page 3
	appended, err := s.fetchNext(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, skipped, appended)
	assert.Equal(t, []int{1, 2}, f.pageCalls())

	item, err = s.Ensure(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, "item-15", item.ID)
	assert.Equal(t, 2, s.PagesLoaded())
}

func TestStore_SkippedFlightDoesNotReportExhaustion(t *testing.T) {
	f := newFakeFetcher(30)
	s := NewStore(f, "atlas", 10)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	// a flight started for a resident index makes no request
	appended, err := s.fetchNext(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, skipped, appended)
	assert.Equal(t, []int{1}, f.pageCalls())

	// a caller sharing such a flight keeps going until its index lands
	item, err := s.Ensure(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, "item-25", item.ID)
	assert.Equal(t, []int{1, 2, 3}, f.pageCalls())
	assertNoGaps(t, s)
}

func TestStore_LoadAfterEmptyCollectionMakesNoRequest(t *testing.T) {
	f := newFakeFetcher(0)
	s := NewStore(f, "empty", 10)

	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, ErrEmptyCollection)

	appended, err := s.fetchNext(context.Background(), metadataOnly)
	require.NoError(t, err)
	assert.Equal(t, skipped, appended)
	assert.Equal(t, []int{1}, f.pageCalls())
}
