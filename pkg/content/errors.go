package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the collection or a page does not exist upstream.
	ErrNotFound = errors.New("collection not found")

	// ErrTransport covers every other fetch failure: network errors,
	// malformed responses and non-2xx statuses.
	ErrTransport = errors.New("transport failure")

	// ErrEmptyCollection is returned when the collection has no items and
	// therefore no index can be produced.
	ErrEmptyCollection = errors.New("collection is empty")

	// ErrOutOfRange means the upstream ran out of pages before the requested
	// index became resident even though the index is below the reported size.
	ErrOutOfRange = errors.New("content exhausted before requested index")
)

// FetchError records which page of which collection failed.
type FetchError struct {
	CollectionID string
	Page         int
	Err          error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d of collection %q: %v", e.Page, e.CollectionID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
