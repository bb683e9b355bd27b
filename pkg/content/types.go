// Package content holds the data model for a remotely stored collection and
// the append-only store that pages it in on demand.
package content

import "context"

// Kind is the discriminant of an entity payload.
type Kind string

const (
	KindImage      Kind = "Image"      // KindImage is a resized image with placeholder and thumbnail urls.
	KindText       Kind = "Text"       // KindText is an HTML text block.
	KindLink       Kind = "Link"       // KindLink is an external url.
	KindCollection Kind = "Collection" // KindCollection is a nested collection.
)

// Valid reports whether k is one of the known entity kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindImage, KindText, KindLink, KindCollection:
		return true
	}
	return false
}

// Collection describes the collection being played. Size is the total number
// of items and is fixed once the first page has been loaded.
type Collection struct {
	ID    string
	Slug  string
	Title string
	Size  int
}

// Resized is one rendition of an image.
type Resized struct {
	Width  int
	Height int
	URL1x  string
	URL2x  string
}

// Image carries the image specific fields of an entity.
type Image struct {
	// Placeholder is a small blurred rendition used as a background.
	Placeholder string

	// Thumb is the large rendition shown on the slide.
	Thumb Resized

	// OriginalURL, Width and Height are only populated by single content lookups.
	OriginalURL string
	Width       int
	Height      int
}

// Entity is the payload of a content item. Which fields are set depends on Kind.
type Entity struct {
	Kind Kind
	ID   string
	Name string

	Body string // Text
	URL  string // Link
	Slug string // Collection

	Image *Image // Image
}

// Item is one element of a collection. Items are immutable once fetched.
type Item struct {
	ID     string
	Entity Entity
}

// LinkURL returns the most useful external url for the item, or "" when the
// item has none.
func (i Item) LinkURL() string {
	switch i.Entity.Kind {
	case KindLink:
		return i.Entity.URL
	case KindImage:
		if i.Entity.Image == nil {
			return ""
		}
		if i.Entity.Image.OriginalURL != "" {
			return i.Entity.Image.OriginalURL
		}
		return i.Entity.Image.Thumb.URL1x
	}
	return ""
}

// Page is the result of one paginated fetch.
type Page struct {
	Number     int
	Per        int
	Items      []Item
	Collection Collection
}

// Fetcher retrieves one page of a collection. Implementations must return
// items in a stable order and a constant Collection.Size for a given
// collection within a session.
type Fetcher interface {
	FetchPage(ctx context.Context, collectionID string, page, per int) (*Page, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, collectionID string, page, per int) (*Page, error)

// FetchPage calls f.
func (f FetcherFunc) FetchPage(ctx context.Context, collectionID string, page, per int) (*Page, error) {
	return f(ctx, collectionID, page, per)
}
