package atlas

import (
	"bytes"
	"encoding/json"

	"github.com/entrhq/slides/pkg/content"
)

// codeNotFound is the extensions.code the graph uses for missing objects.
const codeNotFound = "NOT_FOUND"

// graphError is one entry of a GraphQL errors array.
type graphError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// envelope is the top level GraphQL response.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphError    `json:"errors"`
}

// flexID accepts ids serialised either as strings or as numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type urlsDTO struct {
	Src string `json:"src"`
	X1  string `json:"_1x"`
	X2  string `json:"_2x"`
}

type resizedDTO struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	URLs   urlsDTO `json:"urls"`
}

type entityDTO struct {
	Kind        string      `json:"kind"`
	ID          flexID      `json:"id"`
	Name        string      `json:"name"`
	Body        string      `json:"body"`
	URL         string      `json:"url"`
	Slug        string      `json:"slug"`
	OriginalURL string      `json:"originalUrl"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Placeholder *resizedDTO `json:"placeholder"`
	Thumb       *resizedDTO `json:"thumb"`
}

type ref struct {
	ID flexID `json:"id"`
}

type contentDTO struct {
	ID       flexID    `json:"id"`
	Entity   entityDTO `json:"entity"`
	Next     *ref      `json:"next"`
	Previous *ref      `json:"previous"`
}

type collectionDTO struct {
	ID     flexID `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Counts struct {
		Contents int `json:"contents"`
	} `json:"counts"`
	Contents []contentDTO `json:"contents"`
	Content  *contentDTO  `json:"content"`
}

type rootData struct {
	Root *struct {
		Collection *collectionDTO `json:"collection"`
	} `json:"root"`
}

func (d *rootData) collection() *collectionDTO {
	if d.Root == nil {
		return nil
	}
	return d.Root.Collection
}

func (c *collectionDTO) toCollection() content.Collection {
	return content.Collection{
		ID:    string(c.ID),
		Slug:  c.Slug,
		Title: c.Title,
		Size:  c.Counts.Contents,
	}
}

func (c contentDTO) toItem() content.Item {
	e := c.Entity
	entity := content.Entity{
		Kind: content.Kind(e.Kind),
		ID:   string(e.ID),
		Name: e.Name,
	}

	switch entity.Kind {
	case content.KindText:
		entity.Body = e.Body
	case content.KindLink:
		entity.URL = e.URL
	case content.KindCollection:
		entity.Slug = e.Slug
	case content.KindImage:
		img := &content.Image{
			OriginalURL: e.OriginalURL,
			Width:       e.Width,
			Height:      e.Height,
		}
		if e.Placeholder != nil {
			img.Placeholder = e.Placeholder.URLs.Src
		}
		if e.Thumb != nil {
			img.Thumb = content.Resized{
				Width:  e.Thumb.Width,
				Height: e.Thumb.Height,
				URL1x:  e.Thumb.URLs.X1,
				URL2x:  e.Thumb.URLs.X2,
			}
		}
		entity.Image = img
	}

	return content.Item{ID: string(c.ID), Entity: entity}
}

func refID(r *ref) string {
	if r == nil {
		return ""
	}
	return string(r.ID)
}
