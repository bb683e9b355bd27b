package config

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/entrhq/slides/pkg/atlas"
	"github.com/entrhq/slides/pkg/content"
)

const (
	// SectionIDAtlas is the identifier for the graph connection section
	SectionIDAtlas = "atlas"

	// maxPerPage bounds page sizes to something the graph will serve.
	maxPerPage = 100
)

// AtlasSection configures where collections are fetched from.
type AtlasSection struct {
	Endpoint string        `json:"endpoint"`
	PerPage  int           `json:"per_page"`
	Timeout  time.Duration `json:"timeout"`
	mu       sync.RWMutex
}

// NewAtlasSection creates an atlas section with default settings.
func NewAtlasSection() *AtlasSection {
	s := &AtlasSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *AtlasSection) ID() string {
	return SectionIDAtlas
}

// Title returns the section title.
func (s *AtlasSection) Title() string {
	return "Atlas"
}

// Description returns the section description.
func (s *AtlasSection) Description() string {
	return "GraphQL endpoint, page size and request timeout used to fetch collections."
}

// Data returns the current configuration data.
func (s *AtlasSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"endpoint": s.Endpoint,
		"per_page": s.PerPage,
		"timeout":  s.Timeout.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *AtlasSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "endpoint":
			s.Endpoint, err = stringValue(key, value)
		case "per_page":
			s.PerPage, err = intValue(key, value)
		case "timeout":
			s.Timeout, err = durationValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *AtlasSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validateAtlas(s.Endpoint, s.PerPage, s.Timeout)
}

// Reset resets the section to default configuration.
func (s *AtlasSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Endpoint = atlas.DefaultEndpoint
	s.PerPage = content.DefaultPerPage
	s.Timeout = atlas.DefaultTimeout
}

// Get returns endpoint, page size and timeout.
func (s *AtlasSection) Get() (string, int, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Endpoint, s.PerPage, s.Timeout
}

func validateAtlas(endpoint string, perPage int, timeout time.Duration) error {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("endpoint must be an http(s) url, got %q", endpoint)
	}
	if perPage < 1 || perPage > maxPerPage {
		return fmt.Errorf("per_page must be between 1 and %d, got %d", maxPerPage, perPage)
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", timeout)
	}
	return nil
}
