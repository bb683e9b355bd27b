package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/slides/pkg/cursor"
	"github.com/entrhq/slides/pkg/playback"
)

const (
	// SectionIDPlayback is the identifier for the playback section
	SectionIDPlayback = "playback"

	minInterval = 100 * time.Millisecond
)

// PlaybackSection configures the slideshow timing and traversal.
type PlaybackSection struct {
	Interval  time.Duration `json:"interval"`
	Traversal string        `json:"traversal"`
	mu        sync.RWMutex
}

// NewPlaybackSection creates a playback section with default settings.
func NewPlaybackSection() *PlaybackSection {
	s := &PlaybackSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *PlaybackSection) ID() string {
	return SectionIDPlayback
}

// Title returns the section title.
func (s *PlaybackSection) Title() string {
	return "Playback"
}

// Description returns the section description.
func (s *PlaybackSection) Description() string {
	return "Delay between slides and the order in which a collection is walked."
}

// Data returns the current configuration data.
func (s *PlaybackSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"interval":  s.Interval.String(),
		"traversal": s.Traversal,
	}
}

// SetData updates the configuration from the provided data.
func (s *PlaybackSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "interval":
			s.Interval, err = durationValue(key, value)
		case "traversal":
			s.Traversal, err = stringValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *PlaybackSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validatePlayback(s.Interval, s.Traversal)
}

// Reset resets the section to default configuration.
func (s *PlaybackSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Interval = playback.DefaultInterval
	s.Traversal = cursor.DefaultTraversal
}

// Get returns interval and traversal name.
func (s *PlaybackSection) Get() (time.Duration, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Interval, s.Traversal
}

func validatePlayback(interval time.Duration, traversal string) error {
	if interval < minInterval {
		return fmt.Errorf("interval must be at least %v, got %v", minInterval, interval)
	}
	if _, err := cursor.Parse(traversal); err != nil {
		return err
	}
	return nil
}
