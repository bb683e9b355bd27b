package config

import (
	"sync"
)

const (
	// SectionIDUI is the identifier for the UI settings section
	SectionIDUI = "ui"

	// Default values for UI settings
	defaultAltScreen  = true
	defaultMarkdown   = true
	defaultIndicators = true
)

// UISection manages user interface configuration settings.
type UISection struct {
	AltScreen  bool `json:"alt_screen"`
	Markdown   bool `json:"markdown"`
	Indicators bool `json:"indicators"`
	mu         sync.RWMutex
}

// NewUISection creates a new UI section with default settings.
func NewUISection() *UISection {
	return &UISection{
		AltScreen:  defaultAltScreen,
		Markdown:   defaultMarkdown,
		Indicators: defaultIndicators,
	}
}

// ID returns the section identifier.
func (s *UISection) ID() string {
	return SectionIDUI
}

// Title returns the section title.
func (s *UISection) Title() string {
	return "UI Settings"
}

// Description returns the section description.
func (s *UISection) Description() string {
	return "Configure the terminal slideshow: alternate screen, markdown rendering of text slides and the indicator row."
}

// Data returns the current configuration data.
func (s *UISection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"alt_screen": s.AltScreen,
		"markdown":   s.Markdown,
		"indicators": s.Indicators,
	}
}

// SetData updates the configuration from the provided data.
func (s *UISection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "alt_screen":
			s.AltScreen, err = boolValue(key, value)
		case "markdown":
			s.Markdown, err = boolValue(key, value)
		case "indicators":
			s.Indicators, err = boolValue(key, value)
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *UISection) Validate() error {
	return nil
}

// Reset resets the section to default configuration.
func (s *UISection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.AltScreen = defaultAltScreen
	s.Markdown = defaultMarkdown
	s.Indicators = defaultIndicators
}

// Get returns alt screen, markdown and indicator settings.
func (s *UISection) Get() (altScreen, markdown, indicators bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.AltScreen, s.Markdown, s.Indicators
}
