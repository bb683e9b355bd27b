package config

import (
	"fmt"
	"time"

	"github.com/entrhq/slides/pkg/atlas"
	"github.com/entrhq/slides/pkg/content"
	"github.com/entrhq/slides/pkg/cursor"
	"github.com/entrhq/slides/pkg/logging"
	"github.com/entrhq/slides/pkg/playback"
)

// Settings is the effective configuration of one run.
type Settings struct {
	Collection string
	Endpoint   string
	PerPage    int
	Timeout    time.Duration
	Interval   time.Duration
	Traversal  string
	LogLevel   string
	AltScreen  bool
	Markdown   bool
	Indicators bool
}

// Overrides is one configuration layer. Zero values and nil pointers mean
// the layer does not set that field.
type Overrides struct {
	Collection string
	Endpoint   string
	PerPage    int
	Timeout    time.Duration
	Interval   time.Duration
	Traversal  string
	LogLevel   string
	AltScreen  *bool
	Markdown   *bool
	Indicators *bool
}

// DefaultLogLevel keeps every entry in the session log.
const DefaultLogLevel = "debug"

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Endpoint:   atlas.DefaultEndpoint,
		PerPage:    content.DefaultPerPage,
		Timeout:    atlas.DefaultTimeout,
		Interval:   playback.DefaultInterval,
		Traversal:  cursor.DefaultTraversal,
		LogLevel:   DefaultLogLevel,
		AltScreen:  defaultAltScreen,
		Markdown:   defaultMarkdown,
		Indicators: defaultIndicators,
	}
}

// FromManager reads the file layer from the manager's sections. Sections
// that are not registered contribute their defaults.
func FromManager(m *Manager) Settings {
	s := Defaults()
	if m == nil {
		return s
	}

	if section, ok := m.GetSection(SectionIDAtlas); ok {
		if a, ok := section.(*AtlasSection); ok {
			s.Endpoint, s.PerPage, s.Timeout = a.Get()
		}
	}
	if section, ok := m.GetSection(SectionIDPlayback); ok {
		if p, ok := section.(*PlaybackSection); ok {
			s.Interval, s.Traversal = p.Get()
		}
	}
	if section, ok := m.GetSection(SectionIDUI); ok {
		if u, ok := section.(*UISection); ok {
			s.AltScreen, s.Markdown, s.Indicators = u.Get()
		}
	}
	return s
}

// Resolve layers the run's configuration with precedence
// flags > env > profile > base, where base is normally FromManager.
// The result is validated.
func Resolve(base Settings, profile *Profile, env Env, flags Overrides) (Settings, error) {
	s := base
	profile.Overrides().apply(&s)
	env.Overrides().apply(&s)
	flags.apply(&s)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings a run needs. The collection may still be
// empty; the caller decides whether that is an error.
func (s Settings) Validate() error {
	if err := validateAtlas(s.Endpoint, s.PerPage, s.Timeout); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := validatePlayback(s.Interval, s.Traversal); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func (o Overrides) apply(s *Settings) {
	if o.Collection != "" {
		s.Collection = o.Collection
	}
	if o.Endpoint != "" {
		s.Endpoint = o.Endpoint
	}
	if o.PerPage != 0 {
		s.PerPage = o.PerPage
	}
	if o.Timeout != 0 {
		s.Timeout = o.Timeout
	}
	if o.Interval != 0 {
		s.Interval = o.Interval
	}
	if o.Traversal != "" {
		s.Traversal = o.Traversal
	}
	if o.LogLevel != "" {
		s.LogLevel = o.LogLevel
	}
	if o.AltScreen != nil {
		s.AltScreen = *o.AltScreen
	}
	if o.Markdown != nil {
		s.Markdown = *o.Markdown
	}
	if o.Indicators != nil {
		s.Indicators = *o.Indicators
	}
}
