package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is a YAML file naming a collection and overriding settings for
// it, for example:
//
//	collection: atlas
//	interval: 3s
//	traversal: wrap
//	ui:
//	  markdown: false
type Profile struct {
	Collection string        `yaml:"collection"`
	Endpoint   string        `yaml:"endpoint"`
	PerPage    int           `yaml:"per_page"`
	Timeout    time.Duration `yaml:"timeout"`
	Interval   time.Duration `yaml:"interval"`
	Traversal  string        `yaml:"traversal"`
	LogLevel   string        `yaml:"log_level"`
	UI         ProfileUI     `yaml:"ui"`
}

// ProfileUI holds the UI overrides of a profile. Nil means not set.
type ProfileUI struct {
	AltScreen  *bool `yaml:"alt_screen"`
	Markdown   *bool `yaml:"markdown"`
	Indicators *bool `yaml:"indicators"`
}

// LoadProfile reads a profile. Unknown keys are an error.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	profile := &Profile{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(profile); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if profile.PerPage < 0 {
		return nil, fmt.Errorf("profile %s: per_page cannot be negative", path)
	}
	if profile.Interval < 0 || profile.Timeout < 0 {
		return nil, fmt.Errorf("profile %s: durations cannot be negative", path)
	}
	return profile, nil
}

// Overrides returns the values the profile sets.
func (p *Profile) Overrides() Overrides {
	if p == nil {
		return Overrides{}
	}
	return Overrides{
		Collection: p.Collection,
		Endpoint:   p.Endpoint,
		PerPage:    p.PerPage,
		Timeout:    p.Timeout,
		Interval:   p.Interval,
		Traversal:  p.Traversal,
		LogLevel:   p.LogLevel,
		AltScreen:  p.UI.AltScreen,
		Markdown:   p.UI.Markdown,
		Indicators: p.UI.Indicators,
	}
}
