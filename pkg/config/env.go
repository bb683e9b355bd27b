package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env is the environment layer. Unset variables leave their field zero.
type Env struct {
	Collection string        `env:"SLIDES_COLLECTION"`
	Endpoint   string        `env:"SLIDES_ENDPOINT"`
	PerPage    int           `env:"SLIDES_PER_PAGE"`
	Timeout    time.Duration `env:"SLIDES_TIMEOUT"`
	Interval   time.Duration `env:"SLIDES_INTERVAL"`
	Traversal  string        `env:"SLIDES_TRAVERSAL"`
	LogLevel   string        `env:"SLIDES_LOG_LEVEL"`
}

// ParseEnv loads the environment layer from the process environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Overrides returns the variables that were set.
func (e Env) Overrides() Overrides {
	return Overrides{
		Collection: e.Collection,
		Endpoint:   e.Endpoint,
		PerPage:    e.PerPage,
		Timeout:    e.Timeout,
		Interval:   e.Interval,
		Traversal:  e.Traversal,
		LogLevel:   e.LogLevel,
	}
}
