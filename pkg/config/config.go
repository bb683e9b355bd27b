// Package config holds persistent user settings and the resolution of a run's
// effective settings from flags, environment, a YAML profile and the settings
// file.
package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// NewDefaultManager creates a manager over store with the atlas, playback
// and ui sections registered.
func NewDefaultManager(store Store) (*Manager, error) {
	manager := NewManager(store)

	for _, section := range []Section{
		NewAtlasSection(),
		NewPlaybackSection(),
		NewUISection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}
	return manager, nil
}

// Initialize creates and loads the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager, err := NewDefaultManager(store)
	if err != nil {
		return err
	}

	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}

	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetAtlas returns the atlas section from global config.
// Returns nil if config is not initialized.
func GetAtlas() *AtlasSection {
	return globalSection[*AtlasSection](SectionIDAtlas)
}

// GetPlayback returns the playback section from global config.
// Returns nil if config is not initialized.
func GetPlayback() *PlaybackSection {
	return globalSection[*PlaybackSection](SectionIDPlayback)
}

// GetUI returns the UI section from global config.
// Returns nil if config is not initialized.
func GetUI() *UISection {
	return globalSection[*UISection](SectionIDUI)
}

func globalSection[T Section](id string) T {
	var zero T
	if !IsInitialized() {
		return zero
	}

	section, ok := Global().GetSection(id)
	if !ok {
		return zero
	}

	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}
