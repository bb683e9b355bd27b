package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestResolve_Precedence(t *testing.T) {
	file := Defaults()
	file.Endpoint = "http://file/graph"
	file.PerPage = 5
	file.Interval = 4 * time.Second
	file.Traversal = "wrap"
	file.Timeout = 7 * time.Second

	profile := &Profile{
		Collection: "from-profile",
		Endpoint:   "http://profile/graph",
		PerPage:    6,
		Interval:   3 * time.Second,
		UI:         ProfileUI{Markdown: boolPtr(false)},
	}
	env := Env{
		Endpoint: "http://env/graph",
		PerPage:  7,
	}
	flags := Overrides{
		Endpoint: "http://flag/graph",
	}

	s, err := Resolve(file, profile, env, flags)
	require.NoError(t, err)

	assert.Equal(t, "http://flag/graph", s.Endpoint, "flag beats env")
	assert.Equal(t, 7, s.PerPage, "env beats profile")
	assert.Equal(t, 3*time.Second, s.Interval, "profile beats file")
	assert.Equal(t, "wrap", s.Traversal, "file beats defaults")
	assert.Equal(t, 7*time.Second, s.Timeout)
	assert.Equal(t, "from-profile", s.Collection)
	assert.False(t, s.Markdown)
	assert.True(t, s.AltScreen, "unset pointers keep the base value")
}

func TestResolve_Defaults(t *testing.T) {
	s, err := Resolve(Defaults(), nil, Env{}, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestResolve_Invalid(t *testing.T) {
	_, err := Resolve(Defaults(), nil, Env{}, Overrides{Traversal: "sideways"})
	assert.ErrorContains(t, err, "unknown traversal")

	_, err = Resolve(Defaults(), nil, Env{PerPage: 500}, Overrides{})
	assert.ErrorContains(t, err, "per_page")
}

func TestFromManager(t *testing.T) {
	assert.Equal(t, Defaults(), FromManager(nil))

	store := newMockStore()
	store.sections[SectionIDPlayback] = map[string]interface{}{"interval": "9s"}
	store.sections[SectionIDUI] = map[string]interface{}{"indicators": false}

	m, err := NewDefaultManager(store)
	require.NoError(t, err)
	require.NoError(t, m.LoadAll())

	s := FromManager(m)
	assert.Equal(t, 9*time.Second, s.Interval)
	assert.False(t, s.Indicators)
	assert.Equal(t, Defaults().Endpoint, s.Endpoint)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("SLIDES_ENDPOINT", "http://env/graph")
	t.Setenv("SLIDES_PER_PAGE", "12")
	t.Setenv("SLIDES_INTERVAL", "1500ms")
	t.Setenv("SLIDES_TRAVERSAL", "bounce-dwell")
	t.Setenv("SLIDES_TIMEOUT", "3s")
	t.Setenv("SLIDES_COLLECTION", "atlas")

	e, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, Env{
		Collection: "atlas",
		Endpoint:   "http://env/graph",
		PerPage:    12,
		Timeout:    3 * time.Second,
		Interval:   1500 * time.Millisecond,
		Traversal:  "bounce-dwell",
	}, e)
}

func TestParseEnv_Invalid(t *testing.T) {
	t.Setenv("SLIDES_PER_PAGE", "many")
	_, err := ParseEnv()
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
collection: atlas
interval: 3s
traversal: wrap
per_page: 10
ui:
  markdown: false
`)

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "atlas", p.Collection)
	assert.Equal(t, 3*time.Second, p.Interval)
	assert.Equal(t, "wrap", p.Traversal)
	assert.Equal(t, 10, p.PerPage)
	require.NotNil(t, p.UI.Markdown)
	assert.False(t, *p.UI.Markdown)
	assert.Nil(t, p.UI.AltScreen)
}

func TestLoadProfile_Errors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadProfile(writeProfile(t, "colection: typo\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = LoadProfile(writeProfile(t, "per_page: -1\n"))
	assert.Error(t, err)

	p, err := LoadProfile(writeProfile(t, ""))
	require.NoError(t, err, "empty profile is allowed")
	assert.Equal(t, Overrides{}, p.Overrides())
}

func TestResolve_LogLevel(t *testing.T) {
	assert.Equal(t, DefaultLogLevel, Defaults().LogLevel)

	profile := &Profile{LogLevel: "info"}
	s, err := Resolve(Defaults(), profile, Env{}, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)

	s, err = Resolve(Defaults(), profile, Env{LogLevel: "warn"}, Overrides{LogLevel: "error"})
	require.NoError(t, err)
	assert.Equal(t, "error", s.LogLevel)

	_, err = Resolve(Defaults(), nil, Env{LogLevel: "chatty"}, Overrides{})
	assert.ErrorContains(t, err, "unknown log level")
}

func TestParseEnv_LogLevel(t *testing.T) {
	t.Setenv("SLIDES_LOG_LEVEL", "warn")
	e, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, "warn", e.LogLevel)
	assert.Equal(t, "warn", e.Overrides().LogLevel)
}
