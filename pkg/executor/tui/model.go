package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/entrhq/slides/pkg/logging"
	"github.com/entrhq/slides/pkg/playback"
)

// toastDuration is how long a toast stays visible.
const toastDuration = 3 * time.Second

// glamour standard style names
const (
	darkStyle  = "dark"
	lightStyle = "light"
)

// model represents the state of the slideshow.
type model struct {
	// Bubble Tea components
	spinner  spinner.Model
	help     help.Model
	progress progress.Model
	keys     keyMap

	logger *logging.Logger

	// Display options
	markdown   bool
	indicators bool

	// Markdown renderer, rebuilt when the width changes. The style is fixed
	// before the program starts so glamour never queries the terminal.
	glamour      *glamour.TermRenderer
	glamourStyle string
	glamourWidth int

	// slideBody caches the rendered current slide; it is refreshed on new
	// slides and resizes only
	slideBody string

	// Playback state as reported by the scheduler
	slide    *playback.Slide
	fetching bool
	fetchFor int // index being fetched
	err      error

	toast toastNotification

	// copy writes to the system clipboard
	copy func(string) error

	// Window dimensions
	width  int
	height int
	ready  bool
}

func newModel() *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &model{
		spinner:    s,
		help:       help.New(),
		progress:   progress.New(progress.WithSolidFill(string(salmonPink))),
		keys:       defaultKeyMap(),
		logger:     logging.NewNopLogger("tui"),
		markdown:     true,
		indicators:   true,
		glamourStyle: darkStyle,
		copy:         clipboard.WriteAll,
	}
}

// slideMsg carries a rendered step from the scheduler.
type slideMsg struct {
	slide playback.Slide
}

// fetchMsg signals that the next step waits for a page fetch.
type fetchMsg struct {
	step  int
	index int
}

// haltMsg carries the error that ended or prevented playback.
type haltMsg struct {
	err error
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	url string
	err error
}

// toastNotification represents a temporary notification message
type toastNotification struct {
	message   string
	isError   bool
	showUntil time.Time
}

func (t toastNotification) visible(now time.Time) bool {
	return t.message != "" && now.Before(t.showUntil)
}
