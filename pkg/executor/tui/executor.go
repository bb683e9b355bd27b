// Package tui provides a terminal slideshow host for a playback.Scheduler.
//
// The TUI codebase is split into multiple files:
// - executor.go: Executor lifecycle and the Renderer/Observer bridge
// - model.go: Core model structure, state and messages
// - keys.go: Key bindings and help
// - update.go: Bubble Tea Update function and message handling
// - view.go: Bubble Tea View function and layout
// - slide.go: Rendering of a single slide by entity kind
// - styles.go: Color schemes and styling
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/slides/pkg/logging"
	"github.com/entrhq/slides/pkg/playback"
)

// Executor hosts the slideshow in a Bubble Tea program. It implements
// playback.Renderer and playback.Observer by forwarding every call to the
// program as a message, so it can be handed straight to a Scheduler.
type Executor struct {
	model       *model
	program     *tea.Program
	logger      *logging.Logger
	altScreen   bool
	programOpts []tea.ProgramOption

	// glamourStyle overrides background detection when set
	glamourStyle string

	started chan struct{}
	stopped chan struct{}
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger used for message flow diagnostics.
func WithLogger(logger *logging.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithAltScreen toggles the alternate screen buffer (default on).
func WithAltScreen(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.altScreen = enabled
	}
}

// WithMarkdown toggles glamour rendering of text slides (default on).
func WithMarkdown(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.model.markdown = enabled
	}
}

// WithIndicators toggles the indicator row (default on).
func WithIndicators(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.model.indicators = enabled
	}
}

// WithProgramOptions passes extra options to the Bubble Tea program.
func WithProgramOptions(opts ...tea.ProgramOption) ExecutorOption {
	return func(e *Executor) {
		e.programOpts = append(e.programOpts, opts...)
	}
}

// WithGlamourStyle fixes the markdown style ("dark", "light", ...) instead
// of detecting it from the terminal background.
func WithGlamourStyle(name string) ExecutorOption {
	return func(e *Executor) {
		e.glamourStyle = name
	}
}

func glamourStyleFor(dark bool) string {
	if dark {
		return darkStyle
	}
	return lightStyle
}

// NewExecutor creates a TUI host. Nothing is drawn until Run is called.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		model:     newModel(),
		altScreen: true,
		started:   make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNopLogger("tui")
	}
	e.model.logger = e.logger
	return e
}

// Run starts the program and blocks until the user quits or ctx is
// cancelled. Both count as a normal exit.
func (e *Executor) Run(ctx context.Context) error {
	e.logger.Debugf("TUI executor starting")

	// the terminal is only ours to query until the program starts
	if e.model.markdown {
		e.model.glamourStyle = e.glamourStyle
		if e.model.glamourStyle == "" {
			e.model.glamourStyle = glamourStyleFor(lipgloss.HasDarkBackground())
		}
		e.logger.Debugf("markdown style: %s", e.model.glamourStyle)
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if e.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	opts = append(opts, e.programOpts...)

	e.program = tea.NewProgram(e.model, opts...)
	close(e.started)
	defer close(e.stopped)

	_, err := e.program.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			e.logger.Debugf("TUI stopped by context: %v", err)
			return nil
		}
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	e.logger.Debugf("TUI exited")
	return nil
}

// Render implements playback.Renderer.
func (e *Executor) Render(slide playback.Slide) {
	e.send(slideMsg{slide: slide})
}

// OnFetch implements playback.Observer.
func (e *Executor) OnFetch(step, index int) {
	e.send(fetchMsg{step: step, index: index})
}

// OnHalt implements playback.Observer.
func (e *Executor) OnHalt(err error) {
	e.send(haltMsg{err: err})
}

// Fail shows an error that kept playback from starting.
func (e *Executor) Fail(err error) {
	e.send(haltMsg{err: err})
}

// send blocks until the program is running and has taken the message. It
// drops messages once the program has exited.
func (e *Executor) send(msg tea.Msg) {
	select {
	case <-e.stopped:
		return
	case <-e.started:
	}
	select {
	case <-e.stopped:
		return
	default:
	}
	e.program.Send(msg)
}
