// Package cli provides a plain-text host for a playback.Scheduler. It writes
// one block per slide and suits pipes, logs and dumb terminals.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/entrhq/slides/pkg/atlas"
//	    "github.com/entrhq/slides/pkg/executor/cli"
//	    "github.com/entrhq/slides/pkg/playback"
//	)
//
//	func main() {
//	    host := cli.NewExecutor(cli.WithColor(true))
//	    sched := playback.NewScheduler(atlas.NewClient(), host,
//	        playback.WithObserver(host),
//	    )
//
//	    if err := sched.Start(context.Background(), "atlas"); err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := sched.Wait(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/slides/pkg/atlas"
	"github.com/entrhq/slides/pkg/content"
	"github.com/entrhq/slides/pkg/markup"
	"github.com/entrhq/slides/pkg/playback"
)

// Executor writes slides to an io.Writer. It implements playback.Renderer
// and playback.Observer.
type Executor struct {
	mu     sync.Mutex
	writer io.Writer

	// Display options
	color    bool
	progress bool

	styles styles
}

type styles struct {
	position lipgloss.Style
	kind     lipgloss.Style
	name     lipgloss.Style
	url      lipgloss.Style
	muted    lipgloss.Style
	err      lipgloss.Style
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithWriter sets a custom output writer (default is os.Stdout).
func WithWriter(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.writer = w
	}
}

// WithColor enables/disables ANSI styling of the output.
func WithColor(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.color = enabled
	}
}

// WithProgress enables/disables a line for every page fetch.
func WithProgress(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.progress = enabled
	}
}

// NewExecutor creates a plain host writing to stdout without color.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.styles = newStyles(e.writer, e.color)
	return e
}

func newStyles(w io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		position: r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		kind:     r.NewStyle().Foreground(lipgloss.Color("#FFCCCB")).Italic(true),
		name:     r.NewStyle().Bold(true),
		url:      r.NewStyle().Foreground(lipgloss.Color("#A8E6CF")).Underline(true),
		muted:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		err:      r.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

// Render implements playback.Renderer. Each slide is written as one block
// followed by a blank line.
func (e *Executor) Render(slide playback.Slide) {
	var b strings.Builder
	b.WriteString(e.styles.position.Render(fmt.Sprintf("[%d/%d]", slide.Index+1, slide.Total)))
	b.WriteString(" ")
	e.writeItem(&b, slide.Item)
	b.WriteString("\n")

	e.write(b.String())
}

// OnFetch implements playback.Observer.
func (e *Executor) OnFetch(step, index int) {
	if !e.progress {
		return
	}
	e.write(e.styles.muted.Render(fmt.Sprintf("... loading item %d", index+1)) + "\n")
}

// OnHalt implements playback.Observer.
func (e *Executor) OnHalt(err error) {
	e.Fail(err)
}

// Fail writes an error that ended or prevented playback.
func (e *Executor) Fail(err error) {
	if errors.Is(err, content.ErrNotFound) {
		e.write(e.styles.err.Render("404 collection not found") + "\n")
		return
	}
	e.write(e.styles.err.Render("playback halted: "+err.Error()) + "\n")
}

// Show writes a single content item with the ids of its neighbours.
func (e *Executor) Show(c *atlas.Content) {
	var b strings.Builder
	title := c.Collection.Title
	if title == "" {
		title = c.Collection.Slug
	}
	b.WriteString(e.styles.position.Render(fmt.Sprintf("[%s]", title)))
	b.WriteString(" ")
	e.writeItem(&b, c.Item)
	if c.PreviousID != "" {
		b.WriteString(e.styles.muted.Render("previous: "+c.PreviousID) + "\n")
	}
	if c.NextID != "" {
		b.WriteString(e.styles.muted.Render("next: "+c.NextID) + "\n")
	}

	e.write(b.String())
}

func (e *Executor) writeItem(b *strings.Builder, item content.Item) {
	entity := item.Entity
	b.WriteString(e.styles.kind.Render(string(entity.Kind)) + ": ")
	b.WriteString(e.styles.name.Render(entity.Name))
	b.WriteString("\n")

	switch entity.Kind {
	case content.KindImage:
		if img := entity.Image; img != nil {
			w, h := img.Width, img.Height
			if w == 0 || h == 0 {
				w, h = img.Thumb.Width, img.Thumb.Height
			}
			if w > 0 && h > 0 {
				fmt.Fprintf(b, "  %dx%d\n", w, h)
			}
			if url := item.LinkURL(); url != "" {
				b.WriteString("  " + e.styles.url.Render(url) + "\n")
			}
		}
	case content.KindText:
		text, err := markup.ToText(entity.Body)
		if err != nil {
			text = entity.Body
		}
		for _, line := range strings.Split(text, "\n") {
			if line == "" {
				b.WriteString("\n")
				continue
			}
			b.WriteString("  " + line + "\n")
		}
	case content.KindLink:
		b.WriteString("  " + e.styles.url.Render(entity.URL) + "\n")
	case content.KindCollection:
		b.WriteString("  /" + entity.Slug + "\n")
	}
}

func (e *Executor) write(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = io.WriteString(e.writer, s)
}
