package playback

import "github.com/entrhq/slides/pkg/content"

// Slide is everything a renderer needs to draw one step.
type Slide struct {
	Collection  content.Collection
	Item        content.Item
	Index       int // position in [0, Total)
	Total       int
	Step        int // counter value that produced Index
	PagesLoaded int
}

// Renderer draws slides. Render must not block for long; the scheduler
// treats it as fire-and-forget.
type Renderer interface {
	Render(slide Slide)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(slide Slide)

// Render calls f.
func (f RendererFunc) Render(slide Slide) {
	f(slide)
}

// Observer is notified about work the loop is doing between renders.
type Observer interface {
	// OnFetch is called before a step that has to wait for a page fetch.
	OnFetch(step, index int)

	// OnHalt is called once when a failed step ends playback.
	OnHalt(err error)
}

type nopObserver struct{}

func (nopObserver) OnFetch(int, int) {}
func (nopObserver) OnHalt(error)     {}
