package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/slides/pkg/content"
)

// siteName is appended to the collection title in the header.
const siteName = "Atlas"

// Indicator glyphs, one per item.
const (
	glyphPast   = "▪"
	glyphActive = "■"
	glyphFuture = "·"
)

// View renders the entire TUI interface.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sections := []string{m.buildHeader(), m.buildBody()}
	if row := m.buildIndicators(); row != "" {
		sections = append(sections, row)
	}
	sections = append(sections, m.buildStatusBar())
	if toast := m.buildToast(); toast != "" {
		sections = append(sections, toast)
	}
	sections = append(sections, " "+m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// buildHeader renders "<title> / Atlas", or just the site name before the
// collection is known.
func (m *model) buildHeader() string {
	if m.slide == nil || m.slide.Collection.Title == "" {
		return headerStyle.Render(siteName)
	}
	return headerStyle.Render(m.slide.Collection.Title + " / " + siteName)
}

// buildBody renders the error page, the loading spinner or the current slide.
func (m *model) buildBody() string {
	height := m.bodyHeight()
	style := bodyStyle.Width(m.width).Height(height)

	switch {
	case m.err != nil:
		return style.Render(m.renderError(m.err))
	case m.slide == nil:
		return style.Render(fmt.Sprintf("%s Loading collection...", m.spinner.View()))
	default:
		return style.Render(m.slideBody)
	}
}

func (m *model) renderError(err error) string {
	if errors.Is(err, content.ErrNotFound) {
		return notFoundStyle.Render("404") + "\n" + mutedStyle.Render("Collection not found")
	}
	return errorStyle.Render("✗ " + err.Error())
}

// bodyHeight leaves room for header, indicators, status bar and help.
func (m *model) bodyHeight() int {
	return max(m.height-6, 3)
}

// buildIndicators renders one cell per item, or a progress bar when the
// collection does not fit on one line.
func (m *model) buildIndicators() string {
	if !m.indicators || m.slide == nil || m.err != nil || m.slide.Total <= 0 {
		return ""
	}

	s := m.slide
	if s.Total > m.width-2 {
		return " " + m.progress.ViewAs(float64(s.Index+1)/float64(s.Total))
	}

	var b strings.Builder
	b.WriteString(" ")
	for _, state := range indicatorStates(s.Index, s.Total) {
		switch state {
		case cellPast:
			b.WriteString(indicatorPastStyle.Render(glyphPast))
		case cellActive:
			b.WriteString(indicatorActiveStyle.Render(glyphActive))
		default:
			b.WriteString(indicatorFutureStyle.Render(glyphFuture))
		}
	}
	return b.String()
}

type cellState int

const (
	cellPast cellState = iota
	cellActive
	cellFuture
)

// indicatorStates classifies every position relative to the active index.
func indicatorStates(index, total int) []cellState {
	states := make([]cellState, total)
	for i := range states {
		switch {
		case i < index:
			states[i] = cellPast
		case i == index:
			states[i] = cellActive
		default:
			states[i] = cellFuture
		}
	}
	return states
}

// buildStatusBar renders step, position and pages loaded.
func (m *model) buildStatusBar() string {
	if m.slide == nil {
		return statusBarStyle.Render("waiting for first slide")
	}

	s := m.slide
	status := fmt.Sprintf("step %d • %d/%d • %d pages loaded", s.Step+1, s.Index+1, s.Total, s.PagesLoaded)
	if m.fetching {
		status += fmt.Sprintf(" • %s fetching item %d", m.spinner.View(), m.fetchFor+1)
	}
	return statusBarStyle.Width(m.width).Render(status)
}

func (m *model) buildToast() string {
	if !m.toast.visible(time.Now()) {
		return ""
	}
	style := toastStyle
	if m.toast.isError {
		style = style.BorderForeground(errorRed)
	}
	return style.Render(m.toast.message)
}
