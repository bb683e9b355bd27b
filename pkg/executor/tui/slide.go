package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/entrhq/slides/pkg/content"
	"github.com/entrhq/slides/pkg/markup"
	"github.com/entrhq/slides/pkg/playback"
)

// refreshSlide re-renders the cached slide body for the current width.
func (m *model) refreshSlide() {
	if m.slide == nil || !m.ready {
		return
	}
	m.slideBody = m.renderSlide(*m.slide, m.width-4)
}

// renderSlide draws the body of one slide for the given content width.
func (m *model) renderSlide(s playback.Slide, width int) string {
	e := s.Item.Entity

	var b strings.Builder
	b.WriteString(kindStyle.Render(string(e.Kind)))
	b.WriteString("\n")
	if e.Name != "" {
		b.WriteString(slideTitleStyle.Render(e.Name))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch e.Kind {
	case content.KindImage:
		b.WriteString(renderImage(e.Image))
	case content.KindText:
		b.WriteString(m.renderText(e.Body, width))
	case content.KindLink:
		b.WriteString(urlStyle.Render(e.URL))
	case content.KindCollection:
		b.WriteString(mutedStyle.Render("/" + e.Slug))
	default:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("unsupported entity %q", e.Kind)))
	}

	return b.String()
}

func renderImage(img *content.Image) string {
	if img == nil {
		return mutedStyle.Render("no image data")
	}

	var lines []string
	switch {
	case img.Width > 0 && img.Height > 0:
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d × %d", img.Width, img.Height)))
	case img.Thumb.Width > 0 && img.Thumb.Height > 0:
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d × %d", img.Thumb.Width, img.Thumb.Height)))
	}
	if img.Thumb.URL1x != "" {
		lines = append(lines, "1x "+urlStyle.Render(img.Thumb.URL1x))
	}
	if img.Thumb.URL2x != "" {
		lines = append(lines, "2x "+urlStyle.Render(img.Thumb.URL2x))
	}
	if img.OriginalURL != "" {
		lines = append(lines, "original "+urlStyle.Render(img.OriginalURL))
	}
	return strings.Join(lines, "\n")
}

// renderText shows an HTML body as glamour-rendered markdown, falling back to
// plain text when markdown is off or fails.
func (m *model) renderText(body string, width int) string {
	if m.markdown {
		out, err := m.renderMarkdown(body, width)
		if err == nil {
			return strings.TrimRight(out, "\n")
		}
		m.logger.Warnf("markdown rendering failed, using plain text: %v", err)
	}

	text, err := markup.ToText(body)
	if err != nil {
		return body
	}
	return text
}

func (m *model) renderMarkdown(body string, width int) (string, error) {
	md, err := markup.ToMarkdown(body)
	if err != nil {
		return "", err
	}

	if m.glamour == nil || m.glamourWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.glamourStyle),
			glamour.WithWordWrap(max(width, 20)),
		)
		if err != nil {
			return "", fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		m.glamour = r
		m.glamourWidth = width
	}

	return m.glamour.Render(md)
}
