package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the spinner.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all state updates for the slideshow.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(msg.Width-4, 10)
		m.ready = true
		m.refreshSlide()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case slideMsg:
		slide := msg.slide
		m.slide = &slide
		m.fetching = false
		m.refreshSlide()
		m.logger.Debugf("slide: step %d index %d/%d (%s)", slide.Step, slide.Index, slide.Total, slide.Item.Entity.Kind)
		return m, nil

	case fetchMsg:
		m.fetching = true
		m.fetchFor = msg.index
		m.logger.Debugf("fetch: step %d waits for index %d", msg.step, msg.index)
		return m, nil

	case haltMsg:
		m.err = msg.err
		m.fetching = false
		m.logger.Debugf("halt: %v", msg.err)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.showToast("Copy failed: "+msg.err.Error(), true)
		} else {
			m.showToast("Copied "+msg.url, false)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.logger.Debugf("quit requested")
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.slide == nil {
			return m, nil
		}
		url := m.slide.Item.LinkURL()
		if url == "" {
			m.showToast("Nothing to copy on this slide", true)
			return m, nil
		}
		return m, copyURL(m.copy, url)
	}
	return m, nil
}

func copyURL(write func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{url: url, err: write(url)}
	}
}

// showToast displays a toast notification to the user
func (m *model) showToast(message string, isError bool) {
	m.toast = toastNotification{
		message:   message,
		isError:   isError,
		showUntil: time.Now().Add(toastDuration),
	}
}
