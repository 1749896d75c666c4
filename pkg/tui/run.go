package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DeBrosOfficial/contacts/pkg/cache"
)

// View renders the UI
func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(m.viewNotices())

	if m.mode == modeForm && m.form != nil {
		s.WriteString(m.viewForm())
		return s.String()
	}

	s.WriteString(m.viewList())
	if m.mode == modeList {
		s.WriteString(helpStyle.Render(m.help.View(defaultListKeys)))
	}
	return s.String()
}

// Run shows the screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, api API, pages *cache.PageCache, opts Options) error {
	m := New(ctx, api, pages, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
