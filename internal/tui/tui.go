package tui

import (
	"context"

	"tajawal-cli/internal/editor"

	tea "github.com/charmbracelet/bubbletea"
)

// Run edits s full-screen until the user quits. Unsaved changes are discarded on quit.
func Run(ctx context.Context, s *editor.Session, opt Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newEditorModel(ctx, s, opt)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
