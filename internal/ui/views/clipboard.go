package views

import (
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
)

// copyTextCmd copies text to the system clipboard. Failures are swallowed:
// clipboard access is best-effort and not worth an error popup.
func copyTextCmd(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	return func() tea.Msg {
		_ = clipboard.WriteAll(text)
		return nil
	}
}
