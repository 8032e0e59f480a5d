package tui

import tea "github.com/charmbracelet/bubbletea"

// signalMsg reports one signal on source. The receiver re-arms its
// listener with [listen] after handling it.
type signalMsg struct {
	source <-chan struct{}
}

// listen waits for a single signal on ch. A closed channel yields no
// message, so listeners of closed subscriptions stop silently.
func listen(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return signalMsg{source: ch}
	}
}

// restoredMsg is sent when the stored session has been restored.
type restoredMsg struct {
	err error
}
