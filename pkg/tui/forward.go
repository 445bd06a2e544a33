package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-go-golems/remotehand/pkg/action"
)

// Forward pumps lifecycle notifications from the mailbox into the
// program. It returns when the mailbox closes or ctx ends; pending
// confirmations left behind are resolved as refusals by the engine's
// context handling, not here.
func Forward(ctx context.Context, mailbox <-chan action.Notification, p *tea.Program) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-mailbox:
			if !ok {
				return
			}
			p.Send(NotificationMsg{Notification: n})
		}
	}
}
