package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tb453/shopadmin/internal/deletion"
)

// ChannelNotifier adapts deletion.Notifier and snapshot subscriptions to
// Bubble Tea messages. The deletion manager calls it from its own
// goroutine; the program drains it with WaitForNotice. Sends never block
// and notices are never dropped. Back-to-back snapshots collapse into the
// latest one.
type ChannelNotifier struct {
	mu    sync.Mutex
	queue []tea.Msg
	ready chan struct{}
}

var _ deletion.Notifier = (*ChannelNotifier)(nil)

// NewChannelNotifier creates a new notifier.
func NewChannelNotifier() *ChannelNotifier {
	return &ChannelNotifier{ready: make(chan struct{}, 1)}
}

// Show forwards a notice.
func (n *ChannelNotifier) Show(notice deletion.Notice) {
	n.send(NoticeMsg{Notice: notice})
}

// Dismiss forwards a dismissal.
func (n *ChannelNotifier) Dismiss(id string) {
	n.send(DismissNoticeMsg{ID: id})
}

// Publish is the snapshot subscriber passed to Manager.Subscribe.
func (n *ChannelNotifier) Publish(snap deletion.Snapshot) {
	n.send(DeletionSnapshotMsg{Snapshot: snap})
}

func (n *ChannelNotifier) send(msg tea.Msg) {
	n.mu.Lock()
	if _, isSnap := msg.(DeletionSnapshotMsg); isSnap && len(n.queue) > 0 {
		if _, lastSnap := n.queue[len(n.queue)-1].(DeletionSnapshotMsg); lastSnap {
			n.queue[len(n.queue)-1] = msg
			n.mu.Unlock()
			return
		}
	}
	n.queue = append(n.queue, msg)
	n.mu.Unlock()

	select {
	case n.ready <- struct{}{}:
	default: // a wakeup is already pending
	}
}

// pending returns the number of undelivered messages
func (n *ChannelNotifier) pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queue)
}

// WaitForNotice blocks for the next notifier message.
func (n *ChannelNotifier) WaitForNotice() tea.Cmd {
	return func() tea.Msg {
		for {
			n.mu.Lock()
			if len(n.queue) > 0 {
				msg := n.queue[0]
				n.queue[0] = nil
				n.queue = n.queue[1:]
				n.mu.Unlock()
				return msg
			}
			n.mu.Unlock()
			<-n.ready
		}
	}
}
