package deletion

import (
	"fmt"
	"time"
)

// NoticeKind tells the notification surface how to render a notice
type NoticeKind int

const (
	// NoticeCountdown is the live "deleting N products" toast with a cancel action
	NoticeCountdown NoticeKind = iota
	// NoticeSuccess reports one committed deletion
	NoticeSuccess
	// NoticeError reports one failed deletion
	NoticeError
	// NoticeCancelled confirms that the pending batch was dropped
	NoticeCancelled
)

// CountdownNoticeID is the fixed id of the countdown toast. Re-showing it
// replaces the previous content instead of stacking a second toast.
const CountdownNoticeID = "product-deletion-countdown"

// CountdownText is the countdown body for n products still to be deleted
func CountdownText(n int) string {
	if n == 0 {
		return "Nothing to delete, all selected products kept"
	}
	return fmt.Sprintf("Deleting %d selected product(s), please wait...", n)
}

// Notice is one message for the notification surface
type Notice struct {
	ID       string
	Kind     NoticeKind
	Text     string
	Count    int           // queued products, countdown only
	Deadline time.Time     // commit time, countdown only
	Duration time.Duration // countdown length or display time of transient notices
}

// Notifier is the notification surface (toast layer) the manager drives
type Notifier interface {
	Show(n Notice)
	Dismiss(id string)
}

// NopNotifier discards notices (for tests/headless use).
type NopNotifier struct{}

func (NopNotifier) Show(Notice)    {}
func (NopNotifier) Dismiss(string) {}
