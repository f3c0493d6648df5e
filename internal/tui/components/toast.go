package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/tb453/shopadmin/internal/deletion"
	"github.com/tb453/shopadmin/internal/tui/styles"
)

// CancelAnimation is how long the countdown toast lingers after the user
// cancels the batch
const CancelAnimation = 600 * time.Millisecond

const (
	toastWidth     = 44
	maxToastStack  = 4
	defaultDisplay = 3 * time.Second
)

type transient struct {
	notice  deletion.Notice
	expires time.Time
}

// Toast is the notification stack in the bottom-right corner: at most one
// deletion countdown plus transient success/error notices
type Toast struct {
	countdown   *deletion.Notice
	cancelUntil time.Time
	items       []transient
	bar         progress.Model
}

// NewToast creates an empty toast stack
func NewToast() Toast {
	bar := progress.New(
		progress.WithSolidFill(string(styles.Red)),
		progress.WithoutPercentage(),
		progress.WithWidth(toastWidth-4),
	)
	bar.EmptyColor = string(styles.SlateLight)
	return Toast{bar: bar}
}

// Show adds or replaces a notice. Notices with the same id replace each
// other in place.
func (t *Toast) Show(n deletion.Notice, now time.Time) {
	if n.Kind == deletion.NoticeCountdown {
		c := n
		t.countdown = &c
		t.cancelUntil = time.Time{}
		return
	}

	d := n.Duration
	if d <= 0 {
		d = defaultDisplay
	}
	for i := range t.items {
		if t.items[i].notice.ID == n.ID {
			t.items[i] = transient{notice: n, expires: now.Add(d)}
			return
		}
	}
	t.items = append(t.items, transient{notice: n, expires: now.Add(d)})
	if len(t.items) > maxToastStack {
		t.items = t.items[len(t.items)-maxToastStack:]
	}
}

// BeginCancel starts the cancel animation on the countdown toast
func (t *Toast) BeginCancel(now time.Time) {
	if t.countdown != nil {
		t.cancelUntil = now.Add(CancelAnimation)
	}
}

// Cancelling reports whether the cancel animation is running
func (t Toast) Cancelling(now time.Time) bool {
	return t.countdown != nil && now.Before(t.cancelUntil)
}

// Dismiss removes a notice by id. The countdown stays up while its cancel
// animation runs; Tick removes it afterwards.
func (t *Toast) Dismiss(id string, now time.Time) {
	if t.countdown != nil && t.countdown.ID == id {
		if !t.Cancelling(now) {
			t.countdown = nil
		}
		return
	}
	for i := range t.items {
		if t.items[i].notice.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Sync reconciles the countdown with the manager's queue state. Dropped
// channel messages are repaired here.
func (t *Toast) Sync(snap deletion.Snapshot, now time.Time) {
	queued := snap.Pending + snap.Aborted
	switch {
	case queued == 0 && t.countdown != nil && !t.Cancelling(now):
		t.countdown = nil
	case snap.Pending == 0 && queued > 0:
		// Only aborted entries remain
		if t.countdown != nil && !t.Cancelling(now) {
			t.countdown.Count = 0
			t.countdown.Text = countdownText(0)
		}
	case snap.Pending > 0:
		if t.countdown == nil {
			t.countdown = &deletion.Notice{ID: deletion.CountdownNoticeID, Kind: deletion.NoticeCountdown}
		}
		t.countdown.Count = snap.Pending
		t.countdown.Deadline = snap.Deadline
		t.countdown.Duration = snap.Delay
		t.countdown.Text = countdownText(snap.Pending)
		t.cancelUntil = time.Time{}
	}
}

// Tick expires transient notices and finished cancel animations
func (t *Toast) Tick(now time.Time) {
	if t.countdown != nil && !t.cancelUntil.IsZero() && !now.Before(t.cancelUntil) {
		t.countdown = nil
		t.cancelUntil = time.Time{}
	}
	kept := t.items[:0]
	for _, it := range t.items {
		if now.Before(it.expires) {
			kept = append(kept, it)
		}
	}
	t.items = kept
}

// HasCountdown reports whether the deletion countdown is visible
func (t Toast) HasCountdown() bool {
	return t.countdown != nil
}

// Len returns the number of visible toasts
func (t Toast) Len() int {
	n := len(t.items)
	if t.countdown != nil {
		n++
	}
	return n
}

// Remaining returns the fraction of the undo window left, 1 when the
// countdown was just (re)armed and 0 at the deadline
func (t Toast) Remaining(now time.Time) float64 {
	if t.Cancelling(now) {
		return float64(t.cancelUntil.Sub(now)) / float64(CancelAnimation)
	}
	if t.countdown == nil || t.countdown.Duration <= 0 || t.countdown.Deadline.IsZero() {
		return 0
	}
	left := t.countdown.Deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	frac := float64(left) / float64(t.countdown.Duration)
	if frac > 1 {
		return 1
	}
	return frac
}

func countdownText(n int) string {
	return deletion.CountdownText(n)
}

// View renders the stack, newest transient notice last
func (t Toast) View(now time.Time) string {
	var blocks []string
	for _, it := range t.items {
		style := styles.NoticeInfoStyle
		switch it.notice.Kind {
		case deletion.NoticeSuccess:
			style = styles.NoticeSuccessStyle
		case deletion.NoticeError:
			style = styles.NoticeErrorStyle
		}
		blocks = append(blocks, style.Width(toastWidth).Render(styles.Truncate(it.notice.Text, toastWidth-2)))
	}

	if t.countdown != nil {
		var body string
		if t.Cancelling(now) {
			body = lipgloss.JoinVertical(lipgloss.Left,
				styles.DimStyle.Render("Cancelling..."),
				t.bar.ViewAs(t.Remaining(now)),
			)
		} else {
			left := t.countdown.Deadline.Sub(now).Round(time.Second)
			if left < 0 {
				left = 0
			}
			header := styles.TitleStyle.Render(t.countdown.Text) +
				styles.DimStyle.Render(fmt.Sprintf("  %ds", int(left.Seconds())))
			hint := styles.HelpKeyStyle.Render("u") + styles.HelpDescStyle.Render(" cancel  ") +
				styles.HelpKeyStyle.Render("a") + styles.HelpDescStyle.Render(" keep selected")
			body = lipgloss.JoinVertical(lipgloss.Left, header, t.bar.ViewAs(t.Remaining(now)), hint)
		}
		blocks = append(blocks, styles.ToastStyle.Width(toastWidth).Render(body))
	}

	if len(blocks) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Right, blocks...)
}
