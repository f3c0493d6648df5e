package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tb453/shopadmin/internal/deletion"
)

var t0 = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func countdown(count int, deadline time.Time) deletion.Notice {
	return deletion.Notice{
		ID:       deletion.CountdownNoticeID,
		Kind:     deletion.NoticeCountdown,
		Text:     countdownText(count),
		Count:    count,
		Deadline: deadline,
		Duration: 5 * time.Second,
	}
}

func TestToast_Countdown(t *testing.T) {
	t.Run("remaining fraction follows the deadline", func(t *testing.T) {
		toast := NewToast()
		toast.Show(countdown(1, t0.Add(5*time.Second)), t0)

		assert.True(t, toast.HasCountdown())
		assert.InDelta(t, 1.0, toast.Remaining(t0), 0.001)
		assert.InDelta(t, 0.6, toast.Remaining(t0.Add(2*time.Second)), 0.001)
		assert.Zero(t, toast.Remaining(t0.Add(6*time.Second)))
	})

	t.Run("re-showing replaces instead of stacking", func(t *testing.T) {
		toast := NewToast()
		toast.Show(countdown(1, t0.Add(5*time.Second)), t0)
		toast.Show(countdown(2, t0.Add(8*time.Second)), t0.Add(3*time.Second))

		assert.Equal(t, 1, toast.Len())
		assert.Contains(t, toast.View(t0.Add(3*time.Second)), "Deleting 2 selected product(s)")
	})

	t.Run("dismiss removes it", func(t *testing.T) {
		toast := NewToast()
		toast.Show(countdown(1, t0.Add(5*time.Second)), t0)
		toast.Dismiss(deletion.CountdownNoticeID, t0.Add(time.Second))

		assert.False(t, toast.HasCountdown())
		assert.Empty(t, toast.View(t0.Add(time.Second)))
	})
}

func TestToast_CancelAnimation(t *testing.T) {
	toast := NewToast()
	toast.Show(countdown(2, t0.Add(5*time.Second)), t0)

	cancelAt := t0.Add(2 * time.Second)
	toast.BeginCancel(cancelAt)
	toast.Dismiss(deletion.CountdownNoticeID, cancelAt)
	toast.Sync(deletion.Snapshot{}, cancelAt)

	// Still visible while the animation runs
	assert.True(t, toast.HasCountdown())
	assert.True(t, toast.Cancelling(cancelAt.Add(100*time.Millisecond)))
	assert.Contains(t, toast.View(cancelAt.Add(100*time.Millisecond)), "Cancelling")
	assert.InDelta(t, 0.5, toast.Remaining(cancelAt.Add(CancelAnimation/2)), 0.01)

	toast.Tick(cancelAt.Add(CancelAnimation))
	assert.False(t, toast.HasCountdown())
}

func TestToast_NewRequestDuringCancelAnimation(t *testing.T) {
	toast := NewToast()
	toast.Show(countdown(1, t0.Add(5*time.Second)), t0)
	toast.BeginCancel(t0.Add(time.Second))

	toast.Show(countdown(1, t0.Add(6*time.Second)), t0.Add(1100*time.Millisecond))

	assert.False(t, toast.Cancelling(t0.Add(1200*time.Millisecond)))
	toast.Tick(t0.Add(3 * time.Second))
	assert.True(t, toast.HasCountdown())
}

func TestToast_TransientNotices(t *testing.T) {
	toast := NewToast()
	toast.Show(deletion.Notice{ID: "a", Kind: deletion.NoticeSuccess, Text: "Produk dihapus", Duration: 3 * time.Second}, t0)
	toast.Show(deletion.Notice{ID: "b", Kind: deletion.NoticeError, Text: "Produk tidak ditemukan", Duration: 3 * time.Second}, t0.Add(time.Second))

	view := toast.View(t0.Add(time.Second))
	assert.Contains(t, view, "Produk dihapus")
	assert.Contains(t, view, "Produk tidak ditemukan")

	toast.Tick(t0.Add(3 * time.Second))
	assert.Equal(t, 1, toast.Len())
	assert.NotContains(t, toast.View(t0.Add(3*time.Second)), "Produk dihapus")

	toast.Tick(t0.Add(4 * time.Second))
	assert.Zero(t, toast.Len())
}

func TestToast_StackIsBounded(t *testing.T) {
	toast := NewToast()
	for i := 0; i < maxToastStack+3; i++ {
		toast.Show(deletion.Notice{ID: string(rune('a' + i)), Kind: deletion.NoticeSuccess, Text: "ok"}, t0)
	}
	assert.Equal(t, maxToastStack, toast.Len())
}

func TestToast_SyncRepairsDroppedNotices(t *testing.T) {
	t.Run("shows the countdown when a queue exists", func(t *testing.T) {
		toast := NewToast()
		toast.Sync(deletion.Snapshot{Pending: 3, Deadline: t0.Add(5 * time.Second), Delay: 5 * time.Second}, t0)

		assert.True(t, toast.HasCountdown())
		assert.Contains(t, toast.View(t0), "Deleting 3 selected product(s)")
	})

	t.Run("hides it when the queue is empty", func(t *testing.T) {
		toast := NewToast()
		toast.Show(countdown(1, t0.Add(5*time.Second)), t0)
		toast.Sync(deletion.Snapshot{InFlight: 1}, t0.Add(5*time.Second))

		assert.False(t, toast.HasCountdown())
	})

	t.Run("keeps it while only aborted entries remain", func(t *testing.T) {
		toast := NewToast()
		toast.Show(countdown(1, t0.Add(5*time.Second)), t0)
		toast.Sync(deletion.Snapshot{Aborted: 1, Deadline: t0.Add(5 * time.Second)}, t0.Add(time.Second))

		assert.True(t, toast.HasCountdown())
		assert.Contains(t, toast.View(t0.Add(time.Second)), "Nothing to delete")
		assert.NotContains(t, toast.View(t0.Add(time.Second)), "Deleting 1")
	})
}
