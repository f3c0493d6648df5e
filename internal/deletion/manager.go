// Package deletion batches product deletions behind an undo window.
//
// Deletions requested through the Manager are queued instead of being sent
// to the backend. Every request re-arms a single commit timer; while it is
// armed the user can cancel the whole batch (or abort single entries).
// When the timer elapses the queued deletions are issued one by one, each
// reported on its own, and the product list is refreshed once if anything
// was actually removed.
//
// Notices and snapshots are delivered in the order the queue changed. The
// Notifier and subscribers run while that order is held and must not call
// back into the Manager.
package deletion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tb453/shopadmin/internal/domain"
)

// DefaultDelay is the undo window before a batch is committed
const DefaultDelay = 5 * time.Second

const (
	defaultNoticeDuration = 3 * time.Second
	refreshTimeout        = 30 * time.Second
)

// ErrClosed is returned for requests made after Close
var ErrClosed = errors.New("deletion manager is closed")

// Deleter issues a single backend deletion
type Deleter interface {
	DeleteProduct(ctx context.Context, id string) (string, error)
}

// Refresher reloads the product list after a successful commit
type Refresher interface {
	RefreshProducts(ctx context.Context) error
}

// Options configures a Manager. Zero values fall back to defaults.
type Options struct {
	Delay          time.Duration // undo window
	NoticeDuration time.Duration // display time of per-item notices
	Scheduler      Scheduler
	Now            func() time.Time
	Logger         *slog.Logger
}

// Snapshot is a read-only view of the manager for the UI layer
type Snapshot struct {
	Pending  int       // queued entries that will be committed
	Aborted  int       // queued entries individually aborted
	InFlight int       // entries whose backend call is running
	Labels   []string  // display names of pending entries, oldest first
	Deadline time.Time // commit time, zero when nothing is queued
	Delay    time.Duration
}

// Empty returns true when nothing is queued or running
func (s Snapshot) Empty() bool {
	return s.Pending == 0 && s.Aborted == 0 && s.InFlight == 0
}

// entry is one queued deletion and its cancellation token
type entry struct {
	id     string
	label  string
	token  string
	ctx    context.Context
	cancel context.CancelFunc
}

func (e *entry) aborted() bool {
	return e.ctx.Err() != nil
}

// Manager owns the deletion queue and its commit timer. It is safe for
// concurrent use; the commit runs on the scheduler's goroutine.
type Manager struct {
	deleter   Deleter
	refresher Refresher
	notifier  Notifier
	logger    *slog.Logger

	delay          time.Duration
	noticeDuration time.Duration
	scheduler      Scheduler
	now            func() time.Time

	mu         sync.Mutex
	queue      []*entry
	inflight   map[string]*entry // token -> entry
	timer      Timer
	generation uint64
	deadline   time.Time
	closed     bool

	// emitMu is taken before mu is released, so notifier calls and
	// snapshots go out in the order their state changed
	emitMu sync.Mutex

	subMu       sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSub     int
}

// New creates a Manager. notifier may be nil.
func New(deleter Deleter, refresher Refresher, notifier Notifier, opts Options) *Manager {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = defaultNoticeDuration
	}
	if opts.Scheduler == nil {
		opts.Scheduler = WallScheduler()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Manager{
		deleter:        deleter,
		refresher:      refresher,
		notifier:       notifier,
		logger:         opts.Logger,
		delay:          opts.Delay,
		noticeDuration: opts.NoticeDuration,
		scheduler:      opts.Scheduler,
		now:            opts.Now,
		inflight:       make(map[string]*entry),
		subscribers:    make(map[int]func(Snapshot)),
	}
}

// Delay returns the configured undo window
func (m *Manager) Delay() time.Duration {
	return m.delay
}

// RequestDelete queues a deletion and restarts the undo window. Nothing is
// sent to the backend until the window elapses. A second request for an id
// that is already queued replaces the earlier one.
func (m *Manager) RequestDelete(id, label string) error {
	if id == "" {
		return fmt.Errorf("request delete: empty product id")
	}
	if label == "" {
		label = id
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{id: id, label: label, token: uuid.NewString(), ctx: ctx, cancel: cancel}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		return ErrClosed
	}

	// Dedupe by id, keeping the latest request
	for i, old := range m.queue {
		if old.id == id {
			old.cancel()
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			break
		}
	}
	m.queue = append(m.queue, e)
	m.armLocked()
	snap := m.snapshotLocked()
	m.emitLocked(func() {
		m.showCountdown(snap)
		m.publish(snap)
	})

	m.logger.Debug("deletion queued", "productID", id, "pending", snap.Pending, "deadline", snap.Deadline)
	return nil
}

// armLocked replaces the commit timer. Callers hold m.mu.
func (m *Manager) armLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.generation++
	gen := m.generation
	m.deadline = m.now().Add(m.delay)
	m.timer = m.scheduler.AfterFunc(m.delay, func() { m.fire(gen) })
}

// disarmLocked stops the commit timer. Callers hold m.mu.
func (m *Manager) disarmLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	// A timer that fired but has not taken the lock yet sees a stale
	// generation and returns without committing.
	m.generation++
	m.deadline = time.Time{}
}

// CancelAll drops the pending batch: every queued and in-flight entry is
// aborted, the timer is stopped and the countdown dismissed. It returns the
// number of entries that were cancelled.
func (m *Manager) CancelAll() int {
	m.mu.Lock()
	cancelled := 0
	for _, e := range m.queue {
		if !e.aborted() {
			cancelled++
		}
		e.cancel()
	}
	for _, e := range m.inflight {
		if !e.aborted() {
			cancelled++
		}
		e.cancel()
	}
	m.queue = nil
	m.disarmLocked()
	snap := m.snapshotLocked()
	m.emitLocked(func() {
		m.notifier.Dismiss(CountdownNoticeID)
		if cancelled > 0 {
			m.notifier.Show(Notice{
				ID:       uuid.NewString(),
				Kind:     NoticeCancelled,
				Text:     "Deletion cancelled",
				Duration: m.noticeDuration,
			})
		}
		m.publish(snap)
	})

	if cancelled > 0 {
		m.logger.Info("deletion batch cancelled", "cancelled", cancelled)
	}
	return cancelled
}

// Abort cancels a single queued entry. The entry stays queued but is
// skipped at commit time. It returns false if id is not pending.
func (m *Manager) Abort(id string) bool {
	m.mu.Lock()
	found := false
	for _, e := range m.queue {
		if e.id == id && !e.aborted() {
			e.cancel()
			found = true
			break
		}
	}
	if !found {
		for _, e := range m.inflight {
			if e.id == id && !e.aborted() {
				e.cancel()
				found = true
				break
			}
		}
	}
	if !found {
		m.mu.Unlock()
		return false
	}
	snap := m.snapshotLocked()
	m.emitLocked(func() {
		if snap.Pending+snap.Aborted > 0 {
			m.showCountdown(snap)
		}
		m.publish(snap)
	})

	m.logger.Debug("deletion aborted", "productID", id)
	return true
}

// Pending returns the current snapshot
func (m *Manager) Pending() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// IsQueued returns true if id is waiting for commit and not aborted
func (m *Manager) IsQueued(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.queue {
		if e.id == id && !e.aborted() {
			return true
		}
	}
	return false
}

// Subscribe registers fn for snapshot updates, delivered in state order.
// fn must not call the Manager. The returned function removes the
// subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subscribers, id)
		m.subMu.Unlock()
	}
}

// Close cancels everything and rejects further requests
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for _, e := range m.queue {
		e.cancel()
	}
	for _, e := range m.inflight {
		e.cancel()
	}
	m.queue = nil
	m.disarmLocked()
	m.emitLocked(func() {
		m.notifier.Dismiss(CountdownNoticeID)
	})
}

// fire is the timer callback for generation gen
func (m *Manager) fire(gen uint64) {
	m.mu.Lock()
	if m.closed || gen != m.generation {
		m.mu.Unlock()
		return
	}
	batch := m.queue
	m.queue = nil
	m.timer = nil
	m.deadline = time.Time{}
	for _, e := range batch {
		m.inflight[e.token] = e
	}
	snap := m.snapshotLocked()
	m.emitLocked(func() {
		m.publish(snap)
	})

	m.commit(batch)
}

// commit issues the backend deletions for batch, sequentially
func (m *Manager) commit(batch []*entry) {
	m.logger.Info("committing deletion batch", "size", len(batch))

	succeeded, failed, skipped := 0, 0, 0
	for _, e := range batch {
		if e.aborted() {
			skipped++
			m.logger.Debug("skipping aborted deletion", "productID", e.id)
			continue
		}

		msg, err := m.deleter.DeleteProduct(e.ctx, e.id)
		switch {
		case err == nil:
			succeeded++
			if msg == "" {
				msg = fmt.Sprintf("%s deleted", e.label)
			}
			m.logger.Info("product deleted", "productID", e.id)
			m.notify(Notice{ID: uuid.NewString(), Kind: NoticeSuccess, Text: msg, Duration: m.noticeDuration})

		case errors.Is(err, context.Canceled) || e.aborted():
			// Intentional cancellation is not a failure
			skipped++
			m.logger.Debug("deletion aborted in flight", "productID", e.id)

		default:
			failed++
			m.logger.Error("failed to delete product", "error", err, "productID", e.id)
			m.notify(Notice{
				ID:       uuid.NewString(),
				Kind:     NoticeError,
				Text:     domain.UserMessage(err, fmt.Sprintf("Failed to delete %s", e.label)),
				Duration: m.noticeDuration,
			})
		}
		e.cancel()
	}

	if succeeded > 0 && m.refresher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		if err := m.refresher.RefreshProducts(ctx); err != nil {
			m.logger.Error("failed to refresh products after deletion", "error", err)
			m.notify(Notice{
				ID:       uuid.NewString(),
				Kind:     NoticeError,
				Text:     domain.UserMessage(err, "Failed to reload products"),
				Duration: m.noticeDuration,
			})
		}
		cancel()
	}

	m.logger.Info("deletion batch done", "succeeded", succeeded, "failed", failed, "skipped", skipped)

	m.mu.Lock()
	for _, e := range batch {
		delete(m.inflight, e.token)
	}
	snap := m.snapshotLocked()
	m.emitLocked(func() {
		// Requests made while the batch was running keep their own countdown
		if snap.Pending+snap.Aborted == 0 {
			m.notifier.Dismiss(CountdownNoticeID)
		} else {
			m.showCountdown(snap)
		}
		m.publish(snap)
	})
}

// emitLocked releases m.mu and runs fn while holding emitMu. Callers hold
// m.mu, so a later state change cannot emit before fn does.
func (m *Manager) emitLocked(fn func()) {
	m.emitMu.Lock()
	m.mu.Unlock()
	defer m.emitMu.Unlock()
	fn()
}

// notify shows a notice that carries no queue state
func (m *Manager) notify(n Notice) {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()
	m.notifier.Show(n)
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		InFlight: len(m.inflight),
		Deadline: m.deadline,
		Delay:    m.delay,
	}
	for _, e := range m.queue {
		if e.aborted() {
			snap.Aborted++
			continue
		}
		snap.Pending++
		snap.Labels = append(snap.Labels, e.label)
	}
	return snap
}

func (m *Manager) showCountdown(snap Snapshot) {
	m.notifier.Show(Notice{
		ID:       CountdownNoticeID,
		Kind:     NoticeCountdown,
		Text:     CountdownText(snap.Pending),
		Count:    snap.Pending,
		Deadline: snap.Deadline,
		Duration: m.delay,
	})
}

func (m *Manager) publish(snap Snapshot) {
	m.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
