package tui

import (
	"github.com/tb453/shopadmin/internal/deletion"
	"github.com/tb453/shopadmin/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SessionReadMsg carries the stored session; nil means not logged in
type SessionReadMsg struct {
	Session *domain.Session
}

// InitialLoadedMsg carries the concurrent startup fetch
type InitialLoadedMsg struct {
	Products []domain.Product
	Sales    []domain.Sale
}

// ProductsLoadedMsg signals that the catalogue has been (re)loaded
type ProductsLoadedMsg struct {
	Products []domain.Product
}

// SalesLoadedMsg signals that sales have been loaded
type SalesLoadedMsg struct {
	Sales []domain.Sale
}

// UsersLoadedMsg signals that accounts have been loaded
type UsersLoadedMsg struct {
	Users []domain.User
}

// ActivityLoadedMsg signals that the audit trail has been loaded
type ActivityLoadedMsg struct {
	Logs []domain.ActivityLog
}

// ReloadTarget says which lists a finished mutation invalidated
type ReloadTarget int

const (
	ReloadNone ReloadTarget = iota
	ReloadProducts
	ReloadSales // sales change stock too
	ReloadUsers
	ReloadSession
)

// MutationDoneMsg reports a create/update/delete from a form
type MutationDoneMsg struct {
	Message string
	Err     error
	Reload  ReloadTarget
	Form    FormKind
}

// LoggedInMsg signals a successful login from the login form
type LoggedInMsg struct {
	Session domain.Session
}

// LoggedOutMsg signals that the session was cleared
type LoggedOutMsg struct {
	Err error // backend logout failure; the local session is gone regardless
}

// NoticeMsg carries a deletion notice from the manager's goroutine
type NoticeMsg struct {
	Notice deletion.Notice
}

// DismissNoticeMsg removes a notice by id
type DismissNoticeMsg struct {
	ID string
}

// DeletionSnapshotMsg carries the deletion queue state
type DeletionSnapshotMsg struct {
	Snapshot deletion.Snapshot
}

// NavigateMsg requests a route change, e.g. from the sidebar
type NavigateMsg struct {
	Path string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct {
	Seq int
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
