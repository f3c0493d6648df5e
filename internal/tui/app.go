package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tb453/shopadmin/internal/access"
	"github.com/tb453/shopadmin/internal/deletion"
	"github.com/tb453/shopadmin/internal/domain"
	"github.com/tb453/shopadmin/internal/service"
	"github.com/tb453/shopadmin/internal/tui/components"
	"github.com/tb453/shopadmin/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateLogin
	StateSearching
	StateHelp
	StateConfirmLogout
	StateConfirmDeleteUser
	StateConfirmResetSales
)

const tickInterval = 100 * time.Millisecond

// Services bundles everything the shell talks to
type Services struct {
	Products  *service.ProductService
	Sales     *service.SalesService
	Reports   *service.ReportService
	Accounts  *service.AccountService
	Activity  *service.ActivityService
	Sessions  *service.SessionService
	Deletions *deletion.Manager
	Router    *access.Router
	Notifier  *ChannelNotifier
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State    ApplicationState
	Ready    bool
	Services Services

	// Routing
	Session  *domain.Session
	Path     string
	Decision access.Decision

	// UI Components
	Sidebar components.Sidebar
	Toast   components.Toast
	Form    components.FormModal
	Search  textinput.Model
	Spinner spinner.Model
	Help    help.Model

	ProductTable  table.Model
	SalesTable    table.Model
	UserTable     table.Model
	ActivityTable table.Model

	// Data
	Products []domain.Product
	Sales    []domain.Sale
	Users    []domain.User
	Activity []domain.ActivityLog

	// Derived rows currently shown in the tables
	visibleProducts []domain.Product
	visibleUsers    []domain.User

	Query       service.ProductQuery
	UserQuery   string
	DeleteQueue deletion.Snapshot

	// Form state
	formKind     FormKind
	formTarget   string
	saleProducts []domain.Product
	pendingUser  *domain.User

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int
	Loading     bool
	loaded      bool

	now func() time.Time
}

// NewModel creates a new application model
func NewModel(svc Services) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	search := textinput.New()
	search.Prompt = "/ "
	search.PromptStyle = styles.FilterPromptStyle
	search.TextStyle = styles.FilterStyle
	search.Placeholder = "search name or SKU"
	search.CharLimit = 64

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle

	return Model{
		State:         StateBrowsing,
		Services:      svc,
		Decision:      access.Decision{State: access.StateAuthenticating},
		Sidebar:       components.NewSidebar(),
		Toast:         components.NewToast(),
		Form:          components.NewFormModal(),
		Search:        search,
		Spinner:       sp,
		Help:          h,
		ProductTable:  newTable(productColumns(80)),
		SalesTable:    newTable(salesColumns(80)),
		UserTable:     newTable(userColumns(80)),
		ActivityTable: newTable(activityColumns(80)),
		Query:         service.ProductQuery{SortBy: service.SortBySKU},
		now:           time.Now,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		ReadSessionCmd(m.Services.Sessions),
		TickCmd(tickInterval),
		m.Spinner.Tick,
	}
	if m.Services.Notifier != nil {
		cmds = append(cmds, m.Services.Notifier.WaitForNotice())
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.Toast.Tick(m.now())
		return m, TickCmd(tickInterval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case SessionReadMsg:
		m.Session = msg.Session
		if m.Session == nil {
			return m, m.navigate(m.Path)
		}
		path := m.Path
		if path == "" {
			path = m.homePath()
		}
		return m, tea.Batch(m.navigate(path), m.startLoading())

	case LoggedInMsg:
		sess := msg.Session
		m.Session = &sess
		m.Form.Hide()
		m.formKind = FormNone
		m.State = StateBrowsing
		m.setStatus("Signed in as "+sess.DisplayName(), false)
		return m, tea.Batch(m.navigate(m.homePath()), m.startLoading(), ClearStatusCmd(statusTTL, m.statusSeq))

	case LoggedOutMsg:
		if m.Services.Deletions != nil {
			m.Services.Deletions.CancelAll()
		}
		m.Session = nil
		m.Products, m.Sales, m.Users, m.Activity = nil, nil, nil, nil
		m.loaded = false
		m.State = StateBrowsing
		m.refreshTables()
		cmd := m.navigate("/")
		if msg.Err != nil {
			m.Form.SetError(domain.UserMessage(msg.Err, "Signed out locally"))
		}
		return m, cmd

	case InitialLoadedMsg:
		m.Loading = false
		m.loaded = true
		m.Products = msg.Products
		m.Sales = msg.Sales
		m.refreshTables()
		return m, nil

	case ProductsLoadedMsg:
		m.Loading = false
		m.Products = msg.Products
		m.refreshTables()
		return m, nil

	case SalesLoadedMsg:
		m.Loading = false
		m.Sales = msg.Sales
		m.refreshTables()
		return m, nil

	case UsersLoadedMsg:
		m.Loading = false
		m.Users = msg.Users
		m.refreshTables()
		return m, nil

	case ActivityLoadedMsg:
		m.Loading = false
		m.Activity = msg.Logs
		m.refreshTables()
		return m, nil

	case ErrMsg:
		m.Loading = false
		m.setStatus(domain.UserMessage(msg.Err, msg.Context), true)
		return m, ClearStatusCmd(statusTTL, m.statusSeq)

	case MutationDoneMsg:
		return m.handleMutation(msg)

	case NoticeMsg:
		m.Toast.Show(msg.Notice, m.now())
		return m, m.Services.Notifier.WaitForNotice()

	case DismissNoticeMsg:
		m.Toast.Dismiss(msg.ID, m.now())
		return m, m.Services.Notifier.WaitForNotice()

	case DeletionSnapshotMsg:
		return m.handleDeletionSnapshot(msg.Snapshot)

	case NavigateMsg:
		return m, m.navigate(msg.Path)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case StatusMsg:
		m.setStatus(msg.Message, msg.IsError)
		return m, ClearStatusCmd(statusTTL, m.statusSeq)
	}

	// Forward everything else (cursor blink etc.) to the focused input
	var cmd tea.Cmd
	switch {
	case m.Form.IsVisible():
		m.Form, cmd, _ = m.Form.Update(msg)
	case m.State == StateSearching:
		m.Search, cmd = m.Search.Update(msg)
	}
	return m, cmd
}

// startLoading fetches the data every view needs
func (m *Model) startLoading() tea.Cmd {
	m.Loading = true
	return LoadInitialCmd(m.Services.Products, m.Services.Sales)
}

// handleMutation finishes a form submission or an account deletion
func (m Model) handleMutation(msg MutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.formFailed(msg.Form, msg.Err)
		return m, ClearStatusCmd(statusTTL, m.statusSeq)
	}

	if m.Form.IsVisible() && m.formKind == msg.Form {
		m.Form.Hide()
		m.formKind = FormNone
		m.formTarget = ""
	}
	m.setStatus(msg.Message, false)
	cmds := []tea.Cmd{ClearStatusCmd(statusTTL, m.statusSeq)}

	switch msg.Reload {
	case ReloadProducts:
		cmds = append(cmds, LoadProductsCmd(m.Services.Products))
	case ReloadSales:
		cmds = append(cmds, m.startLoading())
	case ReloadUsers:
		cmds = append(cmds, LoadUsersCmd(m.Services.Accounts))
	case ReloadSession:
		if sess, ok := m.Services.Sessions.Current(); ok {
			m.Session = &sess
			m.Sidebar.SetSession(sess, m.Services.Router.Allowed(sess.Role))
			m.Sidebar.SetActive(m.Decision.View)
		}
		if m.Decision.View == access.ViewSettings {
			cmds = append(cmds, LoadUsersCmd(m.Services.Accounts))
		}
	}
	return m, tea.Batch(cmds...)
}

// handleDeletionSnapshot keeps the toast and the product table in step
// with the deletion queue
func (m Model) handleDeletionSnapshot(snap deletion.Snapshot) (tea.Model, tea.Cmd) {
	prev := m.DeleteQueue
	m.DeleteQueue = snap
	m.Toast.Sync(snap, m.now())
	m.refreshTables()

	cmds := []tea.Cmd{m.Services.Notifier.WaitForNotice()}
	// The manager refreshed the catalogue after the batch; pick it up
	if prev.InFlight > 0 && snap.InFlight == 0 {
		cmds = append(cmds, CachedProductsCmd(m.Services.Products))
	}
	return m, tea.Batch(cmds...)
}

// setStatus shows a status bar message and bumps the sequence so older
// clear timers do not wipe it
func (m *Model) setStatus(msg string, isErr bool) {
	m.statusSeq++
	m.StatusMsg = msg
	m.StatusIsErr = isErr
}
