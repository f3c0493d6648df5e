package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tb453/shopadmin/internal/access"
	"github.com/tb453/shopadmin/internal/domain"
	"github.com/tb453/shopadmin/internal/service"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, LogoutCmd(m.Services.Sessions)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmDeleteUser:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			if u := m.pendingUser; u != nil {
				m.pendingUser = nil
				return m, DeleteUserCmd(m.Services.Accounts, u.ID)
			}
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
			m.pendingUser = nil
		}
		return m, nil

	case StateConfirmResetSales:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			m.setStatus("Resetting sales data...", false)
			return m, ResetSalesCmd(m.Services.Sales)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil

	case StateSearching:
		return m.handleSearchKey(msg)
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// The undo key works from every view while a batch is pending
	if key.Matches(msg, Keys.CancelAll) && m.Toast.HasCountdown() {
		m.Toast.BeginCancel(m.now())
		if n := m.Services.Deletions.CancelAll(); n == 0 {
			m.setStatus("Nothing to cancel", false)
			return m, ClearStatusCmd(statusTTL, m.statusSeq)
		}
		return m, nil
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Logout):
		m.State = StateConfirmLogout
		return m, nil

	case key.Matches(msg, Keys.NextView):
		return m, m.cycleView(1)

	case key.Matches(msg, Keys.PrevView):
		return m, m.cycleView(-1)

	case key.Matches(msg, Keys.GoTo):
		n, _ := strconv.Atoi(msg.String())
		return m, m.gotoView(n)

	case key.Matches(msg, Keys.Refresh):
		return m, m.refreshView()

	case key.Matches(msg, Keys.Escape):
		if m.Query.Search != "" || m.Query.Category != "" || m.UserQuery != "" {
			m.Query.Search, m.Query.Category, m.UserQuery = "", "", ""
			m.Search.SetValue("")
			m.refreshTables()
		}
		return m, nil
	}

	if m.Decision.State != access.StateAuthorized {
		return m, nil
	}

	switch m.Decision.View {
	case access.ViewProducts:
		return m.handleProductKey(msg)
	case access.ViewSales:
		return m.handleSalesKey(msg)
	case access.ViewSettings:
		return m.handleSettingsKey(msg)
	case access.ViewActivity:
		var cmd tea.Cmd
		m.ActivityTable, cmd = m.ActivityTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

// routeToModal routes key input to the form modal
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	if !m.Form.IsVisible() {
		return false, m, nil
	}

	// The login form swallows esc; quitting still works
	if m.formKind == FormLogin && msg.String() == "esc" {
		return true, m, nil
	}

	var cmd tea.Cmd
	var submitted bool
	m.Form, cmd, submitted = m.Form.Update(msg)
	if submitted {
		return true, m, m.submitForm()
	}
	if !m.Form.IsVisible() {
		m.formKind = FormNone
		m.formTarget = ""
	}
	return true, m, cmd
}

// handleSearchKey edits the product or account search box
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.State = StateBrowsing
		m.Search.Blur()
		m.Search.SetValue("")
		m.applySearch("")
		return m, nil
	case "enter":
		m.State = StateBrowsing
		m.Search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	m.applySearch(m.Search.Value())
	return m, cmd
}

func (m *Model) applySearch(q string) {
	if m.Decision.View == access.ViewSettings {
		m.UserQuery = q
	} else {
		m.Query.Search = q
	}
	m.refreshTables()
}

func (m *Model) startSearch(placeholder, value string) tea.Cmd {
	m.State = StateSearching
	m.Search.Placeholder = placeholder
	m.Search.SetValue(value)
	m.Search.CursorEnd()
	return m.Search.Focus()
}

// handleProductKey handles the products view
func (m Model) handleProductKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Filter):
		return m, m.startSearch("search name or SKU", m.Query.Search)

	case key.Matches(msg, Keys.Category):
		m.Query.Category = nextCategory(service.Categories(m.Products), m.Query.Category)
		m.refreshTables()
		return m, nil

	case key.Matches(msg, Keys.Sort):
		m.Query.SortBy = nextSortKey(m.Query.SortBy)
		m.Query.Order = service.Ascending
		m.refreshTables()
		return m, nil

	case key.Matches(msg, Keys.Order):
		m.Query = m.Query.Toggle(m.Query.SortBy)
		m.refreshTables()
		return m, nil

	case key.Matches(msg, Keys.New):
		m.openProductForm(nil)
		return m, nil

	case key.Matches(msg, Keys.Edit):
		if p, ok := m.selectedProduct(); ok {
			m.openProductForm(&p)
		}
		return m, nil

	case key.Matches(msg, Keys.Delete):
		p, ok := m.selectedProduct()
		if !ok {
			return m, nil
		}
		if err := m.Services.Deletions.RequestDelete(p.ID, p.Name); err != nil {
			m.setStatus(err.Error(), true)
			return m, ClearStatusCmd(statusTTL, m.statusSeq)
		}
		m.ProductTable.MoveDown(1)
		return m, nil

	case key.Matches(msg, Keys.Abort):
		if p, ok := m.selectedProduct(); ok && m.Services.Deletions.Abort(p.ID) {
			m.setStatus(p.Name+" will be kept", false)
			return m, ClearStatusCmd(statusTTL, m.statusSeq)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.ProductTable, cmd = m.ProductTable.Update(msg)
	return m, cmd
}

// handleSalesKey handles the sales view
func (m Model) handleSalesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.New) {
		m.openSaleForm()
		return m, ClearStatusCmd(statusTTL, m.statusSeq)
	}
	var cmd tea.Cmd
	m.SalesTable, cmd = m.SalesTable.Update(msg)
	return m, cmd
}

// handleSettingsKey handles account management and the profile form
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Filter):
		return m, m.startSearch("search name or email", m.UserQuery)

	case key.Matches(msg, Keys.New):
		m.openAccountForm(nil)
		return m, nil

	case key.Matches(msg, Keys.Edit):
		if u, ok := m.selectedUser(); ok {
			m.openAccountForm(&u)
		}
		return m, nil

	case key.Matches(msg, Keys.Delete):
		if u, ok := m.selectedUser(); ok {
			m.pendingUser = &u
			m.State = StateConfirmDeleteUser
		}
		return m, nil

	case key.Matches(msg, Keys.Profile):
		m.openProfileForm()
		return m, nil

	case key.Matches(msg, Keys.ResetSales):
		if m.Session != nil && m.Session.Role == domain.RoleAdmin {
			m.State = StateConfirmResetSales
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.UserTable, cmd = m.UserTable.Update(msg)
	return m, cmd
}

// nextCategory cycles "" → first category → ... → last → ""
func nextCategory(categories []string, current string) string {
	if current == "" {
		if len(categories) == 0 {
			return ""
		}
		return categories[0]
	}
	for i, c := range categories {
		if c == current && i+1 < len(categories) {
			return categories[i+1]
		}
	}
	return ""
}

func nextSortKey(current service.SortKey) service.SortKey {
	for i, k := range service.SortKeys {
		if k == current {
			return service.SortKeys[(i+1)%len(service.SortKeys)]
		}
	}
	return service.SortKeys[0]
}
