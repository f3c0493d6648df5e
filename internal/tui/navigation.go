package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tb453/shopadmin/internal/access"
)

// navigate re-evaluates access for path and switches the content pane.
// Every view change goes through here, including the sidebar and number
// keys, so a role never renders a view it is not allowed to open.
func (m *Model) navigate(path string) tea.Cmd {
	m.Path = path
	m.Decision = m.Services.Router.Evaluate(m.Session, path)

	if m.Decision.Redirect {
		m.State = StateLogin
		email := ""
		if m.Session != nil {
			email = m.Session.Email
		}
		m.openLoginForm(email)
		return textinput.Blink
	}

	if m.State == StateLogin {
		m.State = StateBrowsing
	}
	m.Sidebar.SetSession(*m.Session, m.Services.Router.Allowed(m.Session.Role))
	m.Sidebar.SetActive(m.Decision.View)
	m.updateLayout()

	if m.Decision.State != access.StateAuthorized {
		return nil
	}

	switch m.Decision.View {
	case access.ViewSettings:
		m.Loading = true
		return LoadUsersCmd(m.Services.Accounts)
	case access.ViewActivity:
		m.Loading = true
		return LoadActivityCmd(m.Services.Activity)
	}
	return nil
}

// homePath is where a session lands when no view was requested
func (m *Model) homePath() string {
	if m.Session == nil {
		return "/"
	}
	if home, ok := m.Services.Router.Home(m.Session.Role); ok {
		return home.Path()
	}
	return "/"
}

// cycleView moves through the sidebar entries by delta
func (m *Model) cycleView(delta int) tea.Cmd {
	views := m.Sidebar.Views()
	if len(views) == 0 {
		return nil
	}
	current := 0
	for i, v := range views {
		if v == m.Decision.View {
			current = i
			break
		}
	}
	next := (current + delta + len(views)) % len(views)
	return m.navigate(views[next].Path())
}

// gotoView opens the n-th sidebar entry (1-based, as typed)
func (m *Model) gotoView(n int) tea.Cmd {
	v, ok := m.Sidebar.ViewAt(n - 1)
	if !ok {
		return nil
	}
	return m.navigate(v.Path())
}

// refreshView reloads the data behind the current view
func (m *Model) refreshView() tea.Cmd {
	if m.Decision.State != access.StateAuthorized {
		return nil
	}
	switch m.Decision.View {
	case access.ViewSettings:
		m.Loading = true
		return LoadUsersCmd(m.Services.Accounts)
	case access.ViewActivity:
		m.Loading = true
		return LoadActivityCmd(m.Services.Activity)
	default:
		return m.startLoading()
	}
}
