package components

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tb453/shopadmin/internal/access"
	"github.com/tb453/shopadmin/internal/domain"
	"github.com/tb453/shopadmin/internal/tui/styles"
)

// ViewItem implements list.Item for a sidebar entry
type ViewItem struct {
	View   access.View
	Index  int
	Badge  string // e.g. the low-stock count next to Products
	Active bool
}

func (i ViewItem) FilterValue() string { return i.View.Title() }

// viewDelegate renders one line per view: "1 Dashboard"
type viewDelegate struct{}

func (viewDelegate) Height() int                             { return 1 }
func (viewDelegate) Spacing() int                            { return 0 }
func (viewDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (viewDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	vi, ok := item.(ViewItem)
	if !ok {
		return
	}
	num := styles.DimStyle.Render(fmt.Sprintf("%d ", vi.Index+1))
	title := vi.View.Title()
	switch {
	case index == m.Index():
		title = styles.AccentStyle.Bold(true).Render("▸ " + title)
	case vi.Active:
		title = styles.TitleStyle.Render("  " + title)
	default:
		title = styles.SubtitleStyle.Render("  " + title)
	}
	line := num + title
	if vi.Badge != "" {
		line += " " + styles.WarningStyle.Render(vi.Badge)
	}
	fmt.Fprint(w, line)
}

// Border overhead for the sidebar panel
const BorderSize = 2

// sidebarHeader is the number of lines used by the greeting block
const sidebarHeader = 4

// Sidebar lists the views the signed-in role may open
type Sidebar struct {
	list    list.Model
	focused bool
	width   int
	height  int
	session domain.Session
	views   []access.View
	active  access.View
	badges  map[access.View]string
}

// NewSidebar creates a new sidebar component
func NewSidebar() Sidebar {
	l := list.New(nil, viewDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()

	return Sidebar{
		list:   l,
		badges: make(map[access.View]string),
	}
}

// SetSession sets the greeting and the allowed views
func (s *Sidebar) SetSession(sess domain.Session, views []access.View) {
	s.session = sess
	s.views = views
	s.refreshItems()
}

// SetActive marks the open view and moves the cursor to it
func (s *Sidebar) SetActive(v access.View) {
	s.active = v
	for i, known := range s.views {
		if known == v {
			s.list.Select(i)
		}
	}
	s.refreshItems()
}

// SetBadge shows a short marker next to a view; empty clears it
func (s *Sidebar) SetBadge(v access.View, badge string) {
	if badge == "" {
		delete(s.badges, v)
	} else {
		s.badges[v] = badge
	}
	s.refreshItems()
}

// refreshItems rebuilds the list items with current state
func (s *Sidebar) refreshItems() {
	idx := s.list.Index()
	items := make([]list.Item, len(s.views))
	for i, v := range s.views {
		items[i] = ViewItem{View: v, Index: i, Badge: s.badges[v], Active: v == s.active}
	}
	s.list.SetItems(items)
	if idx < len(items) {
		s.list.Select(idx)
	}
}

// Views returns the views shown in the sidebar
func (s Sidebar) Views() []access.View {
	return s.views
}

// SetSize updates the component dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.list.SetSize(width-BorderSize-2, max(height-BorderSize-sidebarHeader, 1))
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s Sidebar) IsFocused() bool {
	return s.focused
}

// SelectedView returns the view under the cursor
func (s Sidebar) SelectedView() (access.View, bool) {
	item := s.list.SelectedItem()
	if item == nil {
		return "", false
	}
	vi, ok := item.(ViewItem)
	if !ok {
		return "", false
	}
	return vi.View, true
}

// ViewAt returns the n-th sidebar entry (0-based)
func (s Sidebar) ViewAt(n int) (access.View, bool) {
	if n < 0 || n >= len(s.views) {
		return "", false
	}
	return s.views[n], true
}

// Update handles messages
func (s Sidebar) Update(msg tea.Msg) (Sidebar, tea.Cmd) {
	if !s.focused {
		return s, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			s.list.CursorDown()
		case "k", "up":
			s.list.CursorUp()
		case "g":
			s.list.Select(0)
		case "G":
			s.list.Select(len(s.list.Items()) - 1)
		}
	}

	return s, nil
}

// View renders the component
func (s Sidebar) View() string {
	style := styles.InactiveBorder
	if s.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	inner := s.width - frameW - 2

	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.AccentStyle.Bold(true).Render("ShopAdmin"),
		styles.DimStyle.Render(s.session.Greeting()),
		styles.TitleStyle.Render(styles.Truncate(s.session.DisplayName(), inner)),
		"",
	)

	return style.
		Width(s.width - frameW).
		Height(s.height - frameH).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, s.list.View()))
}
