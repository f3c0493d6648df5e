package tui

import (
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/tb453/shopadmin/internal/domain"
	"github.com/tb453/shopadmin/internal/format"
	"github.com/tb453/shopadmin/internal/service"
	"github.com/tb453/shopadmin/internal/tui/styles"
)

// Layout proportions
const (
	SidebarWidth   = 26
	MinContentSize = 40

	// Vertical layout: single footer line
	ChromeHeight = 1

	// Lines above a table inside the content pane (title, filter bar, gap)
	tableHeader = 5
)

func newTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.SlateLight).
		BorderBottom(true).
		Foreground(styles.LightGray).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.White).
		Background(styles.ShopBlue).
		Bold(false)
	t.SetStyles(s)
	return t
}

// share splits width between fixed-size columns and one flexible column
func share(width, fixed int) int {
	return max(width-fixed, 12)
}

func productColumns(width int) []table.Column {
	return []table.Column{
		{Title: "SKU", Width: 9},
		{Title: "Name", Width: share(width, 9+12+14+15+9+12)},
		{Title: "Category", Width: 12},
		{Title: "Stock", Width: 14},
		{Title: "Price", Width: 15},
		{Title: "Status", Width: 9},
	}
}

func salesColumns(width int) []table.Column {
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Customer", Width: 18},
		{Title: "Items", Width: share(width, 12+18+5+15+10+12)},
		{Title: "Qty", Width: 5},
		{Title: "Total", Width: 15},
		{Title: "Status", Width: 10},
	}
}

func userColumns(width int) []table.Column {
	return []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Email", Width: share(width, 20+8+18+8)},
		{Title: "Role", Width: 8},
		{Title: "Last login", Width: 18},
	}
}

func activityColumns(width int) []table.Column {
	return []table.Column{
		{Title: "Date", Width: 18},
		{Title: "User", Width: 20},
		{Title: "Action", Width: share(width, 18+20+6)},
	}
}

// contentSize returns the space left of the sidebar and above the footer
func (m Model) contentSize() (int, int) {
	w := max(m.Width-SidebarWidth, MinContentSize)
	h := max(m.Height-ChromeHeight, 5)
	return w, h
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	w, h := m.contentSize()
	m.Sidebar.SetSize(SidebarWidth, h)

	// ContentStyle pads by 2 columns each side
	inner := w - 4
	tableHeight := max(h-tableHeader-2, 3)

	m.ProductTable.SetColumns(productColumns(inner))
	m.SalesTable.SetColumns(salesColumns(inner))
	m.UserTable.SetColumns(userColumns(inner))
	m.ActivityTable.SetColumns(activityColumns(inner))

	for _, t := range []*table.Model{&m.ProductTable, &m.SalesTable, &m.UserTable, &m.ActivityTable} {
		t.SetWidth(inner)
		t.SetHeight(tableHeight)
	}
	m.Search.Width = max(inner-4, 10)
}

// refreshTables rebuilds every table's rows from the loaded data
func (m *Model) refreshTables() {
	m.visibleProducts = service.FilterProducts(m.Products, m.Query)
	rows := make([]table.Row, len(m.visibleProducts))
	for i, p := range m.visibleProducts {
		name := p.Name
		if m.Services.Deletions != nil && m.Services.Deletions.IsQueued(p.ID) {
			name = "✗ " + name + " (deleting)"
		}
		rows[i] = table.Row{p.SKU, name, p.Category, styles.StockLabel(p), format.Rupiah(p.Price), string(p.Status)}
	}
	m.ProductTable.SetRows(rows)
	clampCursor(&m.ProductTable, len(rows))

	sales := sortedSales(m.Sales)
	rows = make([]table.Row, len(sales))
	for i, s := range sales {
		date := s.Date
		if t := s.Time(); !t.IsZero() {
			date = format.ShortDate(t)
		}
		rows[i] = table.Row{date, s.Customer, s.Items, strconv.Itoa(s.Qty), format.Rupiah(s.Total), string(s.Status)}
	}
	m.SalesTable.SetRows(rows)
	clampCursor(&m.SalesTable, len(rows))

	m.visibleUsers = service.SearchUsers(m.Users, m.UserQuery)
	rows = make([]table.Row, len(m.visibleUsers))
	for i, u := range m.visibleUsers {
		last := "-"
		if u.LastLogin != "" {
			last = format.Timestamp(u.LastLogin)
		}
		rows[i] = table.Row{u.Name, u.Email, string(u.Role), last}
	}
	m.UserTable.SetRows(rows)
	clampCursor(&m.UserTable, len(rows))

	rows = make([]table.Row, len(m.Activity))
	for i, a := range m.Activity {
		rows[i] = table.Row{format.Timestamp(a.Date), a.User, a.Action}
	}
	m.ActivityTable.SetRows(rows)
	clampCursor(&m.ActivityTable, len(rows))
}

func clampCursor(t *table.Model, n int) {
	if n > 0 && t.Cursor() >= n {
		t.SetCursor(n - 1)
	}
}

// sortedSales returns sales newest first without touching the input
func sortedSales(sales []domain.Sale) []domain.Sale {
	out := make([]domain.Sale, len(sales))
	copy(out, sales)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().After(out[j].Time())
	})
	return out
}

// selectedProduct returns the product under the table cursor
func (m Model) selectedProduct() (domain.Product, bool) {
	i := m.ProductTable.Cursor()
	if i < 0 || i >= len(m.visibleProducts) {
		return domain.Product{}, false
	}
	return m.visibleProducts[i], true
}

// selectedUser returns the account under the table cursor
func (m Model) selectedUser() (domain.User, bool) {
	i := m.UserTable.Cursor()
	if i < 0 || i >= len(m.visibleUsers) {
		return domain.User{}, false
	}
	return m.visibleUsers[i], true
}
