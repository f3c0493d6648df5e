package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tb453/shopadmin/internal/access"
	"github.com/tb453/shopadmin/internal/format"
	"github.com/tb453/shopadmin/internal/service"
	"github.com/tb453/shopadmin/internal/tui/styles"
)

const dashboardListLimit = 5

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	// Handle modal states
	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmLogout:
		return m.renderLogoutConfirmation()
	case StateConfirmDeleteUser:
		return m.renderDeleteUserConfirmation()
	case StateConfirmResetSales:
		return m.renderResetSalesConfirmation()
	case StateLogin:
		return m.renderLogin()
	}

	if m.Decision.State == access.StateAuthenticating {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
			m.Spinner.View()+" "+styles.DimStyle.Render("Reading session..."))
	}

	w, h := m.contentSize()

	toast := m.Toast.View(m.now())
	bodyHeight := h
	if toast != "" {
		bodyHeight = max(h-lipgloss.Height(toast), 3)
	}

	var body string
	switch m.Decision.State {
	case access.StateDenied:
		body = m.renderAccessDenied()
	default:
		body = m.renderContent()
	}

	pane := styles.ContentStyle.
		Width(w).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)
	if toast != "" {
		pane = lipgloss.JoinVertical(lipgloss.Left, pane, lipgloss.PlaceHorizontal(w, lipgloss.Right, toast))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, m.Sidebar.View(), pane)
	view := lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())

	// Overlay form modal if visible
	if m.Form.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Form.View())
	}

	return view
}

// renderContent renders the authorized view
func (m Model) renderContent() string {
	switch m.Decision.View {
	case access.ViewDashboard:
		return m.renderDashboard()
	case access.ViewProducts:
		return m.renderProducts()
	case access.ViewSales:
		return m.renderSales()
	case access.ViewReports:
		return m.renderReports()
	case access.ViewActivity:
		return m.renderActivity()
	case access.ViewSettings:
		return m.renderSettings()
	}
	return ""
}

func heading(title, subtitle string) string {
	h := styles.HeadingStyle.Render(title)
	if subtitle != "" {
		h = lipgloss.JoinVertical(lipgloss.Left, styles.HeadingStyle.MarginBottom(0).Render(title), styles.SubtitleStyle.Render(subtitle), "")
	}
	return h
}

func card(label, value, note string) string {
	lines := []string{styles.DimStyle.Render(label), styles.TitleStyle.Render(value)}
	if note != "" {
		lines = append(lines, note)
	}
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func trendNote(pct float64) string {
	switch {
	case pct > 0:
		return styles.SuccessStyle.Render("▲ " + format.Percent(pct) + " vs yesterday")
	case pct < 0:
		return styles.ErrorStyle.Render("▼ " + format.Percent(pct) + " vs yesterday")
	default:
		return styles.DimStyle.Render("no change vs yesterday")
	}
}

func (m Model) renderDashboard() string {
	now := m.now()
	name := ""
	if m.Session != nil {
		name = m.Session.DisplayName()
	}
	head := heading("Dashboard", fmt.Sprintf("Hello %s, today is %s", name, format.LongDate(now)))
	if !m.loaded && len(m.Products) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, head, m.Spinner.View()+" "+styles.DimStyle.Render("Loading..."))
	}

	stats := service.ComputeSalesStats(m.Sales, now)
	low := service.LowStock(m.Products)
	stock := 0
	for _, p := range m.Products {
		stock += p.Stock
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Products", format.Number(int64(len(m.Products))), ""),
		card("Total stock", format.Number(int64(stock)), ""),
		card("Low stock", format.Number(int64(len(low))), styles.WarningStyle.Render("under 10 units")),
		card("Sales today", format.Number(int64(stats.TodayCount)), trendNote(stats.TrendPercent)),
	)

	var lowLines []string
	for i, p := range low {
		if i == dashboardListLimit {
			break
		}
		lowLines = append(lowLines, fmt.Sprintf("%-24s %s", styles.Truncate(p.Name, 24), styles.StockBadge(p)))
	}
	if len(lowLines) == 0 {
		lowLines = []string{styles.DimStyle.Render("All products are well stocked")}
	}

	var recent []string
	for i, s := range sortedSales(m.Sales) {
		if i == dashboardListLimit {
			break
		}
		recent = append(recent, fmt.Sprintf("%-18s %14s  %s",
			styles.Truncate(s.Customer, 18), format.Rupiah(s.Total), styles.StatusBadge(string(s.Status))))
	}
	if len(recent) == 0 {
		recent = []string{styles.DimStyle.Render("No sales yet")}
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			append([]string{styles.TitleStyle.Render("Low stock")}, lowLines...)...)),
		" ",
		styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			append([]string{styles.TitleStyle.Render("Recent sales")}, recent...)...)),
	)

	revenue := styles.DimStyle.Render("Revenue ") + styles.TitleStyle.Render(format.Rupiah(stats.TotalValue)) +
		styles.DimStyle.Render("   average ") + format.Rupiah(stats.Average)

	return lipgloss.JoinVertical(lipgloss.Left, head, cards, "", revenue, "", panels)
}

// filterBar renders the product filter/sort state line
func (m Model) filterBar() string {
	category := m.Query.Category
	if category == "" {
		category = "All"
	}
	parts := []string{
		styles.DimStyle.Render("category ") + styles.AccentStyle.Render(category),
		styles.DimStyle.Render("sort ") + styles.AccentStyle.Render(string(m.Query.SortBy)+" "+m.Query.Order.String()),
		styles.DimStyle.Render(fmt.Sprintf("%d of %d", len(m.visibleProducts), len(m.Products))),
	}
	return strings.Join(parts, styles.DimStyle.Render("  ·  "))
}

func (m Model) searchLine(active string) string {
	if m.State == StateSearching {
		return m.Search.View()
	}
	if active != "" {
		return styles.FilterPromptStyle.Render("/ ") + styles.FilterStyle.Render(active) +
			styles.DimStyle.Render("  (esc to clear)")
	}
	return ""
}

func (m Model) renderProducts() string {
	lines := []string{heading("Products", ""), m.filterBar()}
	if s := m.searchLine(m.Query.Search); s != "" {
		lines = append(lines, s)
	}
	if len(m.visibleProducts) == 0 && m.loaded {
		lines = append(lines, "", styles.DimStyle.Render("No products match"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	lines = append(lines, "", m.ProductTable.View())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSales() string {
	stats := service.ComputeSalesStats(m.Sales, m.now())
	summary := strings.Join([]string{
		styles.DimStyle.Render("total ") + styles.TitleStyle.Render(format.Rupiah(stats.TotalValue)),
		styles.DimStyle.Render("today ") + styles.TitleStyle.Render(format.Number(int64(stats.TodayCount))),
		styles.DimStyle.Render("average ") + styles.TitleStyle.Render(format.Rupiah(stats.Average)),
		trendNote(stats.TrendPercent),
	}, "   ")

	lines := []string{heading("Sales", ""), summary, ""}
	if len(m.Sales) == 0 {
		lines = append(lines, styles.DimStyle.Render("No sales recorded. Press n to record one."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	lines = append(lines, m.SalesTable.View())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderReports() string {
	var r service.Report
	if m.Services.Reports != nil {
		r = m.Services.Reports.Report()
	} else {
		r = service.BuildReport(m.Products, m.Sales, m.now())
	}

	inv := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Inventory"),
		fmt.Sprintf("Products      %s", format.Number(int64(r.Inventory.Products))),
		fmt.Sprintf("Total stock   %s", format.Number(int64(r.Inventory.TotalStock))),
		fmt.Sprintf("Low stock     %s", styles.WarningStyle.Render(format.Number(int64(r.Inventory.LowStock)))),
		fmt.Sprintf("Out of stock  %s", styles.ErrorStyle.Render(format.Number(int64(r.Inventory.OutOfStock)))),
	)
	sales := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Sales"),
		fmt.Sprintf("Value      %s", format.Rupiah(r.Sales.TotalValue)),
		fmt.Sprintf("Completed  %s", format.Number(int64(r.Sales.Completed))),
		fmt.Sprintf("Pending    %s", format.Number(int64(r.Sales.Pending))),
		fmt.Sprintf("Units sold %s", format.Number(int64(r.Sales.QtySold))),
	)
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.PanelStyle.Width(32).Render(inv), " ", styles.PanelStyle.Width(32).Render(sales))

	byDate := []string{styles.TitleStyle.Render("Sales by date")}
	var peak int64
	for _, d := range r.ByDate {
		peak = max(peak, d.Total)
	}
	for _, d := range r.ByDate {
		bar := 0
		if peak > 0 {
			bar = int(d.Total * 24 / peak)
		}
		label := d.Day
		if t, err := parseDay(d.Day); err == nil {
			label = format.ShortDate(t)
		}
		byDate = append(byDate, fmt.Sprintf("%-12s %s %s", label,
			styles.AccentStyle.Render(strings.Repeat("█", bar)), styles.DimStyle.Render(format.ShortRupiah(d.Total))))
	}
	if len(r.ByDate) == 0 {
		byDate = append(byDate, styles.DimStyle.Render("No sales yet"))
	}

	top := []string{styles.TitleStyle.Render("Top products")}
	for i, p := range r.TopProducts {
		top = append(top, fmt.Sprintf("%d. %-22s %4d  %s", i+1, styles.Truncate(p.Name, 22), p.Qty, format.Rupiah(p.Total)))
	}
	if len(r.TopProducts) == 0 {
		top = append(top, styles.DimStyle.Render("No sales yet"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		heading("Reports", "Generated "+format.LongDate(r.GeneratedAt)),
		summary,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, byDate...)),
			" ",
			styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, top...)),
		),
	)
}

func (m Model) renderActivity() string {
	lines := []string{heading("Activity Log", "")}
	if len(m.Activity) == 0 {
		msg := "No activity recorded"
		if m.Loading {
			msg = m.Spinner.View() + " Loading..."
		}
		lines = append(lines, styles.DimStyle.Render(msg))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	lines = append(lines, m.ActivityTable.View())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSettings() string {
	profile := ""
	if m.Session != nil {
		profile = lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render("Profile"),
			styles.DimStyle.Render("name  ")+m.Session.DisplayName(),
			styles.DimStyle.Render("email ")+m.Session.Email,
			styles.DimStyle.Render("role  ")+styles.BadgeStyle.Render(string(m.Session.Role)),
			styles.HelpKeyStyle.Render("p")+styles.HelpDescStyle.Render(" edit profile"),
		)
		profile = styles.PanelStyle.Render(profile)
	}

	data := styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Data"),
		styles.HelpKeyStyle.Render("R")+styles.HelpDescStyle.Render(" reset all sales data"),
	))

	lines := []string{heading("Settings", ""), lipgloss.JoinHorizontal(lipgloss.Top, profile, " ", data), "", styles.TitleStyle.Render("Accounts")}
	if s := m.searchLine(m.UserQuery); s != "" {
		lines = append(lines, s)
	}
	if len(m.visibleUsers) == 0 {
		msg := "No accounts"
		if m.Loading {
			msg = m.Spinner.View() + " Loading..."
		}
		lines = append(lines, styles.DimStyle.Render(msg))
	} else {
		lines = append(lines, m.UserTable.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderAccessDenied() string {
	role := ""
	if m.Session != nil {
		role = string(m.Session.Role)
	}
	msg := lipgloss.JoinVertical(lipgloss.Center,
		styles.ErrorStyle.Bold(true).Render("Access denied"),
		"",
		styles.SubtitleStyle.Render(fmt.Sprintf("The %s role cannot open %s.", role, m.Decision.View.Title())),
		styles.DimStyle.Render("Pick a view from the sidebar."),
	)
	w, h := m.contentSize()
	return lipgloss.Place(w-4, h-2, lipgloss.Center, lipgloss.Center, msg)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.Loading:
		left = m.Spinner.View() + " " + styles.DimStyle.Render("Loading...")
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	right := m.Help.ShortHelpView(Keys.ShortHelp())
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	h := m.Help
	h.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Keys"),
		h.View(Keys),
		"",
		styles.DimStyle.Render("Press any key to return..."),
	)
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}

// renderLogoutConfirmation renders the logout confirmation modal
func (m Model) renderLogoutConfirmation() string {
	modal := `
         Log Out?

  Pending deletions will be
  cancelled and the local
  cache cleared.

     [Y] Yes      [N] No
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}

// renderDeleteUserConfirmation asks before removing an account
func (m Model) renderDeleteUserConfirmation() string {
	name := ""
	if m.pendingUser != nil {
		name = m.pendingUser.Name
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.ModalTitleStyle.Render("Delete account?"),
		styles.SubtitleStyle.Render(name),
		"",
		"[Y] Yes      [N] No",
	)
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}

// renderResetSalesConfirmation asks before wiping the sales history
func (m Model) renderResetSalesConfirmation() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.ModalTitleStyle.Render("Reset all sales data?"),
		styles.ErrorStyle.Render("This cannot be undone."),
		"",
		"[Y] Yes      [N] No",
	)
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}

// renderLogin renders the sign-in screen
func (m Model) renderLogin() string {
	brand := lipgloss.JoinVertical(lipgloss.Center,
		styles.AccentStyle.Bold(true).Render("ShopAdmin"),
		styles.DimStyle.Render("Inventory & sales administration"),
		"",
	)
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, brand, m.Form.View()))
}

// parseDay parses a YYYY-MM-DD report key
func parseDay(day string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", day, time.Local)
}
