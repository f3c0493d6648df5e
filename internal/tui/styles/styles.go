package styles

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/tb453/shopadmin/internal/domain"
)

// Color palette
var (
	ShopBlue   = lipgloss.Color("#3B82F6")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Amber      = lipgloss.Color("#F59E0B")
	Orange     = lipgloss.Color("#F97316")
	Purple     = lipgloss.Color("#8B5CF6")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ShopBlue)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ShopBlue)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	HeadingStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Panel styles
var (
	SidebarStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ContentStyle = lipgloss.NewStyle().
			Padding(1, 2)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SlateLight).
			Padding(0, 1).
			Width(24)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SlateLight).
			Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ShopBlue).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Toast styles
var (
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Padding(0, 1)

	NoticeSuccessStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Green).
				Foreground(Green).
				Padding(0, 1)

	NoticeErrorStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Red).
				Foreground(Red).
				Padding(0, 1)

	NoticeInfoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Foreground(LightGray).
			Padding(0, 1)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(ShopBlue).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ShopBlue)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ShopBlue)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(ShopBlue)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(ShopBlue).
				Bold(true)
)

// StockBadge renders the stock column: the count, coloured by level
func StockBadge(p domain.Product) string {
	text := lipgloss.NewStyle().Bold(true)
	switch p.StockLevel() {
	case domain.StockOut:
		return text.Foreground(Red).Render("out")
	case domain.StockCritical:
		return text.Foreground(Red).Render(itoa(p.Stock))
	case domain.StockLow:
		return text.Foreground(Orange).Render(itoa(p.Stock))
	default:
		return text.Foreground(Green).Render(itoa(p.Stock))
	}
}

// StockLabel is the plain-text stock column used inside tables, which
// apply their own cell styles
func StockLabel(p domain.Product) string {
	switch p.StockLevel() {
	case domain.StockOut:
		return "0 (out)"
	case domain.StockCritical:
		return itoa(p.Stock) + " (critical)"
	case domain.StockLow:
		return itoa(p.Stock) + " (low)"
	default:
		return itoa(p.Stock)
	}
}

// StatusBadge renders a product or sale status
func StatusBadge(status string) string {
	switch status {
	case string(domain.ProductActive), string(domain.SaleCompleted):
		return SuccessStyle.Render(status)
	case string(domain.SalePending):
		return WarningStyle.Render(status)
	default:
		return DimStyle.Render(status)
	}
}

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
