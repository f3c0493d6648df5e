package service

import (
	"sort"
	"time"

	"github.com/tb453/shopadmin/internal/domain"
)

const topProductsLimit = 5

// DailySales is the sales total for one calendar day
type DailySales struct {
	Day   string // YYYY-MM-DD
	Total int64
}

// ProductSales is the quantity and value sold for one item
type ProductSales struct {
	Name  string
	Qty   int
	Total int64
}

// InventorySummary is the inventory half of the report
type InventorySummary struct {
	Products   int
	TotalStock int
	LowStock   int // below the critical threshold
	OutOfStock int
}

// SalesSummary is the sales half of the report
type SalesSummary struct {
	TotalValue int64
	Completed  int
	Pending    int
	QtySold    int
}

// Report is everything the reports view shows
type Report struct {
	GeneratedAt time.Time
	Inventory   InventorySummary
	Sales       SalesSummary
	ByDate      []DailySales   // oldest first
	TopProducts []ProductSales // by quantity, best first
}

// LowStock returns products below the critical threshold, lowest stock
// first, for the dashboard panel.
func LowStock(products []domain.Product) []domain.Product {
	var out []domain.Product
	for _, p := range products {
		if p.Stock < domain.CriticalStockThreshold {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out
}

// BuildReport summarises products and sales
func BuildReport(products []domain.Product, sales []domain.Sale, now time.Time) Report {
	r := Report{GeneratedAt: now}

	r.Inventory.Products = len(products)
	for _, p := range products {
		r.Inventory.TotalStock += p.Stock
		if p.Stock < domain.CriticalStockThreshold {
			r.Inventory.LowStock++
		}
		if p.Stock <= 0 {
			r.Inventory.OutOfStock++
		}
	}

	byDay := make(map[string]int64)
	byItem := make(map[string]*ProductSales)
	for _, s := range sales {
		r.Sales.TotalValue += s.Total
		r.Sales.QtySold += s.Qty
		switch s.Status {
		case domain.SaleCompleted:
			r.Sales.Completed++
		case domain.SalePending:
			r.Sales.Pending++
		}

		if day := s.Day(); day != "" {
			byDay[day] += s.Total
		}

		name := s.Items
		if name == "" {
			name = "#" + s.ProductID
		}
		ps, ok := byItem[name]
		if !ok {
			ps = &ProductSales{Name: name}
			byItem[name] = ps
		}
		ps.Qty += s.Qty
		ps.Total += s.Total
	}

	for day, total := range byDay {
		r.ByDate = append(r.ByDate, DailySales{Day: day, Total: total})
	}
	sort.Slice(r.ByDate, func(i, j int) bool { return r.ByDate[i].Day < r.ByDate[j].Day })

	for _, ps := range byItem {
		r.TopProducts = append(r.TopProducts, *ps)
	}
	sort.Slice(r.TopProducts, func(i, j int) bool {
		a, b := r.TopProducts[i], r.TopProducts[j]
		if a.Qty != b.Qty {
			return a.Qty > b.Qty
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Name < b.Name
	})
	if len(r.TopProducts) > topProductsLimit {
		r.TopProducts = r.TopProducts[:topProductsLimit]
	}
	return r
}

// ReportService builds reports from the product and sales caches
type ReportService struct {
	products *ProductService
	sales    *SalesService
	now      func() time.Time
}

// NewReportService creates a new report service
func NewReportService(products *ProductService, sales *SalesService) *ReportService {
	return &ReportService{products: products, sales: sales, now: time.Now}
}

// Report summarises whatever has been loaded so far
func (s *ReportService) Report() Report {
	products, _ := s.products.Cached()
	sales, _ := s.sales.Cached()
	return BuildReport(products, sales, s.now())
}
