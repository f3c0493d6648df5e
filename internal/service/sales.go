package service

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tb453/shopadmin/internal/domain"
)

// SalesStats are the cards above the sales history
type SalesStats struct {
	TotalValue int64
	TodayCount int
	Average    int64

	// TrendPercent compares today's total with yesterday's, rounded to one
	// decimal. It is zero when yesterday had no sales.
	TrendPercent float64
}

// SalesService handles recording and summarising sales
type SalesService struct {
	repo     domain.SalesRepository
	products *ProductService
	store    domain.Store
	logger   *slog.Logger

	mu     sync.RWMutex
	sales  []domain.Sale
	loaded bool
}

// NewSalesService creates a new sales service. products is used to look
// up the item being sold and may be nil in tests that only read sales.
func NewSalesService(repo domain.SalesRepository, products *ProductService, store domain.Store, logger *slog.Logger) *SalesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalesService{repo: repo, products: products, store: store, logger: logger}
}

// Cached returns the last known sales, falling back to the persistent cache
func (s *SalesService) Cached() ([]domain.Sale, bool) {
	s.mu.RLock()
	if s.loaded {
		out := append([]domain.Sale(nil), s.sales...)
		s.mu.RUnlock()
		return out, true
	}
	s.mu.RUnlock()

	if s.store == nil {
		return nil, false
	}
	return s.store.GetSales()
}

// FetchSales loads every sale from the backend and saves it
func (s *SalesService) FetchSales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.repo.GetSales(ctx)
	if err != nil {
		s.logger.Error("failed to fetch sales", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.sales = sales
	s.loaded = true
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveSales(sales); err != nil {
			s.logger.Error("failed to save sales", "error", err)
		}
	}
	s.logger.Debug("fetched sales", "count", len(sales))
	return append([]domain.Sale(nil), sales...), nil
}

// CreateSale validates the form against the selected product and records
// the sale. Stock changes on the backend, so products are invalidated.
func (s *SalesService) CreateSale(ctx context.Context, form domain.SaleForm) (string, error) {
	var product *domain.Product
	if s.products != nil && form.ProductID != "" {
		if p, ok := s.products.Find(form.ProductID); ok {
			product = &p
		}
	}
	if form.Date == "" {
		form.Date = time.Now().Format("2006-01-02")
	}

	in, err := form.Validate(product)
	if err != nil {
		return "", err
	}
	msg, err := s.repo.CreateSale(ctx, in)
	if err != nil {
		s.logger.Error("failed to record sale", "error", err, "productID", in.ProductID)
		return "", err
	}
	s.logger.Info("sale recorded", "productID", in.ProductID, "qty", in.Qty, "total", in.Total)

	if s.store != nil {
		s.store.InvalidateSales()
		s.store.InvalidateProducts()
	}
	if msg == "" {
		msg = "Sale recorded"
	}
	return msg, nil
}

// Reset deletes every sale on the backend and forgets the local copy
func (s *SalesService) Reset(ctx context.Context) (string, error) {
	msg, err := s.repo.ResetSales(ctx)
	if err != nil {
		s.logger.Error("failed to reset sales", "error", err)
		return "", err
	}
	s.logger.Warn("all sales deleted")

	s.mu.Lock()
	s.sales = nil
	s.loaded = false
	s.mu.Unlock()
	if s.store != nil {
		s.store.InvalidateSales()
	}
	if msg == "" {
		msg = "All sales data deleted"
	}
	return msg, nil
}

// ComputeSalesStats derives the sales cards relative to now
func ComputeSalesStats(sales []domain.Sale, now time.Time) SalesStats {
	today := now.Local().Format("2006-01-02")
	yesterday := now.Local().AddDate(0, 0, -1).Format("2006-01-02")

	var stats SalesStats
	var todayTotal, yesterdayTotal int64
	for _, sale := range sales {
		stats.TotalValue += sale.Total
		switch sale.Day() {
		case today:
			stats.TodayCount++
			todayTotal += sale.Total
		case yesterday:
			yesterdayTotal += sale.Total
		}
	}
	if len(sales) > 0 {
		stats.Average = stats.TotalValue / int64(len(sales))
	}
	if yesterdayTotal != 0 {
		pct := float64(todayTotal-yesterdayTotal) / float64(yesterdayTotal) * 100
		stats.TrendPercent = math.Round(pct*10) / 10
	}
	return stats
}
