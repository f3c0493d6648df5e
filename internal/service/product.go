package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/tb453/shopadmin/internal/domain"
)

// SortKey is a product table column that can be sorted
type SortKey string

const (
	SortBySKU   SortKey = "sku"
	SortByName  SortKey = "name"
	SortByStock SortKey = "stock"
	SortByPrice SortKey = "price"
)

// SortKeys lists the sortable columns in table order
var SortKeys = []SortKey{SortBySKU, SortByName, SortByStock, SortByPrice}

// SortOrder is ascending or descending
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ProductQuery describes the product table's filter and sort state
type ProductQuery struct {
	Category string // empty means every category
	Search   string
	SortBy   SortKey
	Order    SortOrder
}

// Toggle applies a click on a column header: the same column flips the
// order, a new column sorts ascending.
func (q ProductQuery) Toggle(key SortKey) ProductQuery {
	if q.SortBy == key {
		if q.Order == Ascending {
			q.Order = Descending
		} else {
			q.Order = Ascending
		}
		return q
	}
	q.SortBy = key
	q.Order = Ascending
	return q
}

// productIndex implements sahilm/fuzzy.Source over name and SKU
type productIndex []domain.Product

func (p productIndex) String(i int) string {
	return strings.ToLower(p[i].Name + " " + p[i].SKU)
}

func (p productIndex) Len() int { return len(p) }

// ProductService handles the product catalogue: fetching, caching,
// mutations and the table's filter/sort.
type ProductService struct {
	repo   domain.ProductRepository
	store  domain.Store
	logger *slog.Logger

	mu       sync.RWMutex
	products []domain.Product
	loaded   bool
}

// NewProductService creates a new product service
func NewProductService(repo domain.ProductRepository, store domain.Store, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{repo: repo, store: store, logger: logger}
}

// Cached returns the last known product list, falling back to the
// persistent cache. ok is false if nothing has been fetched yet.
func (s *ProductService) Cached() ([]domain.Product, bool) {
	s.mu.RLock()
	if s.loaded {
		out := append([]domain.Product(nil), s.products...)
		s.mu.RUnlock()
		return out, true
	}
	s.mu.RUnlock()

	if s.store == nil {
		return nil, false
	}
	products, ok := s.store.GetProducts()
	if !ok {
		return nil, false
	}
	s.logger.Debug("products from cache", "count", len(products))
	return products, true
}

// FetchProducts loads the catalogue from the backend and saves it
func (s *ProductService) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		s.logger.Error("failed to fetch products", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.products = products
	s.loaded = true
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveProducts(products); err != nil {
			s.logger.Error("failed to save products", "error", err)
		}
	}
	s.logger.Debug("fetched products", "count", len(products))
	return append([]domain.Product(nil), products...), nil
}

// RefreshProducts re-fetches the catalogue, discarding the result.
// The deletion manager calls it once after a batch with a success.
func (s *ProductService) RefreshProducts(ctx context.Context) error {
	_, err := s.FetchProducts(ctx)
	return err
}

// Find returns the cached product with the given id
func (s *ProductService) Find(id string) (domain.Product, bool) {
	products, _ := s.Cached()
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// CreateProduct validates the form and adds the product
func (s *ProductService) CreateProduct(ctx context.Context, form domain.ProductForm) (string, error) {
	in, err := form.Validate()
	if err != nil {
		return "", err
	}
	msg, err := s.repo.CreateProduct(ctx, in)
	if err != nil {
		s.logger.Error("failed to create product", "error", err, "sku", in.SKU)
		return "", err
	}
	s.logger.Info("product created", "sku", in.SKU)
	s.invalidate()
	if msg == "" {
		msg = in.Name + " added"
	}
	return msg, nil
}

// UpdateProduct validates the form and replaces product id
func (s *ProductService) UpdateProduct(ctx context.Context, id string, form domain.ProductForm) (string, error) {
	in, err := form.Validate()
	if err != nil {
		return "", err
	}
	msg, err := s.repo.UpdateProduct(ctx, id, in)
	if err != nil {
		s.logger.Error("failed to update product", "error", err, "productID", id)
		return "", err
	}
	s.logger.Info("product updated", "productID", id)
	s.invalidate()
	if msg == "" {
		msg = in.Name + " updated"
	}
	return msg, nil
}

// DeleteProduct removes a product on the backend. It does not refresh;
// the caller batches refreshes.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (string, error) {
	msg, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return "", err
	}
	s.logger.Info("product deleted", "productID", id)
	return msg, nil
}

func (s *ProductService) invalidate() {
	if s.store != nil {
		s.store.InvalidateProducts()
	}
}

// Categories returns the distinct categories present in products,
// sorted, for the category filter.
func Categories(products []domain.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// FilterProducts applies the category filter, fuzzy search over name and
// SKU, then the sort. The input slice is not modified.
func FilterProducts(products []domain.Product, q ProductQuery) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		filtered = append(filtered, p)
	}

	if query := strings.TrimSpace(q.Search); query != "" {
		matches := fuzzy.FindFrom(strings.ToLower(query), productIndex(filtered))
		// Keep catalogue order; the column sort decides the final order
		idx := make([]int, len(matches))
		for i, m := range matches {
			idx[i] = m.Index
		}
		sort.Ints(idx)
		matched := make([]domain.Product, len(idx))
		for i, j := range idx {
			matched[i] = filtered[j]
		}
		filtered = matched
	}

	SortProducts(filtered, q.SortBy, q.Order)
	return filtered
}

// SortProducts sorts products in place. Text columns compare
// case-insensitively; an empty key sorts by SKU.
func SortProducts(products []domain.Product, key SortKey, order SortOrder) {
	less := func(a, b domain.Product) int {
		switch key {
		case SortByStock:
			return compareInt(int64(a.Stock), int64(b.Stock))
		case SortByPrice:
			return compareInt(a.Price, b.Price)
		case SortByName:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		default:
			return strings.Compare(strings.ToLower(a.SKU), strings.ToLower(b.SKU))
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		c := less(products[i], products[j])
		if order == Descending {
			return c > 0
		}
		return c < 0
	})
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
