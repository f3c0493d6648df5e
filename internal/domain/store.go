package domain

// Store handles local persistence (BoltDB + memory).
// The session record lives here, as do the last fetched lists so the
// TUI can paint before the backend answers.
type Store interface {
	// === Session ===
	GetSession() (Session, bool)
	SaveSession(s Session) error
	ClearSession() error

	// === Cached lists ===
	GetProducts() ([]Product, bool)
	SaveProducts(products []Product) error

	GetSales() ([]Sale, bool)
	SaveSales(sales []Sale) error

	// === Invalidation ===
	InvalidateProducts()
	InvalidateSales()
	InvalidateAll()

	Close() error
}
