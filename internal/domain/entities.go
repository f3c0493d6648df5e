package domain

import (
	"strings"
	"time"
)

// Role identifies what a signed-in user is allowed to see
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleKasir  Role = "kasir"  // cashier
	RoleGudang Role = "gudang" // warehouse
)

// Roles lists every role the backend may assign
var Roles = []Role{RoleAdmin, RoleKasir, RoleGudang}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ProductStatus marks whether a product is sellable
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Categories are the product categories offered by the product form
var Categories = []string{"Elektronik", "Aksesoris", "Audio", "Pakaian", "Lainnya"}

// StockLevel classifies a product's remaining stock
type StockLevel int

const (
	StockOK StockLevel = iota
	StockLow
	StockCritical
	StockOut
)

// Stock thresholds used by the product table and the dashboard
const (
	CriticalStockThreshold = 10
	LowStockThreshold      = 20
)

// Product is a single inventory line
type Product struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category string        `json:"category"`
	SKU      string        `json:"sku"`
	Stock    int           `json:"stock"`
	Price    int64         `json:"price"`
	Status   ProductStatus `json:"status"`
}

// StockLevel returns the stock classification for display
func (p Product) StockLevel() StockLevel {
	switch {
	case p.Stock <= 0:
		return StockOut
	case p.Stock < CriticalStockThreshold:
		return StockCritical
	case p.Stock < LowStockThreshold:
		return StockLow
	default:
		return StockOK
	}
}

// IsActive returns true if the product can be sold
func (p Product) IsActive() bool {
	return p.Status == ProductActive
}

// SaleStatus is the settlement state of a sale
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SalePending   SaleStatus = "pending"
)

// Sale is a single point-of-sale transaction
type Sale struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Customer  string     `json:"customer"`
	ProductID string     `json:"productId"`
	Items     string     `json:"items"`
	Qty       int        `json:"qty"`
	Total     int64      `json:"total"`
	Status    SaleStatus `json:"status"`
}

// Time parses the sale date. The backend sends either a plain date or an
// RFC 3339 timestamp; unparseable dates return the zero time.
func (s Sale) Time() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s.Date, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Day returns the sale date truncated to the calendar day (YYYY-MM-DD)
func (s Sale) Day() string {
	t := s.Time()
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02")
}

// User is an account managed from the settings view
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	LastLogin  string `json:"last_login,omitempty"`
	LastLogout string `json:"last_logout,omitempty"`
}

// Session is the persisted record of the signed-in user
type Session struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Email      string `json:"email"`
	LastLogout string `json:"last_logout,omitempty"`
}

// DisplayName returns the user's name, falling back to the role
func (s Session) DisplayName() string {
	if strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	return strings.ToUpper(string(s.Role))
}

// Greeting returns the sidebar greeting for returning users
func (s Session) Greeting() string {
	if s.LastLogout != "" {
		return "Welcome Back!"
	}
	return "Welcome!"
}

// ActivityLog is one line of the backend audit trail
type ActivityLog struct {
	Date   string `json:"date"`
	User   string `json:"user"`
	Action string `json:"action"`
}
