package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tb453/shopadmin/internal/domain"
)

// flexID accepts both JSON numbers and strings (the backend uses
// auto-increment integer ids but some endpoints echo them as strings)
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// flexInt accepts numbers, numeric strings and decimal values (MySQL
// DECIMAL columns arrive as "150000.00")
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexInt(int64(v))
	return nil
}

// MessageResponse is the `{ message }` body of mutations and errors
type MessageResponse struct {
	Message string `json:"message"`
}

// Product is the wire form of a product
type Product struct {
	ID       flexID  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	SKU      string  `json:"sku"`
	Stock    flexInt `json:"stock"`
	Price    flexInt `json:"price"`
	Status   string  `json:"status"`
}

// ProductsResponse is returned by GET /api/products
type ProductsResponse struct {
	Products []Product `json:"products"`
}

// Sale is the wire form of a sale
type Sale struct {
	ID        flexID  `json:"id"`
	Date      string  `json:"date"`
	Customer  string  `json:"customer"`
	ProductID flexID  `json:"productId"`
	Items     string  `json:"items"`
	Qty       flexInt `json:"qty"`
	Total     flexInt `json:"total"`
	Status    string  `json:"status"`
}

// SalesResponse is returned by GET /api/sales
type SalesResponse struct {
	Sales []Sale `json:"sales"`
}

// User is the wire form of an account
type User struct {
	ID         flexID `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	LastLogin  string `json:"last_login"`
	LastLogout string `json:"last_logout"`
}

// UsersResponse is returned by GET /api/users
type UsersResponse struct {
	Users []User `json:"users"`
}

// LoginRequest is the body of POST /api/users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /api/users/login
type LoginResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// LogoutRequest is the body of POST /api/users/logout
type LogoutRequest struct {
	Email string `json:"email"`
}

// ProfileRequest is the body of PUT /api/users/update-profile
type ProfileRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

// ActivityResponse is returned by GET /api/activity
type ActivityResponse struct {
	Logs []domain.ActivityLog `json:"logs"`
}

// MapProducts converts wire products to domain products
func MapProducts(in []Product) []domain.Product {
	out := make([]domain.Product, 0, len(in))
	for _, p := range in {
		status := domain.ProductStatus(p.Status)
		if status == "" {
			status = domain.ProductActive
		}
		out = append(out, domain.Product{
			ID:       string(p.ID),
			Name:     p.Name,
			Category: p.Category,
			SKU:      p.SKU,
			Stock:    int(p.Stock),
			Price:    int64(p.Price),
			Status:   status,
		})
	}
	return out
}

// MapSales converts wire sales to domain sales
func MapSales(in []Sale) []domain.Sale {
	out := make([]domain.Sale, 0, len(in))
	for _, s := range in {
		out = append(out, domain.Sale{
			ID:        string(s.ID),
			Date:      s.Date,
			Customer:  s.Customer,
			ProductID: string(s.ProductID),
			Items:     s.Items,
			Qty:       int(s.Qty),
			Total:     int64(s.Total),
			Status:    domain.SaleStatus(s.Status),
		})
	}
	return out
}

// MapUser converts a wire user to a domain user
func MapUser(u User) domain.User {
	return domain.User{
		ID:         string(u.ID),
		Name:       u.Name,
		Email:      u.Email,
		Role:       domain.Role(strings.ToLower(u.Role)),
		LastLogin:  u.LastLogin,
		LastLogout: u.LastLogout,
	}
}

// MapUsers converts wire users to domain users
func MapUsers(in []User) []domain.User {
	out := make([]domain.User, 0, len(in))
	for _, u := range in {
		out = append(out, MapUser(u))
	}
	return out
}
