package domain

import (
	"strconv"
	"strings"
)

// Product form limits
const (
	MinProductStock = 1
	MinProductPrice = 1000
)

// ProductInput is the validated payload for creating or updating a product
type ProductInput struct {
	Name     string        `json:"name"`
	Category string        `json:"category"`
	SKU      string        `json:"sku"`
	Stock    int           `json:"stock"`
	Price    int64         `json:"price"`
	Status   ProductStatus `json:"status"`
}

// ProductForm holds raw product form fields as typed by the user
type ProductForm struct {
	Name     string
	Category string
	SKU      string
	Stock    string
	Price    string
	Status   string
}

// ProductFormFrom fills a form from an existing product for editing
func ProductFormFrom(p Product) ProductForm {
	return ProductForm{
		Name:     p.Name,
		Category: p.Category,
		SKU:      p.SKU,
		Stock:    strconv.Itoa(p.Stock),
		Price:    strconv.FormatInt(p.Price, 10),
		Status:   string(p.Status),
	}
}

// Validate checks the form and converts it into an input payload
func (f ProductForm) Validate() (ProductInput, error) {
	name := strings.TrimSpace(f.Name)
	category := strings.TrimSpace(f.Category)
	sku := strings.TrimSpace(f.SKU)
	if name == "" || category == "" || sku == "" || strings.TrimSpace(f.Stock) == "" || strings.TrimSpace(f.Price) == "" {
		return ProductInput{}, &ValidationError{Message: "All fields are required."}
	}
	if !validCategory(category) {
		return ProductInput{}, &ValidationError{Field: "category", Message: "Unknown category " + strconv.Quote(category) + "."}
	}

	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil {
		return ProductInput{}, &ValidationError{Field: "stock", Message: "Stock must be a number."}
	}
	if stock < MinProductStock {
		return ProductInput{}, &ValidationError{Field: "stock", Message: "Stock must be at least 1."}
	}

	price, err := strconv.ParseInt(strings.TrimSpace(f.Price), 10, 64)
	if err != nil {
		return ProductInput{}, &ValidationError{Field: "price", Message: "Price must be a number."}
	}
	if price < MinProductPrice {
		return ProductInput{}, &ValidationError{Field: "price", Message: "Price must be at least 1000."}
	}

	status := ProductStatus(strings.TrimSpace(f.Status))
	switch status {
	case "":
		status = ProductActive
	case ProductActive, ProductInactive:
	default:
		return ProductInput{}, &ValidationError{Field: "status", Message: "Status must be active or inactive."}
	}

	return ProductInput{
		Name:     name,
		Category: category,
		SKU:      sku,
		Stock:    stock,
		Price:    price,
		Status:   status,
	}, nil
}

func validCategory(c string) bool {
	for _, known := range Categories {
		if strings.EqualFold(known, c) {
			return true
		}
	}
	return false
}

// SaleInput is the validated payload for recording a sale
type SaleInput struct {
	Date      string     `json:"date"`
	Customer  string     `json:"customer"`
	ProductID string     `json:"productId"`
	Items     string     `json:"items"`
	Qty       int        `json:"qty"`
	Total     int64      `json:"total"`
	Status    SaleStatus `json:"status"`
}

// SaleForm holds raw sale form fields
type SaleForm struct {
	Date      string
	Customer  string
	ProductID string
	Qty       string
	Status    string
}

// Validate checks the form against the selected product and computes the
// total. product is nil when nothing has been picked yet.
func (f SaleForm) Validate(product *Product) (SaleInput, error) {
	customer := strings.TrimSpace(f.Customer)
	qtyText := strings.TrimSpace(f.Qty)
	if customer == "" || strings.TrimSpace(f.ProductID) == "" || qtyText == "" {
		return SaleInput{}, &ValidationError{Message: "Please fill in every field."}
	}
	if product == nil {
		return SaleInput{}, &ValidationError{Field: "product", Message: "Select a product first."}
	}

	qty, err := strconv.Atoi(qtyText)
	if err != nil || qty < 1 {
		return SaleInput{}, &ValidationError{Field: "qty", Message: "Quantity must be a positive number."}
	}
	if qty > product.Stock {
		return SaleInput{}, &ValidationError{
			Field:   "qty",
			Message: "Not enough stock. Only " + strconv.Itoa(product.Stock) + " units available.",
		}
	}

	status := SaleStatus(strings.TrimSpace(f.Status))
	switch status {
	case "":
		status = SaleCompleted
	case SaleCompleted, SalePending:
	default:
		return SaleInput{}, &ValidationError{Field: "status", Message: "Status must be completed or pending."}
	}

	return SaleInput{
		Date:      strings.TrimSpace(f.Date),
		Customer:  customer,
		ProductID: product.ID,
		Items:     product.Name,
		Qty:       qty,
		Total:     product.Price * int64(qty),
		Status:    status,
	}, nil
}

// UserInput is the payload for registering or editing an account
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Validate checks an account form. Creating an account requires a
// password; editing keeps the old one when the field is left empty.
func (u UserInput) Validate(creating bool) (UserInput, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Password = strings.TrimSpace(u.Password)
	if u.Name == "" || u.Email == "" || (creating && u.Password == "") {
		return UserInput{}, &ValidationError{Message: "Complete all account fields."}
	}
	if !strings.Contains(u.Email, "@") {
		return UserInput{}, &ValidationError{Field: "email", Message: "Email address is not valid."}
	}
	if u.Role == "" {
		u.Role = RoleKasir
	}
	if !u.Role.Valid() {
		return UserInput{}, &ValidationError{Field: "role", Message: "Unknown role " + strconv.Quote(string(u.Role)) + "."}
	}
	return u, nil
}
