package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tb453/shopadmin/internal/domain"
	"github.com/tb453/shopadmin/internal/tui/components"
)

// FormKind identifies which form the modal is showing
type FormKind int

const (
	FormNone FormKind = iota
	FormProduct
	FormSale
	FormAccount
	FormProfile
	FormLogin
)

// Form field keys
const (
	fieldName     = "name"
	fieldCategory = "category"
	fieldSKU      = "sku"
	fieldStock    = "stock"
	fieldPrice    = "price"
	fieldStatus   = "status"
	fieldDate     = "date"
	fieldCustomer = "customer"
	fieldProduct  = "product"
	fieldQty      = "qty"
	fieldEmail    = "email"
	fieldPassword = "password"
	fieldRole     = "role"
)

// openProductForm shows the add form, or the edit form when p is set
func (m *Model) openProductForm(p *domain.Product) {
	title := "Add Product"
	form := domain.ProductForm{Status: string(domain.ProductActive)}
	m.formTarget = ""
	if p != nil {
		title = "Edit " + p.Name
		form = domain.ProductFormFrom(*p)
		m.formTarget = p.ID
	}
	m.formKind = FormProduct
	m.Form.Show(title, []components.FormField{
		{Key: fieldName, Label: "Name", Value: form.Name, Placeholder: "Wireless Mouse"},
		{Key: fieldCategory, Label: "Category", Value: form.Category, Options: domain.Categories},
		{Key: fieldSKU, Label: "SKU", Value: form.SKU, Placeholder: "AK-001"},
		{Key: fieldStock, Label: "Stock", Value: form.Stock, Placeholder: "1"},
		{Key: fieldPrice, Label: "Price (Rp)", Value: form.Price, Placeholder: "1000"},
		{Key: fieldStatus, Label: "Status", Value: form.Status, Options: []string{string(domain.ProductActive), string(domain.ProductInactive)}},
	})
}

// saleOption is the label a product gets in the sale form's picker
func saleOption(p domain.Product) string {
	return p.SKU + " · " + p.Name
}

// openSaleForm shows the new-sale form over the active products
func (m *Model) openSaleForm() {
	var options []string
	m.saleProducts = m.saleProducts[:0]
	for _, p := range m.Products {
		if p.IsActive() && p.Stock > 0 {
			options = append(options, saleOption(p))
			m.saleProducts = append(m.saleProducts, p)
		}
	}
	if len(options) == 0 {
		m.setStatus("No products in stock to sell", true)
		return
	}
	m.formKind = FormSale
	m.formTarget = ""
	m.Form.Show("Record Sale", []components.FormField{
		{Key: fieldDate, Label: "Date", Value: m.now().Format("2006-01-02")},
		{Key: fieldCustomer, Label: "Customer", Placeholder: "Budi Santoso"},
		{Key: fieldProduct, Label: "Product", Options: options},
		{Key: fieldQty, Label: "Quantity", Placeholder: "1"},
		{Key: fieldStatus, Label: "Status", Options: []string{string(domain.SaleCompleted), string(domain.SalePending)}},
	})
}

// openAccountForm shows the register form, or the edit form when u is set
func (m *Model) openAccountForm(u *domain.User) {
	title := "New Account"
	var name, email, role string
	m.formTarget = ""
	if u != nil {
		title = "Edit " + u.Name
		name, email, role = u.Name, u.Email, string(u.Role)
		m.formTarget = u.ID
	}
	roles := make([]string, len(domain.Roles))
	for i, r := range domain.Roles {
		roles[i] = string(r)
	}
	passwordHint := ""
	if u != nil {
		passwordHint = "leave empty to keep"
	}
	m.formKind = FormAccount
	m.Form.Show(title, []components.FormField{
		{Key: fieldName, Label: "Name", Value: name},
		{Key: fieldEmail, Label: "Email", Value: email, Placeholder: "user@example.com"},
		{Key: fieldPassword, Label: "Password", Password: true, Placeholder: passwordHint},
		{Key: fieldRole, Label: "Role", Value: role, Options: roles},
	})
}

// openProfileForm lets the signed-in user change their name and password
func (m *Model) openProfileForm() {
	if m.Session == nil {
		return
	}
	m.formKind = FormProfile
	m.formTarget = m.Session.ID
	m.Form.Show("Profile", []components.FormField{
		{Key: fieldName, Label: "Name", Value: m.Session.Name},
		{Key: fieldPassword, Label: "Password", Password: true, Placeholder: "leave empty to keep"},
	})
}

// openLoginForm shows the login screen
func (m *Model) openLoginForm(email string) {
	m.formKind = FormLogin
	m.formTarget = ""
	m.Form.Show("Sign in", []components.FormField{
		{Key: fieldEmail, Label: "Email", Value: email, Placeholder: "admin@example.com"},
		{Key: fieldPassword, Label: "Password", Password: true},
	})
}

// submitForm turns the modal values into the matching command
func (m *Model) submitForm() tea.Cmd {
	v := m.Form.Values()
	switch m.formKind {
	case FormProduct:
		m.Form.SetBusy(true)
		return SaveProductCmd(m.Services.Products, m.formTarget, domain.ProductForm{
			Name:     v[fieldName],
			Category: v[fieldCategory],
			SKU:      v[fieldSKU],
			Stock:    v[fieldStock],
			Price:    v[fieldPrice],
			Status:   v[fieldStatus],
		})

	case FormSale:
		productID := ""
		for _, p := range m.saleProducts {
			if saleOption(p) == v[fieldProduct] {
				productID = p.ID
				break
			}
		}
		m.Form.SetBusy(true)
		return CreateSaleCmd(m.Services.Sales, domain.SaleForm{
			Date:      v[fieldDate],
			Customer:  v[fieldCustomer],
			ProductID: productID,
			Qty:       v[fieldQty],
			Status:    v[fieldStatus],
		})

	case FormAccount:
		m.Form.SetBusy(true)
		return SaveUserCmd(m.Services.Accounts, m.formTarget, domain.UserInput{
			Name:     v[fieldName],
			Email:    v[fieldEmail],
			Password: v[fieldPassword],
			Role:     domain.Role(strings.ToLower(v[fieldRole])),
		})

	case FormProfile:
		m.Form.SetBusy(true)
		return UpdateProfileCmd(m.Services.Accounts, v[fieldName], v[fieldPassword])

	case FormLogin:
		m.Form.SetBusy(true)
		return LoginCmd(m.Services.Sessions, v[fieldEmail], v[fieldPassword])
	}
	return nil
}

// formFailed shows err inside the form that produced it
func (m *Model) formFailed(kind FormKind, err error) {
	msg := domain.UserMessage(err, "Something went wrong, please try again.")
	if m.Form.IsVisible() && m.formKind == kind {
		m.Form.SetError(msg)
		return
	}
	m.setStatus(msg, true)
}

// statusTTL is how long status bar messages stay up
const statusTTL = 3 * time.Second
