package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tb453/shopadmin/internal/domain"
	"github.com/tb453/shopadmin/internal/store"
)

// fakeBackend is an in-memory domain.Backend
type fakeBackend struct {
	mu sync.Mutex

	products []domain.Product
	sales    []domain.Sale
	users    []domain.User
	logs     []domain.ActivityLog

	productsErr error
	salesErr    error
	loginErr    error
	logoutErr   error

	created      []domain.ProductInput
	updated      map[string]domain.ProductInput
	deleted      []string
	createdSales []domain.SaleInput
	resets       int
	resetErr     error
	registered   []domain.UserInput
	profiles     []string
	logouts      []string
}

func (f *fakeBackend) GetProducts(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeBackend) CreateProduct(_ context.Context, p domain.ProductInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return "Produk berhasil ditambahkan", nil
}

func (f *fakeBackend) UpdateProduct(_ context.Context, id string, p domain.ProductInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = make(map[string]domain.ProductInput)
	}
	f.updated[id] = p
	return "", nil
}

func (f *fakeBackend) DeleteProduct(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return "deleted " + id, nil
}

func (f *fakeBackend) GetSales(ctx context.Context) ([]domain.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	return append([]domain.Sale(nil), f.sales...), nil
}

func (f *fakeBackend) CreateSale(_ context.Context, s domain.SaleInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdSales = append(f.createdSales, s)
	return "Transaksi berhasil", nil
}

func (f *fakeBackend) ResetSales(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return "", f.resetErr
	}
	f.resets++
	f.sales = nil
	return "", nil
}

func (f *fakeBackend) GetUsers(context.Context) ([]domain.User, error) {
	return f.users, nil
}

func (f *fakeBackend) RegisterUser(_ context.Context, u domain.UserInput) (string, error) {
	f.registered = append(f.registered, u)
	return "", nil
}

func (f *fakeBackend) UpdateUser(context.Context, string, domain.UserInput) (string, error) {
	return "", nil
}

func (f *fakeBackend) DeleteUser(_ context.Context, id string) (string, error) {
	return "User " + id + " deleted", nil
}

func (f *fakeBackend) UpdateProfile(_ context.Context, email, name, _ string) (string, error) {
	f.profiles = append(f.profiles, email+":"+name)
	return "Profil diperbarui", nil
}

func (f *fakeBackend) Login(_ context.Context, email, _ string) (*domain.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return &domain.Session{ID: u.ID, Name: u.Name, Role: u.Role, Email: u.Email}, nil
		}
	}
	return nil, &domain.APIError{Status: 401, Message: "Email atau password salah"}
}

func (f *fakeBackend) Logout(_ context.Context, email string) error {
	f.logouts = append(f.logouts, email)
	return f.logoutErr
}

func (f *fakeBackend) GetActivity(context.Context) ([]domain.ActivityLog, error) {
	return append([]domain.ActivityLog(nil), f.logs...), nil
}

func newMemStore(t *testing.T) domain.Store {
	t.Helper()
	s, err := store.NewShopStore("", "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func catalogue() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Wireless Mouse", Category: "Aksesoris", SKU: "AK-003", Stock: 25, Price: 120000, Status: domain.ProductActive},
		{ID: "2", Name: "Bluetooth Speaker", Category: "Audio", SKU: "AU-001", Stock: 8, Price: 350000, Status: domain.ProductActive},
		{ID: "3", Name: "kaos polos", Category: "Pakaian", SKU: "PK-010", Stock: 0, Price: 45000, Status: domain.ProductInactive},
		{ID: "4", Name: "Headphone", Category: "Audio", SKU: "AU-002", Stock: 15, Price: 275000, Status: domain.ProductActive},
	}
}
