package domain

import "context"

// ProductRepository provides access to the backend product catalogue
type ProductRepository interface {
	// GetProducts returns every product
	GetProducts(ctx context.Context) ([]Product, error)

	// CreateProduct adds a product and returns the backend message
	CreateProduct(ctx context.Context, p ProductInput) (string, error)

	// UpdateProduct replaces a product and returns the backend message
	UpdateProduct(ctx context.Context, id string, p ProductInput) (string, error)

	// DeleteProduct removes a product and returns the backend message
	DeleteProduct(ctx context.Context, id string) (string, error)
}

// SalesRepository provides access to recorded sales
type SalesRepository interface {
	GetSales(ctx context.Context) ([]Sale, error)
	CreateSale(ctx context.Context, s SaleInput) (string, error)
	// ResetSales deletes every recorded sale
	ResetSales(ctx context.Context) (string, error)
}

// UserRepository provides account management and sign-in
type UserRepository interface {
	GetUsers(ctx context.Context) ([]User, error)
	RegisterUser(ctx context.Context, u UserInput) (string, error)
	UpdateUser(ctx context.Context, id string, u UserInput) (string, error)
	DeleteUser(ctx context.Context, id string) (string, error)
	UpdateProfile(ctx context.Context, email, name, password string) (string, error)

	// Login exchanges credentials for the session record
	Login(ctx context.Context, email, password string) (*Session, error)

	// Logout records the sign-out time for email
	Logout(ctx context.Context, email string) error
}

// ActivityRepository provides the backend audit trail
type ActivityRepository interface {
	GetActivity(ctx context.Context) ([]ActivityLog, error)
}

// Backend combines every repository the REST client implements
type Backend interface {
	ProductRepository
	SalesRepository
	UserRepository
	ActivityRepository
}

// IdentityProvider supplies the signed-in user for request headers
type IdentityProvider interface {
	Identity() (Session, bool)
}
