package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tb453/shopadmin/internal/domain"
	"github.com/tb453/shopadmin/internal/service"
)

const (
	loadTimeout     = 30 * time.Second
	mutationTimeout = 15 * time.Second
)

// Command factories for async operations

// ReadSessionCmd reads the persisted session
func ReadSessionCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		sess, ok := svc.Current()
		if !ok {
			return SessionReadMsg{}
		}
		return SessionReadMsg{Session: &sess}
	}
}

// LoadInitialCmd fetches products and sales concurrently
func LoadInitialCmd(products *service.ProductService, sales *service.SalesService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		data, err := service.LoadInitial(ctx, products, sales)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading data"}
		}
		return InitialLoadedMsg{Products: data.Products, Sales: data.Sales}
	}
}

// LoadProductsCmd reloads the catalogue
func LoadProductsCmd(svc *service.ProductService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		products, err := svc.FetchProducts(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading products"}
		}
		return ProductsLoadedMsg{Products: products}
	}
}

// CachedProductsCmd re-reads the in-memory catalogue after a deletion
// batch refreshed it
func CachedProductsCmd(svc *service.ProductService) tea.Cmd {
	return func() tea.Msg {
		products, ok := svc.Cached()
		if !ok {
			return nil
		}
		return ProductsLoadedMsg{Products: products}
	}
}

// LoadSalesCmd reloads sales
func LoadSalesCmd(svc *service.SalesService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		sales, err := svc.FetchSales(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading sales"}
		}
		return SalesLoadedMsg{Sales: sales}
	}
}

// LoadUsersCmd loads accounts for the settings view
func LoadUsersCmd(svc *service.AccountService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		users, err := svc.ListUsers(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading accounts"}
		}
		return UsersLoadedMsg{Users: users}
	}
}

// LoadActivityCmd loads the audit trail
func LoadActivityCmd(svc *service.ActivityService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		logs, err := svc.FetchActivity(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading activity log"}
		}
		return ActivityLoadedMsg{Logs: logs}
	}
}

// mutationCmd runs fn with a timeout and wraps the result
func mutationCmd(kind FormKind, reload ReloadTarget, fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		msg, err := fn(ctx)
		return MutationDoneMsg{Message: msg, Err: err, Reload: reload, Form: kind}
	}
}

// SaveProductCmd creates a product, or updates id when it is set
func SaveProductCmd(svc *service.ProductService, id string, form domain.ProductForm) tea.Cmd {
	return mutationCmd(FormProduct, ReloadProducts, func(ctx context.Context) (string, error) {
		if id == "" {
			return svc.CreateProduct(ctx, form)
		}
		return svc.UpdateProduct(ctx, id, form)
	})
}

// CreateSaleCmd records a sale
func CreateSaleCmd(svc *service.SalesService, form domain.SaleForm) tea.Cmd {
	return mutationCmd(FormSale, ReloadSales, func(ctx context.Context) (string, error) {
		return svc.CreateSale(ctx, form)
	})
}

// ResetSalesCmd deletes every recorded sale
func ResetSalesCmd(svc *service.SalesService) tea.Cmd {
	return mutationCmd(FormNone, ReloadSales, func(ctx context.Context) (string, error) {
		return svc.Reset(ctx)
	})
}

// SaveUserCmd registers an account, or edits id when it is set
func SaveUserCmd(svc *service.AccountService, id string, in domain.UserInput) tea.Cmd {
	return mutationCmd(FormAccount, ReloadUsers, func(ctx context.Context) (string, error) {
		if id == "" {
			return svc.RegisterUser(ctx, in)
		}
		return svc.UpdateUser(ctx, id, in)
	})
}

// DeleteUserCmd removes an account immediately (no undo window)
func DeleteUserCmd(svc *service.AccountService, id string) tea.Cmd {
	return mutationCmd(FormNone, ReloadUsers, func(ctx context.Context) (string, error) {
		return svc.DeleteUser(ctx, id)
	})
}

// UpdateProfileCmd changes the signed-in user's name/password
func UpdateProfileCmd(svc *service.AccountService, name, password string) tea.Cmd {
	return mutationCmd(FormProfile, ReloadSession, func(ctx context.Context) (string, error) {
		return svc.UpdateProfile(ctx, name, password)
	})
}

// LoginCmd authenticates from the login form
func LoginCmd(svc *service.SessionService, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		sess, err := svc.Login(ctx, email, password)
		if err != nil {
			return MutationDoneMsg{Err: err, Form: FormLogin}
		}
		return LoggedInMsg{Session: sess}
	}
}

// LogoutCmd signs out
func LogoutCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		return LoggedOutMsg{Err: svc.Logout(ctx)}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears status message seq after a delay
func ClearStatusCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
