package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tb453/shopadmin/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Identity headers sent with every request
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

// Client implements domain.Backend against the shop REST API
type Client struct {
	baseURL    string
	identity   domain.IdentityProvider
	httpClient *http.Client
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewClient creates a new REST client. identity may be nil for
// unauthenticated calls (login).
func NewClient(baseURL string, timeout time.Duration, identity domain.IdentityProvider, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		identity: identity,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:     logger,
		retryDelay: baseRetryDelay,
	}
}

// retryable reports whether method may be replayed after a 5xx
func retryable(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// doRequest performs a JSON request against the API.
// Idempotent methods are retried with exponential backoff on 5xx errors.
// Non-2xx responses become *domain.APIError carrying the backend message.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	reqURL := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	attempts := 1
	if retryable(method) {
		attempts += maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		// Check context before each attempt
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", reqURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		c.setIdentity(req)

		c.logger.Debug("backend request", "method", method, "url", reqURL, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// An aborted request is a cancellation, not an outage
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			c.logger.Error("backend request failed", "error", err, "url", reqURL)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= 500 && attempt+1 < attempts {
			lastErr = apiError(resp.StatusCode, respBody)
			c.logger.Warn("backend server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", path,
			)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := apiError(resp.StatusCode, respBody)
			c.logger.Error("backend request error", "status", resp.StatusCode, "message", apiErr.Message, "path", path)
			return nil, apiErr
		}

		return respBody, nil
	}

	c.logger.Error("backend request failed after retries", "error", lastErr, "url", reqURL)
	return nil, lastErr
}

func (c *Client) setIdentity(req *http.Request) {
	if c.identity == nil {
		return
	}
	s, ok := c.identity.Identity()
	if !ok {
		return
	}
	req.Header.Set(HeaderUserID, s.ID)
	req.Header.Set(HeaderUserEmail, s.Email)
	req.Header.Set(HeaderUserRole, string(s.Role))
}

// apiError decodes the `{ message }` body of a failed response
func apiError(status int, body []byte) *domain.APIError {
	var msg MessageResponse
	if err := json.Unmarshal(body, &msg); err != nil || msg.Message == "" {
		text := strings.TrimSpace(string(body))
		if len(text) > 200 || strings.HasPrefix(text, "<") {
			text = ""
		}
		return &domain.APIError{Status: status, Message: text}
	}
	return &domain.APIError{Status: status, Message: msg.Message}
}

// doMessage performs a mutation and returns the backend message
func (c *Client) doMessage(ctx context.Context, method, path string, body any) (string, error) {
	data, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return "", err
	}
	var resp MessageResponse
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return resp.Message, nil
}

func escape(id string) string {
	return url.PathEscape(id)
}

// === Products ===

// GetProducts returns the full product catalogue
func (c *Client) GetProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/products", nil)
	if err != nil {
		return nil, err
	}
	var resp ProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse products: %w", err)
	}
	return MapProducts(resp.Products), nil
}

// CreateProduct adds a product
func (c *Client) CreateProduct(ctx context.Context, p domain.ProductInput) (string, error) {
	return c.doMessage(ctx, http.MethodPost, "/api/products", p)
}

// UpdateProduct replaces the product with the given id
func (c *Client) UpdateProduct(ctx context.Context, id string, p domain.ProductInput) (string, error) {
	return c.doMessage(ctx, http.MethodPut, "/api/products/"+escape(id), p)
}

// DeleteProduct removes the product with the given id
func (c *Client) DeleteProduct(ctx context.Context, id string) (string, error) {
	return c.doMessage(ctx, http.MethodDelete, "/api/products/"+escape(id), nil)
}

// === Sales ===

// GetSales returns every recorded sale
func (c *Client) GetSales(ctx context.Context) ([]domain.Sale, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/sales", nil)
	if err != nil {
		return nil, err
	}
	var resp SalesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse sales: %w", err)
	}
	return MapSales(resp.Sales), nil
}

// CreateSale records a sale. Sales are final, so the call is never retried.
func (c *Client) CreateSale(ctx context.Context, s domain.SaleInput) (string, error) {
	return c.doMessage(ctx, http.MethodPost, "/api/sales", s)
}

// ResetSales deletes every recorded sale
func (c *Client) ResetSales(ctx context.Context) (string, error) {
	return c.doMessage(ctx, http.MethodDelete, "/api/sales/reset", nil)
}

// === Users ===

// GetUsers lists every account
func (c *Client) GetUsers(ctx context.Context) ([]domain.User, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}
	var resp UsersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}
	return MapUsers(resp.Users), nil
}

// RegisterUser creates an account
func (c *Client) RegisterUser(ctx context.Context, u domain.UserInput) (string, error) {
	return c.doMessage(ctx, http.MethodPost, "/api/users/register", u)
}

// UpdateUser edits an account
func (c *Client) UpdateUser(ctx context.Context, id string, u domain.UserInput) (string, error) {
	return c.doMessage(ctx, http.MethodPut, "/api/users/"+escape(id), u)
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, id string) (string, error) {
	return c.doMessage(ctx, http.MethodDelete, "/api/users/"+escape(id), nil)
}

// UpdateProfile changes the signed-in user's own name and password
func (c *Client) UpdateProfile(ctx context.Context, email, name, password string) (string, error) {
	return c.doMessage(ctx, http.MethodPut, "/api/users/update-profile", ProfileRequest{
		Email:    email,
		Name:     name,
		Password: password,
	})
}

// Login exchanges credentials for the session record
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/users/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	user := MapUser(resp.User)
	if user.Email == "" {
		user.Email = email
	}
	return &domain.Session{
		ID:         user.ID,
		Name:       user.Name,
		Role:       user.Role,
		Email:      user.Email,
		LastLogout: user.LastLogout,
	}, nil
}

// Logout records the sign-out time for email
func (c *Client) Logout(ctx context.Context, email string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/api/users/logout", LogoutRequest{Email: email})
	return err
}

// === Activity ===

// GetActivity returns the backend audit trail
func (c *Client) GetActivity(ctx context.Context) ([]domain.ActivityLog, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/activity", nil)
	if err != nil {
		return nil, err
	}
	var resp ActivityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse activity log: %w", err)
	}
	return resp.Logs, nil
}
