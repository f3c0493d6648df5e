package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tb453/shopadmin/internal/domain"
)

type staticIdentity struct {
	session domain.Session
	ok      bool
}

func (s staticIdentity) Identity() (domain.Session, bool) { return s.session, s.ok }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, r chi.Router, identity domain.IdentityProvider) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 5*time.Second, identity, nil)
	c.retryDelay = time.Millisecond
	return c
}

func TestGetProductsDecodesMixedTypes(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/products", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[
			{"id":1,"name":"Headset","category":"Audio","sku":"AU-1","stock":"12","price":"150000.00","status":"active"},
			{"id":"2","name":"Kabel","category":"Aksesoris","sku":"AK-2","stock":3,"price":25000}
		]}`))
	})
	c := newTestClient(t, r, nil)

	products, err := c.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "1", products[0].ID)
	assert.Equal(t, 12, products[0].Stock)
	assert.Equal(t, int64(150000), products[0].Price)
	assert.Equal(t, "2", products[1].ID)
	assert.Equal(t, domain.ProductActive, products[1].Status)
}

func TestIdentityHeaders(t *testing.T) {
	var got http.Header
	r := chi.NewRouter()
	r.Get("/api/sales", func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Clone()
		writeJSON(w, http.StatusOK, SalesResponse{})
	})
	c := newTestClient(t, r, staticIdentity{
		session: domain.Session{ID: "7", Email: "ani@toko.id", Role: domain.RoleKasir},
		ok:      true,
	})

	_, err := c.GetSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7", got.Get(HeaderUserID))
	assert.Equal(t, "ani@toko.id", got.Get(HeaderUserEmail))
	assert.Equal(t, "kasir", got.Get(HeaderUserRole))
}

func TestNoIdentityHeadersWithoutSession(t *testing.T) {
	var got http.Header
	r := chi.NewRouter()
	r.Get("/api/activity", func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Clone()
		writeJSON(w, http.StatusOK, ActivityResponse{Logs: []domain.ActivityLog{{User: "admin", Action: "login"}}})
	})
	c := newTestClient(t, r, staticIdentity{})

	logs, err := c.GetActivity(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Empty(t, got.Get(HeaderUserID))
}

func TestDeleteProductReturnsMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/api/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Produk " + chi.URLParam(req, "id") + " berhasil dihapus"})
	})
	c := newTestClient(t, r, nil)

	msg, err := c.DeleteProduct(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Produk 42 berhasil dihapus", msg)
}

func TestErrorMessagePassedThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/api/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Produk tidak ditemukan"})
	})
	c := newTestClient(t, r, nil)

	_, err := c.DeleteProduct(context.Background(), "9")
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Produk tidak ditemukan", apiErr.Message)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRetriesIdempotentOnServerError(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/api/products", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusBadGateway, MessageResponse{Message: "upstream"})
			return
		}
		writeJSON(w, http.StatusOK, ProductsResponse{})
	})
	c := newTestClient(t, r, nil)

	_, err := c.GetProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/api/users", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "db down"})
	})
	c := newTestClient(t, r, nil)

	_, err := c.GetUsers(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(maxRetries+1), calls.Load())

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "db down", apiErr.Message)
}

func TestCreateSaleNotRetried(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Post("/api/sales", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Gagal menyimpan"})
	})
	c := newTestClient(t, r, nil)

	_, err := c.CreateSale(context.Background(), domain.SaleInput{Customer: "Budi"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil, nil)
	_, err := c.GetProducts(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestCancelledRequestIsNotOffline(t *testing.T) {
	started := make(chan struct{})
	r := chi.NewRouter()
	r.Delete("/api/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		close(started)
		<-req.Context().Done()
	})
	c := newTestClient(t, r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.DeleteProduct(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrServerOffline)
}

func TestLogin(t *testing.T) {
	var body LoginRequest
	r := chi.NewRouter()
	r.Post("/api/users/login", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok","user":{"id":3,"name":"Sari","email":"sari@toko.id","role":"Gudang","last_logout":"2026-10-01T08:00:00.000Z"}}`))
	})
	c := newTestClient(t, r, nil)

	s, err := c.Login(context.Background(), "sari@toko.id", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "sari@toko.id", body.Email)
	assert.Equal(t, "rahasia", body.Password)
	assert.Equal(t, "3", s.ID)
	assert.Equal(t, domain.RoleGudang, s.Role)
	assert.Equal(t, "2026-10-01T08:00:00.000Z", s.LastLogout)
}

func TestLoginUnauthorized(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/users/login", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Email atau password salah"})
	})
	c := newTestClient(t, r, nil)

	_, err := c.Login(context.Background(), "x@y.z", "bad")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Email atau password salah", domain.UserMessage(err, "Login failed"))
}

func TestUpdateProductSendsBody(t *testing.T) {
	var got domain.ProductInput
	r := chi.NewRouter()
	r.Put("/api/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&got)
		writeJSON(w, http.StatusOK, MessageResponse{Message: "updated"})
	})
	c := newTestClient(t, r, nil)

	in := domain.ProductInput{Name: "Mouse", Category: "Aksesoris", SKU: "AK-9", Stock: 5, Price: 90000, Status: domain.ProductActive}
	msg, err := c.UpdateProduct(context.Background(), "5", in)
	require.NoError(t, err)
	assert.Equal(t, "updated", msg)
	assert.Equal(t, in, got)
}

func TestResetSales(t *testing.T) {
	var role string
	r := chi.NewRouter()
	r.Delete("/api/sales/reset", func(w http.ResponseWriter, req *http.Request) {
		role = req.Header.Get(HeaderUserRole)
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Semua data penjualan berhasil dihapus"})
	})
	c := newTestClient(t, r, staticIdentity{
		session: domain.Session{ID: "1", Email: "admin@toko.id", Role: domain.RoleAdmin},
		ok:      true,
	})

	msg, err := c.ResetSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Semua data penjualan berhasil dihapus", msg)
	assert.Equal(t, "admin", role)
}

func TestResetSalesRejected(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/api/sales/reset", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusForbidden, MessageResponse{Message: "Akses ditolak"})
	})
	c := newTestClient(t, r, nil)

	_, err := c.ResetSales(context.Background())
	assert.Equal(t, "Akses ditolak", domain.UserMessage(err, "reset failed"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
