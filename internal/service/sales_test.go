package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tb453/shopadmin/internal/domain"
)

func TestComputeSalesStats(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.Local)

	t.Run("trend vs yesterday", func(t *testing.T) {
		sales := []domain.Sale{
			{Date: "2026-10-18", Total: 150000},
			{Date: "2026-10-18", Total: 50000},
			{Date: "2026-10-17", Total: 160000},
			{Date: "2026-10-10", Total: 40000},
		}
		stats := ComputeSalesStats(sales, now)
		assert.Equal(t, int64(400000), stats.TotalValue)
		assert.Equal(t, 2, stats.TodayCount)
		assert.Equal(t, int64(100000), stats.Average)
		assert.Equal(t, 25.0, stats.TrendPercent)
	})

	t.Run("negative trend rounds to one decimal", func(t *testing.T) {
		sales := []domain.Sale{
			{Date: "2026-10-18", Total: 100000},
			{Date: "2026-10-17", Total: 300000},
		}
		assert.Equal(t, -66.7, ComputeSalesStats(sales, now).TrendPercent)
	})

	t.Run("no sales yesterday", func(t *testing.T) {
		sales := []domain.Sale{{Date: "2026-10-18", Total: 100000}}
		assert.Zero(t, ComputeSalesStats(sales, now).TrendPercent)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, SalesStats{}, ComputeSalesStats(nil, now))
	})
}

func TestCreateSale(t *testing.T) {
	backend := &fakeBackend{products: catalogue()}
	st := newMemStore(t)
	products := NewProductService(backend, st, nil)
	_, err := products.FetchProducts(context.Background())
	require.NoError(t, err)
	sales := NewSalesService(backend, products, st, nil)

	t.Run("stock exceeded", func(t *testing.T) {
		_, err := sales.CreateSale(context.Background(), domain.SaleForm{Customer: "Budi", ProductID: "2", Qty: "9"})
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "Not enough stock. Only 8 units available.", valErr.Message)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := sales.CreateSale(context.Background(), domain.SaleForm{Customer: "Budi", ProductID: "99", Qty: "1"})
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
	})

	t.Run("recorded", func(t *testing.T) {
		msg, err := sales.CreateSale(context.Background(), domain.SaleForm{Customer: "Budi", ProductID: "2", Qty: "2"})
		require.NoError(t, err)
		assert.Equal(t, "Transaksi berhasil", msg)
		require.Len(t, backend.createdSales, 1)
		in := backend.createdSales[0]
		assert.Equal(t, int64(700000), in.Total)
		assert.Equal(t, "Bluetooth Speaker", in.Items)
		assert.Equal(t, domain.SaleCompleted, in.Status)
		assert.NotEmpty(t, in.Date)
	})
}

func TestLoadInitial(t *testing.T) {
	backend := &fakeBackend{
		products: catalogue(),
		sales:    []domain.Sale{{ID: "1", Total: 1000}},
	}
	st := newMemStore(t)
	products := NewProductService(backend, st, nil)
	sales := NewSalesService(backend, products, st, nil)

	data, err := LoadInitial(context.Background(), products, sales)
	require.NoError(t, err)
	assert.Len(t, data.Products, 4)
	assert.Len(t, data.Sales, 1)

	cached, ok := sales.Cached()
	require.True(t, ok)
	assert.Len(t, cached, 1)
}

func TestLoadInitialFailsOnAnyError(t *testing.T) {
	backend := &fakeBackend{products: catalogue(), salesErr: domain.ErrServerOffline}
	st := newMemStore(t)
	products := NewProductService(backend, st, nil)
	sales := NewSalesService(backend, products, st, nil)

	_, err := LoadInitial(context.Background(), products, sales)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestResetSales(t *testing.T) {
	t.Run("clears cached sales", func(t *testing.T) {
		backend := &fakeBackend{sales: []domain.Sale{{ID: "s1", Date: "2026-10-18", Total: 100000}}}
		st := newMemStore(t)
		sales := NewSalesService(backend, nil, st, nil)
		_, err := sales.FetchSales(context.Background())
		require.NoError(t, err)
		_, ok := sales.Cached()
		require.True(t, ok)

		msg, err := sales.Reset(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "All sales data deleted", msg)
		assert.Equal(t, 1, backend.resets)

		cached, ok := sales.Cached()
		assert.False(t, ok)
		assert.Empty(t, cached)
	})

	t.Run("failure keeps sales", func(t *testing.T) {
		backend := &fakeBackend{
			sales:    []domain.Sale{{ID: "s1", Date: "2026-10-18", Total: 100000}},
			resetErr: &domain.APIError{Status: 403, Message: "Akses ditolak"},
		}
		sales := NewSalesService(backend, nil, newMemStore(t), nil)
		_, err := sales.FetchSales(context.Background())
		require.NoError(t, err)

		_, err = sales.Reset(context.Background())
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		cached, ok := sales.Cached()
		assert.True(t, ok)
		assert.Len(t, cached, 1)
	})
}
