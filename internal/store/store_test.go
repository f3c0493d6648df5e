package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tb453/shopadmin/internal/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Headset", Category: "Audio", SKU: "AU-1", Stock: 4, Price: 150000, Status: domain.ProductActive},
		{ID: "2", Name: "Kaos", Category: "Pakaian", SKU: "PK-2", Stock: 30, Price: 75000, Status: domain.ProductInactive},
	}
}

func TestMemoryOnlyStore(t *testing.T) {
	s, err := NewShopStore("", "")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.GetProducts()
	assert.False(t, ok)

	require.NoError(t, s.SaveProducts(sampleProducts()))
	got, ok := s.GetProducts()
	require.True(t, ok)
	assert.Equal(t, sampleProducts(), got)

	s.InvalidateProducts()
	_, ok = s.GetProducts()
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	const server = "http://localhost:5000"

	s, err := NewShopStore(dir, server)
	require.NoError(t, err)
	sess := domain.Session{ID: "1", Name: "Admin", Role: domain.RoleAdmin, Email: "admin@toko.id"}
	require.NoError(t, s.SaveSession(sess))
	require.NoError(t, s.SaveSales([]domain.Sale{{ID: "9", Customer: "Budi", Qty: 2, Total: 50000}}))
	require.NoError(t, s.Close())

	s, err = NewShopStore(dir, server+"/")
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.GetSession()
	require.True(t, ok)
	assert.Equal(t, sess, got)

	sales, ok := s.GetSales()
	require.True(t, ok)
	require.Len(t, sales, 1)
	assert.Equal(t, "Budi", sales[0].Customer)
}

func TestClearSession(t *testing.T) {
	s, err := NewShopStore(t.TempDir(), "http://shop")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveSession(domain.Session{ID: "2", Role: domain.RoleKasir}))
	require.NoError(t, s.ClearSession())

	_, ok := s.GetSession()
	assert.False(t, ok)
}

func TestInvalidSessionIgnored(t *testing.T) {
	s, err := NewShopStore("", "")
	require.NoError(t, err)

	require.NoError(t, s.SaveSession(domain.Session{ID: "3", Role: "manager"}))
	_, ok := s.GetSession()
	assert.False(t, ok)
}

func TestInvalidateAllKeepsSession(t *testing.T) {
	s, err := NewShopStore(t.TempDir(), "http://shop")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveSession(domain.Session{ID: "1", Role: domain.RoleGudang}))
	require.NoError(t, s.SaveProducts(sampleProducts()))
	require.NoError(t, s.SaveSales([]domain.Sale{{ID: "1"}}))

	s.InvalidateAll()

	_, ok := s.GetProducts()
	assert.False(t, ok)
	_, ok = s.GetSales()
	assert.False(t, ok)
	_, ok = s.GetSession()
	assert.True(t, ok)
}

func TestServerURLIsolation(t *testing.T) {
	assert.Equal(t, hashServerURL("http://Shop.local/"), hashServerURL("http://shop.local"))
	assert.NotEqual(t, hashServerURL("http://a"), hashServerURL("http://b"))
}
