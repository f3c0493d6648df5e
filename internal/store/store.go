package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tb453/shopadmin/internal/domain"
)

// Bucket names
var (
	bucketSession  = []byte("session")
	bucketProducts = []byte("products")
	bucketSales    = []byte("sales")

	allBuckets = [][]byte{bucketSession, bucketProducts, bucketSales}
)

const listKey = "list"

// ShopStore implements domain.Store using BoltDB.
type ShopStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.Store = (*ShopStore)(nil)

// NewShopStore opens the cache database under baseCacheDir, in a
// subdirectory keyed by the backend URL so two shops never share state.
// An empty baseCacheDir keeps everything in memory.
func NewShopStore(baseCacheDir, serverURL string) (*ShopStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &ShopStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "shopadmin.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ShopStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *ShopStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *ShopStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *ShopStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *ShopStore) delete(bucket []byte, key string) error {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// === Session ===

// GetSession returns the persisted sign-in record
func (s *ShopStore) GetSession() (domain.Session, bool) {
	var sess domain.Session
	if !s.get(bucketSession, "current", &sess) {
		return domain.Session{}, false
	}
	if sess.ID == "" || !sess.Role.Valid() {
		return domain.Session{}, false
	}
	return sess, true
}

func (s *ShopStore) SaveSession(sess domain.Session) error {
	return s.set(bucketSession, "current", sess)
}

func (s *ShopStore) ClearSession() error {
	return s.delete(bucketSession, "current")
}

// === Products ===

func (s *ShopStore) GetProducts() ([]domain.Product, bool) {
	var products []domain.Product
	ok := s.get(bucketProducts, listKey, &products)
	return products, ok
}

func (s *ShopStore) SaveProducts(products []domain.Product) error {
	return s.set(bucketProducts, listKey, products)
}

// === Sales ===

func (s *ShopStore) GetSales() ([]domain.Sale, bool) {
	var sales []domain.Sale
	ok := s.get(bucketSales, listKey, &sales)
	return sales, ok
}

func (s *ShopStore) SaveSales(sales []domain.Sale) error {
	return s.set(bucketSales, listKey, sales)
}

// === Invalidation ===

func (s *ShopStore) InvalidateProducts() {
	s.delete(bucketProducts, listKey)
}

func (s *ShopStore) InvalidateSales() {
	s.delete(bucketSales, listKey)
}

// InvalidateAll drops cached lists. The session survives; use
// ClearSession to sign out.
func (s *ShopStore) InvalidateAll() {
	s.mu.Lock()
	for k := range s.cache {
		if !strings.HasPrefix(k, string(bucketSession)+":") {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketProducts, bucketSales} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
