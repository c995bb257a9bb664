package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tair/catalog-admin/internal/catalog/domain"
)

type txMarker struct{}

// Store is an in-memory catalog database used by tests and local runs without
// PostgreSQL. Transactions are serialized and rolled back from a snapshot.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	brands     map[uint]domain.Brand
	categories map[uint]domain.Category
	products   map[uint]domain.Product
	images     map[uint]domain.ProductImage
	sequences  map[string]uint

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		brands:     make(map[uint]domain.Brand),
		categories: make(map[uint]domain.Category),
		products:   make(map[uint]domain.Product),
		images:     make(map[uint]domain.ProductImage),
		sequences:  make(map[string]uint),
		now:        time.Now,
	}
}

// SetClock replaces the timestamp source
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

type snapshot struct {
	brands     map[uint]domain.Brand
	categories map[uint]domain.Category
	products   map[uint]domain.Product
	images     map[uint]domain.ProductImage
	sequences  map[string]uint
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		brands:     make(map[uint]domain.Brand, len(s.brands)),
		categories: make(map[uint]domain.Category, len(s.categories)),
		products:   make(map[uint]domain.Product, len(s.products)),
		images:     make(map[uint]domain.ProductImage, len(s.images)),
		sequences:  make(map[string]uint, len(s.sequences)),
	}
	for k, v := range s.brands {
		snap.brands[k] = v
	}
	for k, v := range s.categories {
		snap.categories[k] = v
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.images {
		snap.images[k] = v
	}
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.brands = snap.brands
	s.categories = snap.categories
	s.products = snap.products
	s.images = snap.images
	s.sequences = snap.sequences
}

// WithinTransaction runs fn atomically. Nested calls join the outer transaction
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// id allocates the next primary key of table. Callers hold s.mu
func (s *Store) id(table string) uint {
	s.sequences[table]++
	return s.sequences[table]
}

// Brands returns the brand repository view
func (s *Store) Brands() *BrandRepository {
	return &BrandRepository{s: s}
}

// Categories returns the category repository view
func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{s: s}
}

// Products returns the product repository view
func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

// Images returns the image repository view
func (s *Store) Images() *ImageRepository {
	return &ImageRepository{s: s}
}

func copyUint(v *uint) *uint {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
