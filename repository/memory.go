package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront-admin/analytics"
	"storefront-admin/models"
)

// MemoryStore keeps records in process memory. Reads return copies so
// callers never share state with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	products   []models.Product
	orders     []models.Order
	users      []models.User
	categories []string
	now        func() time.Time
	newID      func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// NewMemoryStoreFromSnapshot seeds a store with the given records.
func NewMemoryStoreFromSnapshot(snap Snapshot) *MemoryStore {
	s := NewMemoryStore()
	for _, p := range snap.Products {
		s.products = append(s.products, cloneProduct(p))
		s.addCategory(p.Category)
	}
	for _, o := range snap.Orders {
		s.orders = append(s.orders, cloneOrder(o))
	}
	s.users = slices.Clone(snap.Users)
	return s
}

// LoadSnapshot reads a JSON snapshot file.
func LoadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return snap, nil
}

func cloneProduct(p models.Product) models.Product {
	if p.MRP != nil {
		mrp := *p.MRP
		p.MRP = &mrp
	}
	return p
}

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

// addCategory must be called with mu held.
func (s *MemoryStore) addCategory(category string) {
	if category == "" || slices.Contains(s.categories, category) {
		return
	}
	s.categories = append(s.categories, category)
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

func (s *MemoryStore) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p models.Product) bool { return p.ID == id })
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.productIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	p := cloneProduct(s.products[i])
	return &p, nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := cloneProduct(models.Product{
		ID:          s.newID(),
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		Price:       input.Price,
		MRP:         input.MRP,
		Stock:       input.Stock,
		Category:    input.Category,
		CreatedAt:   s.now().UTC(),
	})
	// newest first
	s.products = slices.Insert(s.products, 0, p)
	s.addCategory(p.Category)

	out := cloneProduct(p)
	return &out, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	patch.Apply(&s.products[i])
	s.addCategory(s.products[i].Category)

	out := cloneProduct(s.products[i])
	return &out, nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.categories)
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (s *MemoryStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	return analytics.RecentOrders(out, len(out)), nil
}

func (s *MemoryStore) orderIndex(id string) int {
	return slices.IndexFunc(s.orders, func(o models.Order) bool { return o.ID == id })
}

func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.orderIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	o := cloneOrder(s.orders[i])
	return &o, nil
}

func (s *MemoryStore) CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := newOrder(s.newID(), input, s.now())
	s.orders = append(s.orders, o)

	out := cloneOrder(o)
	return &out, nil
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	s.orders[i].Status = status

	out := cloneOrder(s.orders[i])
	return &out, nil
}

func (s *MemoryStore) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	s.orders = slices.Delete(s.orders, i, i+1)
	return nil
}

func (s *MemoryStore) ListUsers(ctx context.Context, page, limit int) ([]models.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := pageBounds(page, limit, len(s.users))
	out := make([]models.User, 0, end-start)
	out = append(out, s.users[start:end]...)
	return out, len(s.users), nil
}

func (s *MemoryStore) userIndex(id string) int {
	return slices.IndexFunc(s.users, func(u models.User) bool { return u.ID == id })
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.userIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	u := s.users[i]
	return &u, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	patch.Apply(&s.users[i])
	u := s.users[i]
	return &u, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i < 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	s.users = slices.Delete(s.users, i, i+1)
	return nil
}

func (s *MemoryStore) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// newOrder prices a fresh order. Every new order starts pending and, unless
// told otherwise, unpaid.
func newOrder(id string, input models.OrderInput, now time.Time) models.Order {
	subtotal, tax, total := analytics.ComputeTotals(input.Items)
	payment := input.PaymentStatus
	if payment == "" {
		payment = models.PaymentStatusUnpaid
	}
	return models.Order{
		ID:             id,
		Customer:       input.Customer,
		Items:          slices.Clone(input.Items),
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          total,
		Status:         models.OrderStatusPending,
		PaymentStatus:  payment,
		PaymentMethod:  input.PaymentMethod,
		Date:           now.UTC(),
		TrackingNumber: input.TrackingNumber,
	}
}

var _ Repository = (*MemoryStore)(nil)
