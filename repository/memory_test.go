package repository

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-admin/models"
)

func fixedStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	ids := []string{"id-1", "id-2", "id-3", "id-4"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestMemoryStore_ProductLifecycle(t *testing.T) {
	ctx := context.Background()
	s := fixedStore(t)

	created, err := s.CreateProduct(ctx, models.ProductInput{Name: "Lamp", Price: 40, Stock: 3, Category: "Lighting"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = s.CreateProduct(ctx, models.ProductInput{Name: "Desk", Price: 250, Category: "Furniture"})
	require.NoError(t, err)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Desk", products[0].Name)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Lighting", "Furniture"}, categories)

	stock := 9
	updated, err := s.UpdateProduct(ctx, "id-1", models.ProductPatch{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Stock)
	assert.Equal(t, "Lamp", updated.Name)

	require.NoError(t, s.DeleteProduct(ctx, "id-1"))
	_, err = s.GetProduct(ctx, "id-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, "id-1"), ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	mrp := 300.0
	s := NewMemoryStoreFromSnapshot(Snapshot{
		Products: []models.Product{{ID: "p1", Name: "Desk", Price: 250, MRP: &mrp}},
	})

	p, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	p.Name = "Changed"
	*p.MRP = 1

	again, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Desk", again.Name)
	assert.InDelta(t, 300, *again.MRP, 1e-9)
}

func TestMemoryStore_ClearMRP(t *testing.T) {
	ctx := context.Background()
	mrp := 300.0
	s := NewMemoryStoreFromSnapshot(Snapshot{
		Products: []models.Product{{ID: "p1", Name: "Desk", Price: 250, MRP: &mrp}},
	})

	updated, err := s.UpdateProduct(ctx, "p1", models.ProductPatch{ClearMRP: true})
	require.NoError(t, err)
	assert.Nil(t, updated.MRP)
	assert.InDelta(t, 250, updated.Price, 1e-9)

	newMRP := 400.0
	updated, err = s.UpdateProduct(ctx, "p1", models.ProductPatch{MRP: &newMRP})
	require.NoError(t, err)
	require.NotNil(t, updated.MRP)
	assert.InDelta(t, 400, *updated.MRP, 1e-9)
}

func TestMemoryStore_OrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := fixedStore(t)
	input := models.OrderInput{
		Customer: models.Customer{Name: "Asha", Email: "asha@example.com"},
		Items:    []models.OrderItem{{ProductID: "p1", ProductName: "Lamp", Quantity: 3, Price: 19.99}},
	}

	first, err := s.CreateOrder(ctx, input)
	require.NoError(t, err)
	second, err := s.CreateOrder(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, first.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, first.PaymentStatus)
	assert.InDelta(t, 59.97, first.Subtotal, 1e-9)
	assert.InDelta(t, 70.76, first.Total, 1e-9)

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)

	shipped, err := s.UpdateOrderStatus(ctx, first.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)

	_, err = s.UpdateOrderStatus(ctx, "missing", models.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteOrder(ctx, first.ID))
	_, err = s.GetOrder(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UserPages(t *testing.T) {
	ctx := context.Background()
	users := make([]models.User, 5)
	for i := range users {
		users[i] = models.User{ID: string(rune('a' + i)), Name: "user"}
	}
	s := NewMemoryStoreFromSnapshot(Snapshot{Users: users})

	page, total, err := s.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].ID)

	page, _, err = s.ListUsers(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page)

	page, total, err = s.ListUsers(ctx, 4611686018427387904, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, page)

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestPageBounds(t *testing.T) {
	start, end := pageBounds(0, 0, 50)
	assert.Equal(t, 0, start)
	assert.Equal(t, 20, end)

	start, end = pageBounds(3, 20, 50)
	assert.Equal(t, 40, start)
	assert.Equal(t, 50, end)

	start, end = pageBounds(4611686018427387904, 4, 1)
	assert.Equal(t, 1, start)
	assert.Equal(t, 1, end)

	start, end = pageBounds(math.MaxInt, math.MaxInt, 10)
	assert.Equal(t, 10, start)
	assert.Equal(t, 10, end)

	start, end = pageBounds(1, 5000, 500)
	assert.Equal(t, 0, start)
	assert.Equal(t, MaxPageSize, end)
}

func TestLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"products": [{"id": "p1", "name": "Lamp", "price": 40, "category": "Lighting"}],
		"orders": [{"id": "o1", "total": 10, "status": "pending", "paymentStatus": "paid", "date": "2024-03-01T10:00:00Z"}],
		"users": [{"id": "u1", "name": "Asha", "role": "customer", "status": "active"}]
	}`), 0o600))

	snap, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, snap.Products, 1)
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, models.PaymentStatusPaid, snap.Orders[0].PaymentStatus)

	_, err = LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
