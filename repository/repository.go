package repository

import (
	"context"
	"errors"

	"storefront-admin/models"
)

var ErrNotFound = errors.New("not found")

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
}

type OrderRepository interface {
	// ListOrders returns orders newest first.
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type UserRepository interface {
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
}

// Repository is the data source behind the dashboard. Implementations are
// interchangeable: the analytics code never knows which one it reads.
type Repository interface {
	ProductRepository
	OrderRepository
	UserRepository
}

const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
	DriverRemote = "remote"
)

// Snapshot is the JSON document used to seed the in-memory store.
type Snapshot struct {
	Products []models.Product `json:"products"`
	Orders   []models.Order   `json:"orders"`
	Users    []models.User    `json:"users"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// pageBounds returns the slice bounds of a page. Pages past the end are
// empty; the offset is never computed for them, so huge page numbers
// cannot overflow.
func pageBounds(page, limit, total int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	if page-1 > total/limit {
		return total, total
	}
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return start, end
}
