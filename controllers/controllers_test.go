package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront-admin/models"
	"storefront-admin/repository"
	"storefront-admin/session"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "s3cret-pass"
)

type publishedEvent struct {
	event    models.OrderEvent
	priority uint8
	delay    time.Duration
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishOrderEvent(ctx context.Context, event models.OrderEvent, priority uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{event: event, priority: priority})
	return nil
}

func (p *recordingPublisher) PublishDelayedEvent(ctx context.Context, event models.OrderEvent, delay time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{event: event, delay: delay})
	return nil
}

type testServer struct {
	router    *gin.Engine
	store     *repository.MemoryStore
	publisher *recordingPublisher
	token     string
}

func ptr(v float64) *float64 { return &v }

func seed() repository.Snapshot {
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return repository.Snapshot{
		Products: []models.Product{
			{ID: "p1", Name: "Lamp", Category: "Lighting", Price: 40, Stock: 3, TotalSold: 12, TotalRevenue: 480},
			{ID: "p2", Name: "Desk", Category: "Furniture", Price: 250, MRP: ptr(300), Stock: 1, TotalSold: 4, TotalRevenue: 1000},
			{ID: "p3", Name: "Chair", Category: "Furniture", Price: 90, Stock: 7, TotalSold: 9, TotalRevenue: 810},
		},
		Orders: []models.Order{
			{ID: "o1", Customer: models.Customer{Name: "Asha", Email: "asha@example.com"}, Total: 100, Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPaid, Date: day},
			{ID: "o2", Customer: models.Customer{Name: "Ravi", Email: "ravi@example.com"}, Total: 50, Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusUnpaid, Date: day.AddDate(0, 0, 1)},
		},
		Users: []models.User{
			{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: models.RoleCustomer, Status: models.UserStatusActive},
			{ID: "u2", Name: "Ravi", Email: "ravi@example.com", Role: models.RoleCustomer, Status: models.UserStatusActive},
			{ID: "u3", Name: "Meera", Email: "meera@example.com", Role: models.RoleSupport, Status: models.UserStatusInactive},
		},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	verifier, err := session.NewStaticVerifier(adminEmail, "Admin", string(hash))
	require.NoError(t, err)
	manager, err := session.NewManager(verifier, session.NewMemoryStore(), "test-secret", time.Hour)
	require.NoError(t, err)

	token, _, err := manager.Login(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	srv := &testServer{
		router:    gin.New(),
		store:     repository.NewMemoryStoreFromSnapshot(seed()),
		publisher: &recordingPublisher{},
		token:     token,
	}
	RegisterRoutes(srv.router, RouterDeps{
		Repo:              srv.store,
		Sessions:          manager,
		Publisher:         srv.publisher,
		PaymentCheckDelay: 15 * time.Minute,
		Logger:            logger,
	})
	return srv
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestAuth_RequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_LoginMeLogout(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[struct {
		Token string       `json:"token"`
		Admin models.Admin `json:"admin"`
	}](t, w)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, adminEmail, login.Admin.Email)

	srv.token = login.Token
	w = srv.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleAdmin, decode[models.Admin](t, w).Role)

	w = srv.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboard_Stats(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[models.DashboardStats](t, w)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.InDelta(t, 100, stats.TotalSales, 1e-9)
	assert.Equal(t, 1, stats.PendingOrders)
	require.NotNil(t, stats.TopProduct)
	assert.Equal(t, "Lamp", stats.TopProduct.Name)
	assert.Equal(t, 12, stats.TopProduct.Sold)
}

func TestDashboard_RecentOrders(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/dashboard/recent-orders?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]models.Order](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, "o2", orders[0].ID)

	w = srv.do(t, http.MethodGet, "/api/dashboard/recent-orders?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPerformance_DefaultsToRevenueDescending(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/products/performance", nil)
	require.Equal(t, http.StatusOK, w.Code)

	report := decode[models.PerformanceReport](t, w)
	assert.Equal(t, models.SortView{Key: "totalRevenue", Direction: "desc"}, report.Sort)
	require.Len(t, report.Products, 3)
	assert.Equal(t, "Desk", report.Products[0].Name)
	assert.Equal(t, 1, report.Products[0].Rank)
	assert.Equal(t, 100, report.Products[0].PercentOfTop)
	assert.Equal(t, 17, report.Products[0].DiscountPercent)
	assert.Equal(t, 81, report.Products[1].PercentOfTop)
	require.NotNil(t, report.TopByVolume)
	assert.Equal(t, "Lamp", report.TopByVolume.Name)
	assert.Len(t, report.Chart, 3)
}

func TestPerformance_ToggleFlipsDirection(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/products/performance?toggle=totalRevenue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[models.PerformanceReport](t, w)
	assert.Equal(t, "asc", report.Sort.Direction)
	assert.Equal(t, "Chair", report.Products[1].Name)
	assert.Equal(t, "Lamp", report.Products[0].Name)
	assert.Zero(t, report.Products[0].Rank)

	w = srv.do(t, http.MethodGet, "/api/products/performance?sort=totalRevenue&direction=asc&toggle=stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report = decode[models.PerformanceReport](t, w)
	assert.Equal(t, models.SortView{Key: "stock", Direction: "desc"}, report.Sort)
	assert.Equal(t, "Chair", report.Products[0].Name)
}

func TestPerformance_RejectsUnknownKey(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/products/performance?sort=popularity", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, "/api/products/performance?direction=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProducts_FilterAndSort(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/products?q=furn&sort=price&direction=asc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	views := decode[[]models.ProductView](t, w)
	require.Len(t, views, 2)
	assert.Equal(t, "Chair", views[0].Name)
	assert.Equal(t, "Desk", views[1].Name)
	assert.Equal(t, 17, views[1].DiscountPercent)
}

func TestProducts_DirectionWithoutSortUsesRevenue(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/products?direction=asc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]models.ProductView](t, w)
	require.Len(t, views, 3)
	assert.Equal(t, "Lamp", views[0].Name)
	assert.Equal(t, "Chair", views[1].Name)
	assert.Equal(t, "Desk", views[2].Name)

	w = srv.do(t, http.MethodGet, "/api/products?direction=up", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProducts_ClearMRP(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPut, "/api/products/p2", gin.H{"clearMrp": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[models.Product](t, w).MRP)

	w = srv.do(t, http.MethodGet, "/api/products/p2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[models.ProductView](t, w).DiscountPercent)
}

func TestProducts_CRUD(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/products", gin.H{"name": "Shelf", "price": 75, "stock": 5, "category": "Storage"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Product](t, w)
	assert.NotEmpty(t, created.ID)

	w = srv.do(t, http.MethodPost, "/api/products", gin.H{"price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPut, "/api/products/"+created.ID, gin.H{"stock": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[models.Product](t, w).Stock)

	w = srv.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[[]string](t, w), "Storage")

	w = srv.do(t, http.MethodDelete, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrders_ListFilters(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/orders?status=delivered", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]models.Order](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, "o2", orders[0].ID)

	w = srv.do(t, http.MethodGet, "/api/orders?q=ASHA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders = decode[[]models.Order](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)

	w = srv.do(t, http.MethodGet, "/api/orders?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrders_CreatePublishesEvents(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/orders", gin.H{
		"customer": gin.H{"name": "Kiran", "email": "kiran@example.com"},
		"items": []gin.H{
			{"productId": "p2", "productName": "Desk", "quantity": 5, "price": 250},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	order := decode[models.Order](t, w)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	assert.InDelta(t, 1250, order.Subtotal, 1e-9)
	assert.InDelta(t, 225, order.Tax, 1e-9)
	assert.InDelta(t, 1475, order.Total, 1e-9)

	require.Len(t, srv.publisher.events, 2)
	assert.Equal(t, models.OrderEventCreated, srv.publisher.events[0].event.Type)
	assert.Equal(t, uint8(9), srv.publisher.events[0].priority)
	assert.Equal(t, models.OrderEventPaymentCheck, srv.publisher.events[1].event.Type)
	assert.Equal(t, 15*time.Minute, srv.publisher.events[1].delay)
}

func TestOrders_CreateValidation(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/orders", gin.H{
		"customer": gin.H{"name": "Kiran", "email": "kiran@example.com"},
		"items":    []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/api/orders", gin.H{
		"customer":      gin.H{"name": "Kiran", "email": "kiran@example.com"},
		"items":         []gin.H{{"productId": "p1", "productName": "Lamp", "quantity": 1, "price": 40}},
		"paymentStatus": "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, srv.publisher.events)
}

func TestOrders_UpdateStatus(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPut, "/api/orders/o1/status", gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusCancelled, decode[models.Order](t, w).Status)

	require.Len(t, srv.publisher.events, 1)
	assert.Equal(t, models.OrderEventStatusUpdated, srv.publisher.events[0].event.Type)
	assert.Equal(t, uint8(8), srv.publisher.events[0].priority)

	w = srv.do(t, http.MethodPut, "/api/orders/o1/status", gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPut, "/api/orders/missing/status", gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsers_Pagination(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/users?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[models.UserPage](t, w)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "u3", page.Users[0].ID)
}

func TestUsers_PageBounds(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/users?page=4611686018427387904&limit=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[models.UserPage](t, w)
	assert.Empty(t, page.Users)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Pages)

	w = srv.do(t, http.MethodGet, "/api/users?limit=101", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, "/api/users?limit=9223372036854775807", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsers_UpdateAndDelete(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPut, "/api/users/u1", gin.H{"status": "suspended"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.UserStatusSuspended, decode[models.User](t, w).Status)

	w = srv.do(t, http.MethodPut, "/api/users/u1", gin.H{"role": "overlord"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodDelete, "/api/users/u1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, "/api/users/u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSales_TrendAndSummary(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/sales/trends?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.SalesPoint](t, w), 7)

	w = srv.do(t, http.MethodGet, "/api/sales/summary?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode[models.SalesSummary](t, w).Days)

	w = srv.do(t, http.MethodGet, "/api/sales/trends?days=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, "/api/sales/trends?days=365", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.SalesPoint](t, w), 365)

	w = srv.do(t, http.MethodGet, "/api/sales/trends?days=1000000000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, "/api/sales/summary?days=366", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChart_Limit(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/products/chart?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	points := decode[[]models.ChartPoint](t, w)
	require.Len(t, points, 2)
	assert.Equal(t, "Desk", points[0].Name)
}
