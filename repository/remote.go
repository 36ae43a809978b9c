package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-admin/models"
)

// RemoteStore reads and writes through a REST API that speaks the same JSON
// as this service's /api routes.
type RemoteStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewRemoteStore(baseURL, token string, timeout time.Duration) *RemoteStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (s *RemoteStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, apiErr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (s *RemoteStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := s.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *RemoteStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RemoteStore) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	var p models.Product
	if err := s.do(ctx, http.MethodPost, "/api/products", input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RemoteStore) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	var p models.Product
	if err := s.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RemoteStore) DeleteProduct(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

func (s *RemoteStore) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	if err := s.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *RemoteStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *RemoteStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *RemoteStore) CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error) {
	var o models.Order
	if err := s.do(ctx, http.MethodPost, "/api/orders", input, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *RemoteStore) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var o models.Order
	body := map[string]models.OrderStatus{"status": status}
	if err := s.do(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id)+"/status", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *RemoteStore) DeleteOrder(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/orders/"+url.PathEscape(id), nil, nil)
}

func (s *RemoteStore) ListUsers(ctx context.Context, page, limit int) ([]models.User, int, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var result models.UserPage
	if err := s.do(ctx, http.MethodGet, "/api/users?"+query.Encode(), nil, &result); err != nil {
		return nil, 0, err
	}
	if result.Users == nil {
		result.Users = []models.User{}
	}
	return result.Users, result.Total, nil
}

func (s *RemoteStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *RemoteStore) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	var u models.User
	if err := s.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), patch, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *RemoteStore) DeleteUser(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
}

func (s *RemoteStore) CountUsers(ctx context.Context) (int, error) {
	_, total, err := s.ListUsers(ctx, 1, 1)
	return total, err
}

var _ Repository = (*RemoteStore)(nil)
