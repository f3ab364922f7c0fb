package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"smartcart/internal/db"
	"smartcart/internal/middleware"
	"smartcart/internal/models"
	"smartcart/internal/repo"
	"smartcart/internal/service"
	"smartcart/internal/transport"
)

var testSecret = []byte("test-secret")

type testServer struct {
	e    *echo.Echo
	repo *repo.GormRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	store := &repo.GormRepo{DB: gdb}

	e := echo.New()
	Register(e, &Deps{
		Auth:    &middleware.Auth{JWTSecret: testSecret},
		AuthH:   &AuthHTTP{Svc: &service.AuthService{Repo: store, JWTSecret: testSecret}},
		Product: &ProductHTTP{Svc: &service.CatalogService{Repo: store}},
		Cart:    &CartHTTP{Svc: &service.CartService{Repo: store}},
		Order:   &OrderHTTP{Svc: &service.OrderService{Repo: store}},
		Admin:   &AdminHTTP{Svc: &service.AdminService{Repo: store}},
	})

	return &testServer{e: e, repo: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email, password string) transport.AuthResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func (s *testServer) promote(t *testing.T, userID uint, role models.Role) {
	t.Helper()
	require.NoError(t, s.repo.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", role).Error)
}

func TestRegisterAndLoginFlow(t *testing.T) {
	s := newTestServer(t)

	resp := s.register(t, "alice@example.com", "s3cret")
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, models.RoleCustomer, resp.User.Role)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "s3cret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogRoutes_RoleGate(t *testing.T) {
	s := newTestServer(t)

	customer := s.register(t, "customer@example.com", "pw")
	manager := s.register(t, "manager@example.com", "pw")
	s.promote(t, manager.User.ID, models.RoleManager)

	// Promotion takes effect on the next issued token.
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "manager@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var managerResp transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &managerResp))

	body := map[string]any{"name": "widget", "price": 9.99, "stock": 3}

	rec = s.do(t, http.MethodPost, "/api/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/products", customer.Token, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Nothing was written by the rejected attempts.
	var n int64
	require.NoError(t, s.repo.DB.Model(&models.Product{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	rec = s.do(t, http.MethodPost, "/api/products", managerResp.Token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var prod models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	assert.NotZero(t, prod.ID)

	// Reads stay public.
	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", prod.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", prod.ID), managerResp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", prod.ID), managerResp.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAndOrderFlow(t *testing.T) {
	s := newTestServer(t)

	buyer := s.register(t, "buyer@example.com", "pw")

	prod := models.Product{Name: "widget", Price: 10.00, Stock: 5}
	require.NoError(t, s.repo.DB.Create(&prod).Error)

	rec := s.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/cart", buyer.Token, map[string]any{
		"product_id": prod.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/cart", buyer.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart []transport.CartItemView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, "widget", cart[0].Name)

	rec = s.do(t, http.MethodPost, "/api/orders", buyer.Token, map[string]any{
		"items": []map[string]any{{"product_id": prod.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, 20.00, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), buyer.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Another user cannot see the order.
	other := s.register(t, "other@example.com", "pw")
	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), other.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/orders", buyer.Token, map[string]any{
		"items": []map[string]any{{"product_id": 9999, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/cart", buyer.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)

	admin := s.register(t, "admin@example.com", "pw")
	s.promote(t, admin.User.ID, models.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var adminResp transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &adminResp))

	target := s.register(t, "target@example.com", "pw")

	rec = s.do(t, http.MethodGet, "/api/admin/users", target.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/users", adminResp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []transport.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/role", target.User.ID), adminResp.Token,
		map[string]string{"role": "manager"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/role", target.User.ID), adminResp.Token,
		map[string]string{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/admin/users/9999/role", adminResp.Token,
		map[string]string{"role": "manager"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/statistics", adminResp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats transport.OrderStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 0, stats.TotalOrders)
}

func TestSearchRoute_UnavailableWithoutIndex(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/products/search?q=widget", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
