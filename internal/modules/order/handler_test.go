package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironxpress/admin-backend/internal/modules/auth"
	"github.com/ironxpress/admin-backend/internal/modules/order"
)

type mockService struct {
	listFunc   func(ctx context.Context, f order.Filter) ([]*order.Order, error)
	statsFunc  func(ctx context.Context) (order.DashboardStats, error)
	recentFunc func(ctx context.Context, n int) ([]*order.Order, error)
	updateFunc func(ctx context.Context, orderID string, requested order.Stage) (*order.Order, error)
}

func (m *mockService) ListOrders(ctx context.Context, f order.Filter) ([]*order.Order, error) {
	return m.listFunc(ctx, f)
}

func (m *mockService) GetStats(ctx context.Context) (order.DashboardStats, error) {
	return m.statsFunc(ctx)
}

func (m *mockService) RecentOrders(ctx context.Context, n int) ([]*order.Order, error) {
	return m.recentFunc(ctx, n)
}

func (m *mockService) UpdateStatus(ctx context.Context, orderID string, requested order.Stage) (*order.Order, error) {
	return m.updateFunc(ctx, orderID, requested)
}

func (m *mockService) InvalidateStats() {}

type authFunc func(ctx context.Context, token string) (*auth.Principal, error)

func (f authFunc) Authorize(ctx context.Context, token string) (*auth.Principal, error) {
	return f(ctx, token)
}

func adminAuthorizer() auth.Authorizer {
	return authFunc(func(ctx context.Context, token string) (*auth.Principal, error) {
		return &auth.Principal{UserID: uuid.New(), IsAdmin: true}, nil
	})
}

func newTestRouter(svc order.Service, a auth.Authorizer) http.Handler {
	r := chi.NewRouter()
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(a))
		order.NewHandler(svc, time.Second).RegisterRoutes(r)
	})
	return r
}

func TestHandler_ListOrders_NoCredential(t *testing.T) {
	serviceCalled := false
	svc := &mockService{listFunc: func(ctx context.Context, f order.Filter) ([]*order.Order, error) {
		serviceCalled = true
		return nil, nil
	}}
	router := newTestRouter(svc, adminAuthorizer())

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, serviceCalled, "no order data may be read without a credential")
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestHandler_UpdateStatus_NonAdminForbidden(t *testing.T) {
	updateCalled := false
	svc := &mockService{updateFunc: func(ctx context.Context, orderID string, requested order.Stage) (*order.Order, error) {
		updateCalled = true
		return nil, nil
	}}
	nonAdmin := authFunc(func(ctx context.Context, token string) (*auth.Principal, error) {
		return &auth.Principal{UserID: uuid.New(), IsAdmin: false}, nil
	})
	router := newTestRouter(svc, nonAdmin)

	req := httptest.NewRequest(http.MethodPatch, "/admin/orders",
		strings.NewReader(`{"orderId":"`+uuid.NewString()+`","status":"accepted"}`))
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, updateCalled, "forbidden caller must leave the order unmodified")
}

func TestHandler_ListOrders(t *testing.T) {
	svc := &mockService{listFunc: func(ctx context.Context, f order.Filter) ([]*order.Order, error) {
		assert.Equal(t, "pending", f.Status)
		assert.Equal(t, 10, f.Limit)
		return []*order.Order{
			{ID: uuid.New(), OrderStatus: "pending", FullName: "Alice Kumar"},
			{ID: uuid.New(), OrderStatus: "confirmed", FullName: "Unknown Customer"},
		}, nil
	}}
	router := newTestRouter(svc, adminAuthorizer())

	req := httptest.NewRequest(http.MethodGet, "/admin/orders?status=pending&limit=10", nil)
	req.Header.Set("Authorization", "Bearer admintoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Orders []map[string]interface{} `json:"orders"`
		Count  int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Orders, 2)
}

func TestHandler_ListOrders_RejectsBadQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{"misspelled_status", "status=completd", "unknown status: completd"},
		{"unknown_status", "status=exploded", "unknown status: exploded"},
		{"bad_limit", "limit=ten", "invalid limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceCalled := false
			svc := &mockService{listFunc: func(ctx context.Context, f order.Filter) ([]*order.Order, error) {
				serviceCalled = true
				return nil, nil
			}}
			router := newTestRouter(svc, adminAuthorizer())

			req := httptest.NewRequest(http.MethodGet, "/admin/orders?"+tt.query, nil)
			req.Header.Set("Authorization", "Bearer admintoken")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body["error"])
			assert.False(t, serviceCalled, "a rejected query must not reach the service")
		})
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	okOrder := &order.Order{ID: uuid.New(), OrderStatus: "accepted"}

	tests := []struct {
		name         string
		body         string
		updateFunc   func(ctx context.Context, orderID string, requested order.Stage) (*order.Order, error)
		expectedCode int
	}{
		{
			name: "success",
			body: `{"orderId":"` + okOrder.ID.String() + `","status":"accepted"}`,
			updateFunc: func(ctx context.Context, orderID string, requested order.Stage) (*order.Order, error) {
				assert.Equal(t, order.StageAccepted, requested)
				return okOrder, nil
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "missing_fields",
			body:         `{"orderId":"","status":""}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown_status",
			body:         `{"orderId":"` + okOrder.ID.String() + `","status":"exploded"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "illegal_transition",
			body: `{"orderId":"` + okOrder.ID.String() + `","status":"rejected"}`,
			updateFunc: func(ctx context.Context, orderID string, requested order.Stage) (*order.Order, error) {
				return nil, order.ErrIllegalTransition
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "unknown_order",
			body: `{"orderId":"` + uuid.NewString() + `","status":"accepted"}`,
			updateFunc: func(ctx context.Context, orderID string, requested order.Stage) (*order.Order, error) {
				return nil, order.ErrOrderNotFound
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "invalid_json",
			body:         `{not json}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{updateFunc: tt.updateFunc}
			router := newTestRouter(svc, adminAuthorizer())

			req := httptest.NewRequest(http.MethodPatch, "/admin/orders", strings.NewReader(tt.body))
			req.Header.Set("Authorization", "Bearer admintoken")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode == http.StatusOK {
				var body struct {
					Success bool                   `json:"success"`
					Data    map[string]interface{} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.True(t, body.Success)
				assert.Equal(t, okOrder.ID.String(), body.Data["id"])
			}
		})
	}
}

func TestHandler_Dashboard(t *testing.T) {
	svc := &mockService{
		statsFunc: func(ctx context.Context) (order.DashboardStats, error) {
			return order.DashboardStats{TotalOrders: 7, PendingOrders: 3, TotalRevenue: amount("1200")}, nil
		},
		recentFunc: func(ctx context.Context, n int) ([]*order.Order, error) {
			assert.Equal(t, 5, n)
			return []*order.Order{{ID: uuid.New(), OrderStatus: "pending"}}, nil
		},
	}
	router := newTestRouter(svc, adminAuthorizer())

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer admintoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Stats        map[string]interface{}   `json:"stats"`
		RecentOrders []map[string]interface{} `json:"recentOrders"`
		Success      bool                     `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.EqualValues(t, 7, body.Stats["totalOrders"])
	assert.EqualValues(t, 3, body.Stats["pendingOrders"])
	assert.Len(t, body.RecentOrders, 1)
}
