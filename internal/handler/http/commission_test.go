package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lojaops/commission-backend-go/internal/domain/commission"
	"github.com/lojaops/commission-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routerTestSecret = "test-secret-key-for-jwt"

// stubCommissionService records the last call so the tests can assert on the
// routing and middleware behavior without touching storage.
type stubCommissionService struct {
	lastGenerate   *commission.GenerateCommissionsRequest
	lastCancel     *commission.CancelCommissionsRequest
	lastClose      *commission.ClosePeriodRequest
	lastAuditLogID *string
}

func (s *stubCommissionService) Generate(_ context.Context, req commission.GenerateCommissionsRequest) ([]commission.CommissionResponse, error) {
	s.lastGenerate = &req
	return []commission.CommissionResponse{}, nil
}

func (s *stubCommissionService) RecalculateForSale(_ context.Context, req commission.GenerateCommissionsRequest) ([]commission.CommissionResponse, error) {
	s.lastGenerate = &req
	return []commission.CommissionResponse{}, nil
}

func (s *stubCommissionService) CancelForSale(_ context.Context, req commission.CancelCommissionsRequest) ([]commission.CommissionResponse, error) {
	s.lastCancel = &req
	return []commission.CommissionResponse{}, nil
}

func (s *stubCommissionService) ClosePeriod(_ context.Context, req commission.ClosePeriodRequest) (commission.ClosePeriodResponse, error) {
	s.lastClose = &req
	return commission.ClosePeriodResponse{PeriodReference: req.PeriodReference}, nil
}

func (s *stubCommissionService) MarkPaid(_ context.Context, req commission.MarkPaidRequest) ([]commission.CommissionResponse, error) {
	return []commission.CommissionResponse{}, nil
}

func (s *stubCommissionService) GetCommission(_ context.Context, id string) (commission.CommissionResponse, error) {
	return commission.CommissionResponse{ID: id}, nil
}

func (s *stubCommissionService) GetCommissions(_ context.Context, filter commission.Filter) (commission.ListCommissionsResponse, error) {
	return commission.ListCommissionsResponse{Data: []commission.CommissionResponse{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stubCommissionService) GetSummary(_ context.Context, _ commission.SummaryFilter) (commission.Summary, error) {
	return commission.Summary{}, nil
}

func (s *stubCommissionService) GetAuditLog(_ context.Context, commissionID *string) ([]commission.AuditLogEntryResponse, error) {
	s.lastAuditLogID = commissionID
	return []commission.AuditLogEntryResponse{}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *stubCommissionService, jwt.Service) {
	t.Helper()
	stub := &stubCommissionService{}
	jwtService := jwt.NewJWTService(routerTestSecret, "1h")
	router := NewRouter(jwtService, NewCommissionHandler(stub), "test", []string{"*"})
	return router, stub, jwtService
}

func authHeader(t *testing.T, jwtService jwt.Service, isAdmin bool) string {
	t.Helper()
	token, _, err := jwtService.GenerateAccessToken("user-1", "Test User", isAdmin)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutesRequireAuthentication(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/commissions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateRouteBindsSaleID(t *testing.T) {
	router, stub, jwtService := newTestRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"seller_id":   "seller-1",
		"sale_date":   "2025-03-15",
		"sale_status": "completed",
		"lines": []map[string]interface{}{
			{"product_id": "p-1", "unit_price": "10", "quantity": 1, "discount_type": "absolute", "discount_value": "0", "net_total": "10"},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/sale-42/commissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, jwtService, false))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.lastGenerate)
	assert.Equal(t, "sale-42", stub.lastGenerate.SaleID)
	assert.Equal(t, "seller-1", stub.lastGenerate.SellerID)
}

func TestCancelRouteBindsSaleID(t *testing.T) {
	router, stub, jwtService := newTestRouter(t)

	body := []byte(`{"reason":"sale voided"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/sale-7/commissions/cancel", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, jwtService, false))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastCancel)
	assert.Equal(t, "sale-7", stub.lastCancel.SaleID)
	assert.Equal(t, "sale voided", stub.lastCancel.Reason)
}

func TestClosePeriodRequiresAdmin(t *testing.T) {
	router, stub, jwtService := newTestRouter(t)

	body := []byte(`{"period_reference":"2025-03"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/commissions/close-period", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, jwtService, false))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, stub.lastClose)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/commissions/close-period", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, jwtService, true))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastClose)
	assert.Equal(t, "2025-03", stub.lastClose.PeriodReference)
}

func TestAuditLogRouteOptionalID(t *testing.T) {
	router, stub, jwtService := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/commissions/audit-log", nil)
	req.Header.Set("Authorization", authHeader(t, jwtService, false))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, stub.lastAuditLogID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/commissions/comm-9/audit-log", nil)
	req.Header.Set("Authorization", authHeader(t, jwtService, false))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastAuditLogID)
	assert.Equal(t, "comm-9", *stub.lastAuditLogID)
}

func TestParseFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/commissions?sale_id=s1&status=pending&period=2025-03&page=2&limit=10", nil)
	filter := parseFilter(req)

	require.NotNil(t, filter.SaleID)
	assert.Equal(t, "s1", *filter.SaleID)
	require.NotNil(t, filter.Status)
	assert.Equal(t, commission.StatusPending, *filter.Status)
	require.NotNil(t, filter.PeriodReference)
	assert.Equal(t, "2025-03", *filter.PeriodReference)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 10, filter.Limit)

	// Unknown status values are ignored rather than erroring.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/commissions?status=bogus", nil)
	filter = parseFilter(req)
	assert.Nil(t, filter.Status)
}
