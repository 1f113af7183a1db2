package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/handlers"
	"github.com/ammerola/warehouse-be/test/helpers"
	"github.com/ammerola/warehouse-be/test/mocks"
)

// serve mounts routes on a fresh mux and runs one request through it
func serve(t *testing.T, routes *handlers.Routes, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	mux := http.NewServeMux()
	routes.Register(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want int
	}{
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindCapacityExceeded, http.StatusBadRequest},
		{domain.KindDuplicateSKU, http.StatusBadRequest},
		{domain.KindInvalidAmount, http.StatusBadRequest},
		{domain.KindItemNotInSource, http.StatusBadRequest},
		{domain.KindInsufficientQuantity, http.StatusBadRequest},
		{domain.KindValidation, http.StatusBadRequest},
		{domain.KindDuplicateWarehouse, http.StatusConflict},
		{domain.KindWarehouseNotEmpty, http.StatusConflict},
		{domain.KindInvariantViolation, http.StatusInternalServerError},
		{domain.ErrorKind("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, handlers.StatusForKind(tt.kind))
		})
	}
}

func TestAuditHandler_CapacityAudit(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mocks.MockCapacityAuditor)
		expectedStatus int
		expectHealthy  bool
	}{
		{
			name: "healthy_report",
			setupMock: func(m *mocks.MockCapacityAuditor) {
				m.EXPECT().Audit(gomock.Any()).Return(&domain.AuditReport{
					CheckedAt:  time.Now(),
					Warehouses: 2,
					Drifts:     []domain.CapacityDrift{},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectHealthy:  true,
		},
		{
			name: "drift_reported",
			setupMock: func(m *mocks.MockCapacityAuditor) {
				m.EXPECT().Audit(gomock.Any()).Return(&domain.AuditReport{
					CheckedAt:  time.Now(),
					Warehouses: 1,
					Drifts:     []domain.CapacityDrift{{Name: "North", Recorded: 10, Actual: 7}},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectHealthy:  false,
		},
		{
			name: "store_failure",
			setupMock: func(m *mocks.MockCapacityAuditor) {
				m.EXPECT().Audit(gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auditor := mocks.NewMockCapacityAuditor(ctrl)
			tt.setupMock(auditor)

			routes := &handlers.Routes{Audit: handlers.NewAuditHandler(auditor, helpers.TestLogger())}
			w := serve(t, routes, http.MethodGet, "/api/v1/admin/capacity-audit", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, "internal_error", decodeError(t, w).Code)
				return
			}

			var body struct {
				Healthy bool               `json:"healthy"`
				Report  domain.AuditReport `json:"report"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectHealthy, body.Healthy)
		})
	}
}
