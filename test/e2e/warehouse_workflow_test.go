//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ammerola/warehouse-be/internal/app"
	"github.com/ammerola/warehouse-be/internal/handlers"
	"github.com/ammerola/warehouse-be/internal/handlers/middleware"
	"github.com/ammerola/warehouse-be/test/helpers"

	redis_a "github.com/ammerola/warehouse-be/internal/adapters/redis_adapter"
)

type WarehouseE2ESuite struct {
	suite.Suite
	server  *httptest.Server
	client  *http.Client
	baseURL string
	deps    *app.Dependencies
}

func (s *WarehouseE2ESuite) SetupSuite() {
	testDB := helpers.SetupTestDB(s.T())
	testRedis := helpers.SetupTestRedis(s.T())

	cfg := helpers.LoadTestConfig()
	cfg.Database.Host = testDB.Config.Host
	cfg.Database.Port = testDB.Config.Port
	cfg.Database.User = testDB.Config.User
	cfg.Database.Password = testDB.Config.Password
	cfg.Database.Name = testDB.Config.Database
	cfg.Redis.Host = testRedis.Server.Host()
	cfg.Redis.Port = testRedis.Server.Port()
	cfg.AWS.LocalStorageDir = s.T().TempDir()

	logger := helpers.TestLogger()
	deps, err := app.Build(context.Background(), cfg, 5, logger)
	s.Require().NoError(err)
	s.deps = deps

	routes := &handlers.Routes{
		Health:    handlers.NewHealthHandler(deps.Database, deps.Redis, nil, cfg.App.Version, cfg.App.Environment, logger),
		Warehouse: handlers.NewWarehouseHandler(deps.Warehouses, deps.Inventory, logger),
		Inventory: handlers.NewInventoryHandler(deps.Inventory, logger),
		Transfer:  handlers.NewTransferHandler(deps.Transfers, redis_a.NewIdempotencyStore(deps.Cache, cfg.Redis.IdempotencyTTL), logger),
		Dashboard: handlers.NewDashboardHandler(deps.Warehouses, deps.Cache, cfg.Redis.DashboardTTL, logger),
		Export:    handlers.NewExportHandler(deps.Warehouses, deps.Inventory, deps.Storage, logger),
		Audit:     handlers.NewAuditHandler(deps.Auditor, logger),
	}
	mux := http.NewServeMux()
	routes.Register(mux)

	s.server = httptest.NewServer(middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
	))
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + handlers.APIPrefix
}

func (s *WarehouseE2ESuite) TearDownSuite() {
	s.server.Close()
	s.deps.Close()
}

func (s *WarehouseE2ESuite) TestCapacityWorkflow() {
	// 1. Two warehouses
	var seattle, reno map[string]interface{}
	resp := s.do(http.MethodPost, "/warehouses", map[string]interface{}{
		"name": "Seattle", "location": "Seattle, WA", "maxCapacity": 20,
	}, nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decode(resp, &seattle)

	resp = s.do(http.MethodPost, "/warehouses", map[string]interface{}{
		"name": "Reno", "location": "Reno, NV", "maxCapacity": 10,
	}, nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decode(resp, &reno)

	seattleID := seattle["id"].(string)
	renoID := reno["id"].(string)

	// 2. An item with an allocated SKU
	var crate map[string]interface{}
	resp = s.do(http.MethodPost, "/inventory", map[string]interface{}{
		"name": "Crate", "quantity": 12, "warehouseId": seattleID,
	}, nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decode(resp, &crate)
	s.Equal("S-0001", crate["sku"])
	crateID := crate["id"].(string)

	// 3. Over capacity is rejected
	resp = s.do(http.MethodPost, "/inventory", map[string]interface{}{
		"name": "Barrel", "quantity": 9, "warehouseId": seattleID,
	}, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("capacity_exceeded", s.errorCode(resp))

	// 4. Idempotent bulk transfer
	transfer := map[string]interface{}{
		"sourceWarehouseId":      seattleID,
		"destinationWarehouseId": renoID,
		"items":                  []map[string]interface{}{{"itemId": crateID, "quantity": 5}},
	}
	key := map[string]string{handlers.IdempotencyKeyHeader: "e2e-transfer-1"}

	var receipt map[string]interface{}
	resp = s.do(http.MethodPost, "/inventory/bulk-transfer", transfer, key)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &receipt)
	s.Equal(float64(5), receipt["totalUnits"])

	var replay map[string]interface{}
	resp = s.do(http.MethodPost, "/inventory/bulk-transfer", transfer, key)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("true", resp.Header.Get("Idempotent-Replayed"))
	s.decode(resp, &replay)
	s.Equal(receipt, replay)

	transfer["items"] = []map[string]interface{}{{"itemId": crateID, "quantity": 1}}
	resp = s.do(http.MethodPost, "/inventory/bulk-transfer", transfer, key)
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// 5. Loads reflect exactly one transfer
	s.Equal(float64(7), s.warehouse(seattleID)["currentCapacity"])
	s.Equal(float64(5), s.warehouse(renoID)["currentCapacity"])

	var dashboard struct {
		Summary struct {
			UsedCapacity  int64 `json:"usedCapacity"`
			TotalCapacity int64 `json:"totalCapacity"`
		} `json:"summary"`
	}
	resp = s.do(http.MethodGet, "/dashboard", nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &dashboard)
	s.Equal(int64(12), dashboard.Summary.UsedCapacity)
	s.Equal(int64(30), dashboard.Summary.TotalCapacity)

	// 6. Guards on warehouse changes
	resp = s.do(http.MethodPut, "/warehouses/"+seattleID, map[string]interface{}{"maxCapacity": 5}, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("capacity_exceeded", s.errorCode(resp))

	resp = s.do(http.MethodDelete, "/warehouses/"+renoID, nil, nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("warehouse_not_empty", s.errorCode(resp))

	// 7. Export and audit
	resp = s.do(http.MethodGet, "/warehouses/"+seattleID+"/export", nil, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(resp.Header.Get("Content-Disposition"))
	resp.Body.Close()

	var audit map[string]interface{}
	resp = s.do(http.MethodGet, "/admin/capacity-audit", nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &audit)
	s.Equal(true, audit["healthy"])

	// 8. Deleting the item releases its units
	resp = s.do(http.MethodDelete, "/inventory/"+crateID, nil, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/inventory/"+crateID, nil, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	s.Equal(float64(0), s.warehouse(seattleID)["currentCapacity"])
}

func (s *WarehouseE2ESuite) TestHealth() {
	resp := s.do(http.MethodGet, "/ready", nil, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *WarehouseE2ESuite) warehouse(id string) map[string]interface{} {
	var w map[string]interface{}
	resp := s.do(http.MethodGet, "/warehouses/"+id, nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &w)
	return w
}

func (s *WarehouseE2ESuite) do(method, path string, body interface{}, headers map[string]string) *http.Response {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err, fmt.Sprintf("%s %s", method, path))
	return resp
}

func (s *WarehouseE2ESuite) decode(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *WarehouseE2ESuite) errorCode(resp *http.Response) string {
	var e handlers.ErrorResponse
	s.decode(resp, &e)
	return e.Code
}

func TestWarehouseE2ESuite(t *testing.T) {
	suite.Run(t, new(WarehouseE2ESuite))
}
