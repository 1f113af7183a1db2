// internal/handlers/routes.go
package handlers

import (
	"net/http"
)

// APIPrefix is the mount point of every route
const APIPrefix = "/api/v1"

// Routes groups the handlers served by the API. Nil handlers are not mounted.
type Routes struct {
	Health    *HealthHandler
	Warehouse *WarehouseHandler
	Inventory *InventoryHandler
	Transfer  *TransferHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
	Import    *ImportHandler
	Audit     *AuditHandler
}

// Register mounts the handlers on mux using method-specific patterns
func (rt *Routes) Register(mux *http.ServeMux) {
	p := APIPrefix

	if rt.Health != nil {
		mux.HandleFunc("GET "+p+"/health", rt.Health.Health)
		mux.HandleFunc("GET "+p+"/ready", rt.Health.Readiness)
	}

	if rt.Warehouse != nil {
		mux.HandleFunc("POST "+p+"/warehouses", rt.Warehouse.CreateWarehouse)
		mux.HandleFunc("GET "+p+"/warehouses", rt.Warehouse.ListWarehouses)
		mux.HandleFunc("GET "+p+"/warehouses/{id}", rt.Warehouse.GetWarehouse)
		mux.HandleFunc("PUT "+p+"/warehouses/{id}", rt.Warehouse.UpdateWarehouse)
		mux.HandleFunc("DELETE "+p+"/warehouses/{id}", rt.Warehouse.DeleteWarehouse)
		mux.HandleFunc("GET "+p+"/warehouses/{id}/inventory", rt.Warehouse.ListWarehouseInventory)
	}

	if rt.Inventory != nil {
		mux.HandleFunc("POST "+p+"/inventory", rt.Inventory.CreateInventory)
		mux.HandleFunc("GET "+p+"/inventory", rt.Inventory.ListInventory)
		mux.HandleFunc("GET "+p+"/inventory/{id}", rt.Inventory.GetInventory)
		mux.HandleFunc("PUT "+p+"/inventory/{id}", rt.Inventory.UpdateInventory)
		mux.HandleFunc("DELETE "+p+"/inventory/{id}", rt.Inventory.DeleteInventory)
	}

	if rt.Transfer != nil {
		mux.HandleFunc("POST "+p+"/inventory/bulk-transfer", rt.Transfer.BulkTransfer)
	}

	if rt.Dashboard != nil {
		mux.HandleFunc("GET "+p+"/dashboard", rt.Dashboard.GetDashboard)
	}

	if rt.Export != nil {
		mux.HandleFunc("GET "+p+"/warehouses/{id}/export", rt.Export.ExportWarehouse)
	}

	if rt.Import != nil {
		mux.HandleFunc("POST "+p+"/warehouses/{id}/import", rt.Import.ImportWarehouse)
		mux.HandleFunc("GET "+p+"/import/status/{taskId}", rt.Import.ImportStatus)
	}

	if rt.Audit != nil {
		mux.HandleFunc("GET "+p+"/admin/capacity-audit", rt.Audit.CapacityAudit)
	}
}
