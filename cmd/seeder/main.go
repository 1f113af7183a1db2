// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/app"
	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/pkg/config"
	"github.com/ammerola/warehouse-be/internal/pkg/logger"
	"github.com/ammerola/warehouse-be/internal/pkg/spreadsheet"
)

// seedWarehouse is one warehouse and its opening stock
type seedWarehouse struct {
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	MaxCapacity int        `json:"maxCapacity"`
	Manager     string     `json:"manager,omitempty"`
	Items       []seedItem `json:"items"`
}

type seedItem struct {
	Name            string `json:"name"`
	SKU             string `json:"sku,omitempty"`
	Category        string `json:"category,omitempty"`
	StorageLocation string `json:"storageLocation,omitempty"`
	Quantity        int    `json:"quantity"`
}

var defaultSeed = []seedWarehouse{
	{
		Name: "Tacoma Central", Location: "Tacoma, WA", MaxCapacity: 500, Manager: "R. Okafor",
		Items: []seedItem{
			{Name: "Pallet Jack", Category: "equipment", StorageLocation: "A-01", Quantity: 6},
			{Name: "Stretch Wrap", Category: "packaging", StorageLocation: "B-04", Quantity: 120},
			{Name: "Corrugated Box 24in", Category: "packaging", StorageLocation: "B-05", Quantity: 200},
		},
	},
	{
		Name: "Reno Overflow", Location: "Reno, NV", MaxCapacity: 250, Manager: "D. Alvarez",
		Items: []seedItem{
			{Name: "Hand Truck", Category: "equipment", StorageLocation: "C-02", Quantity: 10},
			{Name: "Label Roll", Category: "supplies", StorageLocation: "D-11", Quantity: 40},
		},
	},
	{
		Name: "Boise Cold Store", Location: "Boise, ID", MaxCapacity: 120,
	},
}

func main() {
	file := flag.String("file", "", "JSON file with warehouses to seed (defaults to built-in fixtures)")
	xlsxPath := flag.String("xlsx", "", "spreadsheet of items to load into -warehouse")
	warehouseID := flag.String("warehouse", "", "warehouse id for -xlsx")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall time limit")
	flag.Parse()

	slogger := logger.SetupLogger("info", "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, *file, *xlsxPath, *warehouseID, slogger); err != nil {
		slogger.Error("seeding failed", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, file, xlsxPath, warehouseID string, slogger *slog.Logger) error {
	if cfg.Database.AutoMigrate {
		if err := app.RunMigrations(ctx, cfg, slogger); err != nil {
			return err
		}
	}

	deps, err := app.Build(ctx, cfg, 4, slogger)
	if err != nil {
		return err
	}
	defer deps.Close()

	if xlsxPath != "" {
		id, err := uuid.Parse(warehouseID)
		if err != nil {
			return fmt.Errorf("-warehouse must be a warehouse id: %w", err)
		}
		return loadSpreadsheet(ctx, deps, id, xlsxPath, cfg.Import.MaxRows, slogger)
	}

	seed := defaultSeed
	if file != "" {
		if seed, err = readSeedFile(file); err != nil {
			return err
		}
	}
	return seedWarehouses(ctx, deps, seed, slogger)
}

func readSeedFile(path string) ([]seedWarehouse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed []seedWarehouse
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return seed, nil
}

// seedWarehouses creates every warehouse and item through the services, so
// capacity and SKU rules apply exactly as they do for API calls. Warehouses
// that already exist are skipped.
func seedWarehouses(ctx context.Context, deps *app.Dependencies, seed []seedWarehouse, slogger *slog.Logger) error {
	var created, skipped, items int
	for _, sw := range seed {
		w := &domain.Warehouse{
			Name:        sw.Name,
			Location:    sw.Location,
			MaxCapacity: sw.MaxCapacity,
			Manager:     sw.Manager,
		}
		if err := deps.Warehouses.CreateWarehouse(ctx, w); err != nil {
			if domain.KindOf(err) == domain.KindDuplicateWarehouse {
				slogger.Info("warehouse already exists", slog.String("name", sw.Name))
				skipped++
				continue
			}
			return fmt.Errorf("failed to create warehouse %q: %w", sw.Name, err)
		}
		created++

		for _, si := range sw.Items {
			item, err := deps.Inventory.CreateItem(ctx, &domain.InventoryItem{
				Name:            si.Name,
				SKU:             si.SKU,
				Category:        si.Category,
				StorageLocation: si.StorageLocation,
				Quantity:        si.Quantity,
				WarehouseID:     w.ID,
			})
			if err != nil {
				return fmt.Errorf("failed to create item %q in %q: %w", si.Name, sw.Name, err)
			}
			items++
			slogger.Debug("item created", slog.String("sku", item.SKU))
		}

		slogger.Info("warehouse seeded",
			slog.String("id", w.ID.String()),
			slog.String("name", w.Name),
			slog.Int("items", len(sw.Items)))
	}

	slogger.Info("seeding complete",
		slog.Int("warehouses_created", created),
		slog.Int("warehouses_skipped", skipped),
		slog.Int("items_created", items))
	return nil
}

func loadSpreadsheet(ctx context.Context, deps *app.Dependencies, warehouseID uuid.UUID, path string, maxRows int, slogger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	rows, err := spreadsheet.ReadInventory(data, warehouseID, maxRows)
	if err != nil {
		return err
	}

	var created, failed int
	for _, row := range rows {
		if row.Err == nil {
			_, err = deps.Inventory.CreateItem(ctx, row.Item)
		} else {
			err = row.Err
		}
		if err != nil {
			failed++
			slogger.Warn("row skipped", slog.Int("line", row.Line), slog.String("error", err.Error()))
			continue
		}
		created++
	}

	slogger.Info("spreadsheet loaded",
		slog.String("warehouse_id", warehouseID.String()),
		slog.Int("created", created),
		slog.Int("failed", failed))
	return nil
}
