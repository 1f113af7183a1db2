// internal/pkg/spreadsheet/inventory.go
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Inventory"

// Column order shared by export and import. Import only needs Name and
// Quantity; SKU may be blank to request allocation.
var Columns = []string{
	"SKU", "Name", "Description", "Category", "Storage Location", "Quantity", "Created At", "Updated At",
}

const (
	colSKU = iota
	colName
	colDescription
	colCategory
	colStorageLocation
	colQuantity
)

// Row is one parsed data row. Line is the 1-based sheet row number.
type Row struct {
	Line int
	Item *domain.InventoryItem
	Err  error
}

// WriteInventory renders items as a single-sheet workbook
func WriteInventory(w io.Writer, items []*domain.InventoryItem) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range Columns {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, item := range items {
		row := sheet.AddRow()
		row.AddCell().Value = item.SKU
		row.AddCell().Value = item.Name
		row.AddCell().Value = item.Description
		row.AddCell().Value = item.Category
		row.AddCell().Value = item.StorageLocation
		row.AddCell().SetInt(item.Quantity)
		row.AddCell().Value = item.CreatedAt.UTC().Format(time.RFC3339)
		row.AddCell().Value = item.UpdatedAt.UTC().Format(time.RFC3339)
	}

	sheet.SetColWidth(1, len(Columns), 18)

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// ReadInventory parses the first sheet of an uploaded workbook into items
// for warehouseID. The header row is skipped and blank rows are ignored.
// Rows that cannot be parsed are returned with Err set.
func ReadInventory(data []byte, warehouseID uuid.UUID, maxRows int) ([]Row, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, domain.Validation("workbook has no sheets")
	}

	var (
		rows []Row
		line int
	)
	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		line++
		if line == 1 {
			return nil
		}

		values := rowValues(r)
		if isBlank(values) {
			return nil
		}
		if maxRows > 0 && len(rows) >= maxRows {
			return domain.Validation("spreadsheet exceeds %d rows", maxRows)
		}

		item, err := parseRow(values, warehouseID)
		rows = append(rows, Row{Line: line, Item: item, Err: err})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func rowValues(r *xlsx.Row) []string {
	values := make([]string, colQuantity+1)
	for i := range values {
		values[i] = strings.TrimSpace(r.GetCell(i).String())
	}
	return values
}

func isBlank(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

func parseRow(values []string, warehouseID uuid.UUID) (*domain.InventoryItem, error) {
	if values[colName] == "" {
		return nil, domain.Validation("name is required")
	}

	quantity := 0
	if raw := values[colQuantity]; raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f != float64(int(f)) {
			return nil, domain.Validation("quantity %q is not a whole number", raw)
		}
		quantity = int(f)
	}

	return &domain.InventoryItem{
		SKU:             values[colSKU],
		Name:            values[colName],
		Description:     values[colDescription],
		Category:        values[colCategory],
		StorageLocation: values[colStorageLocation],
		Quantity:        quantity,
		WarehouseID:     warehouseID,
	}, nil
}
