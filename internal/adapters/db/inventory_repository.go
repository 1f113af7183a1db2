// internal/adapters/db/inventory_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

const itemColumns = `id, warehouse_id, name, sku, description, category,
	storage_location, quantity, created_at, updated_at`

// InventoryRepository implements ports.InventoryRepository
type InventoryRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.InventoryRepository = (*InventoryRepository)(nil)

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *Database, logger *slog.Logger) *InventoryRepository {
	return &InventoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "inventory")),
	}
}

// Create inserts a new inventory item
func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (
			id, warehouse_id, name, sku, description, category,
			storage_location, quantity, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.conn(ctx).QueryRow(ctx, query,
		item.ID, item.WarehouseID, item.Name, item.SKU,
		nullString(item.Description), nullString(item.Category), nullString(item.StorageLocation),
		item.Quantity, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return r.translate(err, item, "failed to insert inventory item")
	}

	r.logger.DebugContext(ctx, "inventory item inserted",
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU))
	return nil
}

// Update writes every mutable column, including the owning warehouse
func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET warehouse_id = $2, name = $3, sku = $4, description = $5, category = $6,
			storage_location = $7, quantity = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.conn(ctx).QueryRow(ctx, query,
		item.ID, item.WarehouseID, item.Name, item.SKU,
		nullString(item.Description), nullString(item.Category), nullString(item.StorageLocation),
		item.Quantity,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound("inventory item", item.ID)
	}
	if err != nil {
		return r.translate(err, item, "failed to update inventory item")
	}
	return nil
}

// Delete removes an item record
func (r *InventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.conn(ctx).Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("inventory item", id)
	}
	return nil
}

// FindByID returns the item or nil when absent
func (r *InventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`

	item, err := ScanOne(r.db.conn(ctx).QueryRow(ctx, query, id), scanItem)
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}
	return item, nil
}

// FindByIDForUpdate returns the item and holds its row lock until the
// surrounding transaction ends
func (r *InventoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`

	item, err := ScanOne(r.db.conn(ctx).QueryRow(ctx, query, id), scanItem)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory item: %w", err)
	}
	return item, nil
}

// ExistsBySKU checks SKU uniqueness inside one warehouse
func (r *InventoryRepository) ExistsBySKU(ctx context.Context, warehouseID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM inventory_items WHERE warehouse_id = $1 AND sku = $2 AND id <> $3)`

	var exists bool
	if err := r.db.conn(ctx).QueryRow(ctx, query, warehouseID, sku, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check sku uniqueness: %w", err)
	}
	return exists, nil
}

// ListByWarehouse returns the items of one warehouse ordered by SKU
func (r *InventoryRepository) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE warehouse_id = $1 ORDER BY sku ASC`

	rows, err := r.db.conn(ctx).Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouse inventory: %w", err)
	}

	items, err := ScanMany(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory items: %w", err)
	}
	return items, nil
}

// List returns a filtered page of items and the total matching count
func (r *InventoryRepository) List(ctx context.Context, params ports.ListParams) ([]*domain.InventoryItem, int64, error) {
	filter := squirrel.And{}
	if params.WarehouseID != nil {
		filter = append(filter, squirrel.Eq{"warehouse_id": *params.WarehouseID})
	}
	if params.Category != "" {
		filter = append(filter, squirrel.Eq{"category": params.Category})
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		filter = append(filter, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	countSQL, countArgs, err := squirrel.Select("COUNT(*)").
		From("inventory_items").
		Where(filter).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory items: %w", err)
	}

	qb := squirrel.Select(itemColumns).
		From("inventory_items").
		Where(filter).
		OrderBy(orderClause(params.SortBy, params.SortOrder), "id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if params.PageSize > 0 {
		qb = qb.Limit(uint64(params.PageSize))
		if params.Page > 1 {
			qb = qb.Offset(uint64((params.Page - 1) * params.PageSize))
		}
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query inventory items: %w", err)
	}

	items, err := ScanMany(rows, scanItem)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan inventory items: %w", err)
	}
	return items, total, nil
}

// TotalsByWarehouse aggregates item counts and quantities per warehouse
func (r *InventoryRepository) TotalsByWarehouse(ctx context.Context) (map[uuid.UUID]domain.InventoryTotals, error) {
	query := `
		SELECT warehouse_id, COUNT(*), COALESCE(SUM(quantity), 0)
		FROM inventory_items
		GROUP BY warehouse_id`

	rows, err := r.db.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}
	defer rows.Close()

	totals := make(map[uuid.UUID]domain.InventoryTotals)
	for rows.Next() {
		var (
			id uuid.UUID
			t  domain.InventoryTotals
		)
		if err := rows.Scan(&id, &t.ItemCount, &t.Units); err != nil {
			return nil, fmt.Errorf("failed to scan inventory totals: %w", err)
		}
		totals[id] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory totals: %w", err)
	}
	return totals, nil
}

// translate maps constraint failures onto domain errors
func (r *InventoryRepository) translate(err error, item *domain.InventoryItem, msg string) error {
	code, constraint := pgErrorCode(err)
	switch {
	case code == pgUniqueViolation && constraint == "inventory_items_warehouse_sku_key":
		return domain.WrapError(domain.KindDuplicateSKU, err,
			"sku %q already exists in this warehouse", item.SKU)
	case code == pgFKViolation:
		return domain.WrapError(domain.KindNotFound, err, "warehouse %s not found", item.WarehouseID)
	case code == pgCheckViolation:
		return domain.WrapError(domain.KindValidation, err, "inventory item violates %s", constraint)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func orderClause(sortBy, sortOrder string) string {
	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}

	column := "created_at"
	switch sortBy {
	case "name":
		column = "name"
	case "sku":
		column = "sku"
	case "quantity":
		column = "quantity"
	case "updated":
		column = "updated_at"
	}
	return column + " " + direction
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var (
		item            domain.InventoryItem
		description     sql.NullString
		category        sql.NullString
		storageLocation sql.NullString
	)
	err := row.Scan(
		&item.ID, &item.WarehouseID, &item.Name, &item.SKU, &description, &category,
		&storageLocation, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Category = category.String
	item.StorageLocation = storageLocation.String
	return &item, nil
}
