// internal/adapters/db/warehouse_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

const warehouseColumns = `id, name, location, max_capacity, current_capacity,
	inventory_counter, manager, notes, created_at, updated_at`

// WarehouseRepository implements ports.WarehouseRepository
type WarehouseRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.WarehouseRepository = (*WarehouseRepository)(nil)

// NewWarehouseRepository creates a new warehouse repository
func NewWarehouseRepository(db *Database, logger *slog.Logger) *WarehouseRepository {
	return &WarehouseRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "warehouse")),
	}
}

// Create inserts a new warehouse
func (r *WarehouseRepository) Create(ctx context.Context, w *domain.Warehouse) error {
	query := `
		INSERT INTO warehouses (
			id, name, location, max_capacity, current_capacity,
			inventory_counter, manager, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, 0, 0, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.conn(ctx).QueryRow(ctx, query,
		w.ID, w.Name, w.Location, w.MaxCapacity,
		nullString(w.Manager), nullString(w.Notes), w.CreatedAt, w.UpdatedAt,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return domain.WrapError(domain.KindDuplicateWarehouse, err,
				"warehouse %q at %q already exists", w.Name, w.Location)
		}
		return fmt.Errorf("failed to insert warehouse: %w", err)
	}

	r.logger.DebugContext(ctx, "warehouse inserted", slog.String("warehouse_id", w.ID.String()))
	return nil
}

// FindByID returns the warehouse or nil when absent
func (r *WarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`

	w, err := ScanOne(r.db.conn(ctx).QueryRow(ctx, query, id), scanWarehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to find warehouse: %w", err)
	}
	return w, nil
}

// List returns all warehouses ordered by name
func (r *WarehouseRepository) List(ctx context.Context) ([]*domain.Warehouse, error) {
	query, args, err := squirrel.Select(warehouseColumns).
		From("warehouses").
		OrderBy("name ASC", "location ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}

	warehouses, err := ScanMany(rows, scanWarehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to scan warehouses: %w", err)
	}
	return warehouses, nil
}

// ExistsByNameLocation reports whether another warehouse uses the pair
func (r *WarehouseRepository) ExistsByNameLocation(ctx context.Context, name, location string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM warehouses WHERE name = $1 AND location = $2 AND id <> $3)`

	var exists bool
	if err := r.db.conn(ctx).QueryRow(ctx, query, name, location, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check warehouse uniqueness: %w", err)
	}
	return exists, nil
}

// LockForUpdate locks the warehouses in id order so that concurrent callers
// touching the same pair cannot deadlock.
func (r *WarehouseRepository) LockForUpdate(ctx context.Context, ids ...uuid.UUID) ([]*domain.Warehouse, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := squirrel.Select(warehouseColumns).
		From("warehouses").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to lock warehouses: %w", err)
	}

	warehouses, err := ScanMany(rows, scanWarehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to scan locked warehouses: %w", err)
	}
	return warehouses, nil
}

// UpdateDetails writes the client-editable fields. The max_capacity guard is
// evaluated against the row as it is at write time.
func (r *WarehouseRepository) UpdateDetails(ctx context.Context, w *domain.Warehouse) (bool, error) {
	query := `
		UPDATE warehouses
		SET name = $2, location = $3, max_capacity = $4,
			manager = $5, notes = $6, updated_at = NOW()
		WHERE id = $1 AND current_capacity <= $4
		RETURNING ` + warehouseColumns

	updated, err := ScanOne(r.db.conn(ctx).QueryRow(ctx, query,
		w.ID, w.Name, w.Location, w.MaxCapacity, nullString(w.Manager), nullString(w.Notes),
	), scanWarehouse)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return false, domain.WrapError(domain.KindDuplicateWarehouse, err,
				"warehouse %q at %q already exists", w.Name, w.Location)
		}
		return false, fmt.Errorf("failed to update warehouse: %w", err)
	}
	if updated == nil {
		return false, nil
	}

	*w = *updated
	return true, nil
}

// DeleteIfEmpty deletes the warehouse only when nothing is stored in it
func (r *WarehouseRepository) DeleteIfEmpty(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		DELETE FROM warehouses w
		WHERE w.id = $1
		  AND w.current_capacity = 0
		  AND NOT EXISTS (SELECT 1 FROM inventory_items i WHERE i.warehouse_id = w.id)`

	tag, err := r.db.conn(ctx).Exec(ctx, query, id)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgFKViolation {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete warehouse: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AdjustCapacity applies delta in a single conditional UPDATE. When the
// bounds check fails no row is written and the current values are read back
// so the caller can report the reason.
func (r *WarehouseRepository) AdjustCapacity(ctx context.Context, id uuid.UUID, delta int) (*domain.CapacityChange, error) {
	q := r.db.conn(ctx)

	update := `
		UPDATE warehouses
		SET current_capacity = current_capacity + $2, updated_at = NOW()
		WHERE id = $1
		  AND current_capacity + $2 >= 0
		  AND current_capacity + $2 <= max_capacity
		RETURNING name, current_capacity, max_capacity`

	change := &domain.CapacityChange{WarehouseID: id}
	err := q.QueryRow(ctx, update, id, delta).Scan(&change.Name, &change.Current, &change.Max)
	if err == nil {
		change.Applied = true
		return change, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if code, _ := pgErrorCode(err); code == pgCheckViolation {
			return nil, domain.WrapError(domain.KindInvariantViolation, err,
				"capacity check constraint rejected delta %d on warehouse %s", delta, id)
		}
		return nil, fmt.Errorf("failed to adjust capacity: %w", err)
	}

	err = q.QueryRow(ctx,
		`SELECT name, current_capacity, max_capacity FROM warehouses WHERE id = $1`, id,
	).Scan(&change.Name, &change.Current, &change.Max)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read warehouse capacity: %w", err)
	}
	return change, nil
}

// NextInventorySequence increments the SKU counter and returns the warehouse
// with the new counter value.
func (r *WarehouseRepository) NextInventorySequence(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	query := `
		UPDATE warehouses
		SET inventory_counter = inventory_counter + 1
		WHERE id = $1
		RETURNING ` + warehouseColumns

	w, err := ScanOne(r.db.conn(ctx).QueryRow(ctx, query, id), scanWarehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to increment inventory counter: %w", err)
	}
	return w, nil
}

func scanWarehouse(row pgx.Row) (*domain.Warehouse, error) {
	var (
		w       domain.Warehouse
		manager sql.NullString
		notes   sql.NullString
	)
	err := row.Scan(
		&w.ID, &w.Name, &w.Location, &w.MaxCapacity, &w.CurrentCapacity,
		&w.InventoryCounter, &manager, &notes, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Manager = manager.String
	w.Notes = notes.String
	return &w, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
