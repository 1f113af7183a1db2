// internal/core/ports/database.go
package ports

import (
	"context"
)

// Database is the narrow view of the connection pool used by health checks.
type Database interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
}

// Transactor runs fn inside a single store transaction. Repositories called
// with the context passed to fn take part in that transaction. Any error
// returned by fn, or a panic, rolls back every write made through it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
