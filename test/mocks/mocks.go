// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/services.go -destination=services_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/tasks.go -destination=tasks_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/storage.go -destination=storage_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/events.go -destination=events_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/database.go -destination=database_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/warehouse_repository.go -destination=warehouse_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/inventory_repository.go -destination=inventory_repository_mock.go -package=mocks
