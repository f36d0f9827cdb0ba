// Package server assembles the application: it opens the configured stores, builds the
// services on top of them and wires the HTTP router with its middleware chain.
package server

import (
	"context"
	"fmt"

	"github.com/user/ems-go/auth"
	"github.com/user/ems-go/config"
	"github.com/user/ems-go/dashboard"
	"github.com/user/ems-go/db"
	"github.com/user/ems-go/departments"
	"github.com/user/ems-go/users"
)

// Services groups the application services shared by the router and the admin CLI.
type Services struct {
	Users       *users.Service
	Departments departments.DepartmentService
	Dashboard   *dashboard.Service
	Tokens      *auth.TokenService
}

// NewServices builds services over the store selected by cfg.StoreDriver.
// The returned close function releases the database pool and is safe to call once.
func NewServices(ctx context.Context, cfg *config.AppConfig) (*Services, func(), error) {
	var (
		userStore users.Store
		deptStore departments.Store
		closeFn   = func() {}
	)

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		userStore = users.NewMemoryStore()
		deptStore = departments.NewMemoryStore()
	case config.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		sqlDB := db.NewSQLX(pool)
		userStore = users.NewPostgresStore(sqlDB)
		deptStore = departments.NewPostgresStore(sqlDB)
		closeFn = func() {
			_ = sqlDB.Close()
			pool.Close()
		}
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	return NewServicesFromStores(cfg.Auth, userStore, deptStore), closeFn, nil
}

// NewServicesFromStores builds services over already opened stores.
func NewServicesFromStores(authCfg *config.AuthConfig, userStore users.Store, deptStore departments.Store) *Services {
	userService := users.NewService(userStore)
	deptService := departments.NewDepartmentService(deptStore)
	return &Services{
		Users:       userService,
		Departments: deptService,
		Dashboard:   dashboard.NewService(deptService, userService),
		Tokens:      auth.NewTokenService(*authCfg),
	}
}
