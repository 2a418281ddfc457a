package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kajamart/admin-api/internal/application/returns"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/internal/infrastructure/memory"
	"github.com/kajamart/admin-api/internal/infrastructure/postgres"
	"github.com/kajamart/admin-api/pkg/config"
	"github.com/kajamart/admin-api/pkg/logger"
)

// stores repositorios de la aplicación, independientes del driver.
type stores struct {
	products    repository.ProductRepository
	details     repository.ProductDetailRepository
	categories  repository.CategoryRepository
	clients     repository.ClientRepository
	suppliers   repository.SupplierRepository
	sales       repository.SaleRepository
	purchases   repository.PurchaseRepository
	returns     repository.ReturnRepository
	users       repository.UserRepository
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	tx          returns.TxRunner
	close       func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		r := postgres.NewRepositories(pool)
		return &stores{
			products: r.Products, details: r.Details, categories: r.Categories,
			clients: r.Clients, suppliers: r.Suppliers, sales: r.Sales, purchases: r.Purchases,
			returns: r.Returns, users: r.Users, roles: r.Roles, permissions: r.Permissions,
			tx: r.Tx, close: pool.Close,
		}, nil
	default:
		seed, err := memory.DemoSeed(time.Now(), cfg.Store.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("semilla en memoria: %w", err)
		}
		r := memory.NewRepositories(seed)
		log.Warn().Msg("usando datos de demostración en memoria; los cambios se pierden al reiniciar")
		return &stores{
			products: r.Products, details: r.Details, categories: r.Categories,
			clients: r.Clients, suppliers: r.Suppliers, sales: r.Sales, purchases: r.Purchases,
			returns: r.Returns, users: r.Users, roles: r.Roles, permissions: r.Permissions,
			tx: r.Tx, close: func() {},
		}, nil
	}
}
