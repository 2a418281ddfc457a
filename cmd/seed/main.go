// seed carga los datos de demostración en PostgreSQL: catálogo de permisos, roles, usuarios,
// categorías, productos con sus lotes, clientes, proveedores, ventas, compras, bajas y devoluciones.
// Es idempotente: lo que ya existe (mismo ID) se omite.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que cmd/api (DATABASE_URL o DB_*, SEED_ADMIN_PASSWORD). Con
// LEGACY_BASE_URL también agrega al catálogo los permisos del backend heredado.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/internal/infrastructure/backend"
	"github.com/kajamart/admin-api/internal/infrastructure/memory"
	"github.com/kajamart/admin-api/internal/infrastructure/postgres"
	"github.com/kajamart/admin-api/pkg/config"
	"github.com/kajamart/admin-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	seed, err := memory.DemoSeed(time.Now(), cfg.Store.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("semilla")
	}
	if cfg.Legacy.BaseURL != "" {
		legacy, err := backend.NewClient(cfg.Legacy.BaseURL, cfg.Legacy.Token, cfg.Legacy.Timeout).FetchPermissions(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("permisos del backend heredado no disponibles, se usa solo el catálogo local")
		} else {
			seed.Permissions = append(seed.Permissions, legacy...)
		}
	}

	repos := postgres.NewRepositories(pool)
	counts, err := load(ctx, repos, seed)
	for table, n := range counts {
		log.Info().Str("table", table).Int("inserted", n).Msg("seed")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("seed incompleto")
	}
	log.Info().Msg("seed completado")
}

// load inserta respetando las dependencias: permisos → roles → usuarios y categorías → productos → lotes.
// Las ramas independientes corren en paralelo.
func load(ctx context.Context, r *postgres.Repositories, s memory.Seed) (map[string]int, error) {
	var (
		nPerms, nRoles, nUsers, nCats, nProducts, nDetails int
		nClients, nSuppliers, nSales, nPurchases, nReturns int
	)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		if nPerms, err = r.Permissions.Insert(ctx, s.Permissions...); err != nil {
			return err
		}
		if nRoles, err = createAll(ctx, "roles", r.Roles, s.Roles, func(x entity.Role) string { return x.ID }); err != nil {
			return err
		}
		nUsers, err = createAll(ctx, "users", r.Users, s.Users, func(x entity.User) string { return x.ID })
		return err
	})
	g.Go(func() (err error) {
		if nCats, err = createAll(ctx, "categories", r.Categories, s.Categories, func(x entity.Category) string { return x.ID }); err != nil {
			return err
		}
		if nProducts, err = createAll(ctx, "products", r.Products, s.Products, func(x entity.Product) string { return x.ID }); err != nil {
			return err
		}
		nDetails, err = createAll(ctx, "product_details", r.Details, s.Details, func(x entity.ProductDetail) string { return x.ID })
		return err
	})
	g.Go(func() (err error) {
		nClients, err = createAll(ctx, "clients", r.Clients, s.Clients, func(x entity.Client) string { return x.ID })
		return err
	})
	g.Go(func() (err error) {
		nSuppliers, err = createAll(ctx, "suppliers", r.Suppliers, s.Suppliers, func(x entity.Supplier) string { return x.ID })
		return err
	})
	g.Go(func() (err error) {
		if nSales, err = r.Sales.Insert(ctx, s.Sales...); err != nil {
			return err
		}
		nPurchases, err = r.Purchases.Insert(ctx, s.Purchases...)
		return err
	})
	g.Go(func() (err error) {
		nReturns, err = appendReturns(ctx, r.Returns, s.Returns)
		return err
	})

	err := g.Wait()
	return map[string]int{
		"permissions": nPerms, "roles": nRoles, "users": nUsers,
		"categories": nCats, "products": nProducts, "product_details": nDetails,
		"clients": nClients, "suppliers": nSuppliers,
		"sales": nSales, "purchases": nPurchases, "return_records": nReturns,
	}, err
}

func createAll[T any](ctx context.Context, table string, repo repository.CRUD[T], items []T, id func(T) string) (int, error) {
	n := 0
	for i := range items {
		existing, err := repo.GetByID(ctx, id(items[i]))
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return n, fmt.Errorf("%s %s: %w", table, id(items[i]), err)
		}
		if existing != nil {
			continue
		}
		if err := repo.Create(ctx, &items[i]); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return n, fmt.Errorf("%s %s: %w", table, id(items[i]), err)
		}
		n++
	}
	return n, nil
}

// appendReturns agrega en orden; Append numera por tipo, así la semilla conserva 1..N.
func appendReturns(ctx context.Context, repo repository.ReturnRepository, records []entity.ReturnRecord) (int, error) {
	n := 0
	for i := range records {
		if err := repo.Append(ctx, &records[i]); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return n, fmt.Errorf("return_records %s: %w", records[i].ID, err)
		}
		n++
	}
	return n, nil
}
