// @title           Kajamart Admin API
// @version         1.0
// @description     Panel administrativo de Kajamart: catálogo, clientes, proveedores, usuarios y roles,
// @description     listados con búsqueda y exportación, devoluciones de cliente y bajas de inventario.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
// @description     Bearer <token>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	_ "github.com/kajamart/admin-api/docs"
	"github.com/kajamart/admin-api/internal/application/auth"
	"github.com/kajamart/admin-api/internal/application/export"
	"github.com/kajamart/admin-api/internal/application/returns"
	"github.com/kajamart/admin-api/internal/application/usecase"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/infrastructure/backend"
	"github.com/kajamart/admin-api/internal/infrastructure/cache"
	"github.com/kajamart/admin-api/internal/infrastructure/pdf"
	"github.com/kajamart/admin-api/internal/infrastructure/xlsx"
	httpRouter "github.com/kajamart/admin-api/internal/interfaces/http"
	"github.com/kajamart/admin-api/pkg/config"
	"github.com/kajamart/admin-api/pkg/eventbus"
	"github.com/kajamart/admin-api/pkg/logger"
)

const devJWTSecret = "kajamart-dev-secret"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío, se usa el secreto de desarrollo")
		cfg.JWT.Secret = devJWTSecret
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("repositorios")
	}
	defer st.close()

	changes := eventbus.New[domain.EntityChanged]()
	confirmed := eventbus.New[domain.ReturnConfirmed]()

	// Cache de listados (opcional)
	var listCache *cache.Cache
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, listados sin cache")
		} else {
			cacheLog := log.Component("cache")
			listCache = cache.New(rdb, cfg.Redis.TTL, cacheLog)
			unsubscribe := cache.Subscribe(listCache, cacheLog, changes, confirmed)
			defer unsubscribe()
		}
	}

	lists := usecase.NewListRegistryFrom(usecase.ListSources{
		Products:   cache.Wrap(listCache, usecase.EntityProducts, st.products),
		Categories: cache.Wrap(listCache, usecase.EntityCategories, st.categories),
		Clients:    cache.Wrap(listCache, usecase.EntityClients, st.clients),
		Suppliers:  cache.Wrap(listCache, usecase.EntitySuppliers, st.suppliers),
		Sales:      cache.Wrap(listCache, usecase.EntitySales, st.sales),
		Purchases:  cache.Wrap(listCache, usecase.EntityPurchases, st.purchases),
		Returns:    cache.Wrap(listCache, usecase.EntityReturns, usecase.ReturnsOfKind(st.returns, entity.ReturnKindClient)),
		Lows:       cache.Wrap(listCache, usecase.EntityLows, usecase.ReturnsOfKind(st.returns, entity.ReturnKindLow)),
		Users:      cache.Wrap(listCache, usecase.EntityUsers, st.users),
		Roles:      cache.Wrap(listCache, usecase.EntityRoles, st.roles),
	})

	// Backend heredado: origen de la sincronización de lotes
	var fetcher usecase.DetailFetcher
	if cfg.Legacy.BaseURL != "" {
		fetcher = backend.NewClient(cfg.Legacy.BaseURL, cfg.Legacy.Token, cfg.Legacy.Timeout)
		log.Info().Str("base_url", cfg.Legacy.BaseURL).Msg("sincronización de lotes habilitada")
	}

	moduleSvc := usecase.NewModuleService(st.roles)
	authUC := auth.NewAuthUseCase(st.users, moduleSvc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	exportUC := export.NewUseCase(cfg.Export.Company, pdf.NewTableGenerator(), xlsx.NewTableGenerator())

	returnsUC := returns.NewUseCase(st.products, st.tx, confirmed, log.Component("returns"), cfg.Returns.SessionTTL)
	go returnsUC.Run(ctx, time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kajamart Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "ok",
			"service":         cfg.App.Name,
			"store":           cfg.Store.Driver,
			"cache":           listCache != nil,
			"return_sessions": returnsUC.Len(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Lists:         lists,
		Export:        exportUC,
		ProductUC:     usecase.NewProductUseCase(st.products, st.categories, changes),
		CategoryUC:    usecase.NewCategoryUseCase(st.categories, st.products, changes),
		ClientUC:      usecase.NewClientUseCase(st.clients, changes),
		SupplierUC:    usecase.NewSupplierUseCase(st.suppliers, changes),
		DetailUC:      usecase.NewDetailUseCase(st.details, st.products, fetcher, changes),
		UserUC:        usecase.NewUserUseCase(st.users, st.roles, changes),
		RoleUC:        usecase.NewRoleUseCase(st.roles, st.users, st.permissions, changes),
		ReturnsUC:     returnsUC,
		ModuleService: moduleSvc,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
