package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kajamart/admin-api/internal/application/auth"
	"github.com/kajamart/admin-api/internal/application/export"
	"github.com/kajamart/admin-api/internal/application/returns"
	"github.com/kajamart/admin-api/internal/application/usecase"
	"github.com/kajamart/admin-api/internal/domain/rbac"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	Lists         *usecase.ListRegistry
	Export        *export.UseCase
	ProductUC     *usecase.ProductUseCase
	CategoryUC    *usecase.CategoryUseCase
	ClientUC      *usecase.ClientUseCase
	SupplierUC    *usecase.SupplierUseCase
	DetailUC      *usecase.DetailUseCase
	UserUC        *usecase.UserUseCase
	RoleUC        *usecase.RoleUseCase
	ReturnsUC     *returns.UseCase
	ModuleService *usecase.ModuleService
	JWTSecret     string
}

// Router registra las rutas de la API. Las rutas fijas van antes que /:entity.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	perm := func(module, action string) fiber.Handler {
		return RequirePermission(module, action, deps.ModuleService)
	}

	// Lotes de producto
	details := protected.Group("/details-products")
	detailHandler := NewDetailHandler(deps.DetailUC)
	details.Get("/", perm(rbac.ModuleProducts, rbac.ActionView), detailHandler.List)
	details.Post("/sync", perm(rbac.ModuleProducts, rbac.ActionEdit), detailHandler.Sync)
	details.Get("/:id", perm(rbac.ModuleProducts, rbac.ActionView), detailHandler.GetByID)
	details.Post("/", perm(rbac.ModuleProducts, rbac.ActionCreate), detailHandler.Create)
	details.Put("/:id", perm(rbac.ModuleProducts, rbac.ActionEdit), detailHandler.Update)
	details.Delete("/:id", perm(rbac.ModuleProducts, rbac.ActionDelete), detailHandler.Delete)

	// Catálogo de permisos
	roleHandler := NewRoleHandler(deps.RoleUC)
	protected.Get("/permisos", perm(rbac.ModuleRoles, rbac.ActionView), roleHandler.Permissions)

	// Registro de devoluciones y bajas (el permiso por tipo se valida al abrir)
	sessions := protected.Group("/returns/sessions")
	returnHandler := NewReturnHandler(deps.ReturnsUC, deps.ModuleService)
	sessions.Post("/", returnHandler.Open)
	sessions.Get("/:sid", returnHandler.Get)
	sessions.Delete("/:sid", returnHandler.Cancel)
	sessions.Post("/:sid/search", returnHandler.Search)
	sessions.Post("/:sid/items", returnHandler.Select)
	sessions.Post("/:sid/items/:pid/increment", returnHandler.Increment)
	sessions.Post("/:sid/items/:pid/decrement", returnHandler.Decrement)
	sessions.Put("/:sid/items/:pid/quantity", returnHandler.SetQuantity)
	sessions.Put("/:sid/items/:pid/reason", returnHandler.AssignReason)
	sessions.Delete("/:sid/items/:pid", returnHandler.Remove)
	sessions.Post("/:sid/confirm", returnHandler.Confirm)

	// Listados y exportaciones de todas las pantallas índice
	listHandler := NewListHandler(deps.Lists, deps.Export)
	protected.Get("/:entity/export", RequireListPermission(deps.Lists, rbac.ActionView, deps.ModuleService), listHandler.Export)
	protected.Get("/:entity", RequireListPermission(deps.Lists, rbac.ActionView, deps.ModuleService), listHandler.List)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", perm(rbac.ModuleProducts, rbac.ActionCreate), productHandler.Create)
	products.Get("/:id", perm(rbac.ModuleProducts, rbac.ActionView), productHandler.GetByID)
	products.Put("/:id", perm(rbac.ModuleProducts, rbac.ActionEdit), productHandler.Update)
	products.Delete("/:id", perm(rbac.ModuleProducts, rbac.ActionDelete), productHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", perm(rbac.ModuleCategories, rbac.ActionCreate), categoryHandler.Create)
	categories.Get("/:id", perm(rbac.ModuleCategories, rbac.ActionView), categoryHandler.GetByID)
	categories.Put("/:id", perm(rbac.ModuleCategories, rbac.ActionEdit), categoryHandler.Update)
	categories.Delete("/:id", perm(rbac.ModuleCategories, rbac.ActionDelete), categoryHandler.Delete)

	// Clients
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", perm(rbac.ModuleClients, rbac.ActionCreate), clientHandler.Create)
	clients.Get("/:id", perm(rbac.ModuleClients, rbac.ActionView), clientHandler.GetByID)
	clients.Put("/:id", perm(rbac.ModuleClients, rbac.ActionEdit), clientHandler.Update)
	clients.Delete("/:id", perm(rbac.ModuleClients, rbac.ActionDelete), clientHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", perm(rbac.ModuleSuppliers, rbac.ActionCreate), supplierHandler.Create)
	suppliers.Get("/:id", perm(rbac.ModuleSuppliers, rbac.ActionView), supplierHandler.GetByID)
	suppliers.Put("/:id", perm(rbac.ModuleSuppliers, rbac.ActionEdit), supplierHandler.Update)
	suppliers.Delete("/:id", perm(rbac.ModuleSuppliers, rbac.ActionDelete), supplierHandler.Delete)

	// Users
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", perm(rbac.ModuleUsers, rbac.ActionCreate), userHandler.Create)
	users.Get("/:id", perm(rbac.ModuleUsers, rbac.ActionView), userHandler.GetByID)
	users.Delete("/:id", perm(rbac.ModuleUsers, rbac.ActionDelete), userHandler.Delete)

	// Roles
	roles := protected.Group("/roles")
	roles.Post("/", perm(rbac.ModuleRoles, rbac.ActionCreate), roleHandler.Create)
	roles.Get("/:id", perm(rbac.ModuleRoles, rbac.ActionView), roleHandler.GetByID)
	roles.Put("/:id", perm(rbac.ModuleRoles, rbac.ActionEdit), roleHandler.Update)
	roles.Delete("/:id", perm(rbac.ModuleRoles, rbac.ActionDelete), roleHandler.Delete)
}
