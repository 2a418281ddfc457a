package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/application/export"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/pkg/listview"
)

// Nombres de los listados en la URL (/api/{entity}).
const (
	EntityProducts   = "products"
	EntityCategories = "categories"
	EntityClients    = "clients"
	EntitySuppliers  = "suppliers"
	EntitySales      = "sales"
	EntityPurchases  = "purchases"
	EntityReturns    = "returns"
	EntityLows       = "lows"
	EntityUsers      = "users"
	EntityRoles      = "roles"
)

// ListSources colecciones que alimentan los listados.
type ListSources struct {
	Products   repository.Source[entity.Product]
	Categories repository.Source[entity.Category]
	Clients    repository.Source[entity.Client]
	Suppliers  repository.Source[entity.Supplier]
	Sales      repository.Source[entity.Sale]
	Purchases  repository.Source[entity.Purchase]
	Returns    repository.Source[entity.ReturnRecord]
	Lows       repository.Source[entity.ReturnRecord]
	Users      repository.Source[entity.User]
	Roles      repository.Source[entity.Role]
}

// ReturnsOfKind adapta ListByKind a Source.
func ReturnsOfKind(repo repository.ReturnRepository, kind string) repository.Source[entity.ReturnRecord] {
	return repository.SourceFunc[entity.ReturnRecord](func(ctx context.Context) ([]entity.ReturnRecord, error) {
		return repo.ListByKind(ctx, kind)
	})
}

// NewListRegistryFrom arma los diez listados con su tamaño de página.
func NewListRegistryFrom(src ListSources) *ListRegistry {
	return NewListRegistry(
		productList(src.Products),
		categoryList(src.Categories),
		clientList(src.Clients),
		supplierList(src.Suppliers),
		saleList(src.Sales),
		purchaseList(src.Purchases),
		returnList(src.Returns),
		lowList(src.Lows),
		userList(src.Users),
		roleList(src.Roles),
	)
}

// valuesOf usa las columnas exportables como campos de búsqueda.
func valuesOf[T any](cols []Column[T]) listview.Fields[T] {
	return func(it T) []string {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = c.Value(it)
		}
		return out
	}
}

func productList(src repository.Source[entity.Product]) Lister {
	cols := []Column[entity.Product]{
		{"Nombre", func(p entity.Product) string { return p.Name }},
		{"Código de barras", func(p entity.Product) string { return p.Barcode }},
		{"Categoría", func(p entity.Product) string { return p.CategoryName }},
		{"Precio", func(p entity.Product) string { return export.Money(p.Price) }},
		{"Stock", func(p entity.Product) string { return strconv.Itoa(p.Stock) }},
		{"Estado", func(p entity.Product) string { return p.Status }},
	}
	visible := valuesOf(cols)
	return NewListUseCase(ListConfig[entity.Product, dto.ProductResponse]{
		Entity:  EntityProducts,
		Module:  rbac.ModuleProducts,
		Title:   "Productos",
		PerPage: 5,
		Source:  src,
		// el precio también se busca sin formato ("2900")
		Fields:  func(p entity.Product) []string { return append(visible(p), p.Price.String()) },
		Status:  func(p entity.Product) string { return p.Status },
		Columns: cols,
		Map:     ToProductResponse,
	})
}

func categoryList(src repository.Source[entity.Category]) Lister {
	cols := []Column[entity.Category]{
		{"Nombre", func(c entity.Category) string { return c.Name }},
		{"Descripción", func(c entity.Category) string { return c.Description }},
		{"Estado", func(c entity.Category) string { return c.Status }},
	}
	return NewListUseCase(ListConfig[entity.Category, dto.CategoryResponse]{
		Entity:  EntityCategories,
		Module:  rbac.ModuleCategories,
		Title:   "Categorías",
		PerPage: 5,
		Source:  src,
		Fields:  valuesOf(cols),
		Status:  func(c entity.Category) string { return c.Status },
		Columns: cols,
		Map:     toCategoryResponse,
	})
}

func clientList(src repository.Source[entity.Client]) Lister {
	cols := []Column[entity.Client]{
		{"Documento", func(c entity.Client) string { return c.Document }},
		{"Nombre", func(c entity.Client) string { return c.Name }},
		{"Correo", func(c entity.Client) string { return c.Email }},
		{"Teléfono", func(c entity.Client) string { return c.Phone }},
		{"Dirección", func(c entity.Client) string { return c.Address }},
		{"Estado", func(c entity.Client) string { return c.Status }},
	}
	return NewListUseCase(ListConfig[entity.Client, dto.ClientResponse]{
		Entity:  EntityClients,
		Module:  rbac.ModuleClients,
		Title:   "Clientes",
		PerPage: 6,
		Source:  src,
		Fields:  valuesOf(cols),
		Status:  func(c entity.Client) string { return c.Status },
		Columns: cols,
		Map:     toClientResponse,
	})
}

func supplierList(src repository.Source[entity.Supplier]) Lister {
	cols := []Column[entity.Supplier]{
		{"NIT", func(s entity.Supplier) string { return s.NIT }},
		{"Nombre", func(s entity.Supplier) string { return s.Name }},
		{"Contacto", func(s entity.Supplier) string { return s.Contact }},
		{"Correo", func(s entity.Supplier) string { return s.Email }},
		{"Teléfono", func(s entity.Supplier) string { return s.Phone }},
		{"Productos", func(s entity.Supplier) string { return strconv.Itoa(len(s.Products)) }},
		{"Estado", func(s entity.Supplier) string { return s.Status }},
	}
	visible := valuesOf(cols)
	return NewListUseCase(ListConfig[entity.Supplier, dto.SupplierResponse]{
		Entity:  EntitySuppliers,
		Module:  rbac.ModuleSuppliers,
		Title:   "Proveedores",
		PerPage: 5,
		Source:  src,
		// los productos que surte se buscan pero no se exportan
		Fields: func(s entity.Supplier) []string {
			out := visible(s)
			for _, p := range s.Products {
				out = append(out, p.Name)
			}
			return out
		},
		Status:  func(s entity.Supplier) string { return s.Status },
		Columns: cols,
		Map:     toSupplierResponse,
	})
}

func saleList(src repository.Source[entity.Sale]) Lister {
	cols := []Column[entity.Sale]{
		{"Venta", func(s entity.Sale) string { return s.ID }},
		{"Cliente", func(s entity.Sale) string { return s.ClientName }},
		{"Fecha", func(s entity.Sale) string { return export.Date(s.Date) }},
		{"Total", func(s entity.Sale) string { return export.Money(s.Total) }},
		{"Método de pago", func(s entity.Sale) string { return s.PaymentMethod }},
		{"Estado", func(s entity.Sale) string { return s.Status }},
	}
	return NewListUseCase(ListConfig[entity.Sale, dto.SaleResponse]{
		Entity:  EntitySales,
		Module:  rbac.ModuleSales,
		Title:   "Ventas",
		PerPage: 6,
		Source:  src,
		Fields:  valuesOf(cols),
		Columns: cols,
		Map:     toSaleResponse,
	})
}

func purchaseList(src repository.Source[entity.Purchase]) Lister {
	cols := []Column[entity.Purchase]{
		{"Compra", func(p entity.Purchase) string { return p.ID }},
		{"Proveedor", func(p entity.Purchase) string { return p.SupplierName }},
		{"Fecha", func(p entity.Purchase) string { return export.Date(p.Date) }},
		{"Total", func(p entity.Purchase) string { return export.Money(p.Total) }},
		{"Estado", func(p entity.Purchase) string { return p.Status }},
	}
	return NewListUseCase(ListConfig[entity.Purchase, dto.PurchaseResponse]{
		Entity:  EntityPurchases,
		Module:  rbac.ModulePurchases,
		Title:   "Compras",
		PerPage: 6,
		Source:  src,
		Fields:  valuesOf(cols),
		Columns: cols,
		Map:     toPurchaseResponse,
	})
}

func itemNames(r entity.ReturnRecord) string {
	names := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		names = append(names, it.Name)
	}
	return strings.Join(names, ", ")
}

func returnList(src repository.Source[entity.ReturnRecord]) Lister {
	cols := []Column[entity.ReturnRecord]{
		{"N°", func(r entity.ReturnRecord) string { return strconv.Itoa(r.Number) }},
		{"Fecha", func(r entity.ReturnRecord) string { return export.Date(r.Date) }},
		{"Cliente", func(r entity.ReturnRecord) string { return r.ClientName }},
		{"Productos", itemNames},
		{"Cantidad", func(r entity.ReturnRecord) string { return strconv.Itoa(r.TotalQuantity()) }},
		{"Motivo", func(r entity.ReturnRecord) string { return r.Reason }},
		{"Responsable", func(r entity.ReturnRecord) string { return r.Responsible }},
	}
	return NewListUseCase(ListConfig[entity.ReturnRecord, dto.ReturnRecordResponse]{
		Entity:  EntityReturns,
		Module:  rbac.ModuleReturns,
		Title:   "Devoluciones",
		PerPage: 6,
		Source:  src,
		Fields:  valuesOf(cols),
		Columns: cols,
		Map:     ToReturnRecordResponse,
	})
}

func lowList(src repository.Source[entity.ReturnRecord]) Lister {
	cols := []Column[entity.ReturnRecord]{
		{"ID baja", func(r entity.ReturnRecord) string { return strconv.Itoa(r.Number) }},
		{"Fecha", func(r entity.ReturnRecord) string { return export.Date(r.Date) }},
		{"Productos", itemNames},
		{"Cantidad", func(r entity.ReturnRecord) string { return strconv.Itoa(r.TotalQuantity()) }},
		{"Motivo", func(r entity.ReturnRecord) string { return r.Reason }},
		{"Responsable", func(r entity.ReturnRecord) string { return r.Responsible }},
	}
	return NewListUseCase(ListConfig[entity.ReturnRecord, dto.ReturnRecordResponse]{
		Entity:  EntityLows,
		Module:  rbac.ModuleLows,
		Title:   "Bajas de inventario",
		PerPage: 6,
		Source:  src,
		Fields:  valuesOf(cols),
		Columns: cols,
		Map:     ToReturnRecordResponse,
	})
}

func userList(src repository.Source[entity.User]) Lister {
	cols := []Column[entity.User]{
		{"Documento", func(u entity.User) string { return u.Document }},
		{"Nombre", func(u entity.User) string { return u.Name }},
		{"Correo", func(u entity.User) string { return u.Email }},
		{"Rol", func(u entity.User) string { return u.RoleName }},
		{"Estado", func(u entity.User) string { return u.Status }},
	}
	return NewListUseCase(ListConfig[entity.User, dto.UserResponse]{
		Entity:  EntityUsers,
		Module:  rbac.ModuleUsers,
		Title:   "Usuarios",
		PerPage: 6,
		Source:  src,
		Fields:  valuesOf(cols),
		Status:  func(u entity.User) string { return u.Status },
		Columns: cols,
		Map:     toUserResponse,
	})
}

func roleList(src repository.Source[entity.Role]) Lister {
	cols := []Column[entity.Role]{
		{"Nombre", func(r entity.Role) string { return r.Name }},
		{"Descripción", func(r entity.Role) string { return r.Description }},
		{"Permisos", func(r entity.Role) string { return strconv.Itoa(len(r.Permissions)) }},
		{"Estado", func(r entity.Role) string { return r.Status }},
	}
	return NewListUseCase(ListConfig[entity.Role, dto.RoleResponse]{
		Entity:  EntityRoles,
		Module:  rbac.ModuleRoles,
		Title:   "Roles",
		PerPage: 5,
		Source:  src,
		Fields:  valuesOf(cols),
		Status:  func(r entity.Role) string { return r.Status },
		Columns: cols,
		Map:     toRoleResponse,
	})
}
