package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
)

// SeedLowCount cantidad de bajas de demostración.
const SeedLowCount = 44

// Seed datos iniciales de todas las colecciones.
type Seed struct {
	Products    []entity.Product
	Details     []entity.ProductDetail
	Categories  []entity.Category
	Clients     []entity.Client
	Suppliers   []entity.Supplier
	Sales       []entity.Sale
	Purchases   []entity.Purchase
	Returns     []entity.ReturnRecord
	Users       []entity.User
	Roles       []entity.Role
	Permissions []entity.Permission
}

// Repositories agrupa los repositorios en memoria construidos desde una Seed.
type Repositories struct {
	Products    *ProductRepo
	Details     *ProductDetailRepo
	Categories  *Store[entity.Category]
	Clients     *Store[entity.Client]
	Suppliers   *Store[entity.Supplier]
	Sales       *Store[entity.Sale]
	Purchases   *Store[entity.Purchase]
	Returns     *ReturnRepo
	Users       *UserRepo
	Roles       *RoleRepo
	Permissions *Store[entity.Permission]
	Tx          *TxRunner
}

// NewRepositories construye todos los repositorios en memoria.
func NewRepositories(s Seed) *Repositories {
	products := NewProductRepository(s.Products)
	returns := NewReturnRepository(s.Returns)
	return &Repositories{
		Products:    products,
		Details:     NewProductDetailRepository(s.Details),
		Categories:  NewCategoryRepository(s.Categories),
		Clients:     NewClientRepository(s.Clients),
		Suppliers:   NewSupplierRepository(s.Suppliers),
		Sales:       NewSaleRepository(s.Sales),
		Purchases:   NewPurchaseRepository(s.Purchases),
		Returns:     returns,
		Users:       NewUserRepository(s.Users),
		Roles:       NewRoleRepository(s.Roles),
		Permissions: NewPermissionRepository(s.Permissions),
		Tx:          NewTxRunner(products, returns),
	}
}

// DemoSeed datos de demostración. adminPassword se guarda con bcrypt para admin@kajamart.co.
func DemoSeed(now time.Time, adminPassword string) (Seed, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return Seed{}, fmt.Errorf("hash admin: %w", err)
	}

	categories := []entity.Category{
		{ID: "cat-1", Name: "Granos", Description: "Arroz, fríjol, lenteja", Status: entity.StatusActive},
		{ID: "cat-2", Name: "Bebidas", Description: "Café, gaseosas y jugos", Status: entity.StatusActive},
		{ID: "cat-3", Name: "Aseo", Description: "Aseo personal y del hogar", Status: entity.StatusActive},
		{ID: "cat-4", Name: "Lácteos", Description: "Leche, queso y yogur", Status: entity.StatusActive},
		{ID: "cat-5", Name: "Panadería", Description: "Pan y galletas", Status: entity.StatusInactive},
		{ID: "cat-6", Name: "Enlatados", Description: "Atún y conservas", Status: entity.StatusActive},
	}

	products := []entity.Product{
		{ID: "prod-1", Name: "Arroz Diana 500g", Barcode: "7702511000017", CategoryID: "cat-1", CategoryName: "Granos", Price: decimal.NewFromInt(2900), Stock: 40, Status: entity.StatusActive},
		{ID: "prod-2", Name: "Café Águila Roja 250g", Barcode: "7702032000011", CategoryID: "cat-2", CategoryName: "Bebidas", Price: decimal.NewFromInt(8700), Stock: 25, Status: entity.StatusActive},
		{ID: "prod-3", Name: "Jabón Rey", Barcode: "7702310000019", CategoryID: "cat-3", CategoryName: "Aseo", Price: decimal.NewFromInt(2300), Stock: 0, Status: entity.StatusActive},
		{ID: "prod-4", Name: "Leche Alquería 1L", Barcode: "7702177000014", CategoryID: "cat-4", CategoryName: "Lácteos", Price: decimal.NewFromInt(4200), Stock: 5, Status: entity.StatusActive},
		{ID: "prod-5", Name: "Fríjol Bola Roja 500g", Barcode: "7702511000024", CategoryID: "cat-1", CategoryName: "Granos", Price: decimal.NewFromInt(6500), Stock: 18, Status: entity.StatusActive},
		{ID: "prod-6", Name: "Galletas Festival", Barcode: "7702025000015", CategoryID: "cat-5", CategoryName: "Panadería", Price: decimal.NewFromInt(1800), Stock: 60, Status: entity.StatusInactive},
		{ID: "prod-7", Name: "Atún Van Camps", Barcode: "7702367000018", CategoryID: "cat-6", CategoryName: "Enlatados", Price: decimal.NewFromInt(7300), Stock: 22, Status: entity.StatusActive},
		{ID: "prod-8", Name: "Postobón Manzana 1.5L", Barcode: "7702090000016", CategoryID: "cat-2", CategoryName: "Bebidas", Price: decimal.NewFromInt(4500), Stock: 30, Status: entity.StatusActive},
	}
	for i := range products {
		products[i].CreatedAt, products[i].UpdatedAt = now, now
	}

	expires := now.AddDate(0, 3, 0)
	details := []entity.ProductDetail{
		{ID: "det-1", ProductID: "prod-1", ProductName: "Arroz Diana 500g", Barcode: "7702511000017-L1", ExpiresAt: &expires, Stock: 40, Status: entity.StatusActive},
		{ID: "det-2", ProductID: "prod-2", ProductName: "Café Águila Roja 250g", Barcode: "7702032000011-L1", ExpiresAt: &expires, Stock: 25, Status: entity.StatusActive},
		{ID: "det-3", ProductID: "prod-4", ProductName: "Leche Alquería 1L", Barcode: "7702177000014-L1", ExpiresAt: &expires, Stock: 5, Status: entity.StatusActive},
	}

	clients := []entity.Client{
		{ID: "cli-1", Document: "1020304050", Name: "María Fernanda López", Email: "maria.lopez@correo.co", Phone: "3001234567", Address: "Cra 45 # 23-10", Status: entity.StatusActive},
		{ID: "cli-2", Document: "79456123", Name: "José Ramírez", Email: "jose.ramirez@correo.co", Phone: "3109876543", Address: "Cl 10 # 5-20", Status: entity.StatusActive},
		{ID: "cli-3", Document: "900123456-7", Name: "Tienda Doña Rosa", Email: "rosa@tienda.co", Phone: "6045551234", Address: "Av 80 # 30-15", Status: entity.StatusInactive},
		{ID: "cli-4", Document: "1037654321", Name: "Andrés Gómez", Email: "andres.gomez@correo.co", Phone: "3205554433", Address: "Cl 50 # 70-02", Status: entity.StatusActive},
	}

	suppliers := []entity.Supplier{
		{ID: "sup-1", NIT: "860001234-1", Name: "Distribuidora Café Ñandú", Contact: "Luis Pérez", Email: "ventas@nandu.co", Phone: "6014445566", Status: entity.StatusActive,
			Products: []entity.SupplierProduct{{ProductID: "prod-2", Name: "Café Águila Roja 250g", Price: decimal.NewFromInt(7100), Stock: 25}}},
		{ID: "sup-2", NIT: "890912345-2", Name: "Granos del Valle SAS", Contact: "Carolina Ruiz", Email: "pedidos@granosvalle.co", Phone: "6023334455", Status: entity.StatusActive,
			Products: []entity.SupplierProduct{
				{ProductID: "prod-1", Name: "Arroz Diana 500g", Price: decimal.NewFromInt(2300), Stock: 40},
				{ProductID: "prod-5", Name: "Fríjol Bola Roja 500g", Price: decimal.NewFromInt(5200), Stock: 18},
			}},
		{ID: "sup-3", NIT: "800765432-3", Name: "Aseo Total Ltda", Contact: "Jorge Díaz", Email: "contacto@aseototal.co", Phone: "6047778899", Status: entity.StatusInactive},
	}

	day := func(d int) time.Time { return now.AddDate(0, 0, -d) }
	sales := []entity.Sale{
		{ID: "ven-1", ClientName: "María Fernanda López", Date: day(1), Total: decimal.NewFromInt(23400), PaymentMethod: "Efectivo", Status: entity.TradeStatusCompleted},
		{ID: "ven-2", ClientName: "José Ramírez", Date: day(2), Total: decimal.NewFromInt(8700), PaymentMethod: "Tarjeta", Status: entity.TradeStatusCompleted},
		{ID: "ven-3", ClientName: "Andrés Gómez", Date: day(3), Total: decimal.NewFromInt(14600), PaymentMethod: "Transferencia", Status: entity.TradeStatusCancelled},
	}
	purchases := []entity.Purchase{
		{ID: "com-1", SupplierName: "Granos del Valle SAS", Date: day(5), Total: decimal.NewFromInt(185000), Status: entity.TradeStatusCompleted},
		{ID: "com-2", SupplierName: "Distribuidora Café Ñandú", Date: day(9), Total: decimal.NewFromInt(142000), Status: entity.TradeStatusCompleted},
	}

	lowReasons := []string{"dañado", "vencido", "perdida", "robo"}
	returns := make([]entity.ReturnRecord, 0, SeedLowCount+2)
	for i := 1; i <= SeedLowCount; i++ {
		p := products[(i-1)%len(products)]
		reason := lowReasons[(i-1)%len(lowReasons)]
		returns = append(returns, entity.ReturnRecord{
			ID:          fmt.Sprintf("baja-%d", i),
			Number:      i,
			Kind:        entity.ReturnKindLow,
			Responsible: "Administrador",
			Reason:      reason,
			Date:        day(SeedLowCount - i),
			Items:       []entity.ReturnItem{{ProductID: p.ID, Name: p.Name, Quantity: 1, Reason: reason}},
		})
	}
	returns = append(returns,
		entity.ReturnRecord{ID: "dev-1", Number: 1, Kind: entity.ReturnKindClient, Responsible: "Administrador", ClientName: "José Ramírez", Reason: "defectuoso", Date: day(2),
			Items: []entity.ReturnItem{{ProductID: "prod-2", Name: "Café Águila Roja 250g", Quantity: 1, Reason: "defectuoso"}}},
		entity.ReturnRecord{ID: "dev-2", Number: 2, Kind: entity.ReturnKindClient, Responsible: "Administrador", ClientName: "María Fernanda López", Reason: "vencido", Date: day(1),
			Items: []entity.ReturnItem{{ProductID: "prod-4", Name: "Leche Alquería 1L", Quantity: 2, Reason: "vencido"}}},
	)

	permissions := make([]entity.Permission, 0, len(rbac.Modules)*len(rbac.Actions))
	for _, m := range rbac.Modules {
		for _, a := range rbac.Actions {
			p := entity.Permission{Module: m, Action: a}
			p.ID = p.Key()
			permissions = append(permissions, p)
		}
	}

	seller := rbac.NewMatrix()
	for _, m := range []string{rbac.ModuleProducts, rbac.ModuleClients, rbac.ModuleSales, rbac.ModuleReturns} {
		_ = seller.Grant(m, rbac.ActionCreate)
	}
	roles := []entity.Role{
		{ID: "rol-1", Name: "Administrador", Description: "Acceso total", Status: entity.StatusActive, Permissions: permissions, CreatedAt: now, UpdatedAt: now},
		{ID: "rol-2", Name: "Vendedor", Description: "Ventas y devoluciones", Status: entity.StatusActive, Permissions: seller.Permissions(), CreatedAt: now, UpdatedAt: now},
	}

	users := []entity.User{
		{ID: "usr-1", Document: "1000000001", Name: "Administrador", Email: "admin@kajamart.co", PasswordHash: string(hash), RoleID: "rol-1", RoleName: "Administrador", Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: "usr-2", Document: "1000000002", Name: "Laura Vendedora", Email: "laura@kajamart.co", PasswordHash: string(hash), RoleID: "rol-2", RoleName: "Vendedor", Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now},
	}

	return Seed{
		Products:    products,
		Details:     details,
		Categories:  categories,
		Clients:     clients,
		Suppliers:   suppliers,
		Sales:       sales,
		Purchases:   purchases,
		Returns:     returns,
		Users:       users,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}
