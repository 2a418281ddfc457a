package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories agrupa los adaptadores sobre un mismo pool.
type Repositories struct {
	Products    *ProductRepo
	Details     *ProductDetailRepo
	Categories  *CategoryRepo
	Clients     *ClientRepo
	Suppliers   *SupplierRepo
	Sales       *SaleRepo
	Purchases   *PurchaseRepo
	Returns     *ReturnRepo
	Users       *UserRepo
	Roles       *RoleRepo
	Permissions *PermissionRepo
	Tx          *TxRunner
}

// NewRepositories construye todos los repositorios sobre pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Products:    NewProductRepository(pool),
		Details:     NewProductDetailRepository(pool),
		Categories:  NewCategoryRepository(pool),
		Clients:     NewClientRepository(pool),
		Suppliers:   NewSupplierRepository(pool),
		Sales:       NewSaleRepository(pool),
		Purchases:   NewPurchaseRepository(pool),
		Returns:     NewReturnRepository(pool),
		Users:       NewUserRepository(pool),
		Roles:       NewRoleRepository(pool),
		Permissions: NewPermissionRepository(pool),
		Tx:          NewTxRunner(pool),
	}
}
