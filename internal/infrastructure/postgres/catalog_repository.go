package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// execMutation traduce los errores comunes de INSERT/UPDATE/DELETE.
func execMutation(ctx context.Context, q Querier, op string, query string, args ...any) error {
	cmd, err := q.Exec(ctx, query, args...)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrConflict
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── Categorías ────────────────────────────────────────────────────────────────

// CategoryRepo categorías sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo { return &CategoryRepo{q: q} }

const categorySelect = `SELECT id, name, description, status, created_at, updated_at FROM categories`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// All lista las categorías.
func (r *CategoryRepo) All(ctx context.Context) ([]entity.Category, error) {
	return collect(ctx, r.q, "categories", scanCategory, categorySelect+` ORDER BY created_at, id`)
}

// GetByID obtiene una categoría.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return getOne(ctx, r.q, "category", scanCategory, categorySelect+` WHERE id = $1`, id)
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	return execMutation(ctx, r.q, "insert category", `
		INSERT INTO categories (id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Description, c.Status, c.CreatedAt, c.UpdatedAt)
}

// Update actualiza una categoría.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return execMutation(ctx, r.q, "update category", `
		UPDATE categories SET name = $2, description = $3, status = $4, updated_at = $5 WHERE id = $1`,
		c.ID, c.Name, c.Description, c.Status, c.UpdatedAt)
}

// Delete elimina una categoría; con productos asociados devuelve domain.ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return execMutation(ctx, r.q, "delete category", `DELETE FROM categories WHERE id = $1`, id)
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// ClientRepo clientes sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador.
func NewClientRepository(q Querier) *ClientRepo { return &ClientRepo{q: q} }

const clientSelect = `SELECT id, document, name, email, phone, address, status, created_at, updated_at FROM clients`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.Document, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// All lista los clientes.
func (r *ClientRepo) All(ctx context.Context) ([]entity.Client, error) {
	return collect(ctx, r.q, "clients", scanClient, clientSelect+` ORDER BY created_at, id`)
}

// GetByID obtiene un cliente.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return getOne(ctx, r.q, "client", scanClient, clientSelect+` WHERE id = $1`, id)
}

// Create persiste un cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	return execMutation(ctx, r.q, "insert client", `
		INSERT INTO clients (id, document, name, email, phone, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Document, c.Name, c.Email, c.Phone, c.Address, c.Status, c.CreatedAt, c.UpdatedAt)
}

// Update actualiza un cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	return execMutation(ctx, r.q, "update client", `
		UPDATE clients SET document = $2, name = $3, email = $4, phone = $5, address = $6, status = $7, updated_at = $8
		WHERE id = $1`,
		c.ID, c.Document, c.Name, c.Email, c.Phone, c.Address, c.Status, c.UpdatedAt)
}

// Delete elimina un cliente.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	return execMutation(ctx, r.q, "delete client", `DELETE FROM clients WHERE id = $1`, id)
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// SupplierRepo proveedores sobre PostgreSQL; los productos surtidos van en JSONB.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo { return &SupplierRepo{q: q} }

const supplierSelect = `SELECT id, nit, name, contact, email, phone, status, products, created_at, updated_at FROM suppliers`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.NIT, &s.Name, &s.Contact, &s.Email, &s.Phone, &s.Status,
		&s.Products, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func supplierProducts(s *entity.Supplier) []entity.SupplierProduct {
	if s.Products == nil {
		return []entity.SupplierProduct{}
	}
	return s.Products
}

// All lista los proveedores.
func (r *SupplierRepo) All(ctx context.Context) ([]entity.Supplier, error) {
	return collect(ctx, r.q, "suppliers", scanSupplier, supplierSelect+` ORDER BY created_at, id`)
}

// GetByID obtiene un proveedor.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return getOne(ctx, r.q, "supplier", scanSupplier, supplierSelect+` WHERE id = $1`, id)
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	return execMutation(ctx, r.q, "insert supplier", `
		INSERT INTO suppliers (id, nit, name, contact, email, phone, status, products, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.NIT, s.Name, s.Contact, s.Email, s.Phone, s.Status, supplierProducts(s), s.CreatedAt, s.UpdatedAt)
}

// Update actualiza un proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	return execMutation(ctx, r.q, "update supplier", `
		UPDATE suppliers SET nit = $2, name = $3, contact = $4, email = $5, phone = $6, status = $7, products = $8, updated_at = $9
		WHERE id = $1`,
		s.ID, s.NIT, s.Name, s.Contact, s.Email, s.Phone, s.Status, supplierProducts(s), s.UpdatedAt)
}

// Delete elimina un proveedor.
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	return execMutation(ctx, r.q, "delete supplier", `DELETE FROM suppliers WHERE id = $1`, id)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func collect[T any](ctx context.Context, q Querier, what string, scan func(pgx.Row) (*T, error), query string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer rows.Close()
	list := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		list = append(list, *item)
	}
	return list, rows.Err()
}

func getOne[T any](ctx context.Context, q Querier, what string, scan func(pgx.Row) (*T, error), query string, args ...any) (*T, error) {
	item, err := scan(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", what, err)
	}
	return item, nil
}
