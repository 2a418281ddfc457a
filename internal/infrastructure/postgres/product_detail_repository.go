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

var _ repository.ProductDetailRepository = (*ProductDetailRepo)(nil)

// ProductDetailRepo lotes de producto.
type ProductDetailRepo struct {
	q Querier
}

// NewProductDetailRepository construye el adaptador.
func NewProductDetailRepository(q Querier) *ProductDetailRepo {
	return &ProductDetailRepo{q: q}
}

const detailSelect = `
	SELECT d.id, d.product_id, p.name, d.barcode, d.expires_at, d.stock, d.status, d.created_at, d.updated_at
	FROM product_details d JOIN products p ON p.id = d.product_id`

func scanDetail(row pgx.Row) (*entity.ProductDetail, error) {
	var d entity.ProductDetail
	if err := row.Scan(&d.ID, &d.ProductID, &d.ProductName, &d.Barcode, &d.ExpiresAt,
		&d.Stock, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *ProductDetailRepo) list(ctx context.Context, query string, args ...any) ([]entity.ProductDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product details: %w", err)
	}
	defer rows.Close()
	list := make([]entity.ProductDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product detail: %w", err)
		}
		list = append(list, *d)
	}
	return list, rows.Err()
}

// All lista todos los lotes.
func (r *ProductDetailRepo) All(ctx context.Context) ([]entity.ProductDetail, error) {
	return r.list(ctx, detailSelect+` ORDER BY d.created_at, d.id`)
}

// ListByProduct lotes de un producto.
func (r *ProductDetailRepo) ListByProduct(ctx context.Context, productID string) ([]entity.ProductDetail, error) {
	return r.list(ctx, detailSelect+` WHERE d.product_id = $1 ORDER BY d.created_at, d.id`, productID)
}

// GetByID obtiene un lote.
func (r *ProductDetailRepo) GetByID(ctx context.Context, id string) (*entity.ProductDetail, error) {
	d, err := scanDetail(r.q.QueryRow(ctx, detailSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product detail: %w", err)
	}
	return d, nil
}

// Create persiste un lote.
func (r *ProductDetailRepo) Create(ctx context.Context, d *entity.ProductDetail) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_details (id, product_id, barcode, expires_at, stock, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.ProductID, d.Barcode, d.ExpiresAt, d.Stock, d.Status, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert product detail: %w", err)
	}
	return nil
}

// Update actualiza un lote.
func (r *ProductDetailRepo) Update(ctx context.Context, d *entity.ProductDetail) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_details SET barcode = $2, expires_at = $3, stock = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		d.ID, d.Barcode, d.ExpiresAt, d.Stock, d.Status, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product detail: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un lote.
func (r *ProductDetailRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM product_details WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product detail: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
