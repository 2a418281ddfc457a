package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
)

// SaleRepo lectura de ventas.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo { return &SaleRepo{q: q} }

// All lista las ventas de la más reciente a la más antigua.
func (r *SaleRepo) All(ctx context.Context) ([]entity.Sale, error) {
	return collect(ctx, r.q, "sales", func(row pgx.Row) (*entity.Sale, error) {
		var s entity.Sale
		if err := row.Scan(&s.ID, &s.ClientName, &s.Date, &s.Total, &s.PaymentMethod, &s.Status); err != nil {
			return nil, err
		}
		return &s, nil
	}, `SELECT id, client_name, date, total, payment_method, status FROM sales ORDER BY date DESC, id`)
}

// PurchaseRepo lectura de compras.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador.
func NewPurchaseRepository(q Querier) *PurchaseRepo { return &PurchaseRepo{q: q} }

// All lista las compras de la más reciente a la más antigua.
func (r *PurchaseRepo) All(ctx context.Context) ([]entity.Purchase, error) {
	return collect(ctx, r.q, "purchases", func(row pgx.Row) (*entity.Purchase, error) {
		var p entity.Purchase
		if err := row.Scan(&p.ID, &p.SupplierName, &p.Date, &p.Total, &p.Status); err != nil {
			return nil, err
		}
		return &p, nil
	}, `SELECT id, supplier_name, date, total, status FROM purchases ORDER BY date DESC, id`)
}
