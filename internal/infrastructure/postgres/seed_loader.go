package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kajamart/admin-api/internal/domain/entity"
)

// Las colecciones de solo lectura (permisos, ventas, compras) no tienen Create en sus puertos;
// cmd/seed las carga con estos métodos. Un ID existente se omite.

// Insert agrega permisos al catálogo; devuelve cuántos eran nuevos.
func (r *PermissionRepo) Insert(ctx context.Context, perms ...entity.Permission) (int, error) {
	batch := &pgx.Batch{}
	for _, p := range perms {
		batch.Queue(`INSERT INTO permissions (id, module, action) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			p.ID, p.Module, p.Action)
	}
	return sendBatch(ctx, r.q, "insert permissions", batch)
}

// Insert agrega ventas; devuelve cuántas eran nuevas.
func (r *SaleRepo) Insert(ctx context.Context, sales ...entity.Sale) (int, error) {
	batch := &pgx.Batch{}
	for _, s := range sales {
		batch.Queue(`
			INSERT INTO sales (id, client_name, date, total, payment_method, status)
			VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
			s.ID, s.ClientName, s.Date, s.Total, s.PaymentMethod, s.Status)
	}
	return sendBatch(ctx, r.q, "insert sales", batch)
}

// Insert agrega compras; devuelve cuántas eran nuevas.
func (r *PurchaseRepo) Insert(ctx context.Context, purchases ...entity.Purchase) (int, error) {
	batch := &pgx.Batch{}
	for _, p := range purchases {
		batch.Queue(`
			INSERT INTO purchases (id, supplier_name, date, total, status)
			VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
			p.ID, p.SupplierName, p.Date, p.Total, p.Status)
	}
	return sendBatch(ctx, r.q, "insert purchases", batch)
}

func sendBatch(ctx context.Context, q Querier, op string, batch *pgx.Batch) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}
	tx, err := q.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for i := 0; i < batch.Len(); i++ {
		cmd, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		inserted += int(cmd.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}
	return inserted, nil
}
