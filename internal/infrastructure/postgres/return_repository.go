package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo devoluciones y bajas con sus líneas.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const recordSelect = `SELECT id, number, kind, responsible, client_name, reason, note, date FROM return_records`

func scanRecord(row pgx.Row) (*entity.ReturnRecord, error) {
	var rec entity.ReturnRecord
	if err := row.Scan(&rec.ID, &rec.Number, &rec.Kind, &rec.Responsible, &rec.ClientName,
		&rec.Reason, &rec.Note, &rec.Date); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByKind registros del tipo ordenados por consecutivo.
func (r *ReturnRepo) ListByKind(ctx context.Context, kind string) ([]entity.ReturnRecord, error) {
	records, err := collect(ctx, r.q, "return records", scanRecord,
		recordSelect+` WHERE kind = $1 ORDER BY number`, kind)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	rows, err := r.q.Query(ctx, `
		SELECT i.record_id, i.product_id, i.name, i.quantity, i.reason
		FROM return_items i JOIN return_records rr ON rr.id = i.record_id
		WHERE rr.kind = $1 ORDER BY i.record_id, i.position`, kind)
	if err != nil {
		return nil, fmt.Errorf("list return items: %w", err)
	}
	defer rows.Close()
	items := make(map[string][]entity.ReturnItem, len(records))
	for rows.Next() {
		var recordID string
		var it entity.ReturnItem
		if err := rows.Scan(&recordID, &it.ProductID, &it.Name, &it.Quantity, &it.Reason); err != nil {
			return nil, fmt.Errorf("scan return item: %w", err)
		}
		items[recordID] = append(items[recordID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Items = items[records[i].ID]
	}
	return records, nil
}

// GetByID obtiene un registro con sus líneas.
func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*entity.ReturnRecord, error) {
	rec, err := getOne(ctx, r.q, "return record", scanRecord, recordSelect+` WHERE id = $1`, id)
	if err != nil || rec == nil {
		return rec, err
	}
	rec.Items, err = collect(ctx, r.q, "return items", func(row pgx.Row) (*entity.ReturnItem, error) {
		var it entity.ReturnItem
		if err := row.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.Reason); err != nil {
			return nil, err
		}
		return &it, nil
	}, `SELECT product_id, name, quantity, reason FROM return_items WHERE record_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Append asigna el consecutivo del tipo y guarda cabecera y líneas en una sola transacción
// (savepoint si q ya es una tx).
func (r *ReturnRepo) Append(ctx context.Context, rec *entity.ReturnRecord) error {
	if rec.ID == "" || rec.Kind == "" {
		return domain.ErrInvalidInput
	}
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append return: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var number int
	err = tx.QueryRow(ctx, `
		INSERT INTO return_counters (kind, last)
		VALUES ($1, (SELECT COALESCE(MAX(number), 0) FROM return_records WHERE kind = $1) + 1)
		ON CONFLICT (kind) DO UPDATE SET last = return_counters.last + 1
		RETURNING last`, rec.Kind).Scan(&number)
	if err != nil {
		return fmt.Errorf("next return number: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO return_records (id, number, kind, responsible, client_name, reason, note, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, number, rec.Kind, rec.Responsible, rec.ClientName, rec.Reason, rec.Note, rec.Date); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert return record: %w", err)
	}

	batch := &pgx.Batch{}
	for i, it := range rec.Items {
		batch.Queue(`
			INSERT INTO return_items (record_id, position, product_id, name, quantity, reason)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.ID, i, it.ProductID, it.Name, it.Quantity, it.Reason)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert return items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit append return: %w", err)
	}
	rec.Number = number
	return nil
}
