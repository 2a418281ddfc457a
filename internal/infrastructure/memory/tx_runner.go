package memory

import (
	"context"
	"sync"

	appreturns "github.com/kajamart/admin-api/internal/application/returns"
	"github.com/kajamart/admin-api/internal/domain/repository"
)

var _ appreturns.TxRunner = (*TxRunner)(nil)

// TxRunner emula una transacción: serializa las ejecuciones y, si fn falla, revierte los
// ajustes de stock ya aplicados. Append es el último paso de fn, así que no requiere reversa.
type TxRunner struct {
	mu       sync.Mutex
	products *ProductRepo
	returns  *ReturnRepo
}

// NewTxRunner construye el runner sobre los repositorios en memoria.
func NewTxRunner(products *ProductRepo, returns *ReturnRepo) *TxRunner {
	return &TxRunner{products: products, returns: returns}
}

// RunReturn implementa appreturns.TxRunner.
func (r *TxRunner) RunReturn(ctx context.Context, fn func(
	products repository.ProductRepository,
	returns repository.ReturnRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	journal := &journaledProducts{ProductRepo: r.products}
	if err := fn(journal, r.returns); err != nil {
		journal.rollback(ctx)
		return err
	}
	return nil
}

type stockChange struct {
	productID string
	delta     int
}

// journaledProducts registra los AdjustStock aplicados para poder revertirlos.
type journaledProducts struct {
	*ProductRepo
	applied []stockChange
}

func (j *journaledProducts) AdjustStock(ctx context.Context, productID string, delta int) error {
	if err := j.ProductRepo.AdjustStock(ctx, productID, delta); err != nil {
		return err
	}
	j.applied = append(j.applied, stockChange{productID: productID, delta: delta})
	return nil
}

func (j *journaledProducts) rollback(ctx context.Context) {
	for i := len(j.applied) - 1; i >= 0; i-- {
		c := j.applied[i]
		_ = j.ProductRepo.AdjustStock(ctx, c.productID, -c.delta)
	}
	j.applied = nil
}
