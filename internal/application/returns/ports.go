package returns

import (
	"context"

	"github.com/kajamart/admin-api/internal/domain/repository"
)

// TxRunner ejecuta la confirmación (ajuste de stock + registro) de forma atómica.
// Si fn devuelve error no queda ningún efecto aplicado.
type TxRunner interface {
	RunReturn(ctx context.Context, fn func(
		products repository.ProductRepository,
		returns repository.ReturnRepository,
	) error) error
}
