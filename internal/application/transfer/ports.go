package transfer

import (
	"context"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el
// repositorio de lotes y los de los tres pools atados a esa tx. Garantiza que
// un traslado se aplique completo o no se aplique (todo-o-nada por llamada).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		whRepo repository.WarehouseStockRepository,
		shelfRepo repository.ShelfStockRepository,
		webRepo repository.WebInventoryRepository,
	) error) error
}
