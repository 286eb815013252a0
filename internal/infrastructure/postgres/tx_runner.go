package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
	"github.com/jhoicas/PuntoVenta-api/internal/application/transfer"
	"github.com/jhoicas/PuntoVenta-api/internal/application/warehouse"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// El runner satisface los puertos transaccionales de traslados, recepción y
// los dos checkouts.
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ warehouse.TxRunner = (*TxRunner)(nil)
var _ checkout.POSTxRunner = (*TxRunner)(nil)
var _ checkout.WebTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, pasando
// repositorios atados a esa tx. Commit si fn retorna nil; Rollback si no.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción de traslado: libro de lotes + repos de los tres pools.
func (r *TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	whRepo repository.WarehouseStockRepository,
	shelfRepo repository.ShelfStockRepository,
	webRepo repository.WebInventoryRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewBatchRepository(q), NewWarehouseStockRepository(q), NewShelfStockRepository(q), NewWebInventoryRepository(q))
	})
}

// RunReceiving transacción de recepción/reserva: lotes + bodega.
func (r *TxRunner) RunReceiving(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	whRepo repository.WarehouseStockRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewBatchRepository(q), NewWarehouseStockRepository(q))
	})
}

// RunPOS transacción de venta de caja: góndola + registro de ventas.
func (r *TxRunner) RunPOS(ctx context.Context, fn func(
	shelfRepo repository.ShelfStockRepository,
	trxRepo repository.TransactionRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewShelfStockRepository(q), NewTransactionRepository(q))
	})
}

// RunWeb transacción de checkout web: inventario web + historial de pedidos.
func (r *TxRunner) RunWeb(ctx context.Context, fn func(
	webRepo repository.WebInventoryRepository,
	orderRepo repository.WebOrderRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewWebInventoryRepository(q), NewWebOrderRepository(q))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
