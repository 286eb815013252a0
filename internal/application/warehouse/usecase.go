// Package warehouse implementa la recepción de mercancía y las reservas del
// pool de bodega.
package warehouse

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// TxRunner ejecuta fn dentro de una transacción con repos de lotes y bodega.
type TxRunner interface {
	RunReceiving(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		whRepo repository.WarehouseStockRepository,
	) error) error
}

// UseCase recepción de mercancía (crea lote + registro de bodega) y
// reserva/liberación sobre registros existentes.
type UseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, itemRepo repository.ItemRepository) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, now: time.Now}
}

// ReceiveInput entrada de una recepción de mercancía.
type ReceiveInput struct {
	ItemCode        string
	BatchCode       string
	Quantity        valueobject.Quantity
	Location        string
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
	UserID          string
}

// ReceiveResult ids creados por la recepción.
type ReceiveResult struct {
	BatchID string
	StockID string
}

// Receive registra la llegada de un lote: crea el Batch y su registro de
// bodega en la misma transacción.
func (uc *UseCase) Receive(ctx context.Context, in ReceiveInput) (*ReceiveResult, error) {
	if in.ItemCode == "" || in.BatchCode == "" || in.UserID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.FindByCode(in.ItemCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	now := uc.now()

	batch, err := entity.NewBatch(uuid.New().String(), item.ID, in.BatchCode, in.Quantity, in.ManufactureDate, in.ExpiryDate, now)
	if err != nil {
		return nil, err
	}
	stock := &entity.WarehouseStock{
		ID:               uuid.New().String(),
		ItemID:           item.ID,
		ItemCode:         in.ItemCode,
		BatchID:          batch.ID,
		Location:         in.Location,
		Quantity:         in.Quantity,
		ReservedQuantity: valueobject.ZeroQuantity(),
		ExpiryDate:       in.ExpiryDate,
		ReceivedAt:       now,
		UpdatedAt:        now,
		UpdatedBy:        in.UserID,
	}

	err = uc.txRunner.RunReceiving(ctx, func(
		batchRepo repository.BatchRepository,
		whRepo repository.WarehouseStockRepository,
	) error {
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		return whRepo.Create(stock)
	})
	if err != nil {
		return nil, err
	}
	return &ReceiveResult{BatchID: batch.ID, StockID: stock.ID}, nil
}

// Reserve aparta cantidad de un registro de bodega (bloqueo de fila).
func (uc *UseCase) Reserve(ctx context.Context, stockID string, q valueobject.Quantity, userID string) error {
	return uc.mutate(ctx, stockID, func(s *entity.WarehouseStock) (*entity.WarehouseStock, error) {
		return s.Reserve(q, userID, uc.now())
	})
}

// CancelReservation libera cantidad reservada de un registro de bodega.
func (uc *UseCase) CancelReservation(ctx context.Context, stockID string, q valueobject.Quantity, userID string) error {
	return uc.mutate(ctx, stockID, func(s *entity.WarehouseStock) (*entity.WarehouseStock, error) {
		return s.CancelReservation(q, userID, uc.now())
	})
}

func (uc *UseCase) mutate(ctx context.Context, stockID string, fn func(*entity.WarehouseStock) (*entity.WarehouseStock, error)) error {
	if stockID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunReceiving(ctx, func(
		_ repository.BatchRepository,
		whRepo repository.WarehouseStockRepository,
	) error {
		record, err := whRepo.GetByIDForUpdate(stockID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		next, err := fn(record)
		if err != nil {
			return err
		}
		return whRepo.Save(next)
	})
}
