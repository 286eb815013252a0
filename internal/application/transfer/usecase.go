package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/allocation"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// Coordinator traslada cantidad de bodega a góndola o a inventario web:
// valida disponibilidad con el asignador de lotes, descuenta los registros
// de bodega y crea o incrementa los registros destino, todo en una sola
// transacción.
type Coordinator struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	now      func() time.Time
}

// NewCoordinator construye el coordinador de traslados.
func NewCoordinator(txRunner TxRunner, itemRepo repository.ItemRepository) *Coordinator {
	return &Coordinator{txRunner: txRunner, itemRepo: itemRepo, now: time.Now}
}

// WithClock fija la fuente de tiempo (pruebas).
func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// ToShelfInput entrada para trasladar a góndola. Los umbrales aplican solo
// al crear el registro de góndola (primer traslado de ese lote a esa góndola).
type ToShelfInput struct {
	ItemCode     string
	ShelfCode    string
	Quantity     valueobject.Quantity
	MinThreshold valueobject.Quantity
	MaxThreshold *valueobject.Quantity
	UserID       string
}

// ToWebInput entrada para trasladar a inventario web.
type ToWebInput struct {
	ItemCode string
	Quantity valueobject.Quantity
	UserID   string
}

// AppliedEntry un movimiento aplicado del plan (lote → cantidad trasladada).
type AppliedEntry struct {
	BatchID  string
	Quantity valueobject.Quantity
}

// Result resumen del traslado aplicado.
type Result struct {
	ItemCode string
	Entries  []AppliedEntry
	Total    valueobject.Quantity
}

// ToShelf traslada cantidad de bodega a una góndola. Falla completa si no hay
// stock en bodega, si el plan queda corto (reporta el déficit) o si algún
// registro destino supera su umbral máximo.
func (c *Coordinator) ToShelf(ctx context.Context, in ToShelfInput) (*Result, error) {
	if in.ItemCode == "" || in.ShelfCode == "" || in.UserID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	item, err := c.itemRepo.FindByCode(in.ItemCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	now := c.now()

	var result *Result
	err = c.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		whRepo repository.WarehouseStockRepository,
		shelfRepo repository.ShelfStockRepository,
		_ repository.WebInventoryRepository,
	) error {
		plan, err := c.planFromWarehouse(whRepo, in.ItemCode, in.Quantity, now)
		if err != nil {
			return err
		}
		entries := make([]AppliedEntry, 0, len(plan))
		for _, e := range plan {
			if err := c.applyWarehouseDecrement(batchRepo, whRepo, e, in.UserID, now); err != nil {
				return err
			}
			// Primer traslado de este lote a esta góndola crea el registro;
			// los siguientes lo incrementan.
			existing, err := shelfRepo.GetByBatchAndShelf(e.Candidate.BatchID, in.ShelfCode)
			if err != nil {
				return err
			}
			if existing == nil {
				created := &entity.ShelfStock{
					ID:           uuid.New().String(),
					ItemID:       item.ID,
					ItemCode:     in.ItemCode,
					BatchID:      e.Candidate.BatchID,
					ShelfCode:    in.ShelfCode,
					Quantity:     e.Take,
					UnitPrice:    item.SellingPrice,
					Displayed:    true,
					MinThreshold: in.MinThreshold,
					MaxThreshold: in.MaxThreshold,
					ExpiryDate:   e.Candidate.Expiry,
					PlacedAt:     now,
					UpdatedAt:    now,
					UpdatedBy:    in.UserID,
				}
				if in.MaxThreshold != nil && created.Quantity.GreaterThan(*in.MaxThreshold) {
					return domain.ErrShelfCapacity
				}
				if err := shelfRepo.Create(created); err != nil {
					return err
				}
			} else {
				restocked, err := existing.Restock(e.Take, in.UserID, now)
				if err != nil {
					return err
				}
				if err := shelfRepo.Save(restocked); err != nil {
					return err
				}
			}
			entries = append(entries, AppliedEntry{BatchID: e.Candidate.BatchID, Quantity: e.Take})
		}
		result = &Result{ItemCode: in.ItemCode, Entries: entries, Total: plan.Total()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ToWeb traslada cantidad de bodega al inventario web.
func (c *Coordinator) ToWeb(ctx context.Context, in ToWebInput) (*Result, error) {
	if in.ItemCode == "" || in.UserID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	item, err := c.itemRepo.FindByCode(in.ItemCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	now := c.now()

	var result *Result
	err = c.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		whRepo repository.WarehouseStockRepository,
		_ repository.ShelfStockRepository,
		webRepo repository.WebInventoryRepository,
	) error {
		plan, err := c.planFromWarehouse(whRepo, in.ItemCode, in.Quantity, now)
		if err != nil {
			return err
		}
		entries := make([]AppliedEntry, 0, len(plan))
		for _, e := range plan {
			if err := c.applyWarehouseDecrement(batchRepo, whRepo, e, in.UserID, now); err != nil {
				return err
			}
			existing, err := webRepo.GetByBatch(e.Candidate.BatchID)
			if err != nil {
				return err
			}
			if existing == nil {
				created := &entity.WebInventory{
					ID:           uuid.New().String(),
					ItemID:       item.ID,
					ItemCode:     in.ItemCode,
					BatchID:      e.Candidate.BatchID,
					Quantity:     e.Take,
					BaseQuantity: e.Take,
					WebPrice:     item.SellingPrice,
					Published:    true,
					StockLevel:   100,
					ExpiryDate:   e.Candidate.Expiry,
					PlacedAt:     now,
					UpdatedAt:    now,
					UpdatedBy:    in.UserID,
				}
				if err := webRepo.Create(created); err != nil {
					return err
				}
			} else {
				restocked, err := existing.Restock(e.Take, in.UserID, now)
				if err != nil {
					return err
				}
				if err := webRepo.Save(restocked); err != nil {
					return err
				}
			}
			entries = append(entries, AppliedEntry{BatchID: e.Candidate.BatchID, Quantity: e.Take})
		}
		result = &Result{ItemCode: in.ItemCode, Entries: entries, Total: plan.Total()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// planFromWarehouse carga los registros de bodega bloqueados y arma el plan.
// Sin registros: ErrNoWarehouseStock. Plan corto: InsufficientStockError con
// el déficit.
func (c *Coordinator) planFromWarehouse(
	whRepo repository.WarehouseStockRepository,
	itemCode string,
	requested valueobject.Quantity,
	now time.Time,
) (allocation.Plan, error) {
	records, err := whRepo.FindAvailableByItemCodeForUpdate(itemCode)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNoWarehouseStock
	}
	candidates := allocation.FromWarehouse(records, now)
	plan, shortfall, err := allocation.Allocate(requested, candidates)
	if err != nil {
		return nil, err
	}
	if shortfall.IsPositive() {
		return nil, &domain.InsufficientStockError{
			ItemCode:  itemCode,
			Requested: requested.Decimal(),
			Available: plan.Total().Decimal(),
			Deficit:   shortfall.Decimal(),
		}
	}
	return plan, nil
}

// applyWarehouseDecrement descuenta el registro de bodega y el libro de lotes
// en el mismo movimiento: lo que sale de bodega deja de estar disponible en
// su lote.
func (c *Coordinator) applyWarehouseDecrement(
	batchRepo repository.BatchRepository,
	whRepo repository.WarehouseStockRepository,
	e allocation.Entry,
	userID string,
	now time.Time,
) error {
	record, err := whRepo.GetByID(e.Candidate.RecordID)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrStockConflict
	}
	next, err := record.Transfer(e.Take, userID, now)
	if err != nil {
		return err
	}
	if err := whRepo.Save(next); err != nil {
		return err
	}

	batch, err := batchRepo.GetByIDForUpdate(e.Candidate.BatchID)
	if err != nil {
		return err
	}
	if batch == nil {
		return domain.ErrStockConflict
	}
	consumed, err := batch.Consume(e.Take)
	if err != nil {
		return err
	}
	return batchRepo.Save(consumed)
}
