package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// BatchRepository puerto de persistencia de lotes recibidos. GetByIDForUpdate
// bloquea la fila para la secuencia consumir-y-guardar de los traslados.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	GetByIDForUpdate(id string) (*entity.Batch, error)
	Save(batch *entity.Batch) error
}

// WarehouseStockRepository puerto del pool de bodega. Las variantes ForUpdate
// bloquean las filas (SELECT FOR UPDATE) para la secuencia asignar-y-aplicar.
type WarehouseStockRepository interface {
	FindAvailableByItemCode(itemCode string) ([]*entity.WarehouseStock, error)
	FindAvailableByItemCodeForUpdate(itemCode string) ([]*entity.WarehouseStock, error)
	GetByID(id string) (*entity.WarehouseStock, error)
	GetByIDForUpdate(id string) (*entity.WarehouseStock, error)
	Create(stock *entity.WarehouseStock) error
	Save(stock *entity.WarehouseStock) error
}

// ShelfStockRepository puerto del pool de góndola.
type ShelfStockRepository interface {
	FindAvailableByItemCode(itemCode string) ([]*entity.ShelfStock, error)
	FindAvailableByItemCodeForUpdate(itemCode string) ([]*entity.ShelfStock, error)
	GetByBatchAndShelf(batchID, shelfCode string) (*entity.ShelfStock, error)
	Create(stock *entity.ShelfStock) error
	Save(stock *entity.ShelfStock) error
}

// WebInventoryRepository puerto del pool web.
type WebInventoryRepository interface {
	FindAvailableByItemCode(itemCode string) ([]*entity.WebInventory, error)
	FindAvailableByItemCodeForUpdate(itemCode string) ([]*entity.WebInventory, error)
	GetByBatch(batchID string) (*entity.WebInventory, error)
	Create(inv *entity.WebInventory) error
	Save(inv *entity.WebInventory) error
}
