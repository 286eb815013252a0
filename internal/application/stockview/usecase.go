package stockview

import (
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// UseCase consultas de solo lectura sobre los tres pools de stock. No abre
// transacciones: cada consulta es una foto del momento.
type UseCase struct {
	whRepo    repository.WarehouseStockRepository
	shelfRepo repository.ShelfStockRepository
	webRepo   repository.WebInventoryRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	whRepo repository.WarehouseStockRepository,
	shelfRepo repository.ShelfStockRepository,
	webRepo repository.WebInventoryRepository,
) *UseCase {
	return &UseCase{whRepo: whRepo, shelfRepo: shelfRepo, webRepo: webRepo}
}

// Warehouse registros de bodega con disponible positivo para el artículo.
func (uc *UseCase) Warehouse(itemCode string) ([]*entity.WarehouseStock, error) {
	if itemCode == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.whRepo.FindAvailableByItemCode(itemCode)
}

// Shelf registros de góndola con cantidad positiva para el artículo.
func (uc *UseCase) Shelf(itemCode string) ([]*entity.ShelfStock, error) {
	if itemCode == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.shelfRepo.FindAvailableByItemCode(itemCode)
}

// Web registros de inventario web con cantidad positiva para el artículo.
func (uc *UseCase) Web(itemCode string) ([]*entity.WebInventory, error) {
	if itemCode == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.webRepo.FindAvailableByItemCode(itemCode)
}
