package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/stockview"
)

// StockHandler vistas de solo lectura de los tres pools de stock (protegido).
type StockHandler struct {
	uc *stockview.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stockview.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Warehouse godoc
// @Summary      Stock de bodega disponible por artículo
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        itemCode  path  string  true  "Código del artículo"
// @Success      200  {array}   dto.StockRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stocks/{itemCode}/warehouse [get]
func (h *StockHandler) Warehouse(c *fiber.Ctx) error {
	records, err := h.uc.Warehouse(c.Params("itemCode"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.StockRecordResponse{
			ID:         r.ID,
			ItemCode:   r.ItemCode,
			BatchID:    r.BatchID,
			Location:   r.Location,
			Quantity:   r.Quantity.Decimal(),
			Reserved:   r.ReservedQuantity.Decimal(),
			ExpiryDate: r.ExpiryDate,
		})
	}
	return c.JSON(out)
}

// Shelf godoc
// @Summary      Stock de góndola por artículo, con alerta de surtido mínimo
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        itemCode  path  string  true  "Código del artículo"
// @Success      200  {array}   dto.StockRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stocks/{itemCode}/shelf [get]
func (h *StockHandler) Shelf(c *fiber.Ctx) error {
	records, err := h.uc.Shelf(c.Params("itemCode"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.StockRecordResponse{
			ID:         r.ID,
			ItemCode:   r.ItemCode,
			BatchID:    r.BatchID,
			ShelfCode:  r.ShelfCode,
			Quantity:   r.Quantity.Decimal(),
			UnitPrice:  r.UnitPrice.Decimal(),
			Displayed:  r.Displayed,
			BelowMin:   r.BelowMin(),
			ExpiryDate: r.ExpiryDate,
		})
	}
	return c.JSON(out)
}

// Web godoc
// @Summary      Inventario web por artículo, con indicador de nivel
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        itemCode  path  string  true  "Código del artículo"
// @Success      200  {array}   dto.StockRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stocks/{itemCode}/web [get]
func (h *StockHandler) Web(c *fiber.Ctx) error {
	records, err := h.uc.Web(c.Params("itemCode"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.StockRecordResponse{
			ID:         r.ID,
			ItemCode:   r.ItemCode,
			BatchID:    r.BatchID,
			Quantity:   r.Quantity.Decimal(),
			UnitPrice:  r.WebPrice.Decimal(),
			StockLevel: r.StockLevel,
			Published:  r.Published,
			ExpiryDate: r.ExpiryDate,
		})
	}
	return c.JSON(out)
}
