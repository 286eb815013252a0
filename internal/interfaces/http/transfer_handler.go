package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/transfer"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// TransferHandler maneja los traslados bodega → góndola y bodega → web (protegido).
type TransferHandler struct {
	uc *transfer.Coordinator
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.Coordinator) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// ToShelf godoc
// @Summary      Trasladar stock de bodega a góndola
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferToShelfRequest  true  "item_code, shelf_code, quantity, umbrales"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/shelf [post]
func (h *TransferHandler) ToShelf(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferToShelfRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := valueobject.NewQuantity(in.Quantity)
	if err != nil {
		return writeDomainError(c, err)
	}
	minT, err := valueobject.NewQuantity(in.MinThreshold)
	if err != nil {
		return writeDomainError(c, err)
	}
	input := transfer.ToShelfInput{
		ItemCode:     in.ItemCode,
		ShelfCode:    in.ShelfCode,
		Quantity:     qty,
		MinThreshold: minT,
		UserID:       userID,
	}
	if in.MaxThreshold != nil {
		maxT, err := valueobject.NewQuantity(*in.MaxThreshold)
		if err != nil {
			return writeDomainError(c, err)
		}
		input.MaxThreshold = &maxT
	}
	result, err := h.uc.ToShelf(c.Context(), input)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toTransferResponse(result))
}

// ToWeb godoc
// @Summary      Trasladar stock de bodega al inventario web
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferToWebRequest  true  "item_code, quantity"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/web [post]
func (h *TransferHandler) ToWeb(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferToWebRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := valueobject.NewQuantity(in.Quantity)
	if err != nil {
		return writeDomainError(c, err)
	}
	result, err := h.uc.ToWeb(c.Context(), transfer.ToWebInput{
		ItemCode: in.ItemCode,
		Quantity: qty,
		UserID:   userID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toTransferResponse(result))
}

func toTransferResponse(r *transfer.Result) dto.TransferResponse {
	entries := make([]dto.TransferEntryResponse, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, dto.TransferEntryResponse{
			BatchID:  e.BatchID,
			Quantity: e.Quantity.Decimal(),
		})
	}
	return dto.TransferResponse{
		ItemCode: r.ItemCode,
		Total:    r.Total.Decimal(),
		Entries:  entries,
	}
}
