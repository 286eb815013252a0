package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/warehouse"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// WarehouseHandler maneja recepciones de mercancía y reservas de bodega (protegido).
type WarehouseHandler struct {
	uc *warehouse.UseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *warehouse.UseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Receive godoc
// @Summary      Registrar recepción de mercancía
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "item_code, batch_code, quantity, location, fechas del lote"
// @Success      201   {object}  dto.ReceiveStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/warehouse/receipts [post]
func (h *WarehouseHandler) Receive(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := valueobject.NewQuantity(in.Quantity)
	if err != nil {
		return writeDomainError(c, err)
	}
	result, err := h.uc.Receive(c.Context(), warehouse.ReceiveInput{
		ItemCode:        in.ItemCode,
		BatchCode:       in.BatchCode,
		Quantity:        qty,
		Location:        in.Location,
		ManufactureDate: in.ManufactureDate,
		ExpiryDate:      in.ExpiryDate,
		UserID:          userID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiveStockResponse{
		BatchID: result.BatchID,
		StockID: result.StockID,
	})
}

// Reserve godoc
// @Summary      Reservar cantidad de un registro de bodega
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del registro de bodega"
// @Param        body  body  dto.ReservationRequest  true  "quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouse/stocks/{id}/reservations [post]
func (h *WarehouseHandler) Reserve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := valueobject.NewQuantity(in.Quantity)
	if err != nil {
		return writeDomainError(c, err)
	}
	if err := h.uc.Reserve(c.Context(), c.Params("id"), qty, userID); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva registrada"})
}

// CancelReservation godoc
// @Summary      Liberar una reserva de bodega
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del registro de bodega"
// @Param        body  body  dto.ReservationRequest  true  "quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/warehouse/stocks/{id}/reservations [delete]
func (h *WarehouseHandler) CancelReservation(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := valueobject.NewQuantity(in.Quantity)
	if err != nil {
		return writeDomainError(c, err)
	}
	if err := h.uc.CancelReservation(c.Context(), c.Params("id"), qty, userID); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}
