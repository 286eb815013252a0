package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
)

// writeDomainError traduce un error de dominio a una respuesta HTTP con su
// código estable. Los handlers delegan aquí en lugar de repetir la cadena de
// comparaciones en cada endpoint.
func writeDomainError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insufficient.Error(),
		})
	}
	var limit *domain.LimitExceededError
	if errors.As(err, &limit) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "PURCHASE_LIMIT",
			Message: limit.Error(),
		})
	}
	var declined *domain.PaymentDeclinedError
	if errors.As(err, &declined) {
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
			Code:    "PAYMENT_DECLINED",
			Message: declined.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNegativeQuantity),
		errors.Is(err, domain.ErrInvalidPrice):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidCardNumber):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CARD", Message: err.Error()})
	case errors.Is(err, domain.ErrCartEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CART_EMPTY", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientCash):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_CASH", Message: err.Error()})
	case errors.Is(err, domain.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ITEM_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SESSION_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrCheckoutState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CHECKOUT_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrNoWarehouseStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_WAREHOUSE_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrExpiredBatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EXPIRED_BATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrShelfCapacity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SHELF_CAPACITY", Message: err.Error()})
	case errors.Is(err, domain.ErrStockConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STOCK_CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
