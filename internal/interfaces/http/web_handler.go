package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// WebHandler maneja el carrito y el checkout de la tienda online (protegido).
type WebHandler struct {
	uc *checkout.WebCheckout
}

// NewWebHandler construye el handler.
func NewWebHandler(uc *checkout.WebCheckout) *WebHandler {
	return &WebHandler{uc: uc}
}

// GetCart godoc
// @Summary      Consultar el carrito del usuario
// @Tags         web
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/web/cart [get]
func (h *WebHandler) GetCart(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	cart, err := h.uc.GetCart(c.Context(), userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toCartResponse(cart))
}

// AddToCart godoc
// @Summary      Agregar un artículo al carrito (acumula cantidad)
// @Tags         web
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartLineRequest  true  "item_code, quantity"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/web/cart/lines [post]
func (h *WebHandler) AddToCart(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CartLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := valueobject.NewQuantity(in.Quantity)
	if err != nil {
		return writeDomainError(c, err)
	}
	cart, err := h.uc.AddToCart(c.Context(), userID, in.ItemCode, qty)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toCartResponse(cart))
}

// UpdateCartLine godoc
// @Summary      Fijar la cantidad de una línea del carrito
// @Tags         web
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemCode  path  string  true  "Código del artículo"
// @Param        body      body  dto.CartLineRequest  true  "quantity"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/web/cart/lines/{itemCode} [put]
func (h *WebHandler) UpdateCartLine(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CartLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := valueobject.NewQuantity(in.Quantity)
	if err != nil {
		return writeDomainError(c, err)
	}
	cart, err := h.uc.UpdateCartLine(c.Context(), userID, c.Params("itemCode"), qty)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toCartResponse(cart))
}

// RemoveFromCart godoc
// @Summary      Quitar una línea del carrito
// @Tags         web
// @Security     Bearer
// @Produce      json
// @Param        itemCode  path  string  true  "Código del artículo"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/web/cart/lines/{itemCode} [delete]
func (h *WebHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	cart, err := h.uc.RemoveFromCart(c.Context(), userID, c.Params("itemCode"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toCartResponse(cart))
}

// Checkout godoc
// @Summary      Confirmar el pedido pagando con tarjeta
// @Tags         web
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WebCheckoutRequest  true  "card_number (16 dígitos)"
// @Success      201   {object}  dto.WebCheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/web/checkout [post]
func (h *WebHandler) Checkout(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.WebCheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Checkout(c.Context(), userID, in.CardNumber)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.WebCheckoutResponse{
		OrderNumber: result.OrderNumber,
		Total:       result.Total.Decimal(),
	})
}

// ListOrders godoc
// @Summary      Historial de pedidos del usuario
// @Tags         web
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.WebOrderResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/web/orders [get]
func (h *WebHandler) ListOrders(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orders, err := h.uc.ListOrders(c.Context(), userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.WebOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toWebOrderResponse(o))
	}
	return c.JSON(out)
}

func toCartResponse(cart *checkout.Cart) dto.CartResponse {
	lines := make([]dto.CartLineResponse, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, dto.CartLineResponse{
			ItemCode:  l.ItemCode,
			ItemName:  l.ItemName,
			Quantity:  l.Quantity.Decimal(),
			UnitPrice: l.UnitPrice.Decimal(),
			Subtotal:  l.Subtotal().Decimal(),
		})
	}
	return dto.CartResponse{
		UserID: cart.UserID,
		Lines:  lines,
		Total:  cart.Total().Decimal(),
	}
}

func toWebOrderResponse(o *entity.WebOrder) dto.WebOrderResponse {
	lines := make([]dto.WebOrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.WebOrderLineResponse{
			ItemCode:  l.ItemCode,
			ItemName:  l.ItemName,
			BatchID:   l.BatchID,
			Quantity:  l.Quantity.Decimal(),
			UnitPrice: l.UnitPrice.Decimal(),
			Subtotal:  l.Subtotal.Decimal(),
		})
	}
	return dto.WebOrderResponse{
		OrderNumber: o.OrderNumber,
		Total:       o.Total.Decimal(),
		CreatedAt:   o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Lines:       lines,
	}
}
