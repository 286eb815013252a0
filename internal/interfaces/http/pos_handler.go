package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// POSHandler maneja las ventas de caja (protegido, rol cajero o admin).
type POSHandler struct {
	uc       *checkout.POSCheckout
	trxRepo  repository.TransactionRepository
	receipts checkout.ReceiptGenerator
}

// NewPOSHandler construye el handler.
func NewPOSHandler(uc *checkout.POSCheckout, trxRepo repository.TransactionRepository, receipts checkout.ReceiptGenerator) *POSHandler {
	return &POSHandler{uc: uc, trxRepo: trxRepo, receipts: receipts}
}

// StartSession godoc
// @Summary      Abrir sesión de venta de caja
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.POSSessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/pos/sessions [post]
func (h *POSHandler) StartSession(c *fiber.Ctx) error {
	cashierID := GetUserID(c)
	if cashierID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	session, err := h.uc.StartSession(cashierID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPOSSessionResponse(session))
}

// GetSession godoc
// @Summary      Consultar estado de la sesión
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.POSSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id} [get]
func (h *POSHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.uc.Session(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toPOSSessionResponse(session))
}

// AddLine godoc
// @Summary      Pasar un artículo por la caja
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de sesión"
// @Param        body  body  dto.AddPOSLineRequest  true  "item_code, quantity"
// @Success      200   {object}  dto.POSSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/lines [post]
func (h *POSHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddPOSLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := valueobject.NewQuantity(in.Quantity)
	if err != nil {
		return writeDomainError(c, err)
	}
	session, err := h.uc.AddLine(c.Context(), c.Params("id"), in.ItemCode, qty)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toPOSSessionResponse(session))
}

// SetPersonalPurchase godoc
// @Summary      Activar o desactivar modo compra personal
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de sesión"
// @Param        body  body  dto.PersonalPurchaseRequest  true  "enabled"
// @Success      200   {object}  dto.POSSessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/personal [put]
func (h *POSHandler) SetPersonalPurchase(c *fiber.Ctx) error {
	var in dto.PersonalPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.uc.SetPersonalPurchase(c.Params("id"), in.Enabled)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toPOSSessionResponse(session))
}

// Total godoc
// @Summary      Totalizar la venta (calcula descuentos y fija el plan)
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.POSSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/total [post]
func (h *POSHandler) Total(c *fiber.Ctx) error {
	session, err := h.uc.Total(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toPOSSessionResponse(session))
}

// Pay godoc
// @Summary      Cobrar en efectivo y persistir la venta
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de sesión"
// @Param        body  body  dto.PayRequest  true  "cash_tendered"
// @Success      200   {object}  dto.POSPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/payment [post]
func (h *POSHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cash, err := valueobject.NewMoney(in.CashTendered)
	if err != nil {
		return writeDomainError(c, err)
	}
	result, err := h.uc.Pay(c.Context(), c.Params("id"), cash)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.POSPaymentResponse{
		BillNumber:   result.BillNumber,
		NetTotal:     result.NetTotal.Decimal(),
		CashTendered: result.CashTendered.Decimal(),
		Change:       result.Change.Decimal(),
	})
}

// Cancel godoc
// @Summary      Cancelar la sesión de venta
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de sesión"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id} [delete]
func (h *POSHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "venta cancelada"})
}

// Receipt godoc
// @Summary      Descargar el comprobante PDF de una venta persistida
// @Tags         pos
// @Security     Bearer
// @Produce      application/pdf
// @Param        billNumber  path  string  true  "Número de recibo (POS-XXXXXXXX)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/receipts/{billNumber} [get]
func (h *POSHandler) Receipt(c *fiber.Ctx) error {
	trx, lines, err := h.trxRepo.GetByBillNumber(c.Params("billNumber"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if trx == nil {
		return writeDomainError(c, domain.ErrNotFound)
	}
	pdfBytes, err := h.receipts.GenerateReceipt(c.Context(), trx, lines)
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+trx.BillNumber+`.pdf"`)
	return c.Send(pdfBytes)
}

func toPOSSessionResponse(s *checkout.POSSession) dto.POSSessionResponse {
	lines := make([]dto.POSLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.POSLineResponse{
			ItemCode:  l.ItemCode,
			ItemName:  l.ItemName,
			Quantity:  l.Quantity.Decimal(),
			UnitPrice: l.UnitPrice.Decimal(),
			Discount:  l.Discount.Decimal(),
		})
	}
	return dto.POSSessionResponse{
		ID:               s.ID,
		State:            string(s.State),
		PersonalPurchase: s.PersonalPurchase,
		Lines:            lines,
		GrossTotal:       s.GrossTotal.Decimal(),
		DiscountTotal:    s.DiscountTotal.Decimal(),
		NetTotal:         s.NetTotal.Decimal(),
	}
}
