package dto

import (
	"github.com/shopspring/decimal"
)

// AddPOSLineRequest línea que el cajero pasa por la caja.
type AddPOSLineRequest struct {
	ItemCode string          `json:"item_code"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PersonalPurchaseRequest activa o desactiva el modo compra personal.
type PersonalPurchaseRequest struct {
	Enabled bool `json:"enabled"`
}

// PayRequest efectivo entregado por el cliente.
type PayRequest struct {
	CashTendered decimal.Decimal `json:"cash_tendered"`
}

// POSLineResponse línea de la sesión con su descuento calculado.
type POSLineResponse struct {
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// POSSessionResponse estado visible de la sesión de caja.
type POSSessionResponse struct {
	ID               string            `json:"id"`
	State            string            `json:"state"`
	PersonalPurchase bool              `json:"personal_purchase"`
	Lines            []POSLineResponse `json:"lines"`
	GrossTotal       decimal.Decimal   `json:"gross_total"`
	DiscountTotal    decimal.Decimal   `json:"discount_total"`
	NetTotal         decimal.Decimal   `json:"net_total"`
}

// POSPaymentResponse desenlace de la venta: recibo y cambio.
type POSPaymentResponse struct {
	BillNumber   string          `json:"bill_number"`
	NetTotal     decimal.Decimal `json:"net_total"`
	CashTendered decimal.Decimal `json:"cash_tendered"`
	Change       decimal.Decimal `json:"change"`
}

// CartLineRequest agregar/actualizar una línea del carrito web.
type CartLineRequest struct {
	ItemCode string          `json:"item_code"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CartLineResponse línea del carrito con su subtotal.
type CartLineResponse struct {
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse carrito del usuario.
type CartResponse struct {
	UserID string             `json:"user_id"`
	Lines  []CartLineResponse `json:"lines"`
	Total  decimal.Decimal    `json:"total"`
}

// WebCheckoutRequest número de tarjeta para confirmar el pedido.
type WebCheckoutRequest struct {
	CardNumber string `json:"card_number"`
}

// WebCheckoutResponse pedido confirmado.
type WebCheckoutResponse struct {
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

// WebOrderLineResponse línea de un pedido del historial.
type WebOrderLineResponse struct {
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name"`
	BatchID   string          `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// WebOrderResponse pedido del historial del usuario.
type WebOrderResponse struct {
	OrderNumber string                 `json:"order_number"`
	Total       decimal.Decimal        `json:"total"`
	CreatedAt   string                 `json:"created_at"`
	Lines       []WebOrderLineResponse `json:"lines"`
}
