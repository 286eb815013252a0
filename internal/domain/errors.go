package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrItemNotFound      = errors.New("artículo no encontrado")
	ErrNegativeQuantity  = errors.New("la cantidad no puede ser negativa")
	ErrInvalidPrice      = errors.New("el precio debe ser mayor que cero")
	ErrNoWarehouseStock  = errors.New("sin stock disponible en bodega")
	ErrExpiredBatch      = errors.New("lote vencido: no se permiten salidas")
	ErrShelfCapacity     = errors.New("capacidad máxima de góndola excedida")
	ErrCartEmpty         = errors.New("el carrito está vacío")
	ErrCheckoutState     = errors.New("operación no válida en el estado actual de la venta")
	ErrInsufficientCash  = errors.New("efectivo insuficiente")
	ErrStockConflict     = errors.New("el stock cambió durante la venta; operación abortada")
	ErrInvalidCardNumber = errors.New("número de tarjeta inválido: se requieren 16 dígitos")
	ErrSessionNotFound   = errors.New("sesión de venta no encontrada")
)

// InsufficientStockError indica que los lotes disponibles no alcanzan a cubrir
// la cantidad solicitada. Lleva el déficit para que el caller pueda reportarlo.
type InsufficientStockError struct {
	ItemCode  string
	Requested decimal.Decimal
	Available decimal.Decimal
	Deficit   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: solicitado %s, disponible %s (déficit %s)",
		e.ItemCode, e.Requested.String(), e.Available.String(), e.Deficit.String())
}

// LimitExceededError indica que una compra personal supera el tope permitido.
type LimitExceededError struct {
	Limit decimal.Decimal
	Total decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("compra personal supera el tope permitido: total %s, tope %s",
		e.Total.String(), e.Limit.String())
}

// PaymentDeclinedError indica que el medio de pago fue rechazado.
type PaymentDeclinedError struct {
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	return "pago rechazado: " + e.Reason
}
