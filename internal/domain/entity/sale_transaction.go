package entity

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// Canales de venta y medios de pago.
const (
	ChannelPOS = "POS" // caja registradora
	ChannelWeb = "WEB" // carrito online

	PaymentCash = "CASH"
	PaymentCard = "CARD"
)

// SaleTransaction cabecera del registro auditable de una venta: canal,
// totales, medio de pago y desenlace (efectivo/cambio o tarjeta). Se crea
// exactamente una vez por checkout exitoso y nunca se muta después
// (anulaciones y devoluciones están fuera de alcance).
type SaleTransaction struct {
	ID            string
	BillNumber    string
	Channel       string
	GrossTotal    valueobject.Money
	DiscountTotal valueobject.Money
	NetTotal      valueobject.Money
	PaymentMethod string
	CashTendered  *valueobject.Money // solo POS
	Change        *valueobject.Money // solo POS; efectivo − neto, nunca negativo
	CardLast4     string             // solo WEB
	CreatedAt     time.Time
	CreatedBy     string
}

// SaleTransactionLine una línea por (artículo, lote) asignado, con cantidad,
// precio unitario y descuento aplicado.
type SaleTransactionLine struct {
	ID            string
	TransactionID string
	ItemID        string
	ItemCode      string
	BatchID       string
	Quantity      valueobject.Quantity
	UnitPrice     valueobject.Money
	Discount      valueobject.Money
	Subtotal      valueobject.Money
}
