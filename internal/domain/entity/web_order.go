package entity

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// WebOrder registro del historial de pedidos online, consultable por usuario.
// Se agrega al confirmar un checkout web y no se muta después.
type WebOrder struct {
	ID          string
	OrderNumber string
	UserID      string
	Total       valueobject.Money
	CardLast4   string
	CreatedAt   time.Time
	Lines       []WebOrderLine
}

// WebOrderLine línea del pedido: (artículo, lote) con cantidad y precio.
type WebOrderLine struct {
	ID        string
	OrderID   string
	ItemID    string
	ItemCode  string
	ItemName  string
	BatchID   string
	Quantity  valueobject.Quantity
	UnitPrice valueobject.Money
	Subtotal  valueobject.Money
}
