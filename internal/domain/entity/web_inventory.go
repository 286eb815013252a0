package entity

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// WebInventory registro del pool web (venta online): (artículo, lote,
// cantidad disponible, precio web, banderas de publicación/destacado) más un
// indicador derivado de nivel de stock 0–100 que se recalcula en cada
// mutación. Snapshot inmutable.
type WebInventory struct {
	ID           string
	ItemID       string
	ItemCode     string
	BatchID      string
	Quantity     valueobject.Quantity
	BaseQuantity valueobject.Quantity // marca de agua para el indicador de nivel
	WebPrice     valueobject.Money
	Published    bool
	Featured     bool
	StockLevel   int // 0..100
	ExpiryDate   *time.Time
	PlacedAt     time.Time
	UpdatedAt    time.Time
	UpdatedBy    string
}

// Expired indica si el lote del registro está vencido al instante dado.
func (w *WebInventory) Expired(now time.Time) bool {
	return w.ExpiryDate != nil && !w.ExpiryDate.After(now)
}

// Sell descuenta unidades vendidas online y recalcula el nivel de stock.
func (w *WebInventory) Sell(q valueobject.Quantity, user string, now time.Time) (*WebInventory, error) {
	if !q.IsPositive() || user == "" {
		return nil, domain.ErrInvalidInput
	}
	if w.Expired(now) {
		return nil, domain.ErrExpiredBatch
	}
	if w.Quantity.LessThan(q) {
		return nil, &domain.InsufficientStockError{
			ItemCode:  w.ItemCode,
			Requested: q.Decimal(),
			Available: w.Quantity.Decimal(),
			Deficit:   q.Decimal().Sub(w.Quantity.Decimal()),
		}
	}
	remaining, err := w.Quantity.Sub(q)
	if err != nil {
		return nil, err
	}
	next := *w
	next.Quantity = remaining
	next.StockLevel = stockLevel(remaining, next.BaseQuantity)
	next.UpdatedAt = now
	next.UpdatedBy = user
	return &next, nil
}

// Restock suma unidades surtidas. La base del indicador sube si el nuevo
// total la supera (la marca de agua nunca baja).
func (w *WebInventory) Restock(q valueobject.Quantity, user string, now time.Time) (*WebInventory, error) {
	if !q.IsPositive() || user == "" {
		return nil, domain.ErrInvalidInput
	}
	total := w.Quantity.Add(q)
	next := *w
	next.Quantity = total
	if total.GreaterThan(next.BaseQuantity) {
		next.BaseQuantity = total
	}
	next.StockLevel = stockLevel(total, next.BaseQuantity)
	next.UpdatedAt = now
	next.UpdatedBy = user
	return &next, nil
}

// stockLevel nivel proporcional 0..100 respecto a la marca de agua.
func stockLevel(available, base valueobject.Quantity) int {
	if base.IsZero() {
		return 0
	}
	pct := available.Decimal().Div(base.Decimal()).Mul(hundred).IntPart()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}
