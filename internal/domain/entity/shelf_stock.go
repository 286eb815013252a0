package entity

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// ShelfStock registro del pool de góndola (venta en tienda): (artículo, lote,
// código de góndola, cantidad exhibida, precio unitario, bandera de
// exhibición, umbrales mín/máx). Snapshot inmutable.
type ShelfStock struct {
	ID           string
	ItemID       string
	ItemCode     string
	BatchID      string
	ShelfCode    string
	Quantity     valueobject.Quantity
	UnitPrice    valueobject.Money
	Displayed    bool
	MinThreshold valueobject.Quantity
	MaxThreshold *valueobject.Quantity
	ExpiryDate   *time.Time
	PlacedAt     time.Time
	UpdatedAt    time.Time
	UpdatedBy    string
}

// Expired indica si el lote del registro está vencido al instante dado.
func (s *ShelfStock) Expired(now time.Time) bool {
	return s.ExpiryDate != nil && !s.ExpiryDate.After(now)
}

// Sell descuenta unidades vendidas. Rechaza ventas de lotes vencidos y
// descuentos mayores al exhibido.
func (s *ShelfStock) Sell(q valueobject.Quantity, user string, now time.Time) (*ShelfStock, error) {
	if !q.IsPositive() || user == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.Expired(now) {
		return nil, domain.ErrExpiredBatch
	}
	if s.Quantity.LessThan(q) {
		return nil, &domain.InsufficientStockError{
			ItemCode:  s.ItemCode,
			Requested: q.Decimal(),
			Available: s.Quantity.Decimal(),
			Deficit:   q.Decimal().Sub(s.Quantity.Decimal()),
		}
	}
	remaining, err := s.Quantity.Sub(q)
	if err != nil {
		return nil, err
	}
	next := *s
	next.Quantity = remaining
	next.UpdatedAt = now
	next.UpdatedBy = user
	return &next, nil
}

// Restock suma unidades surtidas desde bodega. Si el registro tiene umbral
// máximo configurado, superar el tope es un error (el espacio físico de la
// góndola es finito).
func (s *ShelfStock) Restock(q valueobject.Quantity, user string, now time.Time) (*ShelfStock, error) {
	if !q.IsPositive() || user == "" {
		return nil, domain.ErrInvalidInput
	}
	total := s.Quantity.Add(q)
	if s.MaxThreshold != nil && total.GreaterThan(*s.MaxThreshold) {
		return nil, domain.ErrShelfCapacity
	}
	next := *s
	next.Quantity = total
	next.UpdatedAt = now
	next.UpdatedBy = user
	return &next, nil
}

// BelowMin indica si el registro quedó por debajo de su umbral mínimo.
func (s *ShelfStock) BelowMin() bool {
	return s.Quantity.LessThan(s.MinThreshold)
}
