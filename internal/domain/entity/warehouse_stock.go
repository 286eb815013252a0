package entity

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// WarehouseStock registro del pool de bodega: (artículo, lote, ubicación,
// cantidad, reserva). Snapshot inmutable: toda mutación retorna un registro
// nuevo estampado con usuario y fecha. Un registro con cantidad cero queda
// lógicamente retirado (no se borra físicamente).
type WarehouseStock struct {
	ID               string
	ItemID           string
	ItemCode         string
	BatchID          string
	Location         string
	Quantity         valueobject.Quantity
	ReservedQuantity valueobject.Quantity
	ExpiryDate       *time.Time
	ReceivedAt       time.Time
	UpdatedAt        time.Time
	UpdatedBy        string
}

// Available cantidad realmente disponible para salidas (cantidad − reserva).
func (s *WarehouseStock) Available() valueobject.Quantity {
	avail, err := s.Quantity.Sub(s.ReservedQuantity)
	if err != nil {
		return valueobject.ZeroQuantity()
	}
	return avail
}

// Expired indica si el lote del registro está vencido al instante dado.
func (s *WarehouseStock) Expired(now time.Time) bool {
	return s.ExpiryDate != nil && !s.ExpiryDate.After(now)
}

// Receive suma unidades recibidas del lote. Permitido aunque otros lotes del
// artículo estén vencidos: el vencimiento se evalúa por lote, no por artículo.
func (s *WarehouseStock) Receive(q valueobject.Quantity, user string, now time.Time) (*WarehouseStock, error) {
	if !q.IsPositive() || user == "" {
		return nil, domain.ErrInvalidInput
	}
	next := *s
	next.Quantity = s.Quantity.Add(q)
	next.UpdatedAt = now
	next.UpdatedBy = user
	return &next, nil
}

// Reserve aparta unidades disponibles (reserva para pedidos/surtidos).
func (s *WarehouseStock) Reserve(q valueobject.Quantity, user string, now time.Time) (*WarehouseStock, error) {
	if !q.IsPositive() || user == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.Available().LessThan(q) {
		return nil, s.insufficiency(q)
	}
	next := *s
	next.ReservedQuantity = s.ReservedQuantity.Add(q)
	next.UpdatedAt = now
	next.UpdatedBy = user
	return &next, nil
}

// CancelReservation libera unidades reservadas.
func (s *WarehouseStock) CancelReservation(q valueobject.Quantity, user string, now time.Time) (*WarehouseStock, error) {
	if !q.IsPositive() || user == "" {
		return nil, domain.ErrInvalidInput
	}
	released, err := s.ReservedQuantity.Sub(q)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	next := *s
	next.ReservedQuantity = released
	next.UpdatedAt = now
	next.UpdatedBy = user
	return &next, nil
}

// Transfer descuenta unidades para traslado a góndola o web. Rechaza salidas
// de lotes vencidos y descuentos mayores al disponible (nunca clamp).
func (s *WarehouseStock) Transfer(q valueobject.Quantity, user string, now time.Time) (*WarehouseStock, error) {
	if !q.IsPositive() || user == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.Expired(now) {
		return nil, domain.ErrExpiredBatch
	}
	if s.Available().LessThan(q) {
		return nil, s.insufficiency(q)
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

func (s *WarehouseStock) insufficiency(q valueobject.Quantity) error {
	return &domain.InsufficientStockError{
		ItemCode:  s.ItemCode,
		Requested: q.Decimal(),
		Available: s.Available().Decimal(),
		Deficit:   q.Decimal().Sub(s.Available().Decimal()),
	}
}
