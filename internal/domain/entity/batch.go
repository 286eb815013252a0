package entity

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// Batch representa un lote físico recibido de un artículo: cantidad recibida
// (inmutable), cantidad disponible (decreciente) y fechas de fabricación,
// vencimiento y recepción. Invariantes: disponible <= recibida; si hay fecha
// de fabricación y de vencimiento, el vencimiento debe ser posterior.
type Batch struct {
	ID                string
	ItemID            string
	Code              string
	QuantityReceived  valueobject.Quantity
	QuantityAvailable valueobject.Quantity
	ManufactureDate   *time.Time
	ExpiryDate        *time.Time
	ReceivedAt        time.Time
}

// NewBatch construye un lote recién recibido (disponible = recibido).
func NewBatch(id, itemID, code string, received valueobject.Quantity, manufacture, expiry *time.Time, receivedAt time.Time) (*Batch, error) {
	if id == "" || itemID == "" || code == "" {
		return nil, domain.ErrInvalidInput
	}
	if !received.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if manufacture != nil && expiry != nil && !expiry.After(*manufacture) {
		return nil, domain.ErrInvalidInput
	}
	return &Batch{
		ID:                id,
		ItemID:            itemID,
		Code:              code,
		QuantityReceived:  received,
		QuantityAvailable: received,
		ManufactureDate:   manufacture,
		ExpiryDate:        expiry,
		ReceivedAt:        receivedAt,
	}, nil
}

// Consume descuenta unidades disponibles; retorna un nuevo snapshot.
func (b *Batch) Consume(q valueobject.Quantity) (*Batch, error) {
	if b.QuantityAvailable.LessThan(q) {
		return nil, &domain.InsufficientStockError{
			ItemCode:  b.Code,
			Requested: q.Decimal(),
			Available: b.QuantityAvailable.Decimal(),
			Deficit:   q.Decimal().Sub(b.QuantityAvailable.Decimal()),
		}
	}
	remaining, err := b.QuantityAvailable.Sub(q)
	if err != nil {
		return nil, err
	}
	next := *b
	next.QuantityAvailable = remaining
	return &next, nil
}

// Expired indica si el lote está vencido al instante dado. Sin fecha de
// vencimiento el lote nunca vence.
func (b *Batch) Expired(now time.Time) bool {
	return b.ExpiryDate != nil && !b.ExpiryDate.After(now)
}
