package valueobject

import (
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Quantity cantidad no negativa de unidades (value object sobre decimal).
// La resta por debajo de cero es un error, nunca un clamp.
type Quantity struct {
	value decimal.Decimal
}

// NewQuantity construye una cantidad; rechaza valores negativos.
func NewQuantity(d decimal.Decimal) (Quantity, error) {
	if d.IsNegative() {
		return Quantity{}, domain.ErrNegativeQuantity
	}
	return Quantity{value: d}, nil
}

// QuantityFromInt helper para cantidades enteras (tests, DTOs).
func QuantityFromInt(n int64) (Quantity, error) {
	return NewQuantity(decimal.NewFromInt(n))
}

// ZeroQuantity cantidad cero.
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero}
}

// Add suma dos cantidades (siempre válido: no negativas).
func (q Quantity) Add(o Quantity) Quantity {
	return Quantity{value: q.value.Add(o.value)}
}

// Sub resta; si el resultado sería negativo retorna ErrNegativeQuantity.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	r := q.value.Sub(o.value)
	if r.IsNegative() {
		return Quantity{}, domain.ErrNegativeQuantity
	}
	return Quantity{value: r}, nil
}

// Min retorna la menor de las dos cantidades.
func (q Quantity) Min(o Quantity) Quantity {
	if q.value.LessThan(o.value) {
		return q
	}
	return o
}

func (q Quantity) LessThan(o Quantity) bool    { return q.value.LessThan(o.value) }
func (q Quantity) GreaterThan(o Quantity) bool { return q.value.GreaterThan(o.value) }
func (q Quantity) Equal(o Quantity) bool       { return q.value.Equal(o.value) }
func (q Quantity) IsZero() bool                { return q.value.IsZero() }
func (q Quantity) IsPositive() bool            { return q.value.IsPositive() }

// Decimal expone el valor subyacente (persistencia, cálculos de dinero).
func (q Quantity) Decimal() decimal.Decimal { return q.value }

func (q Quantity) String() string { return q.value.String() }

// MarshalJSON / UnmarshalJSON permiten serializar carritos (Redis) y DTOs.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return q.value.MarshalJSON()
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	nq, err := NewQuantity(d)
	if err != nil {
		return err
	}
	*q = nq
	return nil
}
