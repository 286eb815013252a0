package valueobject

import (
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Money monto monetario no negativo (value object sobre decimal).
type Money struct {
	value decimal.Decimal
}

// NewMoney construye un monto; rechaza valores negativos.
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, domain.ErrInvalidInput
	}
	return Money{value: d}, nil
}

// NewPrice construye un precio; rechaza cero o negativo (un precio de venta
// siempre es positivo).
func NewPrice(d decimal.Decimal) (Money, error) {
	if !d.IsPositive() {
		return Money{}, domain.ErrInvalidPrice
	}
	return Money{value: d}, nil
}

// MoneyFromInt helper para montos enteros (tests, topes de configuración).
func MoneyFromInt(n int64) (Money, error) {
	return NewMoney(decimal.NewFromInt(n))
}

// ZeroMoney monto cero (descuentos forzados, acumuladores).
func ZeroMoney() Money {
	return Money{value: decimal.Zero}
}

// Add suma dos montos.
func (m Money) Add(o Money) Money {
	return Money{value: m.value.Add(o.value)}
}

// Sub resta; si el resultado sería negativo retorna ErrInvalidInput.
func (m Money) Sub(o Money) (Money, error) {
	r := m.value.Sub(o.value)
	if r.IsNegative() {
		return Money{}, domain.ErrInvalidInput
	}
	return Money{value: r}, nil
}

// MulQuantity multiplica precio unitario por cantidad (subtotal de línea).
func (m Money) MulQuantity(q Quantity) Money {
	return Money{value: m.value.Mul(q.Decimal())}
}

func (m Money) LessThan(o Money) bool    { return m.value.LessThan(o.value) }
func (m Money) GreaterThan(o Money) bool { return m.value.GreaterThan(o.value) }
func (m Money) Equal(o Money) bool       { return m.value.Equal(o.value) }
func (m Money) IsZero() bool             { return m.value.IsZero() }

// Decimal expone el valor subyacente.
func (m Money) Decimal() decimal.Decimal { return m.value }

func (m Money) String() string { return m.value.String() }

// StringFixed formatea con dos decimales (recibos, respuestas).
func (m Money) StringFixed() string { return m.value.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	nm, err := NewMoney(d)
	if err != nil {
		return err
	}
	*m = nm
	return nil
}
