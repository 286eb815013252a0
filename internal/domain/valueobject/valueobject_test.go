package valueobject_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// ──────────────────────────────────────────────────────────────────────────────
// Quantity — construcción y aritmética cerrada sobre no-negativos
// ──────────────────────────────────────────────────────────────────────────────

func TestNewQuantity_RechazaNegativos(t *testing.T) {
	_, err := valueobject.NewQuantity(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity,
		"una cantidad negativa debe rechazarse en construcción")

	q, err := valueobject.NewQuantity(decimal.Zero)
	require.NoError(t, err, "cero es una cantidad válida")
	assert.True(t, q.IsZero())
}

func TestQuantity_SubNoPuedeQuedarNegativa(t *testing.T) {
	a, _ := valueobject.QuantityFromInt(3)
	b, _ := valueobject.QuantityFromInt(5)

	_, err := a.Sub(b)
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity,
		"restar más de lo disponible debe fallar, no producir negativo")

	got, err := b.Sub(a)
	require.NoError(t, err)
	assert.True(t, got.Decimal().Equal(decimal.NewFromInt(2)))
}

func TestQuantity_AddYMin(t *testing.T) {
	a, _ := valueobject.QuantityFromInt(3)
	b, _ := valueobject.QuantityFromInt(5)

	assert.True(t, a.Add(b).Decimal().Equal(decimal.NewFromInt(8)))
	assert.True(t, a.Min(b).Equal(a), "Min debe retornar la menor")
	assert.True(t, b.Min(a).Equal(a))
}

func TestQuantity_SoportaFracciones(t *testing.T) {
	// Artículos pesables: 1.5 kg es una cantidad legítima.
	q, err := valueobject.NewQuantity(decimal.NewFromFloat(1.5))
	require.NoError(t, err)
	assert.Equal(t, "1.5", q.String())
}

func TestQuantity_JSONRoundTrip(t *testing.T) {
	q, _ := valueobject.NewQuantity(decimal.NewFromFloat(2.25))

	raw, err := json.Marshal(q)
	require.NoError(t, err)

	var got valueobject.Quantity
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, q.Equal(got))
}

// ──────────────────────────────────────────────────────────────────────────────
// Money — precios estrictamente positivos, montos no negativos
// ──────────────────────────────────────────────────────────────────────────────

func TestNewPrice_RechazaCeroYNegativos(t *testing.T) {
	_, err := valueobject.NewPrice(decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice, "un precio cero no es válido")

	_, err = valueobject.NewPrice(decimal.NewFromInt(-10))
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	p, err := valueobject.NewPrice(decimal.NewFromFloat(0.01))
	require.NoError(t, err)
	assert.False(t, p.IsZero())
}

func TestNewMoney_PermiteCeroPeroNoNegativos(t *testing.T) {
	m, err := valueobject.NewMoney(decimal.Zero)
	require.NoError(t, err, "un monto cero (descuento nulo) es válido")
	assert.True(t, m.IsZero())

	_, err = valueobject.NewMoney(decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestMoney_MulQuantity(t *testing.T) {
	price, _ := valueobject.NewPrice(decimal.NewFromFloat(2.50))
	qty, _ := valueobject.NewQuantity(decimal.NewFromInt(4))

	total := price.MulQuantity(qty)
	assert.Equal(t, "10.00", total.StringFixed())
}

func TestMoney_SubNoPuedeQuedarNegativo(t *testing.T) {
	a, _ := valueobject.MoneyFromInt(100)
	b, _ := valueobject.MoneyFromInt(150)

	_, err := a.Sub(b)
	assert.Error(t, err, "un monto no puede quedar negativo")

	got, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, "50.00", got.StringFixed())
}
