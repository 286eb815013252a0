package discount

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// Ventanas de proximidad al vencimiento y sus tasas de rebaja.
var (
	nearExpiryWindow = 7 * 24 * time.Hour
	soonExpiryWindow = 30 * 24 * time.Hour

	nearExpiryRate = decimal.NewFromFloat(0.30)
	soonExpiryRate = decimal.NewFromFloat(0.10)
)

var _ checkout.DiscountService = (*ExpiryDiscountService)(nil)

// ExpiryDiscountService rebaja por lote según proximidad al vencimiento:
// 30% dentro de los 7 días previos, 10% dentro de los 30. Lotes sin fecha de
// vencimiento no reciben rebaja.
type ExpiryDiscountService struct {
	batchRepo repository.BatchRepository
	now       func() time.Time
}

// NewExpiryDiscountService construye el servicio.
func NewExpiryDiscountService(batchRepo repository.BatchRepository) *ExpiryDiscountService {
	return &ExpiryDiscountService{batchRepo: batchRepo, now: time.Now}
}

// CalculateBatchDiscount retorna la rebaja total para la cantidad asignada
// del lote. Un lote desconocido no es error: rebaja cero.
func (s *ExpiryDiscountService) CalculateBatchDiscount(
	_ context.Context,
	_ string,
	batchID string,
	unitPrice valueobject.Money,
	quantity valueobject.Quantity,
) (valueobject.Money, error) {
	batch, err := s.batchRepo.GetByID(batchID)
	if err != nil {
		return valueobject.ZeroMoney(), err
	}
	if batch == nil || batch.ExpiryDate == nil {
		return valueobject.ZeroMoney(), nil
	}

	untilExpiry := batch.ExpiryDate.Sub(s.now())
	var rate decimal.Decimal
	switch {
	case untilExpiry <= nearExpiryWindow:
		rate = nearExpiryRate
	case untilExpiry <= soonExpiryWindow:
		rate = soonExpiryRate
	default:
		return valueobject.ZeroMoney(), nil
	}

	amount := unitPrice.Decimal().Mul(quantity.Decimal()).Mul(rate).Round(2)
	return valueobject.NewMoney(amount)
}
