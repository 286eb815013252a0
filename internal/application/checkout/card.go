package checkout

import "github.com/jhoicas/PuntoVenta-api/internal/domain"

// DeclinedTestCard número fijo que siempre se rechaza. Es una política de
// prueba determinista (no un contrato con una pasarela real): permite
// ejercitar el camino de pago rechazado de punta a punta sin depender de un
// gateway externo.
const DeclinedTestCard = "0767600730204128"

// validateCardNumber valida sintácticamente un número de tarjeta de 16
// dígitos y aplica la política de rechazo de prueba.
func validateCardNumber(number string) error {
	if len(number) != 16 {
		return domain.ErrInvalidCardNumber
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return domain.ErrInvalidCardNumber
		}
	}
	if number == DeclinedTestCard {
		return &domain.PaymentDeclinedError{Reason: "tarjeta rechazada por el emisor"}
	}
	return nil
}
