// Package allocation implementa el planificador de asignación de lotes:
// FIFO con prioridad por vencimiento. Es un servicio de dominio puro: recibe
// un snapshot de candidatos y produce un plan ordenado (lote → cantidad a
// tomar); el caller aplica el plan sobre los registros reales.
package allocation

import (
	"sort"
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// Candidate snapshot de un registro de pool elegible para asignación.
// Los candidatos de una invocación pertenecen a un único artículo.
type Candidate struct {
	RecordID  string
	BatchID   string
	Available valueobject.Quantity
	Expiry    *time.Time
	PlacedAt  time.Time
}

// Entry entrada del plan: de qué candidato tomar cuánto.
type Entry struct {
	Candidate Candidate
	Take      valueobject.Quantity
}

// Plan lista ordenada de asignaciones que cubren (o no) la cantidad pedida.
type Plan []Entry

// Total suma de las cantidades tomadas en el plan.
func (p Plan) Total() valueobject.Quantity {
	total := valueobject.ZeroQuantity()
	for _, e := range p {
		total = total.Add(e.Take)
	}
	return total
}

// Allocate recorre los candidatos en orden de prioridad y arma el plan.
// Retorna el plan y el faltante (cero si la petición quedó cubierta). El
// caller decide si un faltante parcial es aceptable; los checkouts lo tratan
// como fallo duro.
//
// Orden total de prioridad:
//  1. ambos con vencimiento: vence antes, sale antes;
//  2. solo uno con vencimiento: ese sale antes (lo perecedero siempre gana
//     sobre lo que no se sabe cuándo vence);
//  3. ninguno con vencimiento: llegó antes, sale antes (FIFO);
//  4. empate exacto: desempata el ID de lote para que el plan sea
//     reproducible.
func Allocate(requested valueobject.Quantity, candidates []Candidate) (Plan, valueobject.Quantity, error) {
	if !requested.IsPositive() {
		return nil, valueobject.ZeroQuantity(), domain.ErrInvalidInput
	}

	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Available.IsPositive() {
			eligible = append(eligible, c)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return before(eligible[i], eligible[j])
	})

	plan := make(Plan, 0, len(eligible))
	remaining := requested
	for _, c := range eligible {
		if remaining.IsZero() {
			break
		}
		take := remaining.Min(c.Available)
		plan = append(plan, Entry{Candidate: c, Take: take})
		r, err := remaining.Sub(take)
		if err != nil {
			return nil, valueobject.ZeroQuantity(), err
		}
		remaining = r
	}
	return plan, remaining, nil
}

// before orden de prioridad entre dos candidatos.
func before(a, b Candidate) bool {
	switch {
	case a.Expiry != nil && b.Expiry != nil:
		if !a.Expiry.Equal(*b.Expiry) {
			return a.Expiry.Before(*b.Expiry)
		}
	case a.Expiry != nil:
		return true
	case b.Expiry != nil:
		return false
	}
	if !a.PlacedAt.Equal(b.PlacedAt) {
		return a.PlacedAt.Before(b.PlacedAt)
	}
	return a.BatchID < b.BatchID
}
