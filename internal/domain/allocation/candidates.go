package allocation

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

// FromWarehouse arma candidatos desde registros de bodega: descarta vencidos
// y sin disponible (cantidad − reserva).
func FromWarehouse(records []*entity.WarehouseStock, now time.Time) []Candidate {
	out := make([]Candidate, 0, len(records))
	for _, r := range records {
		if r.Expired(now) || !r.Available().IsPositive() {
			continue
		}
		out = append(out, Candidate{
			RecordID:  r.ID,
			BatchID:   r.BatchID,
			Available: r.Available(),
			Expiry:    r.ExpiryDate,
			PlacedAt:  r.ReceivedAt,
		})
	}
	return out
}

// FromShelf arma candidatos desde registros de góndola: descarta no
// exhibidos, vencidos y sin cantidad.
func FromShelf(records []*entity.ShelfStock, now time.Time) []Candidate {
	out := make([]Candidate, 0, len(records))
	for _, r := range records {
		if !r.Displayed || r.Expired(now) || !r.Quantity.IsPositive() {
			continue
		}
		out = append(out, Candidate{
			RecordID:  r.ID,
			BatchID:   r.BatchID,
			Available: r.Quantity,
			Expiry:    r.ExpiryDate,
			PlacedAt:  r.PlacedAt,
		})
	}
	return out
}

// FromWeb arma candidatos desde inventario web: descarta no publicados,
// vencidos y sin cantidad.
func FromWeb(records []*entity.WebInventory, now time.Time) []Candidate {
	out := make([]Candidate, 0, len(records))
	for _, r := range records {
		if !r.Published || r.Expired(now) || !r.Quantity.IsPositive() {
			continue
		}
		out = append(out, Candidate{
			RecordID:  r.ID,
			BatchID:   r.BatchID,
			Available: r.Quantity,
			Expiry:    r.ExpiryDate,
			PlacedAt:  r.PlacedAt,
		})
	}
	return out
}
