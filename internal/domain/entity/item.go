package entity

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// Item artículo del catálogo (lectura; el mantenimiento del maestro es un
// colaborador externo). El precio de venta del catálogo se usa en los dos
// canales de checkout; los pools guardan su precio denormalizado al momento
// del traslado.
type Item struct {
	ID           string
	Code         string
	Name         string
	SellingPrice valueobject.Money
	CreatedAt    time.Time
}
