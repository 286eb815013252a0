package checkout

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// Cart carrito web por usuario. Vive solo durante la sesión (no sobrevive
// reinicios del proceso); se serializa a JSON para el almacén Redis.
type Cart struct {
	UserID    string     `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartLine línea del carrito: artículo, cantidad y precio de catálogo al
// momento de agregar.
type CartLine struct {
	ItemID    string               `json:"item_id"`
	ItemCode  string               `json:"item_code"`
	ItemName  string               `json:"item_name"`
	Quantity  valueobject.Quantity `json:"quantity"`
	UnitPrice valueobject.Money    `json:"unit_price"`
}

// Subtotal precio × cantidad de la línea.
func (l CartLine) Subtotal() valueobject.Money {
	return l.UnitPrice.MulQuantity(l.Quantity)
}

// Total suma de subtotales del carrito.
func (c *Cart) Total() valueobject.Money {
	total := valueobject.ZeroMoney()
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Empty indica si el carrito no tiene líneas.
func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// find retorna el índice de la línea del artículo, o -1.
func (c *Cart) find(itemCode string) int {
	for i, l := range c.Lines {
		if l.ItemCode == itemCode {
			return i
		}
	}
	return -1
}

// upsertLine agrega la línea o reemplaza la cantidad de la existente.
func (c *Cart) upsertLine(line CartLine, now time.Time) {
	if i := c.find(line.ItemCode); i >= 0 {
		c.Lines[i] = line
	} else {
		c.Lines = append(c.Lines, line)
	}
	c.UpdatedAt = now
}

// removeLine quita la línea del artículo; retorna false si no estaba.
func (c *Cart) removeLine(itemCode string, now time.Time) bool {
	i := c.find(itemCode)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.UpdatedAt = now
	return true
}
