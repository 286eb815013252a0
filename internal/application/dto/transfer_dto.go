package dto

import "github.com/shopspring/decimal"

// TransferToShelfRequest cuerpo de un traslado bodega → góndola.
type TransferToShelfRequest struct {
	ItemCode     string           `json:"item_code"`
	ShelfCode    string           `json:"shelf_code"`
	Quantity     decimal.Decimal  `json:"quantity"`
	MinThreshold decimal.Decimal  `json:"min_threshold"`
	MaxThreshold *decimal.Decimal `json:"max_threshold,omitempty"`
}

// TransferToWebRequest cuerpo de un traslado bodega → inventario web.
type TransferToWebRequest struct {
	ItemCode string          `json:"item_code"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TransferEntryResponse un movimiento aplicado (lote → cantidad).
type TransferEntryResponse struct {
	BatchID  string          `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TransferResponse resumen del traslado aplicado.
type TransferResponse struct {
	ItemCode string                  `json:"item_code"`
	Total    decimal.Decimal         `json:"total"`
	Entries  []TransferEntryResponse `json:"entries"`
}
