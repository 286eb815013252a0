package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// ItemRepository puerto de lectura del catálogo (el CRUD del maestro de
// artículos es un colaborador externo).
type ItemRepository interface {
	FindByCode(code string) (*entity.Item, error)
	FindByID(id string) (*entity.Item, error)
}
