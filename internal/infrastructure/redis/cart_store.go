package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
)

const (
	cartKeyPrefix  = "cart:"
	defaultCartTTL = 24 * time.Hour
)

var _ checkout.CartStore = (*CartStore)(nil)

// CartStore carritos web serializados como JSON en Redis, uno por usuario.
// Cada escritura renueva el TTL; un carrito abandonado expira solo.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &CartStore{client: client, ttl: ttl}
}

// Get devuelve el carrito del usuario, o nil si no existe o expiró.
func (s *CartStore) Get(ctx context.Context, userID string) (*checkout.Cart, error) {
	raw, err := s.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer carrito: %w", err)
	}

	var cart checkout.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("deserializar carrito: %w", err)
	}
	return &cart, nil
}

func (s *CartStore) Save(ctx context.Context, cart *checkout.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("serializar carrito: %w", err)
	}
	if err := s.client.Set(ctx, cartKeyPrefix+cart.UserID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("guardar carrito: %w", err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("borrar carrito: %w", err)
	}
	return nil
}
