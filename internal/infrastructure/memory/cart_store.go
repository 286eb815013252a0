package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
)

var _ checkout.CartStore = (*CartStore)(nil)

// CartStore carritos en memoria, para desarrollo y tests sin Redis.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*checkout.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*checkout.Cart)}
}

func (s *CartStore) Get(_ context.Context, userID string) (*checkout.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[userID]
	if !ok {
		return nil, nil
	}
	copia := *cart
	copia.Lines = append([]checkout.CartLine(nil), cart.Lines...)
	return &copia, nil
}

func (s *CartStore) Save(_ context.Context, cart *checkout.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copia := *cart
	copia.Lines = append([]checkout.CartLine(nil), cart.Lines...)
	s.carts[cart.UserID] = &copia
	return nil
}

func (s *CartStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
