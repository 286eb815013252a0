package memory

import (
	"sync"

	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
)

var _ checkout.SessionStore = (*POSSessionStore)(nil)

// POSSessionStore sesiones de caja activas en memoria del proceso. Una venta
// POS es síncrona y vive menos que el proceso, no necesita persistencia.
type POSSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*checkout.POSSession
}

func NewPOSSessionStore() *POSSessionStore {
	return &POSSessionStore{sessions: make(map[string]*checkout.POSSession)}
}

func (s *POSSessionStore) Get(id string) (*checkout.POSSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *POSSessionStore) Save(session *checkout.POSSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *POSSessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
