package summary

import (
	"sync"

	"storefront/internal/logger"
)

// Registry guarda un Loader por usuario: los pedidos concurrentes de un mismo usuario
// comparten la secuencia y sólo se aplica la respuesta más nueva.
type Registry struct {
	logger logger.Logger

	mu      sync.Mutex
	loaders map[string]*Loader
}

func NewRegistry(l logger.Logger) *Registry {
	return &Registry{logger: l, loaders: make(map[string]*Loader)}
}

// For devuelve el Loader del usuario y le asigna b para los próximos pedidos.
func (r *Registry) For(userID string, b Backend) *Loader {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loaders[userID]; ok {
		l.use(b)
		return l
	}
	l := NewLoader(b, r.logger)
	r.loaders[userID] = l
	return l
}

// Forget descarta el Loader del usuario (después de crear la orden el carrito queda vacío).
func (r *Registry) Forget(userID string) {
	r.mu.Lock()
	delete(r.loaders, userID)
	r.mu.Unlock()
}
