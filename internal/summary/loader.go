// Package summary mantiene el resumen de checkout visible y lo vuelve a pedir ante cada cambio.
package summary

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/pricing"
)

// ErrSuperseded se devuelve cuando la respuesta llegó después de una más nueva y se descartó.
var ErrSuperseded = errors.New("resumen de checkout reemplazado por un pedido más nuevo")

type Backend interface {
	GetSummary(ctx context.Context, claimNewUser bool) (*model.CheckoutSummary, error)
	SetCartQuantity(ctx context.Context, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, productID string) error
}

// Loader no hace updates optimistas: la vista siempre es la última respuesta aplicada.
// Cada pedido lleva un número de secuencia y sólo se aplica si es más nuevo que el último aplicado.
type Loader struct {
	backend Backend
	logger  logger.Logger

	mu      sync.Mutex
	issued  uint64
	applied uint64
	claim   bool
	current *model.CheckoutSummary
	view    pricing.View
}

func NewLoader(b Backend, l logger.Logger) *Loader {
	return &Loader{backend: b, logger: l, view: pricing.Unavailable()}
}

// Refresh vuelve a pedir el resumen con el valor actual de la casilla de oferta.
func (l *Loader) Refresh(ctx context.Context) (pricing.View, error) {
	l.mu.Lock()
	l.issued++
	seq := l.issued
	claim := l.claim
	b := l.backend
	l.mu.Unlock()

	s, err := b.GetSummary(ctx, claim)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq <= l.applied {
		l.logger.Debug("dropping stale checkout summary", "seq", seq, "applied", l.applied)
		return l.view, ErrSuperseded
	}
	l.applied = seq

	if err != nil {
		l.current = nil
		l.view = pricing.Unavailable()
		l.logger.Warn("checkout summary fetch failed", "seq", seq, "error", err)
		return l.view, err
	}

	l.current = s
	l.view = pricing.Present(s, claim)
	if !l.view.Consistent {
		l.logger.Warn("server total does not match subtotal + delivery - discount",
			"seq", seq,
			"finalTotal", l.view.Total,
			"expected", s.ExpectedTotal())
	}
	return l.view, nil
}

// SetClaim cambia la casilla sin pedir; el próximo Refresh la usa.
func (l *Loader) SetClaim(on bool) {
	l.mu.Lock()
	l.claim = on
	l.mu.Unlock()
}

// ToggleClaim cambia la casilla de "nuevo usuario" y vuelve a pedir.
func (l *Loader) ToggleClaim(ctx context.Context, on bool) (pricing.View, error) {
	l.SetClaim(on)
	return l.Refresh(ctx)
}

// SetQuantity cambia la cantidad de una línea; qty < 1 la elimina.
func (l *Loader) SetQuantity(ctx context.Context, productID string, qty int) (pricing.View, error) {
	if qty < 1 {
		return l.RemoveItem(ctx, productID)
	}
	if err := l.currentBackend().SetCartQuantity(ctx, productID, qty); err != nil {
		l.logger.Warn("cart quantity update failed", "productId", productID, "quantity", qty, "error", err)
		return l.View(), err
	}
	return l.Refresh(ctx)
}

func (l *Loader) RemoveItem(ctx context.Context, productID string) (pricing.View, error) {
	if err := l.currentBackend().RemoveFromCart(ctx, productID); err != nil {
		l.logger.Warn("cart remove failed", "productId", productID, "error", err)
		return l.View(), err
	}
	return l.Refresh(ctx)
}

func (l *Loader) currentBackend() Backend {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backend
}

// use cambia el backend de los próximos pedidos sin tocar la secuencia.
func (l *Loader) use(b Backend) {
	l.mu.Lock()
	l.backend = b
	l.mu.Unlock()
}

func (l *Loader) View() pricing.View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

func (l *Loader) Claim() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.claim
}

// Summary devuelve el último resumen aplicado, nil si no hay.
func (l *Loader) Summary() *model.CheckoutSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
