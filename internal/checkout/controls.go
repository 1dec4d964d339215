package checkout

import (
	"sync"

	"storefront/internal/model"
)

// Control es el estado de un botón de pago.
type Control struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`

	idleLabel    string
	loadingLabel string
}

func (c *Control) startLoading() {
	c.Enabled = false
	c.Label = c.loadingLabel
}

func (c *Control) restore() {
	c.Enabled = true
	c.Label = c.idleLabel
}

func newControls() map[model.PaymentMethod]*Control {
	return map[model.PaymentMethod]*Control{
		model.PaymentCOD: {
			Enabled: true, Label: "Cash on Delivery",
			idleLabel: "Cash on Delivery", loadingLabel: "Placing order…",
		},
		model.PaymentOnline: {
			Enabled: true, Label: "Pay Online",
			idleLabel: "Pay Online", loadingLabel: "Preparing payment…",
		},
	}
}

// Guard evita dos colocaciones simultáneas para la misma clave (usuario).
type Guard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{active: make(map[string]struct{})}
}

func (g *Guard) Acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.active[key]; ok {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

func (g *Guard) Release(key string) {
	g.mu.Lock()
	delete(g.active, key)
	g.mu.Unlock()
}
