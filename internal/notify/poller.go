package notify

import (
	"context"
	"sync"
	"time"

	"storefront/internal/logger"
	"storefront/internal/model"
)

type Fetcher interface {
	ListNotifications(ctx context.Context, owner bool) ([]model.Notification, error)
}

// Poller pide la lista de notificaciones cada intervalo. Como en el resumen de checkout,
// una respuesta sólo se aplica si es más nueva que la última aplicada.
type Poller struct {
	fetch    Fetcher
	owner    bool
	interval time.Duration
	logger   logger.Logger

	mu       sync.Mutex
	issued   uint64
	applied  uint64
	items    []model.Notification
	onChange func(items []model.Notification, unread int)
}

// DefaultInterval reemplaza a un intervalo no positivo.
const DefaultInterval = 30 * time.Second

func NewPoller(f Fetcher, owner bool, interval time.Duration, l logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{fetch: f, owner: owner, interval: interval, logger: l}
}

// OnChange registra un callback que corre después de cada respuesta aplicada.
func (p *Poller) OnChange(fn func(items []model.Notification, unread int)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Refresh hace un pedido. Ante error se conserva la última lista buena.
func (p *Poller) Refresh(ctx context.Context) ([]model.Notification, error) {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	items, err := p.fetch.ListNotifications(ctx, p.owner)

	p.mu.Lock()
	if err != nil {
		current := p.items
		p.mu.Unlock()
		p.logger.Warn("notification poll failed", "seq", seq, "error", err)
		return current, err
	}
	if seq <= p.applied {
		current := p.items
		p.mu.Unlock()
		return current, nil
	}
	p.applied = seq
	p.items = Sort(items)
	current := p.items
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn(current, UnreadCount(current))
	}
	return current, nil
}

func (p *Poller) Items() []model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items
}

func (p *Poller) Unread() int {
	return UnreadCount(p.Items())
}

// Run pide una vez al arrancar y luego en cada tick hasta que ctx se cancele.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}
