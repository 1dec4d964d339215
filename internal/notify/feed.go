package notify

import (
	"fmt"
	"sync"

	"storefront/internal/model"
)

const defaultFeedSize = 50

// Feed guarda, por usuario, los últimos cambios de estado recibidos por Rabbit.
type Feed struct {
	mu    sync.RWMutex
	size  int
	users map[string][]model.StatusChange
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &Feed{size: size, users: make(map[string][]model.StatusChange)}
}

// Add agrega el cambio al principio y descarta los más viejos.
func (f *Feed) Add(c model.StatusChange) {
	if c.UserID == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	list := append([]model.StatusChange{c}, f.users[c.UserID]...)
	if len(list) > f.size {
		list = list[:f.size]
	}
	f.users[c.UserID] = list
}

// List devuelve una copia, el más nuevo primero.
func (f *Feed) List(userID string) []model.StatusChange {
	f.mu.RLock()
	defer f.mu.RUnlock()
	src := f.users[userID]
	out := make([]model.StatusChange, len(src))
	copy(out, src)
	return out
}

// Message arma el texto que ve el comprador.
func Message(c model.StatusChange) string {
	ref := c.OrderNumber
	if ref == "" {
		ref = c.OrderID
	}
	stage := model.ParseStage(c.Status)
	msg := fmt.Sprintf("Order #%s is now %s", ref, stage)
	if stage == model.StageCancelled && c.Reason != "" {
		msg += ": " + c.Reason
	}
	return msg
}
