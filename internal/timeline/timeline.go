// Package timeline convierte el estado actual de una orden en los segmentos de la línea de seguimiento.
package timeline

import (
	"strings"

	"storefront/internal/model"
)

type State string

const (
	StateCompleted State = "completed"
	StateActive    State = "active"
	StateUpcoming  State = "upcoming"
	StateCancelled State = "cancelled"
)

type Segment struct {
	Stage       model.Stage `json:"stage"`
	State       State       `json:"state"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
}

var DefaultStages = model.Stages

var DefaultLabels = map[model.Stage]string{
	model.StagePending:   "Order Placed",
	model.StageAccepted:  "Order Accepted",
	model.StagePacked:    "Packed",
	model.StageShipped:   "Shipped",
	model.StageDelivered: "Delivered",
	model.StageCancelled: "Cancelled",
}

var DefaultDescriptions = map[model.Stage]string{
	model.StagePending:   "We have received your order.",
	model.StageAccepted:  "Seller has accepted your order.",
	model.StagePacked:    "Your item has been packed.",
	model.StageShipped:   "On the way to you.",
	model.StageDelivered: "Package delivered successfully.",
	model.StageCancelled: "This order has been cancelled.",
}

// Render es una función pura: no modifica sus entradas ni hace I/O.
// Un status cancelado reemplaza toda la línea por un único segmento.
// Un status desconocido deja todas las etapas en upcoming.
func Render(status string, stageOrder []model.Stage, labels, descriptions map[model.Stage]string) []Segment {
	current := model.ParseStage(status)

	if current == model.StageCancelled {
		label := labels[model.StageCancelled]
		if label == "" {
			label = "Cancelled"
		}
		return []Segment{{
			Stage:       model.StageCancelled,
			State:       StateCancelled,
			Label:       label,
			Description: descriptions[model.StageCancelled],
		}}
	}

	idx := -1
	for i, st := range stageOrder {
		if strings.EqualFold(string(st), string(current)) {
			idx = i
			break
		}
	}

	out := make([]Segment, 0, len(stageOrder))
	for i, st := range stageOrder {
		state := StateUpcoming
		switch {
		case i < idx:
			state = StateCompleted
		case i == idx:
			state = StateActive
		}
		out = append(out, Segment{
			Stage:       st,
			State:       state,
			Label:       labels[st],
			Description: descriptions[st],
		})
	}
	return out
}

// RenderDefault usa las tablas canónicas.
func RenderDefault(status string) []Segment {
	return Render(status, DefaultStages, DefaultLabels, DefaultDescriptions)
}

// Progress cuenta cuántas etapas ya se alcanzaron (completed + active).
func Progress(segments []Segment) (done, total int) {
	for _, s := range segments {
		if s.State == StateCompleted || s.State == StateActive {
			done++
		}
	}
	return done, len(segments)
}

// Badge es la etiqueta corta de la lista de pedidos.
func Badge(status string) string {
	switch model.ParseStage(status) {
	case model.StageDelivered:
		return "✔ Delivered"
	case model.StageCancelled:
		return "✖ Cancelled"
	default:
		return "⏳ " + status
	}
}
