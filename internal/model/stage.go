package model

import "strings"

type Stage string

const (
	StagePending   Stage = "pending"
	StageAccepted  Stage = "accepted"
	StagePacked    Stage = "packed"
	StageShipped   Stage = "shipped"
	StageDelivered Stage = "delivered"
	StageCancelled Stage = "cancelled"
)

// Orden canónico de la línea de tiempo. cancelled no forma parte.
var Stages = []Stage{StagePending, StageAccepted, StagePacked, StageShipped, StageDelivered}

// ParseStage normaliza sin validar: un valor desconocido se devuelve tal cual.
func ParseStage(s string) Stage {
	return Stage(strings.ToLower(strings.TrimSpace(s)))
}

func (s Stage) Known() bool {
	return s == StageCancelled || s.Index() >= 0
}

// Index devuelve la posición en Stages, o -1.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Transiciones permitidas al dueño de la tienda
var nextStages = map[Stage][]Stage{
	StagePending:  {StageAccepted, StageCancelled},
	StageAccepted: {StagePacked, StageCancelled},
	StagePacked:   {StageShipped, StageCancelled},
	StageShipped:  {StageDelivered},
}

// Estados finales
var finalStages = map[Stage]bool{
	StageDelivered: true,
	StageCancelled: true,
}

func NextStages(current Stage) []Stage {
	out := make([]Stage, len(nextStages[current]))
	copy(out, nextStages[current])
	return out
}

func (s Stage) Final() bool {
	return finalStages[s]
}

func CanTransition(from, to Stage) bool {
	for _, s := range nextStages[from] {
		if s == to {
			return true
		}
	}
	return false
}
