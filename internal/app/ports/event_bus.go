package ports

import "victorygoals/internal/domain/victory"

// EventBus is the host side of the goal event bus: goals subscribe, the host
// fires.
type EventBus interface {
	victory.EventBus
	Fire(payload victory.Payload)
}
