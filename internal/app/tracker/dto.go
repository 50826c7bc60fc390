package tracker

import (
	"victorygoals/internal/app/ports"
	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

type RegisterRequest struct {
	Player civ.PlayerID
	Goal   victory.Goal
	// Name defaults to the goal's own name.
	Name string
	// Deadline is the last turn the goal may succeed on; 0 means the goal is
	// only adjudicated at game end.
	Deadline int
}

type RegisterResponse struct {
	GoalID string
}

type BeginTurnRequest struct {
	Turn   int
	Player civ.PlayerID
}

// TransitionsResponse lists the transitions an operation caused.
type TransitionsResponse struct {
	Transitions []ports.TransitionRecord
}

type StatusRequest struct {
	Player     civ.PlayerID
	AllPlayers bool
}

type GoalStatus struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Player    civ.PlayerID  `json:"player"`
	State     victory.State `json:"-"`
	StateName string        `json:"state"`
	Display   string        `json:"display"`
	Satisfied bool          `json:"satisfied"`
	Deadline  int           `json:"deadline,omitempty"`
}

type StatusResponse struct {
	Goals []GoalStatus `json:"goals"`
}

type ListTransitionsRequest struct {
	Player civ.PlayerID
	Limit  int
}
