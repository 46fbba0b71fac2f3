package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrGameFull            = errors.New("room is full")
	ErrInvalidName         = errors.New("player name is required")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrAllocationExhausted = errors.New("no room codes left to allocate")
	ErrNotHost             = errors.New("only host can perform this action")
	ErrTooFewPlayers       = errors.New("not enough players to start")
	ErrTooManyMafia        = errors.New("mafia count must be lower than player count")
	ErrInvalidMafiaCount   = errors.New("mafia count must be at least one")
	ErrInvalidRoundTime    = errors.New("round duration out of range")
	ErrInvalidPhase        = errors.New("invalid action for current phase")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrVoterNotFound       = errors.New("voter not found")
	ErrVoterDead           = errors.New("dead players cannot vote")
	ErrTargetNotFound      = errors.New("vote target not found")
	ErrTargetDead          = errors.New("cannot vote for a dead player")
	ErrNoScenario          = errors.New("no scenario available")
)
