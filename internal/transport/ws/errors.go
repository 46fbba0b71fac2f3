package ws

import (
	"errors"

	"mafioso/internal/domain"
)

var errorCodes = []struct {
	err     error
	code    string
	message string
}{
	{domain.ErrRoomNotFound, ErrCodeRoomNotFound, "Room not found"},
	{domain.ErrGameFull, ErrCodeGameFull, "Room is full"},
	{domain.ErrInvalidName, ErrCodeInvalidName, "Username is required"},
	{domain.ErrAllocationExhausted, ErrCodeServerFull, "No rooms available, try again later"},
	{domain.ErrNoScenario, ErrCodeNoScenario, "No scenario available to start the game"},
	{domain.ErrGameAlreadyStarted, ErrCodeAlreadyStarted, "Game has already started"},
	{domain.ErrNotHost, ErrCodeNotHost, "Only the host can start the game"},
	{domain.ErrTooFewPlayers, ErrCodeTooFewPlayers, "At least 3 players are needed"},
	{domain.ErrTooManyMafia, ErrCodeTooManyMafia, "Too many mafia for this many players"},
	{domain.ErrInvalidMafiaCount, ErrCodeInvalidMafiaCount, "There must be at least one mafioso"},
	{domain.ErrInvalidRoundTime, ErrCodeInvalidRoundTime, "Round time is out of range"},
	{domain.ErrInvalidPhase, ErrCodeInvalidAction, "Not allowed right now"},
	{domain.ErrVoterNotFound, ErrCodeNotInRoom, "You are not in this room"},
	{domain.ErrPlayerNotFound, ErrCodeNotInRoom, "You are not in this room"},
	{domain.ErrVoterDead, ErrCodeVoterDead, "Dead players cannot vote"},
	{domain.ErrTargetNotFound, ErrCodeTargetNotFound, "That player is not in the room"},
	{domain.ErrTargetDead, ErrCodeTargetDead, "Cannot vote for a dead player"},
}

// errorInfo maps a domain error onto a stable error code and message
func errorInfo(err error) (string, string) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code, e.message
		}
	}
	return ErrCodeInternalError, err.Error()
}
