package domain

// Phase represents the current lifecycle state of a room
type Phase string

const (
	PhaseLobby       Phase = "LOBBY"        // Waiting for players to join
	PhaseRoundActive Phase = "ROUND_ACTIVE" // Clue revealed, voting open, timer running
	PhaseVoteClosed  Phase = "VOTE_CLOSED"  // Votes tallied, waiting to start the next round
	PhaseEnded       Phase = "ENDED"        // A side has won
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// InGame reports whether a game is in progress
func (p Phase) InGame() bool {
	return p == PhaseRoundActive || p == PhaseVoteClosed
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:       {PhaseRoundActive},
		PhaseRoundActive: {PhaseVoteClosed, PhaseEnded},
		PhaseVoteClosed:  {PhaseRoundActive, PhaseEnded},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
