package domain

import (
	"sort"
	"time"
)

// Vote represents a vote cast by a player in the current round
type Vote struct {
	VoterID   string    `json:"voterId"`
	TargetID  string    `json:"targetId"`
	Seq       int       `json:"-"` // Room-wide cast order, used for tie-breaking
	Timestamp time.Time `json:"timestamp"`
}

// NewVote creates a new vote
func NewVote(voterID, targetID string, seq int) *Vote {
	return &Vote{
		VoterID:   voterID,
		TargetID:  targetID,
		Seq:       seq,
		Timestamp: time.Now(),
	}
}

// TargetTally is the per-target entry of a vote breakdown
type TargetTally struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// VoteBreakdown summarizes the votes of the current round
type VoteBreakdown struct {
	VotesCast  int                    `json:"votesCount"`
	TotalAlive int                    `json:"totalAlive"`
	Targets    map[string]TargetTally `json:"breakdown"`
}

// Complete reports whether every living player has voted
func (b VoteBreakdown) Complete() bool {
	return b.TotalAlive > 0 && b.VotesCast >= b.TotalAlive
}

// TallyResult is the outcome of closing a round's voting.
// Eliminated is nil when no votes were cast.
type TallyResult struct {
	Eliminated *Player
	VoteCount  int
}

// NoVotes reports whether the round ended without any vote
func (t TallyResult) NoVotes() bool {
	return t.Eliminated == nil
}

// pickEliminated returns the target with the most votes. Ties go to the target whose
// earliest standing vote was cast first.
func pickEliminated(votes map[string]*Vote) (string, int) {
	ordered := make([]*Vote, 0, len(votes))
	for _, v := range votes {
		ordered = append(ordered, v)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Seq < ordered[j].Seq
	})

	counts := make(map[string]int)
	firstSeen := make([]string, 0)
	for _, v := range ordered {
		if counts[v.TargetID] == 0 {
			firstSeen = append(firstSeen, v.TargetID)
		}
		counts[v.TargetID]++
	}

	best, bestCount := "", 0
	for _, target := range firstSeen {
		if counts[target] > bestCount {
			best = target
			bestCount = counts[target]
		}
	}
	return best, bestCount
}
