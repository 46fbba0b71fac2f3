package domain

import (
	"fmt"
	"math/rand/v2"
)

// Scenario is a content bundle for one game
type Scenario struct {
	Title      string      `json:"title"`
	Clues      []string    `json:"clues"`
	Characters []Character `json:"characters"`
}

// ClueForRound returns the scenario clue for a 1-based round number
func (s *Scenario) ClueForRound(round int) (string, bool) {
	if round < 1 || round > len(s.Clues) {
		return "", false
	}
	return s.Clues[round-1], true
}

const genericCitizenBio = "An ordinary resident with no direct link to the case."

// BuildCharacterPool returns the scenario's characters padded with numbered generic
// citizens so that the pool holds at least n entries.
func BuildCharacterPool(characters []Character, n int) []Character {
	pool := make([]Character, 0, max(n, len(characters)))
	pool = append(pool, characters...)

	for i := 1; len(pool) < n; i++ {
		pool = append(pool, Character{
			Name: fmt.Sprintf("Citizen %d", i),
			Bio:  genericCitizenBio,
		})
	}
	return pool
}

// BuildRoles returns mafiaCount Mafioso roles followed by Civilians, n in total
func BuildRoles(mafiaCount, n int) []Role {
	roles := make([]Role, n)
	for i := range roles {
		if i < mafiaCount {
			roles[i] = RoleMafioso
		} else {
			roles[i] = RoleCivilian
		}
	}
	return roles
}

// Shuffle permutes s in place with a uniform Fisher-Yates shuffle
func Shuffle[T any](s []T) {
	rand.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
