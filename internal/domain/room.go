package domain

import (
	"sort"
	"strings"
	"time"
)

// GameSettings holds configurable game parameters
type GameSettings struct {
	MinPlayers       int           `json:"minPlayers"`
	MaxPlayers       int           `json:"maxPlayers"`
	RoundSeconds     int           `json:"roundSeconds"`
	MaxRoundSeconds  int           `json:"maxRoundSeconds"`
	MafiaCount       int           `json:"mafiaCount"`
	TickInterval     time.Duration `json:"tickInterval"`
	NoVotesDelay     time.Duration `json:"noVotesDelay"`
	EliminationDelay time.Duration `json:"eliminationDelay"`
}

// DefaultGameSettings returns the default game settings
func DefaultGameSettings() GameSettings {
	return GameSettings{
		MinPlayers:       3,
		MaxPlayers:       16,
		RoundSeconds:     60,
		MaxRoundSeconds:  600,
		MafiaCount:       1,
		TickInterval:     time.Second,
		NoVotesDelay:     3 * time.Second,
		EliminationDelay: 5 * time.Second,
	}
}

// RoomConfig is the per-game configuration chosen by the host
type RoomConfig struct {
	RoundSeconds int `json:"roundSeconds"`
	MafiaCount   int `json:"mafiaCount"`
}

// Room represents one independent game session
type Room struct {
	Code            string             `json:"code"`
	HostID          string             `json:"hostId"`
	Players         map[string]*Player `json:"players"`
	Phase           Phase              `json:"phase"`
	Scenario        *Scenario          `json:"scenario,omitempty"`
	Round           int                `json:"round"`
	Votes           map[string]*Vote   `json:"votes"`
	EvidenceHistory []string           `json:"evidenceHistory"`
	Config          RoomConfig         `json:"config"`
	Settings        GameSettings       `json:"settings"`
	Winner          Side               `json:"winner,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	EndedAt         time.Time          `json:"endedAt,omitempty"`

	joinSeq int
	voteSeq int
}

// NewRoom creates an empty room in the lobby
func NewRoom(code string, settings GameSettings) *Room {
	return &Room{
		Code:            code,
		Players:         make(map[string]*Player),
		Phase:           PhaseLobby,
		Votes:           make(map[string]*Vote),
		EvidenceHistory: make([]string, 0),
		Config: RoomConfig{
			RoundSeconds: settings.RoundSeconds,
			MafiaCount:   settings.MafiaCount,
		},
		Settings:  settings,
		CreatedAt: time.Now(),
	}
}

// AddPlayer adds a player to the lobby. The first player becomes the host.
func (r *Room) AddPlayer(id, name, avatar string) (*Player, error) {
	if r.Phase != PhaseLobby {
		return nil, ErrGameAlreadyStarted
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if r.Settings.MaxPlayers > 0 && len(r.Players) >= r.Settings.MaxPlayers {
		return nil, ErrGameFull
	}

	player := NewPlayer(id, name, avatar)
	r.joinSeq++
	player.JoinOrder = r.joinSeq
	r.Players[id] = player

	if r.HostID == "" {
		r.HostID = id
		player.IsHost = true
	}

	return player, nil
}

// RemovePlayer removes a player, drops votes cast by or against them and hands
// the host role to the earliest remaining player.
func (r *Room) RemovePlayer(id string) (*Player, error) {
	player, ok := r.Players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	delete(r.Players, id)

	delete(r.Votes, id)
	for voterID, v := range r.Votes {
		if v.TargetID == id {
			delete(r.Votes, voterID)
		}
	}

	if r.HostID == id {
		r.HostID = ""
		if ordered := r.orderedPlayers(); len(ordered) > 0 {
			r.HostID = ordered[0].ID
			ordered[0].IsHost = true
		}
	}

	return player, nil
}

// GetPlayer returns a player by ID
func (r *Room) GetPlayer(id string) (*Player, error) {
	player, ok := r.Players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// IsHost checks if the given player is the host
func (r *Room) IsHost(id string) bool {
	return r.HostID == id
}

// IsEmpty reports whether the room has no players left
func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

// AliveCount returns the number of living players
func (r *Room) AliveCount() int {
	count := 0
	for _, p := range r.Players {
		if p.Alive {
			count++
		}
	}
	return count
}

// Start validates the host's request and hands every player a role and a character.
// The room stays in the lobby until BeginRound is called.
func (r *Room) Start(callerID string, mafiaCount, roundSeconds int, scenario *Scenario) error {
	if !r.IsHost(callerID) {
		return ErrNotHost
	}

	if r.Phase != PhaseLobby {
		return ErrGameAlreadyStarted
	}

	total := len(r.Players)
	if total < max(r.Settings.MinPlayers, 3) {
		return ErrTooFewPlayers
	}

	if mafiaCount < 1 {
		return ErrInvalidMafiaCount
	}

	if mafiaCount >= total {
		return ErrTooManyMafia
	}

	if roundSeconds < 1 || (r.Settings.MaxRoundSeconds > 0 && roundSeconds > r.Settings.MaxRoundSeconds) {
		return ErrInvalidRoundTime
	}

	if scenario == nil {
		return ErrNoScenario
	}

	characters := BuildCharacterPool(scenario.Characters, total)
	Shuffle(characters)

	roles := BuildRoles(mafiaCount, total)
	Shuffle(roles)

	for i, player := range r.orderedPlayers() {
		player.Assignment = &Assignment{
			Role:      roles[i],
			Character: characters[i],
		}
		player.Alive = true
	}

	r.Scenario = scenario
	r.Config = RoomConfig{
		RoundSeconds: roundSeconds,
		MafiaCount:   mafiaCount,
	}

	return nil
}

// BeginRound advances to the next round and reveals its clue. fallbackClue is
// consulted once the scenario runs out of clues.
func (r *Room) BeginRound(fallbackClue func() string) (string, error) {
	if r.Scenario == nil || !r.Phase.CanTransitionTo(PhaseRoundActive) {
		return "", ErrInvalidPhase
	}

	r.Round++

	clue, ok := r.Scenario.ClueForRound(r.Round)
	if !ok {
		clue = fallbackClue()
	}

	r.EvidenceHistory = append(r.EvidenceHistory, clue)
	r.Votes = make(map[string]*Vote)
	r.Phase = PhaseRoundActive

	return clue, nil
}

// CastVote records voterID's vote for targetID, replacing any earlier vote this round
func (r *Room) CastVote(voterID, targetID string) (VoteBreakdown, error) {
	if r.Phase != PhaseRoundActive {
		return VoteBreakdown{}, ErrInvalidPhase
	}

	voter, ok := r.Players[voterID]
	if !ok {
		return VoteBreakdown{}, ErrVoterNotFound
	}
	if !voter.Alive {
		return VoteBreakdown{}, ErrVoterDead
	}

	target, ok := r.Players[targetID]
	if !ok {
		return VoteBreakdown{}, ErrTargetNotFound
	}
	if !target.Alive {
		return VoteBreakdown{}, ErrTargetDead
	}

	r.voteSeq++
	r.Votes[voterID] = NewVote(voterID, targetID, r.voteSeq)

	return r.Breakdown(), nil
}

// Breakdown returns per-target vote counts for the current round
func (r *Room) Breakdown() VoteBreakdown {
	targets := make(map[string]TargetTally)
	for _, v := range r.Votes {
		target, ok := r.Players[v.TargetID]
		if !ok {
			continue
		}
		entry := targets[v.TargetID]
		entry.Name = target.Name
		entry.Count++
		targets[v.TargetID] = entry
	}

	return VoteBreakdown{
		VotesCast:  len(r.Votes),
		TotalAlive: r.AliveCount(),
		Targets:    targets,
	}
}

// VotingComplete reports whether every living player has a standing vote
func (r *Room) VotingComplete() bool {
	return r.Phase == PhaseRoundActive && len(r.Votes) > 0 && r.Breakdown().Complete()
}

// CloseVoting tallies the round and eliminates the most-voted player. It only
// succeeds once per round.
func (r *Room) CloseVoting() (TallyResult, error) {
	if r.Phase != PhaseRoundActive {
		return TallyResult{}, ErrInvalidPhase
	}

	r.Phase = PhaseVoteClosed

	targetID, count := pickEliminated(r.Votes)
	if targetID == "" {
		return TallyResult{}, nil
	}

	target, ok := r.Players[targetID]
	if !ok {
		return TallyResult{}, nil
	}
	target.Alive = false

	return TallyResult{Eliminated: target, VoteCount: count}, nil
}

// CheckWinner evaluates the win condition while a game is in progress
func (r *Room) CheckWinner() Side {
	if !r.Phase.InGame() {
		return SideNone
	}
	return Evaluate(r.Players)
}

// End moves the room to its terminal phase
func (r *Room) End(winner Side) {
	r.Phase = PhaseEnded
	r.Winner = winner
	r.EndedAt = time.Now()
}

// orderedPlayers returns the players sorted by join order
func (r *Room) orderedPlayers() []*Player {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].JoinOrder < players[j].JoinOrder
	})
	return players
}

// GetPlayerInfoList returns the public roster in join order. Roles are revealed
// once the game has ended.
func (r *Room) GetPlayerInfoList() []PlayerInfo {
	reveal := r.Phase == PhaseEnded
	ordered := r.orderedPlayers()
	players := make([]PlayerInfo, 0, len(ordered))
	for _, p := range ordered {
		players = append(players, p.ToInfo(reveal))
	}
	return players
}

// Snapshot returns a read-only view of the room
func (r *Room) Snapshot() RoomView {
	view := RoomView{
		Code:            r.Code,
		Phase:           r.Phase,
		Round:           r.Round,
		HostID:          r.HostID,
		Players:         r.GetPlayerInfoList(),
		EvidenceHistory: append([]string(nil), r.EvidenceHistory...),
		PlayerCount:     len(r.Players),
		CanJoin:         r.Phase == PhaseLobby && (r.Settings.MaxPlayers <= 0 || len(r.Players) < r.Settings.MaxPlayers),
		Winner:          r.Winner,
		Config:          r.Config,
	}
	if r.Scenario != nil {
		view.Title = r.Scenario.Title
	}
	return view
}

// RoomView is a copy of a room's public state
type RoomView struct {
	Code            string       `json:"code"`
	Phase           Phase        `json:"state"`
	Round           int          `json:"round"`
	HostID          string       `json:"hostId"`
	Title           string       `json:"title,omitempty"`
	Players         []PlayerInfo `json:"players"`
	EvidenceHistory []string     `json:"evidenceHistory"`
	PlayerCount     int          `json:"playerCount"`
	CanJoin         bool         `json:"canJoin"`
	Winner          Side         `json:"winner,omitempty"`
	Config          RoomConfig   `json:"config"`
}
