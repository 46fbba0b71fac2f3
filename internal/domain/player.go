package domain

import "time"

// DefaultAvatar is used when a player does not pick one
const DefaultAvatar = "👤"

// Character is a public persona handed out at game start
type Character struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// Assignment is the role and persona a player receives at game start.
// A nil *Assignment means the player is still unassigned (lobby).
type Assignment struct {
	Role      Role      `json:"role"`
	Character Character `json:"character"`
}

// Player represents a participant in a room
type Player struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Avatar     string      `json:"avatar"`
	Assignment *Assignment `json:"assignment,omitempty"`
	Alive      bool        `json:"alive"`
	IsHost     bool        `json:"isHost"`
	JoinOrder  int         `json:"-"`
	JoinedAt   time.Time   `json:"joinedAt"`
}

// NewPlayer creates a new unassigned, living player
func NewPlayer(id, name, avatar string) *Player {
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return &Player{
		ID:       id,
		Name:     name,
		Avatar:   avatar,
		Alive:    true,
		JoinedAt: time.Now(),
	}
}

// IsAssigned reports whether the player has received a role
func (p *Player) IsAssigned() bool {
	return p.Assignment != nil
}

// IsMafioso reports whether the player is an assigned Mafioso
func (p *Player) IsMafioso() bool {
	return p.Assignment != nil && p.Assignment.Role.IsMafioso()
}

// PlayerInfo is the public view of a player. Role is only filled in
// once the game is over.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Alive     bool   `json:"alive"`
	IsHost    bool   `json:"isHost"`
	Character string `json:"character,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

// ToInfo converts a Player to PlayerInfo, hiding the role unless revealRole is set
func (p *Player) ToInfo(revealRole bool) PlayerInfo {
	info := PlayerInfo{
		ID:     p.ID,
		Name:   p.Name,
		Avatar: p.Avatar,
		Alive:  p.Alive,
		IsHost: p.IsHost,
	}
	if p.Assignment != nil {
		info.Character = p.Assignment.Character.Name
		if revealRole {
			info.Role = p.Assignment.Role
		}
	}
	return info
}
