package domain

// Role represents a player's hidden allegiance
type Role string

const (
	RoleCivilian Role = "Civilian"
	RoleMafioso  Role = "Mafioso"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsMafioso returns true if this role belongs to the mafia
func (r Role) IsMafioso() bool {
	return r == RoleMafioso
}

// RoleInfo is the player-facing description of a role
type RoleInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var roleInfos = map[Role]RoleInfo{
	RoleMafioso: {
		Name:        "Mafioso",
		Description: "You are part of the mafia. Blend in, deflect suspicion and outlast the town.",
	},
	RoleCivilian: {
		Name:        "Civilian",
		Description: "You are an innocent citizen. Study the evidence and vote the mafia out.",
	},
}

// Info returns the display name and description for the role
func (r Role) Info() RoleInfo {
	if info, ok := roleInfos[r]; ok {
		return info
	}
	return RoleInfo{Name: string(r)}
}

// Side identifies the winning faction
type Side string

const (
	SideNone  Side = ""
	SideTown  Side = "Town"
	SideMafia Side = "Mafia"
)

// String returns the string representation of the side
func (s Side) String() string {
	return string(s)
}
