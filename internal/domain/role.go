package domain

// Role is a player's secret round role.
type Role string

const (
	// RoleUnassigned is the zero role before assignment runs.
	RoleUnassigned Role = ""
	// RoleLiar marks the player who does not know the keyword.
	RoleLiar Role = "liar"
	// RoleCivilian marks a player who knows the keyword.
	RoleCivilian Role = "civilian"
)

// RoleAssignment binds a player to their secret role plus a commitment
// token. The token is a salted one-way hash of "role:playerID": it can
// verify a role claim after the fact but cannot be reversed into the role,
// so the actual role is still delivered only over the owning connection.
type RoleAssignment struct {
	UserID     string
	Role       Role
	Commitment string
}
