// Copyright (c) 2026 Robin CRM. All rights reserved.

package auth

// Role is a canonical role name from the fixed company hierarchy.
//
// # Hierarchy
//
// Roles form a strict total order by rank; a higher rank is a superset of
// every lower rank's coarse privileges. Fine-grained module access is a
// separate concern handled by the permission grant matrix.
type Role string

const (
	RoleStaff          Role = "staff"
	RoleSalesStaff     Role = "sales_staff"
	RoleSalesManager   Role = "sales_manager"
	RoleSeniorManager  Role = "senior_manager"
	RoleChiefExecutive Role = "chief_executive"
)

// TopRank is the rank of the highest role in the hierarchy.
const TopRank = 5

// roleRanks maps each canonical role to its numeric rank.
// Unknown roles are absent and rank 0, below every real role.
var roleRanks = map[Role]int{
	RoleStaff:          1,
	RoleSalesStaff:     2,
	RoleSalesManager:   3,
	RoleSeniorManager:  4,
	RoleChiefExecutive: 5,
}

// roleAliases maps legacy and localized role labels onto canonical roles.
// Stored user records and old tokens may still carry these spellings.
var roleAliases = map[string]Role{
	"ceo":  RoleChiefExecutive,
	"مدیر": RoleChiefExecutive,
}

// ParseRole resolves a raw role string (canonical, legacy, or localized)
// to its canonical [Role]. Unrecognized names pass through unchanged and
// rank as 0, so they satisfy nothing.
func ParseRole(name string) Role {
	if canonical, ok := roleAliases[name]; ok {
		return canonical
	}
	return Role(name)
}

// Rank returns the numeric rank of the role, or 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Known reports whether the role is part of the hierarchy.
func (r Role) Known() bool {
	_, ok := roleRanks[r]
	return ok
}

// IsTop reports whether the role holds the highest rank. The top role
// bypasses the module grant matrix entirely.
func (r Role) IsTop() bool {
	return r.Rank() == TopRank
}

// Satisfies reports whether this role meets a required-role set.
//
// The set reads as "any of these roles or higher": because ranks are
// monotonic, meeting the LOWEST-ranked alternative is sufficient, so the
// check reduces to rank(r) >= min(rank(required...)).
//
// An empty required set is a caller bug and always fails.
func (r Role) Satisfies(required ...Role) bool {
	if len(required) == 0 {
		return false
	}

	minimumRank := required[0].Rank()
	for _, candidate := range required[1:] {
		if rank := candidate.Rank(); rank < minimumRank {
			minimumRank = rank
		}
	}

	return r.Rank() >= minimumRank
}

// AllRoles returns the canonical roles in ascending rank order.
func AllRoles() []Role {
	return []Role{
		RoleStaff,
		RoleSalesStaff,
		RoleSalesManager,
		RoleSeniorManager,
		RoleChiefExecutive,
	}
}
