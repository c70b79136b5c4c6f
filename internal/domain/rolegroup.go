package domain

// RoleGroup models a paired regular/reserve role control. A member-edit form
// instantiates it twice (board and audit) with identical logic.
//
// Invariant: at most one of the pair is present in a role set at a time.
type RoleGroup struct {
	Regular BoardRole
	Reserve BoardRole
}

var (
	BoardGroup = RoleGroup{Regular: RoleBoardMember, Reserve: RoleBoardReserve}
	AuditGroup = RoleGroup{Regular: RoleAuditBoard, Reserve: RoleAuditReserve}
)

// State reports whether the group is active in roles and, if so, whether the
// reserve sub-choice is selected.
func (g RoleGroup) State(roles []BoardRole) (active, reserve bool) {
	regular := HasRole(roles, g.Regular)
	reserve = HasRole(roles, g.Reserve)
	return regular || reserve, reserve
}

// Apply returns roles with the group set to the given state. Both tags are
// stripped first, so switching the sub-choice replaces the occupied tag and
// never adds a second. Activating with reserve=false is the default "regular"
// state.
func (g RoleGroup) Apply(roles []BoardRole, active, reserve bool) []BoardRole {
	out := make([]BoardRole, 0, len(roles)+1)
	for _, r := range roles {
		if r == g.Regular || r == g.Reserve {
			continue
		}
		out = append(out, r)
	}
	if active {
		if reserve {
			out = append(out, g.Reserve)
		} else {
			out = append(out, g.Regular)
		}
	}
	return out
}
