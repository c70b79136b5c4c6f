package domain

// BoardRole is one tag from the fixed board-role vocabulary. Tags are not
// mutually exclusive; a member may hold several simultaneously.
type BoardRole string

const (
	RolePresident         BoardRole = "president"
	RoleVicePresident     BoardRole = "vice_president"
	RoleExecutiveBoard    BoardRole = "executive_board"
	RoleBoardMember       BoardRole = "board_member"
	RoleBoardReserve      BoardRole = "board_reserve"
	RoleAuditBoard        BoardRole = "audit_board"
	RoleAuditReserve      BoardRole = "audit_reserve"
	RoleHighAdvisoryBoard BoardRole = "high_advisory_board"
	RoleFounder           BoardRole = "founder"
	RolePastPresident     BoardRole = "past_president"
	RoleHonoraryMember    BoardRole = "honorary_member"
)

// AllRoles is the full tag vocabulary, used to validate admin input.
var AllRoles = []BoardRole{
	RolePresident,
	RoleVicePresident,
	RoleExecutiveBoard,
	RoleBoardMember,
	RoleBoardReserve,
	RoleAuditBoard,
	RoleAuditReserve,
	RoleHighAdvisoryBoard,
	RoleFounder,
	RolePastPresident,
	RoleHonoraryMember,
}

// ValidRole reports whether r belongs to the fixed vocabulary.
func ValidRole(r BoardRole) bool {
	for _, v := range AllRoles {
		if v == r {
			return true
		}
	}
	return false
}

// HasRole reports whether r appears in roles.
func HasRole(roles []BoardRole, r BoardRole) bool {
	for _, v := range roles {
		if v == r {
			return true
		}
	}
	return false
}

// primaryRoleTable is the fixed precedence order for compact display. The
// first matching tag wins. audit_reserve intentionally has no entry and the
// audit side ranks below advisory/founder: the regular/reserve symmetry of the
// edit form is an editorial non-goal for headline display.
var primaryRoleTable = []struct {
	Role  BoardRole
	Label string
}{
	{RolePresident, "Başkan"},
	{RoleVicePresident, "Başkan Yardımcısı"},
	{RoleExecutiveBoard, "İcra Kurulu Üyesi"},
	{RoleBoardMember, "Yönetim Kurulu Üyesi"},
	{RoleBoardReserve, "YK Yedek Üye"},
	{RoleAuditBoard, "Denetleme Kurulu Üyesi"},
	{RoleHighAdvisoryBoard, "YİK Üyesi"},
	{RoleFounder, "Kurucu Üye"},
	{RolePastPresident, "Geçmiş Dönem Başkanı"},
}

const (
	LabelHonoraryMember = "Fahri Üye"
	LabelFoundingMember = "Kurucu Üye"
	LabelMember         = "Üye"
)

// PrimaryRole resolves the single human-readable label for a member's compact
// display from the board-role tags and, failing those, the member type.
func PrimaryRole(roles []BoardRole, typ MemberType) string {
	for _, rule := range primaryRoleTable {
		if HasRole(roles, rule.Role) {
			return rule.Label
		}
	}
	switch typ {
	case TypeHonorary:
		return LabelHonoraryMember
	case TypeFounder:
		return LabelFoundingMember
	default:
		return LabelMember
	}
}

// DisplayRole returns the card label for m: the explicit card-role override
// when present, otherwise the resolved primary role.
func DisplayRole(m Member) string {
	if m.CardRole != nil && *m.CardRole != "" {
		return *m.CardRole
	}
	return PrimaryRole(m.BoardRoles, m.MemberType)
}
