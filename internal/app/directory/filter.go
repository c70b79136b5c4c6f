package directory

import (
	"strings"

	"github.com/gyiad-org/membership-api/internal/domain"
)

// Category is a named directory filter. Categories are mutually exclusive;
// exactly one is in effect unless a free-text search overrides it.
type Category string

const (
	CategoryPresident      Category = "president"
	CategoryExecutive      Category = "executive"
	CategoryBoardAll       Category = "board_all"
	CategoryBoardRegular   Category = "board_regular"
	CategoryBoardReserve   Category = "board_reserve"
	CategoryAuditAll       Category = "audit_all"
	CategoryAuditRegular   Category = "audit_regular"
	CategoryAuditReserve   Category = "audit_reserve"
	CategoryActive         Category = "active"
	CategoryHonorary       Category = "honorary"
	CategoryAdvisory       Category = "advisory"
	CategoryFounders       Category = "founders"
	CategoryPastPresidents Category = "past_presidents"
)

// DefaultCategory applies when no category is specified.
const DefaultCategory = CategoryActive

// categoryPredicates maps each category to its membership test. Tag tests are
// on the board-role set; type tests are on the member type. An unrecognized
// category has no entry and applies no additional filtering.
var categoryPredicates = map[Category]func(domain.Member) bool{
	CategoryPresident: hasRole(domain.RolePresident),
	CategoryExecutive: hasRole(domain.RoleExecutiveBoard),
	CategoryBoardAll: func(m domain.Member) bool {
		return domain.HasRole(m.BoardRoles, domain.RoleBoardMember) ||
			domain.HasRole(m.BoardRoles, domain.RoleBoardReserve)
	},
	CategoryBoardRegular: hasRole(domain.RoleBoardMember),
	CategoryBoardReserve: hasRole(domain.RoleBoardReserve),
	CategoryAuditAll: func(m domain.Member) bool {
		return domain.HasRole(m.BoardRoles, domain.RoleAuditBoard) ||
			domain.HasRole(m.BoardRoles, domain.RoleAuditReserve)
	},
	CategoryAuditRegular: hasRole(domain.RoleAuditBoard),
	CategoryAuditReserve: hasRole(domain.RoleAuditReserve),
	CategoryActive: func(m domain.Member) bool {
		return m.MemberType == domain.TypeActive
	},
	CategoryHonorary: func(m domain.Member) bool {
		return m.MemberType == domain.TypeHonorary
	},
	CategoryAdvisory: hasRole(domain.RoleHighAdvisoryBoard),
	// Founder category tests the role tag, not the member type.
	CategoryFounders:       hasRole(domain.RoleFounder),
	CategoryPastPresidents: hasRole(domain.RolePastPresident),
}

func hasRole(r domain.BoardRole) func(domain.Member) bool {
	return func(m domain.Member) bool {
		return domain.HasRole(m.BoardRoles, r)
	}
}

// Filter is the member-facing directory filter specification. All axes are
// optional and independent; zero values mean "not active".
type Filter struct {
	Category Category
	Search   string
	Sector   string
	Gender   domain.Gender
}

// Apply derives the displayed subset of members, preserving input order.
//
// Baseline exclusion removes "left" members, admin/staff accounts and hidden
// members before anything else. A free-text search (case-insensitive substring
// on the full name) overrides the category filter entirely: search is global,
// categories are not combined with it. Sector and gender narrow both paths.
func Apply(members []domain.Member, f Filter) []domain.Member {
	result := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.MemberType == domain.TypeLeft || m.IsAdmin || m.IsHidden {
			continue
		}
		result = append(result, m)
	}

	if f.Sector != "" {
		result = keep(result, func(m domain.Member) bool {
			return m.Sector != nil && *m.Sector == f.Sector
		})
	}
	if f.Gender != domain.GenderUnset {
		result = keep(result, func(m domain.Member) bool {
			return m.Gender == f.Gender
		})
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		lower := strings.ToLower(term)
		return keep(result, func(m domain.Member) bool {
			return strings.Contains(strings.ToLower(m.FullName), lower)
		})
	}

	category := f.Category
	if category == "" {
		category = DefaultCategory
	}
	if pred, ok := categoryPredicates[category]; ok {
		result = keep(result, pred)
	}
	return result
}

// AdminFilter is the broader admin-side directory filter. Admin sees everyone
// except admin/staff accounts themselves; "left" members are not excluded.
// All active axes combine by logical AND, search included.
type AdminFilter struct {
	// Search matches the full name or company name, case-insensitive substring.
	Search string
	// Status filters on the member type; empty means all.
	Status domain.MemberType
	// Role filters on a single board-role tag; empty means all.
	Role domain.BoardRole
	// Gender filters on exact match; unset means all.
	Gender domain.Gender
	// Year filters on the year component of the membership start date; zero
	// means all.
	Year int
}

// ApplyAdmin derives the admin listing subset, preserving input order.
func ApplyAdmin(members []domain.Member, f AdminFilter) []domain.Member {
	term := strings.ToLower(strings.TrimSpace(f.Search))

	result := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.IsAdmin {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(m.FullName), term) &&
			!strings.Contains(strings.ToLower(m.CompanyName), term) {
			continue
		}
		if f.Status != "" && m.MemberType != f.Status {
			continue
		}
		if f.Role != "" && !domain.HasRole(m.BoardRoles, f.Role) {
			continue
		}
		if f.Gender != domain.GenderUnset && m.Gender != f.Gender {
			continue
		}
		if f.Year != 0 && !m.JoinedIn(f.Year) {
			continue
		}
		result = append(result, m)
	}
	return result
}

func keep(ms []domain.Member, pred func(domain.Member) bool) []domain.Member {
	out := ms[:0]
	for _, m := range ms {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}
