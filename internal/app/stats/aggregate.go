package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/gyiad-org/membership-api/internal/domain"
)

// Bucket is one labeled count for chart rendering.
type Bucket struct {
	Name  string
	Count int
}

// Headline carries the dashboard's top-line counts. Founder is the union of
// the founder member type and the founder role tag.
type Headline struct {
	Total    int
	Active   int
	Honorary int
	Founder  int
	Left     int
}

// AgeBucketNames is the fixed age histogram order.
var AgeBucketNames = []string{"18-30", "31-40", "41-50", "51-60", "60+"}

// ExcludeStaff removes the fixed set of non-real accounts: company name equal
// to the organization's own name, or email containing a known staff-account
// marker. This list is broader than the IsAdmin flag and must stay as-is to
// keep historical dashboard numbers reproducible.
func ExcludeStaff(members []domain.Member, orgName string, emailMarkers []string) []domain.Member {
	out := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.CompanyName == orgName {
			continue
		}
		if containsAny(m.Email, emailMarkers) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// HeadlineCounts computes the top-line counts over an already staff-excluded
// member set.
func HeadlineCounts(members []domain.Member) Headline {
	h := Headline{Total: len(members)}
	for _, m := range members {
		switch m.MemberType {
		case domain.TypeActive:
			h.Active++
		case domain.TypeHonorary:
			h.Honorary++
		case domain.TypeLeft:
			h.Left++
		}
		if m.IsFounder() {
			h.Founder++
		}
	}
	return h
}

// GenderSplit counts male/female members. Members with no recorded gender are
// excluded from the chart (they still count toward the headline total).
func GenderSplit(members []domain.Member) []Bucket {
	var male, female int
	for _, m := range members {
		switch m.Gender {
		case domain.GenderMale:
			male++
		case domain.GenderFemale:
			female++
		}
	}
	return []Bucket{
		{Name: "Erkek", Count: male},
		{Name: "Kadın", Count: female},
	}
}

// MaritalSplit counts single/married members.
func MaritalSplit(members []domain.Member) []Bucket {
	var single, married int
	for _, m := range members {
		if m.MaritalStatus == nil {
			continue
		}
		switch *m.MaritalStatus {
		case domain.MaritalSingle:
			single++
		case domain.MaritalMarried:
			married++
		}
	}
	return []Bucket{
		{Name: "Bekar", Count: single},
		{Name: "Evli", Count: married},
	}
}

// SectorHistogram counts members per distinct sector value present in the
// data, sorted descending by count (name ascending as tie-break for
// deterministic output). There is no fixed bucket list.
func SectorHistogram(members []domain.Member) []Bucket {
	counts := map[string]int{}
	for _, m := range members {
		if m.Sector == nil || *m.Sector == "" {
			continue
		}
		counts[*m.Sector]++
	}
	out := make([]Bucket, 0, len(counts))
	for name, n := range counts {
		out = append(out, Bucket{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Name < out[j].Name
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// AgeHistogram buckets members by age as of ref. Members without a birth date
// are excluded from every bucket.
func AgeHistogram(members []domain.Member, ref time.Time) []Bucket {
	counts := make([]int, len(AgeBucketNames))
	for _, m := range members {
		age, ok := m.Age(ref)
		if !ok {
			continue
		}
		switch {
		case age <= 30:
			counts[0]++
		case age <= 40:
			counts[1]++
		case age <= 50:
			counts[2]++
		case age <= 60:
			counts[3]++
		default:
			counts[4]++
		}
	}
	out := make([]Bucket, len(AgeBucketNames))
	for i, name := range AgeBucketNames {
		out[i] = Bucket{Name: name, Count: counts[i]}
	}
	return out
}

// Movement counts members whose membership started in year, and members who
// left in year. The two are independent per-year counts, not a running total.
func Movement(members []domain.Member, year int) (joined, left int) {
	for _, m := range members {
		if m.JoinedIn(year) {
			joined++
		}
		if m.LeftIn(year) {
			left++
		}
	}
	return joined, left
}

// StatusByYear segments members by current status among those whose start date
// falls in year ("left" uses the end date). This is "how many who are
// currently of status S joined in year Y", not a historical snapshot; the
// semantic is kept from the dashboard it reproduces.
func StatusByYear(members []domain.Member, year int) Headline {
	var h Headline
	for _, m := range members {
		if m.JoinedIn(year) {
			switch m.MemberType {
			case domain.TypeActive:
				h.Active++
			case domain.TypeHonorary:
				h.Honorary++
			}
			if m.IsFounder() {
				h.Founder++
			}
			h.Total++
		}
		if m.LeftIn(year) {
			h.Left++
		}
	}
	return h
}
