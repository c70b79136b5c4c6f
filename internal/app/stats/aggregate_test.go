package stats

import (
	"testing"
	"time"

	"github.com/gyiad-org/membership-api/internal/domain"
)

func typed(id string, typ domain.MemberType) domain.Member {
	return domain.Member{
		ID:         domain.MemberID(id),
		FullName:   "Member " + id,
		Email:      id + "@example.com",
		MemberType: typ,
	}
}

func TestHeadlineCounts(t *testing.T) {
	t.Parallel()

	founderByTag := typed("m4", domain.TypeActive)
	founderByTag.BoardRoles = []domain.BoardRole{domain.RoleFounder}

	ms := []domain.Member{
		typed("m1", domain.TypeActive),
		typed("m2", domain.TypeHonorary),
		typed("m3", domain.TypeFounder),
		founderByTag,
		typed("m5", domain.TypeLeft),
	}

	h := HeadlineCounts(ms)
	if h.Total != 5 {
		t.Errorf("Total=%d, want 5", h.Total)
	}
	if h.Active != 2 {
		t.Errorf("Active=%d, want 2", h.Active)
	}
	if h.Honorary != 1 {
		t.Errorf("Honorary=%d, want 1", h.Honorary)
	}
	// Founder counts the union of type and role tag.
	if h.Founder != 2 {
		t.Errorf("Founder=%d, want 2", h.Founder)
	}
	if h.Left != 1 {
		t.Errorf("Left=%d, want 1", h.Left)
	}
}

func TestExcludeStaff(t *testing.T) {
	t.Parallel()

	staff := typed("m2", domain.TypeActive)
	staff.CompanyName = "GYİAD"
	agent := typed("m3", domain.TypeActive)
	agent.Email = "upgunagent-7@mail.com"
	adminAcct := typed("m4", domain.TypeActive)
	adminAcct.Email = "admin@gyiad.com"
	real := typed("m1", domain.TypeActive)
	real.CompanyName = "Acme"

	got := ExcludeStaff(
		[]domain.Member{real, staff, agent, adminAcct},
		"GYİAD",
		[]string{"upgunagent", "admin@gyiad"},
	)
	if len(got) != 1 || got[0].ID != real.ID {
		t.Fatalf("ExcludeStaff()=%v, want [m1]", got)
	}
}

func TestGenderAndMaritalSplits(t *testing.T) {
	t.Parallel()

	male := typed("m1", domain.TypeActive)
	male.Gender = domain.GenderMale
	female := typed("m2", domain.TypeActive)
	female.Gender = domain.GenderFemale
	unset := typed("m3", domain.TypeActive)

	single := domain.MaritalSingle
	married := domain.MaritalMarried
	male.MaritalStatus = &single
	female.MaritalStatus = &married

	ms := []domain.Member{male, female, unset}

	g := GenderSplit(ms)
	if g[0].Name != "Erkek" || g[0].Count != 1 || g[1].Name != "Kadın" || g[1].Count != 1 {
		t.Fatalf("GenderSplit()=%v", g)
	}

	m := MaritalSplit(ms)
	if m[0].Name != "Bekar" || m[0].Count != 1 || m[1].Name != "Evli" || m[1].Count != 1 {
		t.Fatalf("MaritalSplit()=%v", m)
	}
}

func TestSectorHistogram_OrderedByCountThenName(t *testing.T) {
	t.Parallel()

	fin := "Finans"
	tech := "Teknoloji"
	retail := "Perakende"

	ms := make([]domain.Member, 0)
	for i, sector := range []*string{&fin, &fin, &tech, &retail, nil} {
		m := typed(string(rune('a'+i)), domain.TypeActive)
		m.Sector = sector
		ms = append(ms, m)
	}

	got := SectorHistogram(ms)
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	if got[0].Name != "Finans" || got[0].Count != 2 {
		t.Errorf("first=%v, want Finans:2", got[0])
	}
	// Tie between Teknoloji and Perakende breaks by name.
	if got[1].Name != "Perakende" || got[2].Name != "Teknoloji" {
		t.Errorf("tie order=%v,%v, want Perakende,Teknoloji", got[1], got[2])
	}
}

func TestAgeHistogram_BucketBoundaries(t *testing.T) {
	t.Parallel()

	ref := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	birth := func(y, m, d int) *time.Time {
		t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	exactly30 := typed("m1", domain.TypeActive)
	exactly30.BirthDate = birth(1996, 6, 15)
	// Turns 31 tomorrow, still 30 today.
	almost31 := typed("m2", domain.TypeActive)
	almost31.BirthDate = birth(1995, 6, 16)
	// Turned 31 yesterday.
	just31 := typed("m3", domain.TypeActive)
	just31.BirthDate = birth(1995, 6, 14)
	over60 := typed("m4", domain.TypeActive)
	over60.BirthDate = birth(1960, 1, 1)
	noBirth := typed("m5", domain.TypeActive)

	got := AgeHistogram([]domain.Member{exactly30, almost31, just31, over60, noBirth}, ref)

	want := map[string]int{"18-30": 2, "31-40": 1, "41-50": 0, "51-60": 0, "60+": 1}
	for _, b := range got {
		if b.Count != want[b.Name] {
			t.Errorf("bucket %s=%d, want %d", b.Name, b.Count, want[b.Name])
		}
	}
}

func TestMovementAndStatusByYear(t *testing.T) {
	t.Parallel()

	date := func(y int) *time.Time {
		t := time.Date(y, 3, 1, 0, 0, 0, 0, time.UTC)
		return &t
	}

	joined2020 := typed("m1", domain.TypeActive)
	joined2020.MembershipDate = date(2020)
	joined2020Honorary := typed("m2", domain.TypeHonorary)
	joined2020Honorary.MembershipDate = date(2020)
	left2020 := typed("m3", domain.TypeLeft)
	left2020.MembershipDate = date(2015)
	left2020.MembershipEndDate = date(2020)
	joined2021 := typed("m4", domain.TypeActive)
	joined2021.MembershipDate = date(2021)

	ms := []domain.Member{joined2020, joined2020Honorary, left2020, joined2021}

	joined, left := Movement(ms, 2020)
	if joined != 2 || left != 1 {
		t.Fatalf("Movement(2020)=%d,%d, want 2,1", joined, left)
	}

	h := StatusByYear(ms, 2020)
	if h.Total != 2 || h.Active != 1 || h.Honorary != 1 || h.Left != 1 {
		t.Fatalf("StatusByYear(2020)=%+v", h)
	}
}
