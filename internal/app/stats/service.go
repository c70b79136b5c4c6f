package stats

import (
	"context"

	clockport "github.com/gyiad-org/membership-api/internal/ports/out/clock"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
)

// StaffExclusion identifies the fixed non-real accounts removed from every
// aggregation.
type StaffExclusion struct {
	OrgName      string
	EmailMarkers []string
}

// DefaultStaffExclusion reproduces the historical dashboard exclusion list.
var DefaultStaffExclusion = StaffExclusion{
	OrgName:      "GYİAD",
	EmailMarkers: []string{"upgunagent", "admin@gyiad"},
}

// Overview is the full statistics payload for the dashboard.
type Overview struct {
	Headline Headline
	Gender   []Bucket
	Marital  []Bucket
	Sectors  []Bucket
	Ages     []Bucket

	MovementYear   int
	MovementJoined int
	MovementLeft   int

	// StatusYear is zero when the "current" selector is active, in which case
	// Status repeats the headline totals.
	StatusYear int
	Status     Headline
}

// Service computes dashboard aggregations over the member snapshot.
type Service struct {
	repo memberrepo.Repository
	clk  clockport.Clock

	exclusion StaffExclusion
}

func NewService(repo memberrepo.Repository, clk clockport.Clock) *Service {
	return &Service{repo: repo, clk: clk, exclusion: DefaultStaffExclusion}
}

// Snapshot computes every aggregation in one pass over the store snapshot.
// statusYear of zero selects the "current" totals for the status chart.
func (s *Service) Snapshot(ctx context.Context, movementYear, statusYear int) (Overview, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Overview{}, err
	}
	members := ExcludeStaff(all, s.exclusion.OrgName, s.exclusion.EmailMarkers)

	now := s.clk.Now()
	if movementYear == 0 {
		movementYear = now.Year()
	}

	ov := Overview{
		Headline:     HeadlineCounts(members),
		Gender:       GenderSplit(members),
		Marital:      MaritalSplit(members),
		Sectors:      SectorHistogram(members),
		Ages:         AgeHistogram(members, now),
		MovementYear: movementYear,
		StatusYear:   statusYear,
	}
	ov.MovementJoined, ov.MovementLeft = Movement(members, movementYear)

	if statusYear == 0 {
		ov.Status = ov.Headline
	} else {
		ov.Status = StatusByYear(members, statusYear)
	}
	return ov, nil
}

// SetStaffExclusion overrides the exclusion list; used by tests and
// deployments for other organizations.
func (s *Service) SetStaffExclusion(e StaffExclusion) { s.exclusion = e }
