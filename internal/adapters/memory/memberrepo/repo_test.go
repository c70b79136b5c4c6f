package memberrepo

import (
	"context"
	"testing"
	"time"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
)

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	now := time.Unix(100, 0).UTC()

	m := domain.Member{
		ID:                 domain.MemberID("m1"),
		FullName:           "Ayşe Yılmaz",
		Email:              "ayse@example.com",
		MembershipCategory: domain.CategoryIndividual,
		MemberType:         domain.TypeActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := r.Create(context.Background(), m); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	gotByID, err := r.GetByID(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if gotByID.ID != m.ID || gotByID.FullName != m.FullName {
		t.Fatalf("GetByID()=%+v, want %+v", gotByID, m)
	}

	gotByEmail, err := r.GetByEmail(context.Background(), "AYSE@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() err=%v", err)
	}
	if gotByEmail.ID != m.ID {
		t.Fatalf("GetByEmail().ID=%q, want %q", gotByEmail.ID, m.ID)
	}
}

func TestRepo_CreateRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m1 := domain.Member{ID: "m1", FullName: "A", Email: "a@example.com", MemberType: domain.TypeActive}
	m2 := domain.Member{ID: "m2", FullName: "B", Email: "a@example.com", MemberType: domain.TypeActive}

	if err := r.Create(context.Background(), m1); err != nil {
		t.Fatalf("Create(m1) err=%v", err)
	}
	if err := r.Create(context.Background(), m2); err != memberrepo.ErrEmailAlreadyBound {
		t.Fatalf("Create(m2) err=%v, want %v", err, memberrepo.ErrEmailAlreadyBound)
	}
}

func TestRepo_UpdateRebindsEmail(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m := domain.Member{ID: "m1", FullName: "A", Email: "a@example.com", MemberType: domain.TypeActive}
	if err := r.Update(context.Background(), m); err != memberrepo.ErrNotFound {
		t.Fatalf("Update(nonexistent) err=%v, want %v", err, memberrepo.ErrNotFound)
	}
	if err := r.Create(context.Background(), m); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	other := domain.Member{ID: "m2", FullName: "B", Email: "b@example.com", MemberType: domain.TypeActive}
	if err := r.Create(context.Background(), other); err != nil {
		t.Fatalf("Create(other) err=%v", err)
	}

	// Cannot steal another member's email.
	m.Email = "b@example.com"
	if err := r.Update(context.Background(), m); err != memberrepo.ErrEmailAlreadyBound {
		t.Fatalf("Update(conflicting email) err=%v, want %v", err, memberrepo.ErrEmailAlreadyBound)
	}

	m.Email = "a-new@example.com"
	if err := r.Update(context.Background(), m); err != nil {
		t.Fatalf("Update() err=%v", err)
	}
	if _, err := r.GetByEmail(context.Background(), "a-new@example.com"); err != nil {
		t.Fatalf("GetByEmail(new) err=%v", err)
	}
	if _, err := r.GetByEmail(context.Background(), "a@example.com"); err != memberrepo.ErrNotFound {
		t.Fatalf("GetByEmail(old) err=%v, want %v", err, memberrepo.ErrNotFound)
	}
}

func TestRepo_DeleteUnbindsEmail(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m := domain.Member{ID: "m1", FullName: "A", Email: "a@example.com", MemberType: domain.TypeActive}
	if err := r.Create(context.Background(), m); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if err := r.Delete(context.Background(), m.ID); err != nil {
		t.Fatalf("Delete() err=%v", err)
	}
	// Email becomes available again.
	m2 := domain.Member{ID: "m2", FullName: "B", Email: "a@example.com", MemberType: domain.TypeActive}
	if err := r.Create(context.Background(), m2); err != nil {
		t.Fatalf("Create(reused email) err=%v", err)
	}
}

func TestRepo_ListOrdersByFullName(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), domain.Member{ID: "m2", FullName: "bora", Email: "b1@example.com", MemberType: domain.TypeActive})
	_ = r.Create(context.Background(), domain.Member{ID: "m1", FullName: "Ali", Email: "a@example.com", MemberType: domain.TypeActive})
	_ = r.Create(context.Background(), domain.Member{ID: "m3", FullName: "Bora", Email: "b2@example.com", MemberType: domain.TypeActive})

	got, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List() len=%d, want 3", len(got))
	}
	// Case-insensitive sort; tie breaks by ID.
	if got[0].FullName != "Ali" || got[1].ID != "m2" || got[2].ID != "m3" {
		t.Fatalf("List() order=%v", []domain.MemberID{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestRepo_CloneIsolation(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m := domain.Member{
		ID:         "m1",
		FullName:   "A",
		Email:      "a@example.com",
		MemberType: domain.TypeActive,
		BoardRoles: []domain.BoardRole{domain.RolePresident},
	}
	if err := r.Create(context.Background(), m); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	got, _ := r.GetByID(context.Background(), "m1")
	got.BoardRoles[0] = domain.RoleFounder

	again, _ := r.GetByID(context.Background(), "m1")
	if again.BoardRoles[0] != domain.RolePresident {
		t.Fatalf("stored record mutated through returned slice")
	}
}
