package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gyiad-org/membership-api/internal/domain"
	memberrepoport "github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
	requestrepoport "github.com/gyiad-org/membership-api/internal/ports/out/requestrepo"
	settingsstoreport "github.com/gyiad-org/membership-api/internal/ports/out/settingsstore"
)

type CleanupFunc = func()

type MemberRepoFactory func(t *testing.T) (memberrepoport.Repository, CleanupFunc)

// RequestRepoFactory builds a request repository that joins against the given
// member repository. Backends sharing storage with the member repository may
// ignore the argument.
type RequestRepoFactory func(t *testing.T, members memberrepoport.Repository) (requestrepoport.Repository, CleanupFunc)

type SettingsStoreFactory func(t *testing.T) (settingsstoreport.Store, CleanupFunc)

func RunMemberRepo(t *testing.T, newRepo MemberRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.MemberID(uuid.NewString())
	if err := repo.Create(ctx, domain.Member{
		ID:                 aID,
		FullName:           "Ayşe Yılmaz",
		Email:              "ayse@example.com",
		MembershipCategory: domain.CategoryIndividual,
		MemberType:         domain.TypeActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "ayse@example.com"); err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}

	// Email uniqueness.
	err := repo.Create(ctx, domain.Member{
		ID:                 domain.MemberID(uuid.NewString()),
		FullName:           "Ayşe 2",
		Email:              "ayse@example.com",
		MembershipCategory: domain.CategoryIndividual,
		MemberType:         domain.TypeActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if !errors.Is(err, memberrepoport.ErrEmailAlreadyBound) {
		t.Fatalf("expected ErrEmailAlreadyBound, got %v", err)
	}

	// Deterministic list ordering by full name (case-insensitive).
	bID := domain.MemberID(uuid.NewString())
	if err := repo.Create(ctx, domain.Member{
		ID:                 bID,
		FullName:           "ahmet demir",
		Email:              "ahmet@example.com",
		MembershipCategory: domain.CategoryIndividual,
		MemberType:         domain.TypeActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) < 2 || all[0].ID != bID {
		t.Fatalf("unexpected ordering: %#v", all)
	}

	// Update round-trips pointer fields and the role list.
	phone := "+90 555 000 0000"
	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID before update: %v", err)
	}
	got.Phone = &phone
	got.BoardRoles = []domain.BoardRole{domain.RolePresident}
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Phone == nil || *got.Phone != phone {
		t.Fatalf("phone did not round-trip: %#v", got.Phone)
	}
	if len(got.BoardRoles) != 1 || got.BoardRoles[0] != domain.RolePresident {
		t.Fatalf("roles did not round-trip: %#v", got.BoardRoles)
	}

	// Email change frees the old binding.
	got.Email = "ayse-new@example.com"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update email: %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "ayse-new@example.com"); err != nil {
		t.Fatalf("GetByEmail new: %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "ayse@example.com"); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected old email unbound, got %v", err)
	}

	// Delete.
	if err := repo.Delete(ctx, aID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, aID); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func RunRequestRepo(t *testing.T, newMemberRepo MemberRepoFactory, newRequestRepo RequestRepoFactory) {
	t.Helper()
	ctx := context.Background()

	members, mCleanup := newMemberRepo(t)
	if mCleanup != nil {
		t.Cleanup(mCleanup)
	}
	repo, cleanup := newRequestRepo(t, members)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	ownerID := domain.MemberID(uuid.NewString())
	avatar := "https://cdn.example.com/a.png"
	if err := members.Create(ctx, domain.Member{
		ID:                 ownerID,
		FullName:           "Mehmet Kaya",
		Email:              "mehmet@example.com",
		AvatarURL:          &avatar,
		MembershipCategory: domain.CategoryIndividual,
		MemberType:         domain.TypeActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}); err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	oldID := domain.RequestID(uuid.NewString())
	newID := domain.RequestID(uuid.NewString())
	if err := repo.Create(ctx, domain.Request{
		ID:        oldID,
		MemberID:  ownerID,
		Subject:   "Adres değişikliği",
		Message:   "Yeni adresimi güncelleyebilir misiniz?",
		Status:    domain.RequestPending,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("Create old: %v", err)
	}
	if err := repo.Create(ctx, domain.Request{
		ID:        newID,
		MemberID:  ownerID,
		Subject:   "Etkinlik kaydı",
		Message:   "Mart etkinliğine katılmak istiyorum.",
		Status:    domain.RequestPending,
		CreatedAt: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create new: %v", err)
	}

	// Newest first.
	mine, err := repo.ListByMember(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListByMember: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != newID || mine[1].ID != oldID {
		t.Fatalf("unexpected order: %#v", mine)
	}

	// Joined listing carries the owner summary.
	joined, err := repo.ListWithMembers(ctx)
	if err != nil {
		t.Fatalf("ListWithMembers: %v", err)
	}
	if len(joined) != 2 {
		t.Fatalf("expected 2 joined rows, got %d", len(joined))
	}
	if joined[0].Member.FullName != "Mehmet Kaya" || joined[0].Member.Email != "mehmet@example.com" {
		t.Fatalf("unexpected summary: %#v", joined[0].Member)
	}
	if joined[0].Member.AvatarURL == nil || *joined[0].Member.AvatarURL != avatar {
		t.Fatalf("avatar did not round-trip: %#v", joined[0].Member.AvatarURL)
	}

	// Reply state round-trips.
	reply := "Adresiniz güncellendi."
	repliedAt := now.Add(2 * time.Hour)
	r, err := repo.GetByID(ctx, oldID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	r.Status = domain.RequestReplied
	r.AdminReply = &reply
	r.RepliedAt = &repliedAt
	if err := repo.Update(ctx, r); err != nil {
		t.Fatalf("Update: %v", err)
	}
	r, err = repo.GetByID(ctx, oldID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if r.Status != domain.RequestReplied || r.AdminReply == nil || *r.AdminReply != reply {
		t.Fatalf("reply did not round-trip: %#v", r)
	}

	// Delete.
	if err := repo.Delete(ctx, oldID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, oldID); !errors.Is(err, requestrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting the owner removes their requests from the joined listing.
	goneID := domain.MemberID(uuid.NewString())
	if err := members.Create(ctx, domain.Member{
		ID:                 goneID,
		FullName:           "Ayrılan Üye",
		Email:              "ayrilan@example.com",
		MembershipCategory: domain.CategoryIndividual,
		MemberType:         domain.TypeActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}); err != nil {
		t.Fatalf("seed second owner: %v", err)
	}
	orphanID := domain.RequestID(uuid.NewString())
	if err := repo.Create(ctx, domain.Request{
		ID:        orphanID,
		MemberID:  goneID,
		Subject:   "Üyelik iptali",
		Message:   "Üyeliğimi sonlandırmak istiyorum.",
		Status:    domain.RequestPending,
		CreatedAt: now.Add(3 * time.Hour),
	}); err != nil {
		t.Fatalf("Create for second owner: %v", err)
	}
	if err := members.Delete(ctx, goneID); err != nil {
		t.Fatalf("delete second owner: %v", err)
	}
	joined, err = repo.ListWithMembers(ctx)
	if err != nil {
		t.Fatalf("ListWithMembers after owner delete: %v", err)
	}
	for _, row := range joined {
		if row.Request.ID == orphanID {
			t.Fatalf("request of a deleted member still listed: %#v", row)
		}
	}
	if len(joined) != 1 || joined[0].Request.ID != newID {
		t.Fatalf("expected only %s to remain, got %#v", newID, joined)
	}
}

func RunSettingsStore(t *testing.T, newStore SettingsStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if _, err := store.Get(ctx, "kvkk_text"); !errors.Is(err, settingsstoreport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unset key, got %v", err)
	}

	if err := store.Upsert(ctx, "kvkk_text", "v1"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := store.Get(ctx, "kvkk_text")
	if err != nil || got != "v1" {
		t.Fatalf("Get: got %q err=%v", got, err)
	}

	// Overwrite semantics.
	if err := store.Upsert(ctx, "kvkk_text", "v2"); err != nil {
		t.Fatalf("Upsert overwrite: %v", err)
	}
	got, err = store.Get(ctx, "kvkk_text")
	if err != nil || got != "v2" {
		t.Fatalf("expected overwritten value, got %q err=%v", got, err)
	}
}
