package requestrepo

import (
	"testing"

	"github.com/gyiad-org/membership-api/internal/adapters/contracttest"
	memberrepomem "github.com/gyiad-org/membership-api/internal/adapters/memory/memberrepo"
	memberrepoport "github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
	requestrepoport "github.com/gyiad-org/membership-api/internal/ports/out/requestrepo"
)

func TestContract_RequestRepo(t *testing.T) {
	contracttest.RunRequestRepo(t,
		func(t *testing.T) (memberrepoport.Repository, func()) {
			t.Helper()
			return memberrepomem.NewRepo(), nil
		},
		func(t *testing.T, members memberrepoport.Repository) (requestrepoport.Repository, func()) {
			t.Helper()
			return NewRepo(members), nil
		},
	)
}
