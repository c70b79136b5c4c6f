package settingsstore

import (
	"testing"

	"github.com/gyiad-org/membership-api/internal/adapters/contracttest"
	"github.com/gyiad-org/membership-api/internal/adapters/postgres/testutil"
	settingsstoreport "github.com/gyiad-org/membership-api/internal/ports/out/settingsstore"
)

func TestContract_PostgresSettingsStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunSettingsStore(t, func(t *testing.T) (settingsstoreport.Store, func()) {
		t.Helper()
		return NewStore(pool), nil
	})
}
