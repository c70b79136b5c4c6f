package memberrepo

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"github.com/gyiad-org/membership-api/internal/domain"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// placeholders returns the set of $n references in a statement.
func placeholders(t *testing.T, sql string) map[int]bool {
	t.Helper()
	out := make(map[int]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(sql, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			t.Fatalf("placeholder %q: %v", m[0], err)
		}
		out[n] = true
	}
	return out
}

// Both statements must reference every argument exactly once per position:
// an argument bound but never referenced leaves its parameter type
// undeterminable and the statement fails at prepare time.
func TestMemberStatements_CoverEveryArgument(t *testing.T) {
	t.Parallel()

	argc := len(createUpdateArgs(uuid.Nil, domain.Member{}, nil))

	for _, tc := range []struct {
		name string
		sql  string
	}{
		{name: "insert", sql: insertMemberSQL},
		{name: "update", sql: updateMemberSQL},
	} {
		refs := placeholders(t, tc.sql)
		if len(refs) != argc {
			t.Errorf("%s: %d distinct placeholders, args=%d", tc.name, len(refs), argc)
		}
		for n := 1; n <= argc; n++ {
			if !refs[n] {
				t.Errorf("%s: $%d never referenced", tc.name, n)
			}
		}
		for n := range refs {
			if n < 1 || n > argc {
				t.Errorf("%s: $%d outside argument range 1..%d", tc.name, n, argc)
			}
		}
	}
}
