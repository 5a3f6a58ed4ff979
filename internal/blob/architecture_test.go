package blob

import (
	"strings"
	"testing"

	"limsmock/testutil"
)

// TestOnlyBlobPackageImportsInfra ensures that only the top-level blob
// package wraps the infra-backed implementations.
func TestOnlyBlobPackageImportsInfra(t *testing.T) {
	infra := func(p string) bool {
		return p == "limsmock/internal/infra/blob" || strings.HasPrefix(p, "limsmock/internal/infra/blob/")
	}
	testutil.AssertImportConfined(t, "../..", infra, []string{"internal/blob", "internal/infra/blob"},
		"depend on blob.Store instead of infra blob packages")
}
