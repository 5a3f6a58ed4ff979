package core

import (
	"testing"

	"limsmock/testutil"
)

func TestCoreDependsOnStoreInterfaceOnly(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden, "core reads the store through core.Store")
}
