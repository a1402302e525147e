package testsupport

import (
	"path/filepath"
	"testing"

	"wwtxtp/internal/txtp"
)

// MustOpenIndex opens an artifact index in a temp directory and
// registers cleanup.
func MustOpenIndex(t testing.TB) *txtp.Index {
	t.Helper()

	ix, err := txtp.OpenIndex(filepath.Join(t.TempDir(), "artifacts.db"))
	if err != nil {
		t.Fatalf("txtp.OpenIndex: %v", err)
	}
	t.Cleanup(func() {
		_ = ix.Close()
	})
	return ix
}
