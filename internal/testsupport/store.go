package testsupport

import (
	"testing"

	"plateflow/internal/config"
	"plateflow/internal/journal"
)

// MustOpenJournal opens the journal store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("open journal store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close journal store: %v", err)
		}
	})
	return store
}
