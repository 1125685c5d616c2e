package patterns

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/contact-engine/pkg/types"
)

// storeUnderTest runs the same contract checks against any Store.
func storeUnderTest(t *testing.T, store Store) {
	t.Helper()

	// Missing pattern.
	_, ok, err := store.Get("never-stored")
	require.NoError(t, err)
	assert.False(t, ok)

	// Put then Get.
	require.NoError(t, store.Put("sig-a", types.DecisionMerge))
	decision, ok, err := store.Get("sig-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.DecisionMerge, decision)

	// Put replaces.
	require.NoError(t, store.Put("sig-a", types.DecisionKeepSeparate))
	decision, _, err = store.Get("sig-a")
	require.NoError(t, err)
	assert.Equal(t, types.DecisionKeepSeparate, decision)

	// List is sorted by signature.
	require.NoError(t, store.Put("sig-b", types.DecisionSkip))
	all, err := store.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "sig-a", all[0].Pattern)
	assert.Equal(t, "sig-b", all[1].Pattern)
	assert.False(t, all[0].CreatedAt.IsZero())

	// Delete one; deleting again is not an error.
	require.NoError(t, store.Delete("sig-a"))
	require.NoError(t, store.Delete("sig-a"))
	_, ok, err = store.Get("sig-a")
	require.NoError(t, err)
	assert.False(t, ok)

	// Clear all.
	require.NoError(t, store.Clear())
	all, err = store.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "patterns.db"))
	require.NoError(t, err)
	defer store.Close()

	storeUnderTest(t, store)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("sig-a", types.DecisionMerge))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	decision, ok, err := reopened.Get("sig-a")
	require.NoError(t, err)
	require.True(t, ok, "patterns must survive a reopen")
	assert.Equal(t, types.DecisionMerge, decision)
}

func TestSQLiteStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "patterns.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Put("sig-a", types.DecisionMerge))
}

// One background writer, many readers.
func TestStoreConcurrentReaders(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "patterns.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("sig-a", types.DecisionMerge))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = store.Put("sig-b", types.DecisionSkip)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				decision, ok, err := store.Get("sig-a")
				if err != nil || !ok || decision != types.DecisionMerge {
					t.Errorf("concurrent Get = (%q, %v, %v)", decision, ok, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
