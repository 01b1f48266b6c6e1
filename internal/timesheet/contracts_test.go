package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractCacheFetchOnceThenCached(t *testing.T) {
	cache := NewContractCache()

	// First reference to a project needs a fetch.
	assert.True(t, cache.Need("p1"))

	cache.Add("p1", []Contract{{ID: "c1", Title: "Support 2024"}})

	// Re-selecting the same project must not refetch.
	assert.False(t, cache.Need("p1"))
	list, ok := cache.Cached("p1")
	assert.True(t, ok)
	assert.Len(t, list, 1)

	// Other projects are unaffected.
	assert.True(t, cache.Need("p2"))
}

func TestContractCacheFailureStoresEmptyListAndRetries(t *testing.T) {
	cache := NewContractCache()
	cache.Fail("p1")

	// The failure degrades to an empty cached list so the page renders.
	cached, ok := cache.Cached("p1")
	assert.True(t, ok)
	assert.Empty(t, cached)

	// A failed fetch is not pinned: the next reference retries.
	assert.True(t, cache.Need("p1"))

	cache.Add("p1", []Contract{{ID: "c1", Title: "Support 2024"}})
	assert.False(t, cache.Need("p1"))
}

func TestContractCacheTitle(t *testing.T) {
	cache := NewContractCache()
	cache.Add("p1", []Contract{{ID: "c1", Title: "Support 2024"}})

	assert.Equal(t, "Support 2024", cache.Title("p1", "c1"))
	// Unknown ids fall back to the id itself, never a refetch.
	assert.Equal(t, "c9", cache.Title("p1", "c9"))
	assert.Equal(t, "c1", cache.Title("p2", "c1"))
}

func TestContractCacheAddReplaces(t *testing.T) {
	cache := NewContractCache()
	cache.Add("p1", []Contract{{ID: "c1", Title: "Old"}})
	cache.Add("p1", []Contract{{ID: "c2", Title: "New"}})

	cached, _ := cache.Cached("p1")
	require.Len(t, cached, 1)
	assert.Equal(t, "c2", cached[0].ID)
}

func TestContractCacheAddNilStoresEmptyList(t *testing.T) {
	cache := NewContractCache()
	cache.Add("p1", nil)

	cached, ok := cache.Cached("p1")
	assert.True(t, ok)
	assert.NotNil(t, cached)
	assert.Empty(t, cached)
}
