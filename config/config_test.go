package config

import (
	"path/filepath"
	"testing"

	"github.com/pevans/scribble"
	"github.com/pevans/scribble/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test config store
func createTestConfigStore(t *testing.T) *ConfigStore {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")
	store, err := NewConfigStore(dbPath)
	require.NoError(t, err, "should create config store")
	t.Cleanup(func() { store.Close() })
	return store
}

// TestGetOverrides_Empty verifies nothing is overridden by default
func TestGetOverrides_Empty(t *testing.T) {
	store := createTestConfigStore(t)

	o, err := store.GetOverrides()
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Empty(t, o.UserAgent)
	assert.Empty(t, o.Referrer)
	assert.Empty(t, o.CacheEnabled)
}

// TestUpdateOverrides_Success verifies values round trip
func TestUpdateOverrides_Success(t *testing.T) {
	store := createTestConfigStore(t)

	err := store.UpdateOverrides(&Overrides{
		UserAgent:    "reader/2.0",
		CacheEnabled: map[string]bool{"Search": false, "detail": true},
	})
	require.NoError(t, err)

	o, err := store.GetOverrides()
	require.NoError(t, err)
	assert.Equal(t, "reader/2.0", o.UserAgent)
	assert.Empty(t, o.Referrer)
	assert.Equal(t, map[string]bool{"search": false, "detail": true}, o.CacheEnabled)
}

// TestUpdateOverrides_Merges verifies unset fields keep their stored value
func TestUpdateOverrides_Merges(t *testing.T) {
	store := createTestConfigStore(t)

	require.NoError(t, store.UpdateOverrides(&Overrides{UserAgent: "first/1.0", Referrer: "https://a.example/"}))
	require.NoError(t, store.UpdateOverrides(&Overrides{UserAgent: "second/1.0"}))

	o, err := store.GetOverrides()
	require.NoError(t, err)
	assert.Equal(t, "second/1.0", o.UserAgent)
	assert.Equal(t, "https://a.example/", o.Referrer)
}

// TestUpdateOverrides_UnknownCategory verifies bad categories are rejected
// without partial writes
func TestUpdateOverrides_UnknownCategory(t *testing.T) {
	store := createTestConfigStore(t)

	err := store.UpdateOverrides(&Overrides{UserAgent: "x/1", CacheEnabled: map[string]bool{"forum": false}})
	assert.Error(t, err)

	o, err := store.GetOverrides()
	require.NoError(t, err)
	assert.Empty(t, o.UserAgent)
}

// TestOverrides_Apply verifies overrides reach a running client
func TestOverrides_Apply(t *testing.T) {
	client := scribble.NewClient(nil, nil, nil)

	(&Overrides{
		UserAgent:    "reader/9.0",
		Referrer:     "https://ref.example/",
		CacheEnabled: map[string]bool{"rankings": false},
	}).Apply(client)

	assert.Equal(t, "reader/9.0", client.UserAgent())
	assert.Equal(t, "https://ref.example/", client.Referrer())
	assert.False(t, client.Cache().Enabled(cache.Rankings))
	assert.True(t, client.Cache().Enabled(cache.Search))
}
