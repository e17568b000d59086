package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.Put("cart_guest", record{Name: "apples", Count: 3}))

	var got record
	found, err := store.Get("cart_guest", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "apples", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestFileStore_GetAbsentKey(t *testing.T) {
	store := newTestStore(t)

	var v string
	found, err := store.Get("missing", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStore_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("token", "abc"))
	require.NoError(t, store.Delete("token"))

	var v string
	found, err := store.Get("token", &v)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is a no-op.
	require.NoError(t, store.Delete("token"))
}

func TestFileStore_Overwrite(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("coupon_guest", "FIRST"))
	require.NoError(t, store.Put("coupon_guest", "SECOND"))

	var v string
	found, err := store.Get("coupon_guest", &v)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "SECOND", v)
}

func TestFileStore_MalformedStateSurfacesError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart_guest.json"), []byte("{not json"), 0o600))

	var v map[string]any
	_, err = store.Get("cart_guest", &v)
	assert.Error(t, err)
}

func TestScopeKeys(t *testing.T) {
	assert.Equal(t, "cart_guest", CartKey(GuestScope))
	assert.Equal(t, "coupon_guest", CouponKey(GuestScope))
	assert.Equal(t, "cart_42", CartKey(UserScope(42)))
	assert.Equal(t, "coupon_42", CouponKey(UserScope(42)))
}
