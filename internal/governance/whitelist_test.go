package governance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhitelistAddAndCheck(t *testing.T) {
	store := &WhitelistStore{DB: newTestDB(t)}

	ok, err := store.IsWhitelisted("octocat")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.AddUser("Octocat"))

	ok, err = store.IsWhitelisted("octocat")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.IsWhitelisted("OCTOCAT")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWhitelistAddTwiceIsNoOp(t *testing.T) {
	store := &WhitelistStore{DB: newTestDB(t)}

	require.NoError(t, store.AddUser("octocat"))
	require.NoError(t, store.AddUser("octocat"))

	ok, err := store.IsWhitelisted("octocat")
	require.NoError(t, err)
	assert.True(t, ok)
}
