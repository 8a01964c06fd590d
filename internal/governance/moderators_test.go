package governance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeratorAddAndCheck(t *testing.T) {
	store := &ModeratorStore{DB: newTestDB(t)}

	ok, err := store.IsModerator("user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Add("user-1"))
	require.NoError(t, store.Add("user-1"))

	ok, err = store.IsModerator("user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.IsModerator("user-2")
	require.NoError(t, err)
	assert.False(t, ok)
}
