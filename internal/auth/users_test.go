package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store, err := OpenUserStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Signup("alice", "alice@example.com", "hunter22"))
	assert.NoError(t, store.Verify("alice", "hunter22"))
	assert.ErrorIs(t, store.Verify("alice", "wrong-pass"), ErrInvalidCredentials)
	assert.ErrorIs(t, store.Verify("nobody", "hunter22"), ErrInvalidCredentials)
}

func TestSignupRejectsDuplicateAndWeak(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store, err := OpenUserStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Signup("alice", "alice@example.com", "hunter22"))
	assert.ErrorIs(t, store.Signup("alice", "other@example.com", "hunter22"), ErrUserExists)
	assert.ErrorIs(t, store.Signup("bob", "bob@example.com", "short"), ErrWeakPassword)
	assert.ErrorIs(t, store.Signup("", "x@example.com", "hunter22"), ErrInvalidCredentials)
}

func TestUserStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store, err := OpenUserStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Signup("alice", "alice@example.com", "hunter22"))

	reopened, err := OpenUserStore(path)
	require.NoError(t, err)
	assert.NoError(t, reopened.Verify("alice", "hunter22"))
}
