package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault_SessionCookieLifecycle(t *testing.T) {
	v := NewVault(keyring.NewArrayKeyring(nil))

	_, err := v.SessionCookie()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, v.SaveSessionCookie("abc"))
	got, err := v.SessionCookie()
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, v.SaveSessionCookie("def"))
	got, err = v.SessionCookie()
	require.NoError(t, err)
	assert.Equal(t, "def", got)

	require.NoError(t, v.ClearSessionCookie())
	_, err = v.SessionCookie()
	assert.ErrorIs(t, err, ErrNoSession)

	assert.NoError(t, v.ClearSessionCookie(), "clearing twice is fine")
}

func TestVault_RejectsEmptyCookie(t *testing.T) {
	v := NewVault(keyring.NewArrayKeyring(nil))

	assert.Error(t, v.SaveSessionCookie(""))
}
