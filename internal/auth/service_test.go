package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/testutil"
)

func newService(t *testing.T, mutate func(*config.Config)) (*Service, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{
		Auth: config.Auth{LocalDB: config.LocalDBAuth{Enabled: true}},
		Protection: config.Protection{
			MaxFailedAttempts: 3,
		},
	}

	if mutate != nil {
		mutate(cfg)
	}

	s, err := NewService(t.Context(), cfg, db)
	require.NoError(t, err)

	return s, db
}

func TestServiceLogin(t *testing.T) {
	s, _ := newService(t, nil)

	_, _, err := s.Local().CreateUser(NewUser{Username: "ada", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, Providers{Local: true}, s.Providers())
	assert.Nil(t, s.OIDC())

	user, err := s.Login("10.0.0.1", Credentials{Username: " ada ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	_, err = s.Login("10.0.0.1", Credentials{Username: "ada"})
	require.ErrorIs(t, err, ErrEmptyCredentials)

	_, err = s.Login("10.0.0.1", Credentials{Username: "ghost", Password: "pw"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestServiceLockout(t *testing.T) {
	s, _ := newService(t, nil)

	_, _, err := s.Local().CreateUser(NewUser{Username: "ada", Password: "pw"})
	require.NoError(t, err)

	for range 3 {
		_, err = s.Login("10.0.0.1", Credentials{Username: "ada", Password: "nope"})
		require.ErrorIs(t, err, ErrInvalidPassword)
	}

	_, err = s.Login("10.0.0.1", Credentials{Username: "ada", Password: "pw"})
	require.ErrorIs(t, err, ErrLockedOut, "correct password is refused while locked")
}

func TestServiceRateLimit(t *testing.T) {
	s, _ := newService(t, func(c *config.Config) {
		c.Protection.IPRateLimit = 0.001
		c.Protection.IPBurst = 1
	})

	_, err := s.Login("10.0.0.9", Credentials{Username: "x", Password: "y"})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.Login("10.0.0.9", Credentials{Username: "x", Password: "y"})
	require.ErrorIs(t, err, ErrTooManyRequests)
}

func TestServiceNoProvider(t *testing.T) {
	s, _ := newService(t, func(c *config.Config) {
		c.Auth.LocalDB.Enabled = false
	})

	_, err := s.Login("10.0.0.1", Credentials{Username: "x", Password: "y"})
	require.ErrorIs(t, err, ErrNoProvider)
}

func TestIsInvalidCredentials(t *testing.T) {
	assert.True(t, IsInvalidCredentials(ErrInvalidPassword))
	assert.True(t, IsInvalidCredentials(ErrUserNotFound))
	assert.False(t, IsInvalidCredentials(ErrTOTPRequired))
	assert.False(t, IsInvalidCredentials(ErrTooManyRequests))
}
