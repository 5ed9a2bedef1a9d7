package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modestry/userkeeper/internal/common"
	"github.com/modestry/userkeeper/internal/config"
	"github.com/modestry/userkeeper/internal/logging"
	"github.com/modestry/userkeeper/internal/registry"
)

func newTestService(t *testing.T) (*Service, *registry.Registry) {
	t.Helper()
	reg := registry.New(nil, logging.NewDiscardLogger())
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
	return NewService(reg, cfg), reg
}

func TestAuthenticate_Success(t *testing.T) {
	svc, reg := newTestService(t)
	ctx := context.Background()

	user, err := reg.RegisterUser(ctx, "John Doe", "JOHN@EX.com", "pass1")
	require.NoError(t, err)

	session, err := svc.Authenticate(ctx, "john@ex.com", "pass1")
	require.NoError(t, err)
	assert.Equal(t, user.Info(), session.Info)

	login, err := GetLoginFromToken(session.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "john@ex.com", login)
}

func TestAuthenticate_NormalizesPhoneLogin(t *testing.T) {
	svc, reg := newTestService(t)
	ctx := context.Background()

	user, err := reg.RegisterUserByPhone(ctx, "Jane Roe", "+79001234567")
	require.NoError(t, err)

	session, err := svc.Authenticate(ctx, "+7 (900) 123-45-67", user.AccessCode())
	require.NoError(t, err)

	login, err := GetLoginFromToken(session.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "+79001234567", login)
}

func TestAuthenticate_Failure(t *testing.T) {
	svc, reg := newTestService(t)
	ctx := context.Background()

	_, err := reg.RegisterUser(ctx, "John Doe", "john@ex.com", "pass1")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "john@ex.com", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody@ex.com", "pass1")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}
