package service_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/auth"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/service"
)

type failingStore struct {
	service.Store
	err error
}

func (s failingStore) CreateUser(context.Context, *db.User) error {
	return s.err
}

func (s failingStore) FindUserByEmail(context.Context, string) (*db.User, error) {
	return nil, s.err
}

func TestAuth_Signup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a, _ := newAuth(store)

	user, err := a.Signup(ctx, "alice@example.com", "abCD123!")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Nil(t, user.FirstName)
	assert.Nil(t, user.LastName)

	stored, err := store.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "abCD123!", stored.PasswordHash)
	assert.Contains(t, stored.PasswordHash, "$argon2id$")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := a.Signup(ctx, "alice@example.com", "different1")
		assert.ErrorIs(t, err, service.ErrDuplicateEmail)

		got, err := store.FindUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		boom := errors.New("connection reset")
		fa, _ := newAuth(failingStore{err: boom})

		_, err := fa.Signup(ctx, "bob@example.com", "abCD123!")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, service.ErrDuplicateEmail)
	})
}

func TestAuth_Signin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a, tokens := newAuth(store)

	user, err := a.Signup(ctx, "alice@example.com", "abCD123!")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		session, err := a.Signin(ctx, "alice@example.com", "abCD123!")
		require.NoError(t, err)

		assert.Equal(t, user.ID, session.User.ID)
		assert.NotEmpty(t, session.Tokens.Access)
		assert.NotEmpty(t, session.Tokens.Refresh)

		sub, err := tokens.Verify(session.Tokens.Access, auth.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, sub)

		sub, err = tokens.Verify(session.Tokens.Refresh, auth.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, sub)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		_, errUnknown := a.Signin(ctx, "nobody@example.com", "abCD123!")
		_, errWrong := a.Signin(ctx, "alice@example.com", "not-super-secret")

		assert.ErrorIs(t, errUnknown, service.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, service.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("store failure propagates", func(t *testing.T) {
		boom := errors.New("connection reset")
		fa, _ := newAuth(failingStore{err: boom})

		_, err := fa.Signin(ctx, "alice@example.com", "abCD123!")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuth_RefreshAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a, _ := newAuth(store)

	user, err := a.Signup(ctx, "alice@example.com", "abCD123!")
	require.NoError(t, err)
	session, err := a.Signin(ctx, "alice@example.com", "abCD123!")
	require.NoError(t, err)

	got, err := a.Authenticate(ctx, session.Tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = a.Authenticate(ctx, session.Tokens.Refresh)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = a.Authenticate(ctx, "invalid-token")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	pair, err := a.Refresh(ctx, session.Tokens.Refresh)
	require.NoError(t, err)
	got, err = a.Authenticate(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = a.Refresh(ctx, session.Tokens.Access)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	t.Run("deleted user", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx))

		_, err := a.Authenticate(ctx, session.Tokens.Access)
		assert.ErrorIs(t, err, service.ErrUnauthorized)

		_, err = a.Refresh(ctx, session.Tokens.Refresh)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestAuth_IssueToken(t *testing.T) {
	a, tokens := newAuth(newTestStore(t))

	tok, err := a.IssueToken(3, auth.RefreshToken)
	require.NoError(t, err)

	sub, err := tokens.Verify(tok, auth.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sub)

	_, err = a.IssueToken(3, auth.TokenKind(9))
	assert.ErrorIs(t, err, auth.ErrUnknownKind)
}

func TestAuth_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a, _ := newAuth(store)

	user, err := a.Signup(ctx, "alice@example.com", "abCD123!")
	require.NoError(t, err)

	t.Run("missing old password", func(t *testing.T) {
		_, err := a.UpdatePassword(ctx, user.ID, "", "newPass123")
		assert.ErrorIs(t, err, service.ErrMissingOldPassword)
	})

	t.Run("wrong old password", func(t *testing.T) {
		_, err := a.UpdatePassword(ctx, user.ID, "wrongPass1", "newPass123")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = a.Signin(ctx, "alice@example.com", "abCD123!")
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := a.UpdatePassword(ctx, user.ID+100, "abCD123!", "newPass123")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("success", func(t *testing.T) {
		got, err := a.UpdatePassword(ctx, user.ID, "abCD123!", "newPass123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = a.Signin(ctx, "alice@example.com", "abCD123!")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = a.Signin(ctx, "alice@example.com", "newPass123")
		assert.NoError(t, err)
	})
}
