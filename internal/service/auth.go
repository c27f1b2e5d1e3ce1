package service

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/auth"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/models"
)

type Auth struct {
	store  Store
	hasher Hasher
	tokens TokenIssuer
	logger *zap.SugaredLogger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuth(store Store, hasher Hasher, tokens TokenIssuer, l *zap.SugaredLogger) *Auth {
	return &Auth{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: l.Named("auth"),
	}
}

func (s *Auth) Signup(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := db.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, "create user")
	}

	s.logger.Infow("user signed up", "user_id", user.ID)
	return models.NewUser(&user), nil
}

// Signin answers ErrInvalidCredentials for both an unknown email and a wrong password.
func (s *Auth) Signin(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, errors.Wrap(err, "find user")
		}
		// equalize timing with the wrong-password path
		_, _ = s.hasher.Verify(s.dummy(), password)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, errors.Wrap(err, "verify password")
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.Session{
		User:   models.NewUser(user),
		Tokens: *tokens,
	}, nil
}

func (s *Auth) IssueToken(userID uint64, kind auth.TokenKind) (string, error) {
	tok, err := s.tokens.Issue(userID, kind)
	if err != nil {
		return "", errors.Wrapf(err, "issue %s token", kind)
	}
	return tok, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Auth) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	user, err := s.resolve(ctx, refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, err
	}
	return s.issuePair(user.ID)
}

// Authenticate resolves the user behind a bearer access token.
func (s *Auth) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	user, err := s.resolve(ctx, accessToken, auth.AccessToken)
	if err != nil {
		return nil, err
	}
	return models.NewUser(user), nil
}

func (s *Auth) UpdatePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) (*models.User, error) {
	if oldPassword == "" {
		return nil, ErrMissingOldPassword
	}

	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}

	ok, err := s.hasher.Verify(user.PasswordHash, oldPassword)
	if err != nil {
		return nil, errors.Wrap(err, "verify password")
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	updated, err := s.store.UpdateUser(ctx, userID, db.UserPatch{PasswordHash: &hash})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "update password")
	}

	s.logger.Infow("password changed", "user_id", userID)
	return models.NewUser(updated), nil
}

func (s *Auth) resolve(ctx context.Context, token string, kind auth.TokenKind) (*db.User, error) {
	userID, err := s.tokens.Verify(token, kind)
	if err != nil {
		s.logger.Debugw("token rejected", "kind", kind.String(), "error", err)
		return nil, ErrUnauthorized
	}

	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, errors.Wrap(err, "find user")
	}
	return user, nil
}

func (s *Auth) issuePair(userID uint64) (*models.TokenPair, error) {
	access, err := s.IssueToken(userID, auth.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueToken(userID, auth.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *Auth) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("dummy-password")
		if err != nil {
			s.logger.Warnw("build dummy hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
