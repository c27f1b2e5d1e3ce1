package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/auth"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
)

var (
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingOldPassword = errors.New("old_password is required")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
)

var Module = fx.Provide(
	NewAuth,
	NewUsers,
	NewBookmarks,
)

type (
	Store interface {
		CreateUser(ctx context.Context, user *db.User) error
		FindUserByEmail(ctx context.Context, email string) (*db.User, error)
		FindUserByID(ctx context.Context, id uint64) (*db.User, error)
		UpdateUser(ctx context.Context, id uint64, patch db.UserPatch) (*db.User, error)

		CreateBookmark(ctx context.Context, bookmark *db.Bookmark) error
		FindBookmarkByIDAndOwner(ctx context.Context, id, ownerID uint64) (*db.Bookmark, error)
		ListBookmarksByOwner(ctx context.Context, ownerID uint64) ([]db.Bookmark, error)
		UpdateBookmark(ctx context.Context, id, ownerID uint64, patch db.BookmarkPatch) (*db.Bookmark, error)
		DeleteBookmark(ctx context.Context, id, ownerID uint64) error
	}

	Hasher interface {
		Hash(password string) (string, error)
		Verify(encoded, password string) (bool, error)
	}

	TokenIssuer interface {
		Issue(userID uint64, kind auth.TokenKind) (string, error)
		Verify(token string, kind auth.TokenKind) (uint64, error)
	}
)
