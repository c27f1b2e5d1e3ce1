package db

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

var Module = fx.Provide(
	NewGormClient,
	NewStore,
)

type (
	// UserPatch holds the user columns to change. Nil fields are left untouched.
	UserPatch struct {
		Email        *string
		FirstName    *string
		LastName     *string
		PasswordHash *string
	}

	// BookmarkPatch holds the bookmark columns to change. Nil fields are left untouched.
	BookmarkPatch struct {
		Title       *string
		URL         *string
		Description *string
	}

	Store struct {
		db *gorm.DB
	}
)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) CreateUser(ctx context.Context, user *User) error {
	res := s.db.WithContext(ctx).Create(user)
	if res.Error != nil {
		return translate(res.Error, "create user")
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	user := User{}
	res := s.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if res.Error != nil {
		return nil, translate(res.Error, "find user by email")
	}
	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id uint64) (*User, error) {
	user := User{}
	res := s.db.WithContext(ctx).First(&user, id)
	if res.Error != nil {
		return nil, translate(res.Error, "find user by id")
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uint64, patch UserPatch) (*User, error) {
	fields := map[string]interface{}{}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.FirstName != nil {
		fields["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		fields["last_name"] = *patch.LastName
	}
	if patch.PasswordHash != nil {
		fields["password_hash"] = *patch.PasswordHash
	}

	user := User{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) != 0 {
			res := tx.Model(&User{}).Where("id = ?", id).Updates(fields)
			if res.Error != nil {
				return translate(res.Error, "update user")
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		if res := tx.First(&user, id); res.Error != nil {
			return translate(res.Error, "get user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateBookmark(ctx context.Context, bookmark *Bookmark) error {
	res := s.db.WithContext(ctx).Create(bookmark)
	if res.Error != nil {
		return translate(res.Error, "create bookmark")
	}
	return nil
}

func (s *Store) FindBookmarkByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Bookmark, error) {
	return findOwned(s.db.WithContext(ctx), id, ownerID)
}

// ListBookmarksByOwner returns the owner's bookmarks ordered by id.
func (s *Store) ListBookmarksByOwner(ctx context.Context, ownerID uint64) ([]Bookmark, error) {
	sql, args, err := squirrel.
		Select("id", "created_at", "updated_at", "title", "url", "description", "user_id").
		From("bookmarks").
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	bookmarks := make([]Bookmark, 0)
	res := s.db.WithContext(ctx).Raw(sql, args...).Scan(&bookmarks)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan")
	}

	return bookmarks, nil
}

// UpdateBookmark resolves the bookmark by id and owner and applies the patch in one
// transaction. Nothing is written when the bookmark is not the owner's.
func (s *Store) UpdateBookmark(ctx context.Context, id, ownerID uint64, patch BookmarkPatch) (*Bookmark, error) {
	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.URL != nil {
		fields["url"] = *patch.URL
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}

	var bookmark *Bookmark
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findOwned(tx, id, ownerID)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			bookmark = found
			return nil
		}

		res := tx.Model(&Bookmark{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Updates(fields)
		if res.Error != nil {
			return errors.Wrap(res.Error, "update bookmark")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		bookmark, err = findOwned(tx, id, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bookmark, nil
}

// DeleteBookmark resolves the bookmark by id and owner and deletes it in one transaction.
func (s *Store) DeleteBookmark(ctx context.Context, id, ownerID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned(tx, id, ownerID); err != nil {
			return err
		}

		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&Bookmark{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete bookmark")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Reset wipes every bookmark and user. Test fixtures only.
func (s *Store) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Bookmark{}); res.Error != nil {
			return errors.Wrap(res.Error, "delete bookmarks")
		}
		if res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&User{}); res.Error != nil {
			return errors.Wrap(res.Error, "delete users")
		}
		return nil
	})
}

func findOwned(tx *gorm.DB, id, ownerID uint64) (*Bookmark, error) {
	bookmark := Bookmark{}
	res := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&bookmark)
	if res.Error != nil {
		return nil, translate(res.Error, "find bookmark")
	}
	return &bookmark, nil
}

func translate(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return errors.Wrap(err, msg)
}

// isUniqueViolation covers gorm's translated error, a raw pgconn error and sqlite's message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
