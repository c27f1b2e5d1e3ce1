package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/models"
)

type (
	CreateBookmark struct {
		Title       string
		URL         string
		Description *string
	}

	// BookmarkPatch carries only the fields to change.
	BookmarkPatch struct {
		Title       *string
		URL         *string
		Description *string
	}

	// Bookmarks scopes every operation to the calling user. A bookmark owned by
	// someone else is reported exactly like a missing one.
	Bookmarks struct {
		store Store
	}
)

func NewBookmarks(store Store) *Bookmarks {
	return &Bookmarks{store: store}
}

func (s *Bookmarks) ListOwned(ctx context.Context, userID uint64) ([]models.Bookmark, error) {
	bookmarks, err := s.store.ListBookmarksByOwner(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list bookmarks")
	}
	return models.NewBookmarks(bookmarks), nil
}

func (s *Bookmarks) FetchOwned(ctx context.Context, userID, bookmarkID uint64) (*models.Bookmark, error) {
	bookmark, err := s.store.FindBookmarkByIDAndOwner(ctx, bookmarkID, userID)
	if err != nil {
		return nil, notFound(err, "find bookmark")
	}
	return models.NewBookmark(bookmark), nil
}

func (s *Bookmarks) CreateOwned(ctx context.Context, userID uint64, req CreateBookmark) (*models.Bookmark, error) {
	bookmark := db.Bookmark{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		UserID:      userID,
	}
	if err := s.store.CreateBookmark(ctx, &bookmark); err != nil {
		return nil, errors.Wrap(err, "create bookmark")
	}
	return models.NewBookmark(&bookmark), nil
}

// UpdateOwned applies patch to the caller's bookmark. The store resolves id and owner
// before writing, in the same transaction.
func (s *Bookmarks) UpdateOwned(ctx context.Context, userID, bookmarkID uint64, patch BookmarkPatch) (*models.Bookmark, error) {
	bookmark, err := s.store.UpdateBookmark(ctx, bookmarkID, userID, db.BookmarkPatch{
		Title:       patch.Title,
		URL:         patch.URL,
		Description: patch.Description,
	})
	if err != nil {
		return nil, notFound(err, "update bookmark")
	}
	return models.NewBookmark(bookmark), nil
}

func (s *Bookmarks) DeleteOwned(ctx context.Context, userID, bookmarkID uint64) error {
	if err := s.store.DeleteBookmark(ctx, bookmarkID, userID); err != nil {
		return notFound(err, "delete bookmark")
	}
	return nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}
