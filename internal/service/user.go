package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/models"
)

type (
	UserPatch struct {
		Email     *string
		FirstName *string
		LastName  *string
	}

	Users struct {
		store Store
	}
)

func NewUsers(store Store) *Users {
	return &Users{store: store}
}

func (s *Users) Me(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return models.NewUser(user), nil
}

func (s *Users) EditUser(ctx context.Context, userID uint64, patch UserPatch) (*models.User, error) {
	user, err := s.store.UpdateUser(ctx, userID, db.UserPatch{
		Email:     patch.Email,
		FirstName: patch.FirstName,
		LastName:  patch.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		case errors.Is(err, db.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "update user")
	}
	return models.NewUser(user), nil
}
