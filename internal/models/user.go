package models

import (
	"time"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
)

// User is the outward view of a user. It has no password hash field.
type User struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUser(u *db.User) *User {
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Session struct {
	User   *User     `json:"user"`
	Tokens TokenPair `json:"tokens"`
}
