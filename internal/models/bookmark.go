package models

import (
	"time"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
)

type Bookmark struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description *string   `json:"description"`
	UserID      uint64    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewBookmark(b *db.Bookmark) *Bookmark {
	return &Bookmark{
		ID:          b.ID,
		Title:       b.Title,
		URL:         b.URL,
		Description: b.Description,
		UserID:      b.UserID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func NewBookmarks(bs []db.Bookmark) []Bookmark {
	resp := make([]Bookmark, len(bs))
	for i := range bs {
		resp[i] = *NewBookmark(&bs[i])
	}
	return resp
}
