package domain

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Text      string
	CreatedAt time.Time

	Author *User // hydraté par le repository
}

func NewComment(postID, authorID, text string) *Comment {
	return &Comment{
		ID:        uuid.Must(uuid.NewV7()).String(),
		PostID:    postID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}
