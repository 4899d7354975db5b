package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post est l'agrégat central : un texte publié par un auteur, optionnellement
// rattaché à un groupe et illustré par une image.
type Post struct {
	ID        string
	Text      string
	ImageURL  string // vide si pas d'image
	AuthorID  string
	GroupID   *string // nil si hors groupe (et remis à nil si le groupe est supprimé)
	CreatedAt time.Time

	// Hydratés par le repository via jointure (jamais de lazy-loading N+1).
	Author *User
	Group  *Group
}

// NewPost génère un ID UUIDv7 : l'ordre lexicographique des IDs suit l'ordre
// d'insertion, ce qui rend le tri "created_at DESC, id DESC" stable pour la
// pagination même quand deux posts partagent le même timestamp.
func NewPost(authorID, text, imageURL string, groupID *string) *Post {
	return &Post{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Text:      text,
		ImageURL:  imageURL,
		AuthorID:  authorID,
		GroupID:   groupID,
		CreatedAt: time.Now().UTC(),
	}
}

type Group struct {
	ID          string
	Title       string
	Slug        string
	Description string
}

func NewGroup(title, slug, description string) *Group {
	return &Group{
		ID:          uuid.NewString(),
		Title:       title,
		Slug:        slug,
		Description: description,
	}
}
