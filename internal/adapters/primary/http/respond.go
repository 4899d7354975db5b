package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jupiterclapton/plume/internal/core/domain"
)

// Le rendu HTML est un collaborateur externe : cette couche sert du JSON avec
// les mêmes chemins, les mêmes redirections et les mêmes statuts que l'UI
// historique attend.

type userJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type groupJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type postJSON struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	ImageURL  string     `json:"image_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Author    userJSON   `json:"author"`
	Group     *groupJSON `json:"group"`
}

type commentJSON struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    userJSON  `json:"author"`
}

type pageJSON struct {
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	PageSize   int        `json:"page_size"`
	TotalCount int        `json:"total_count"`
	Posts      []postJSON `json:"posts"`
}

func toUserJSON(u *domain.User) userJSON {
	return userJSON{ID: u.ID, Username: u.Username}
}

func toGroupJSON(g *domain.Group) *groupJSON {
	if g == nil {
		return nil
	}
	return &groupJSON{ID: g.ID, Title: g.Title, Slug: g.Slug, Description: g.Description}
}

func toPostJSON(p *domain.Post) postJSON {
	out := postJSON{
		ID:        p.ID,
		Text:      p.Text,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		Group:     toGroupJSON(p.Group),
	}
	if p.Author != nil {
		out.Author = toUserJSON(p.Author)
	} else {
		out.Author = userJSON{ID: p.AuthorID}
	}
	return out
}

func toCommentJSON(c *domain.Comment) commentJSON {
	out := commentJSON{ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt}
	if c.Author != nil {
		out.Author = toUserJSON(c.Author)
	} else {
		out.Author = userJSON{ID: c.AuthorID}
	}
	return out
}

func toPageJSON(p *domain.PostPage) pageJSON {
	posts := make([]postJSON, 0, len(p.Posts))
	for _, post := range p.Posts {
		posts = append(posts, toPostJSON(post))
	}
	return pageJSON{
		Page:       p.Number,
		TotalPages: p.TotalPages,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
		Posts:      posts,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeFieldErrors ré-expose le formulaire avec ses erreurs de champ : 200,
// rien n'a été persisté. (Comportement historique : une saisie invalide
// re-rend le formulaire, elle ne produit pas d'erreur HTTP.)
func writeFieldErrors(w http.ResponseWriter, errs domain.FieldErrors) {
	writeJSON(w, http.StatusOK, map[string]any{"errors": errs})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
}

func internalError(w http.ResponseWriter, err error) {
	slog.Error("Request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
}
