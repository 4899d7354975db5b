package http

import (
	"errors"
	"net/http"

	"github.com/jupiterclapton/plume/internal/core/domain"
)

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	username := r.PathValue("username")

	target, err := s.graph.Follow(r.Context(), user.ID, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			notFound(w)
			return
		}
		internalError(w, err)
		return
	}

	// Arête créée, déjà présente ou auto-follow : même redirection dans tous
	// les cas.
	http.Redirect(w, r, "/profile/"+target.Username+"/", http.StatusFound)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	username := r.PathValue("username")

	target, err := s.graph.Unfollow(r.Context(), user.ID, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			notFound(w)
			return
		}
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/profile/"+target.Username+"/", http.StatusFound)
}
