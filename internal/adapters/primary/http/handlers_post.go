package http

import (
	"errors"
	"net/http"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

// handleCreateForm sert le squelette du formulaire de création : les choix de
// groupe, c'est l'UI qui rend le reste.
func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	groups, err := s.posts.ListGroups(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	choices := make([]*groupJSON, 0, len(groups))
	for _, g := range groups {
		choices = append(choices, toGroupJSON(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": choices})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	post, err := s.posts.CreatePost(r.Context(), ports.CreatePostCmd{
		AuthorID: user.ID,
		Text:     r.PostFormValue("text"),
		GroupID:  formGroupID(r),
		ImageURL: r.PostFormValue("image"),
	})
	if err != nil {
		var fieldErrs domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeFieldErrors(w, fieldErrs)
			return
		}
		internalError(w, err)
		return
	}

	_ = post
	http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusFound)
}

// handleEditForm sert le formulaire pré-rempli. Un non-auteur est renvoyé vers
// le détail du post, exactement comme s'il avait soumis une édition.
func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	postID := r.PathValue("id")

	detail, err := s.posts.GetDetail(r.Context(), postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			notFound(w)
			return
		}
		internalError(w, err)
		return
	}

	if detail.Post.AuthorID != user.ID {
		http.Redirect(w, r, "/posts/"+postID+"/", http.StatusFound)
		return
	}

	groups, err := s.posts.ListGroups(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	choices := make([]*groupJSON, 0, len(groups))
	for _, g := range groups {
		choices = append(choices, toGroupJSON(g))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"post":    toPostJSON(detail.Post),
		"groups":  choices,
		"is_edit": true,
	})
}

func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	postID := r.PathValue("id")

	_, err := s.posts.EditPost(r.Context(), ports.EditPostCmd{
		PostID:   postID,
		UserID:   user.ID,
		Text:     r.PostFormValue("text"),
		GroupID:  formGroupID(r),
		ImageURL: r.PostFormValue("image"),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPostNotFound):
			notFound(w)
			return
		case errors.Is(err, domain.ErrNotPostAuthor):
			// Volontairement indiscernable d'une édition réussie : même
			// redirection, aucun champ modifié, aucune erreur exposée.
			break
		default:
			var fieldErrs domain.FieldErrors
			if errors.As(err, &fieldErrs) {
				writeFieldErrors(w, fieldErrs)
				return
			}
			internalError(w, err)
			return
		}
	}

	http.Redirect(w, r, "/posts/"+postID+"/", http.StatusFound)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	postID := r.PathValue("id")

	_, err := s.posts.AddComment(r.Context(), ports.AddCommentCmd{
		PostID:   postID,
		AuthorID: user.ID,
		Text:     r.PostFormValue("text"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			notFound(w)
			return
		}
		var fieldErrs domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeFieldErrors(w, fieldErrs)
			return
		}
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/posts/"+postID+"/", http.StatusFound)
}

// formGroupID lit le champ "group" (id de groupe, vide = hors groupe).
func formGroupID(r *http.Request) *string {
	raw := r.PostFormValue("group")
	if raw == "" {
		return nil
	}
	return &raw
}
