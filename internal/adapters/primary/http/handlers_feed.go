package http

import (
	"errors"
	"net/http"

	"github.com/jupiterclapton/plume/internal/core/domain"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page, err := s.feeds.Home(r.Context(), parsePage(r))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(page))
}

func (s *Server) handleGroupFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.feeds.GroupFeed(r.Context(), r.PathValue("slug"), parsePage(r))
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			notFound(w)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"group": toGroupJSON(feed.Group),
		"page":  toPageJSON(feed.Page),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if viewer := CurrentUser(r.Context()); viewer != nil {
		viewerID = viewer.ID
	}

	feed, err := s.feeds.ProfileFeed(r.Context(), r.PathValue("username"), viewerID, parsePage(r))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			notFound(w)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"author":    toUserJSON(feed.Author),
		"following": feed.Following,
		"page":      toPageJSON(feed.Page),
	})
}

func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.posts.GetDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			notFound(w)
			return
		}
		internalError(w, err)
		return
	}

	comments := make([]commentJSON, 0, len(detail.Comments))
	for _, c := range detail.Comments {
		comments = append(comments, toCommentJSON(c))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"post":     toPostJSON(detail.Post),
		"comments": comments,
	})
}

func (s *Server) handleFollowingFeed(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	page, err := s.feeds.FollowingFeed(r.Context(), user.ID, parsePage(r))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageJSON(page))
}
