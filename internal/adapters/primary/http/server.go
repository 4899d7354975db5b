// Package http est l'adapter primaire : il expose le coeur sur les chemins
// historiques de l'application (accueil, groupes, profils, posts, follow).
package http

import (
	"net/http"
	"strconv"

	"github.com/jupiterclapton/plume/internal/core/ports"
)

type Server struct {
	identity ports.IdentityService
	posts    ports.PostService
	feeds    ports.FeedService
	graph    ports.GraphService
}

func NewServer(identity ports.IdentityService, posts ports.PostService, feeds ports.FeedService, graph ports.GraphService) *Server {
	return &Server{identity: identity, posts: posts, feeds: feeds, graph: graph}
}

// Routes construit le routeur. Les chemins sont figés : l'UI historique les
// connaît. {$} verrouille chaque pattern sur le chemin exact, tout le reste
// est un 404.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Lectures, ouvertes aux anonymes.
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /group/{slug}/{$}", s.handleGroupFeed)
	mux.HandleFunc("GET /profile/{username}/{$}", s.handleProfile)
	mux.HandleFunc("GET /posts/{id}/{$}", s.handlePostDetail)

	// Écritures, authentification requise (redirection login?next= sinon).
	mux.Handle("GET /create/{$}", s.requireUser(s.handleCreateForm))
	mux.Handle("POST /create/{$}", s.requireUser(s.handleCreatePost))
	mux.Handle("GET /posts/{id}/edit/{$}", s.requireUser(s.handleEditForm))
	mux.Handle("POST /posts/{id}/edit/{$}", s.requireUser(s.handleEditPost))
	mux.Handle("POST /posts/{id}/comment/{$}", s.requireUser(s.handleAddComment))

	mux.Handle("GET /follow/{$}", s.requireUser(s.handleFollowingFeed))
	mux.Handle("GET /profile/{username}/follow/{$}", s.requireUser(s.handleFollow))
	mux.Handle("POST /profile/{username}/follow/{$}", s.requireUser(s.handleFollow))
	mux.Handle("GET /profile/{username}/unfollow/{$}", s.requireUser(s.handleUnfollow))
	mux.Handle("POST /profile/{username}/unfollow/{$}", s.requireUser(s.handleUnfollow))

	// Identité.
	mux.HandleFunc("POST /auth/signup/{$}", s.handleSignup)
	mux.HandleFunc("GET /auth/login/{$}", s.handleLoginForm)
	mux.HandleFunc("POST /auth/login/{$}", s.handleLogin)
	mux.HandleFunc("POST /auth/logout/{$}", s.handleLogout)

	return s.withUser(mux)
}

// parsePage lit ?page=N. Une valeur absente ou non numérique vaut 1 ; le
// FeedService ramène ensuite les valeurs hors bornes dans [1, TotalPages].
func parsePage(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}
