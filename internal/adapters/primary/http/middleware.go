package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jupiterclapton/plume/internal/core/domain"
)

const (
	// SessionCookie porte le token JWT de session.
	SessionCookie = "plume_session"

	// LoginPath est la cible des redirections d'accès non authentifié.
	LoginPath = "/auth/login/"
)

// Clé privée pour le contexte (évite les collisions).
type contextKey struct{ name string }

var userCtxKey = &contextKey{"current_user"}

// CurrentUser renvoie l'utilisateur injecté par le middleware, ou nil pour un
// visiteur anonyme. C'est l'UNIQUE canal d'accès à l'identité courante : pas
// d'état global par requête.
func CurrentUser(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userCtxKey).(*domain.User)
	return u
}

// withUser résout le cookie de session en *domain.User. Un cookie absent ou
// invalide laisse passer la requête en anonyme : ce sont les routes protégées
// qui décident de rediriger.
func (s *Server) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.identity.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			// Token expiré ou user disparu : on nettoie et on continue en anonyme.
			clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser protège une route en écriture : un anonyme est redirigé vers le
// login avec la page demandée en continuation (?next=...), jamais une erreur.
func (s *Server) requireUser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next(w, r)
	})
}

func setSessionCookie(w http.ResponseWriter, token string, maxAgeSeconds int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext borne la continuation post-login aux chemins internes : un "next"
// absolu vers un autre hôte serait un open redirect.
func safeNext(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" || raw[0] != '/' {
		return "/"
	}
	return raw
}
