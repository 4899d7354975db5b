package http

import (
	"errors"
	"net/http"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Register(r.Context(), ports.RegisterCmd{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameAlreadyTaken):
			writeFieldErrors(w, domain.FieldErrors{"username": "username already taken"})
		case errors.Is(err, domain.ErrInvalidUsername):
			writeFieldErrors(w, domain.FieldErrors{"username": err.Error()})
		case errors.Is(err, domain.ErrInvalidEmail):
			writeFieldErrors(w, domain.FieldErrors{"email": err.Error()})
		default:
			internalError(w, err)
		}
		return
	}

	setSessionCookie(w, resp.Token, int(resp.ExpiresIn.Seconds()))
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLoginForm existe pour que la cible des redirections ?next= réponde
// 200 ; le rendu du formulaire appartient à l'UI.
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"next": safeNext(r.URL.Query().Get("next"))})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Login(r.Context(), ports.LoginCmd{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeFieldErrors(w, domain.FieldErrors{"__all__": "invalid username or password"})
			return
		}
		internalError(w, err)
		return
	}

	setSessionCookie(w, resp.Token, int(resp.ExpiresIn.Seconds()))

	// La continuation peut venir du formulaire ou de la query (?next=).
	next := r.PostFormValue("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
