package domain

import "errors"

// --- ERREURS DU DOMAINE ---
// Les adapters traduisent leurs erreurs techniques (pgx.ErrNoRows, codes
// Postgres...) vers ces sentinelles. Le HTTP adapter les mappe en statuts.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrUsernameAlreadyTaken = errors.New("username already taken")
	ErrSlugAlreadyTaken     = errors.New("group slug already taken")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInvalidToken         = errors.New("invalid token")

	// ErrNotPostAuthor n'est jamais montré à l'utilisateur : le handler HTTP
	// redirige vers le détail du post comme si l'édition avait réussi.
	ErrNotPostAuthor = errors.New("user is not the post author")
)
