package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/plume/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---
// Des structs plutôt que des listes d'arguments : on peut ajouter des champs
// optionnels plus tard sans casser les signatures.

type RegisterCmd struct {
	Username string
	Email    string
	Password string
}

type LoginCmd struct {
	Username string
	Password string
}

type CreatePostCmd struct {
	AuthorID string
	Text     string
	GroupID  *string // nil = pas de groupe
	ImageURL string  // vide = pas d'image
}

type EditPostCmd struct {
	PostID   string
	UserID   string // celui qui tente l'édition, pas forcément l'auteur
	Text     string
	GroupID  *string
	ImageURL string
}

type AddCommentCmd struct {
	PostID   string
	AuthorID string
	Text     string
}

// --- OUTPUTS ---

type AuthResponse struct {
	User      *domain.User
	Token     string
	ExpiresIn time.Duration
}

type PostDetail struct {
	Post     *domain.Post
	Comments []*domain.Comment
}

// --- PORTS PRIMAIRES (Driving) ---

type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)

	// Authenticate résout un token de session en utilisateur (middleware HTTP).
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type PostService interface {
	CreatePost(ctx context.Context, cmd CreatePostCmd) (*domain.Post, error)
	EditPost(ctx context.Context, cmd EditPostCmd) (*domain.Post, error)
	GetDetail(ctx context.Context, postID string) (*PostDetail, error)
	AddComment(ctx context.Context, cmd AddCommentCmd) (*domain.Comment, error)

	// ListGroups alimente le choix de groupe des formulaires création/édition.
	ListGroups(ctx context.Context) ([]*domain.Group, error)
}

// FeedService compose les listings paginés. Le numéro de page est celui de la
// requête, avant clamp : le service le ramène toujours dans [1, TotalPages].
type FeedService interface {
	Home(ctx context.Context, page int) (*domain.PostPage, error)
	GroupFeed(ctx context.Context, slug string, page int) (*domain.GroupFeed, error)

	// viewerID est vide pour un visiteur anonyme.
	ProfileFeed(ctx context.Context, username, viewerID string, page int) (*domain.ProfileFeed, error)
	FollowingFeed(ctx context.Context, userID string, page int) (*domain.PostPage, error)
}

type GraphService interface {
	// Follow et Unfollow résolvent la cible par username et redirigent le flux
	// vers son profil ; les deux sont idempotents (arête existante, arête
	// absente et auto-follow sont des no-op silencieux).
	Follow(ctx context.Context, userID, targetUsername string) (*domain.User, error)
	Unfollow(ctx context.Context, userID, targetUsername string) (*domain.User, error)

	IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
}
