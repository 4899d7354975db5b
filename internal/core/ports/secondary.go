package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/plume/internal/core/domain"
)

// --- PERSISTANCE (Postgres) ---

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Delete cascade sur les posts et commentaires de l'utilisateur.
	Delete(ctx context.Context, id string) error
}

type GroupRepository interface {
	Save(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Group, error)

	// List renvoie tous les groupes, triés par titre (choix du formulaire).
	List(ctx context.Context) ([]*domain.Group, error)

	// Delete remet group_id à NULL sur les posts du groupe, sans les supprimer.
	Delete(ctx context.Context, id string) error
}

// PostFilter restreint un listing. Zéro valeur = feed global.
type PostFilter struct {
	GroupID string
	// AuthorIDs non-nil restreint aux posts de ces auteurs. Une liste vide
	// donne un résultat vide (cas "je ne suis personne").
	AuthorIDs []string
}

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)

	// List renvoie une tranche ordonnée (created_at DESC, id DESC), auteur et
	// groupe hydratés par jointure.
	List(ctx context.Context, f PostFilter, limit, offset int) ([]*domain.Post, error)
	Count(ctx context.Context, f PostFilter) (int, error)

	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Save(ctx context.Context, comment *domain.Comment) error

	// ListByPost renvoie les commentaires du plus ancien au plus récent,
	// auteur hydraté.
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
}

// --- GRAPHE SOCIAL (Neo4j) ---

type GraphRepository interface {
	// EnsureSchema crée les contraintes et index (idempotent).
	EnsureSchema(ctx context.Context) error

	// CreateRelation est idempotent : une arête déjà présente n'est ni
	// dupliquée ni une erreur (MERGE côté Neo4j, clé unique côté mémoire).
	CreateRelation(ctx context.Context, userID, authorID string) error
	DeleteRelation(ctx context.Context, userID, authorID string) error
	HasRelation(ctx context.Context, userID, authorID string) (bool, error)

	// ListFollowedIDs renvoie les auteurs suivis par userID (pour le feed).
	ListFollowedIDs(ctx context.Context, userID string) ([]string, error)
}

// --- CACHE (Redis) ---

// PageCache est le cache de pages posé devant le feed d'accueil uniquement.
// Son invalidation est pilotée par les events post.* ; ce n'est pas un
// mécanisme de correction, juste une borne de fraîcheur.
type PageCache interface {
	GetHomePage(ctx context.Context, page int) (*domain.PostPage, bool)
	SetHomePage(ctx context.Context, p *domain.PostPage, ttl time.Duration)
	InvalidateHome(ctx context.Context) error
}

// --- MESSAGERIE (NATS) ---

// EventPublisher notifie les consommateurs aval (invalidation de cache,
// futurs services de notification). Best effort : un échec est logué, jamais
// remonté à l'utilisateur.
type EventPublisher interface {
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostUpdated(ctx context.Context, post *domain.Post) error
	PublishCommentAdded(ctx context.Context, comment *domain.Comment) error
}

// --- SÉCURITÉ ---

// PasswordHasher abstrait l'algorithme de hachage (Argon2id en prod).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenProvider abstrait la génération des tokens de session.
type TokenProvider interface {
	Generate(user *domain.User) (string, error)
	Validate(token string) (userID string, err error)
}
