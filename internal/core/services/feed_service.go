package services

import (
	"context"
	"time"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

// HomeCacheTTL borne la fraîcheur du feed d'accueil servi depuis le cache.
const HomeCacheTTL = 20 * time.Second

// FeedService compose les listings paginés (accueil, groupe, profil, suivis).
type FeedService struct {
	posts  ports.PostRepository
	groups ports.GroupRepository
	users  ports.UserRepository
	graph  ports.GraphRepository
	cache  ports.PageCache // nil = pas de cache (tests, mode dégradé)
}

func NewFeedService(posts ports.PostRepository, groups ports.GroupRepository, users ports.UserRepository, graph ports.GraphRepository, cache ports.PageCache) *FeedService {
	return &FeedService{posts: posts, groups: groups, users: users, graph: graph, cache: cache}
}

func (s *FeedService) Home(ctx context.Context, page int) (*domain.PostPage, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetHomePage(ctx, page); ok {
			return cached, nil
		}
	}

	result, err := s.compose(ctx, ports.PostFilter{}, page)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetHomePage(ctx, result, HomeCacheTTL)
	}
	return result, nil
}

func (s *FeedService) GroupFeed(ctx context.Context, slug string, page int) (*domain.GroupFeed, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	p, err := s.compose(ctx, ports.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &domain.GroupFeed{Group: group, Page: p}, nil
}

func (s *FeedService) ProfileFeed(ctx context.Context, username, viewerID string, page int) (*domain.ProfileFeed, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// L'état de suivi est celui du VISITEUR vis-à-vis de l'auteur, pas
	// "l'auteur a-t-il des abonnés". Anonyme => false, sans toucher au graphe.
	following := false
	if viewerID != "" && viewerID != author.ID {
		following, err = s.graph.HasRelation(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}

	p, err := s.compose(ctx, ports.PostFilter{AuthorIDs: []string{author.ID}}, page)
	if err != nil {
		return nil, err
	}
	return &domain.ProfileFeed{Author: author, Following: following, Page: p}, nil
}

func (s *FeedService) FollowingFeed(ctx context.Context, userID string, page int) (*domain.PostPage, error) {
	authorIDs, err := s.graph.ListFollowedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Personne de suivi : page vide, pas une erreur. On évite l'aller-retour
	// DB avec un filtre qui ne matcherait rien.
	if len(authorIDs) == 0 {
		return emptyPage(), nil
	}

	return s.compose(ctx, ports.PostFilter{AuthorIDs: authorIDs}, page)
}

// compose applique la pagination offset standard avec clamp : une page hors
// bornes est ramenée à la plus proche page valide au lieu d'être une erreur.
func (s *FeedService) compose(ctx context.Context, f ports.PostFilter, page int) (*domain.PostPage, error) {
	total, err := s.posts.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	totalPages := (total + domain.PostsPerPage - 1) / domain.PostsPerPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	posts, err := s.posts.List(ctx, f, domain.PostsPerPage, (page-1)*domain.PostsPerPage)
	if err != nil {
		return nil, err
	}

	return &domain.PostPage{
		Number:     page,
		TotalPages: totalPages,
		PageSize:   domain.PostsPerPage,
		TotalCount: total,
		Posts:      posts,
	}, nil
}

func emptyPage() *domain.PostPage {
	return &domain.PostPage{
		Number:     1,
		TotalPages: 1,
		PageSize:   domain.PostsPerPage,
		Posts:      []*domain.Post{},
	}
}
