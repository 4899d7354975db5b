package services

import (
	"context"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

type GraphService struct {
	users ports.UserRepository
	graph ports.GraphRepository
}

func NewGraphService(users ports.UserRepository, graph ports.GraphRepository) *GraphService {
	return &GraphService{users: users, graph: graph}
}

func (s *GraphService) Follow(ctx context.Context, userID, targetUsername string) (*domain.User, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	// Auto-follow : no-op silencieux, on redirige quand même vers le profil.
	if target.ID == userID {
		return target, nil
	}

	// CreateRelation est idempotent côté store : pas de doublon, pas d'erreur
	// si l'arête existe déjà (deux clics simultanés compris).
	if err := s.graph.CreateRelation(ctx, userID, target.ID); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *GraphService) Unfollow(ctx context.Context, userID, targetUsername string) (*domain.User, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	// Arête absente : pas une erreur.
	if err := s.graph.DeleteRelation(ctx, userID, target.ID); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *GraphService) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	return s.graph.HasRelation(ctx, userID, authorID)
}
