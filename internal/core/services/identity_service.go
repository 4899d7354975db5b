package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

const sessionLifetime = 7 * 24 * time.Hour

// IdentityService implémente ports.IdentityService.
type IdentityService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenProvider
}

func NewIdentityService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenProvider) *IdentityService {
	return &IdentityService{users: users, hasher: hasher, tokens: tokens}
}

func (s *IdentityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	// Fail fast sur l'unicité du username. Vérification "soft" : la contrainte
	// UNIQUE de la DB reste la garantie ultime contre la race condition.
	if existing, err := s.users.GetByUsername(ctx, cmd.Username); err == nil && existing != nil {
		return nil, domain.ErrUsernameAlreadyTaken
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := domain.NewUser(cmd.Username, cmd.Email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		// User créé mais token échoué : l'inscription a eu lieu, le client
		// devra passer par le login.
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	return &ports.AuthResponse{User: user, Token: token, ExpiresIn: sessionLifetime}, nil
}

func (s *IdentityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, cmd.Username)
	if err != nil {
		// Ne pas révéler si c'est le username ou le mot de passe qui est faux.
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("login token gen failed: %w", err)
	}

	return &ports.AuthResponse{User: user, Token: token, ExpiresIn: sessionLifetime}, nil
}

func (s *IdentityService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Token valide mais user supprimé entre-temps.
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}
