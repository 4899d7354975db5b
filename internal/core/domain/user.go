package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidUsername = errors.New("username must be at least 3 characters")
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser est le SEUL moyen de créer un user proprement (ID + validation).
func NewUser(username, email, passwordHash string) (*User, error) {
	if len(strings.TrimSpace(username)) < 3 {
		return nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	return &User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(), // Toujours UTC
	}, nil
}
