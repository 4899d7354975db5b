package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

// SessionClaims étend les claims standards JWT pour le cookie de session.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTProvider signe les tokens de session en HS256 : un seul processus signe
// et vérifie ses propres cookies, pas besoin de distribution de clé publique.
type JWTProvider struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewJWTProvider(secret []byte, expiry time.Duration) (*JWTProvider, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwt secret must be at least 32 bytes")
	}
	return &JWTProvider{
		secret: secret,
		expiry: expiry,
		issuer: "plume",
	}, nil
}

var _ ports.TokenProvider = (*JWTProvider)(nil)

func (j *JWTProvider) Generate(user *domain.User) (string, error) {
	claims := SessionClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    j.issuer,
			Subject:   user.ID,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// Validate vérifie la signature et renvoie l'UserID (Subject).
func (j *JWTProvider) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Vérifier l'algorithme : empêche de forcer "none" ou RS256.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return "", err // expiré ou signature invalide
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims.Subject, nil
	}
	return "", errors.New("invalid token claims")
}
