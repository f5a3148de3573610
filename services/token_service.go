package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sigmat-api/models"
)

const adminSubject = "admin"

var ErrInvalidToken = errors.New("invalid token")

// TokenService mints and verifies HS256 tokens carrying a subject and an admin flag.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenService) Issue(identity models.Identity) (string, error) {
	subject := adminSubject
	if userID, ok := identity.UserID(); ok {
		subject = userID
	} else if !identity.IsPrivileged() {
		return "", fmt.Errorf("cannot issue a token for %s", identity)
	}

	claims := jwt.MapClaims{
		"user_id":  subject,
		"is_admin": identity.IsPrivileged(),
		"iat":      s.now().Unix(),
		"exp":      s.now().Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Parse(tokenString string) (models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, ErrInvalidToken
	}
	if isAdmin, _ := claims["is_admin"].(bool); isAdmin {
		return models.Privileged(), nil
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return models.Identity{}, ErrInvalidToken
	}
	return models.Human(userID), nil
}
