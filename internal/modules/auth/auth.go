package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("admin access required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
)

// Principal is the resolved identity behind a bearer token. Admin is binary;
// there are no partial privilege levels.
type Principal struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

// Service issues session tokens for staff accounts.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Authorizer resolves a bearer token into a Principal. It never mutates
// anything; ErrUnauthenticated means the token did not resolve to an
// identity at all.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*Principal, error)
}

// Repository defines data access for staff accounts.
type Repository interface {
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
}

// Account is a staff login record. The two metadata maps mirror the shape
// the previous identity provider used: one caller-visible, one assigned by
// the application.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	UserMetadata map[string]interface{}
	AppMetadata  map[string]interface{}
}
