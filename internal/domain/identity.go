package domain

import (
	"context"
	"time"
)

// Identity is the account that owns a profile.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

type IdentityRepository interface {
	GetByID(ctx context.Context, id string) (*Identity, error)
	Delete(ctx context.Context, id string) error
}

// Transactor runs fn inside one store transaction. Repositories called with
// the ctx handed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
