package user

import (
	"context"

	"github.com/otp-auth-api/internal/domain"
)

// UserStore is what the profile flow needs from the user persistence layer.
type UserStore interface {
	Get(ctx context.Context, email string) (*domain.User, error)
}

// Service exposes the authenticated user's own record.
type Service interface {
	Profile(ctx context.Context, identity string) (*domain.User, error)
}

type service struct {
	userRepo UserStore
}

func NewService(userRepo UserStore) Service {
	return &service{userRepo: userRepo}
}

func (s *service) Profile(ctx context.Context, identity string) (*domain.User, error) {
	return s.userRepo.Get(ctx, identity)
}
