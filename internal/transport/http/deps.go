package http

import (
	"context"
	"time"

	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/domain"
	jwtinfra "github.com/otp-auth-api/internal/infrastructure/jwt"
	"github.com/otp-auth-api/internal/infrastructure/smtp"
)

// AttemptRepository is the minimal interface the router requires from the
// attempt store. *dynamo.AttemptRepo satisfies it.
type AttemptRepository = otp.AttemptStore

// UserRepository is the minimal interface the router requires from the user
// store. *dynamo.UserRepo satisfies it.
type UserRepository interface {
	Upsert(ctx context.Context, email string, lastLogin time.Time) error
	Get(ctx context.Context, email string) (*domain.User, error)
}

// Deps holds all infrastructure dependencies for the router. Everything is an
// injected collaborator instance — no process-wide singletons — so tests can
// swap in doubles.
type Deps struct {
	AttemptRepo AttemptRepository
	UserRepo    UserRepository
	Mailer      smtp.Mailer
	JWTProvider *jwtinfra.Provider
	OTPExpiry   time.Duration
}
