package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/id"
)

// AttemptStore is what the OTP flows need from the attempt persistence layer.
type AttemptStore interface {
	Put(ctx context.Context, a *domain.VerificationAttempt) error
	GetLatestActive(ctx context.Context, identity, code string) (*domain.VerificationAttempt, error)
	// MarkConsumed must be single-winner: concurrent calls for the same
	// attempt yield domain.ErrConflict for all but one caller.
	MarkConsumed(ctx context.Context, attemptID string) error
}

// UserStore is what the OTP flows need from the user persistence layer.
type UserStore interface {
	Upsert(ctx context.Context, email string, lastLogin time.Time) error
}

// Mailer delivers the code out-of-band.
type Mailer interface {
	SendOTP(to, code string) error
}

// CredentialSigner produces the signed, time-bound access credential.
type CredentialSigner interface {
	Sign(identity string) (string, error)
}

// Service issues one-time passcodes and verifies them.
type Service interface {
	// IssueOTP generates a fresh 6-digit code for identity, persists it as an
	// active attempt and emails it. Repeated calls stack additional active
	// attempts (resend); nothing is deduplicated or overwritten.
	IssueOTP(ctx context.Context, identity string) error
	// VerifyOTP consumes the most recently issued active attempt matching
	// (identity, code) and returns a signed credential. Wrong code, wrong
	// identity and already-consumed code are all domain.ErrInvalidCode;
	// a matched-but-stale code is domain.ErrCodeExpired and burns the attempt.
	VerifyOTP(ctx context.Context, identity, code string) (string, error)
}

type ServiceDeps struct {
	AttemptRepo AttemptStore
	UserRepo    UserStore
	Mailer      Mailer
	Signer      CredentialSigner
	OTPExpiry   time.Duration
}

type service struct {
	attemptRepo AttemptStore
	userRepo    UserStore
	mailer      Mailer
	signer      CredentialSigner
	otpExpiry   time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		attemptRepo: deps.AttemptRepo,
		userRepo:    deps.UserRepo,
		mailer:      deps.Mailer,
		signer:      deps.Signer,
		otpExpiry:   deps.OTPExpiry,
	}
}

func (s *service) IssueOTP(ctx context.Context, identity string) error {
	if identity == "" {
		return fmt.Errorf("identity required: %w", domain.ErrBadRequest)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	a := &domain.VerificationAttempt{
		AttemptID: id.New(),
		Identity:  identity,
		Code:      code,
		Status:    domain.AttemptStatusActive,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(s.otpExpiry).UnixMilli(),
	}
	if err := s.attemptRepo.Put(ctx, a); err != nil {
		slog.Error("persist attempt failed", "identity", identity, "err", err)
		return fmt.Errorf("persist attempt: %w", domain.ErrStorage)
	}

	// Delivery is best-effort: the attempt is already persisted and stays
	// valid, the caller can trigger a resend with another issue call.
	if err := s.mailer.SendOTP(identity, code); err != nil {
		slog.Warn("OTP email delivery failed", "identity", identity, "err", err)
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, identity, code string) (string, error) {
	if identity == "" || code == "" {
		return "", fmt.Errorf("identity and code required: %w", domain.ErrBadRequest)
	}

	attempt, err := s.attemptRepo.GetLatestActive(ctx, identity, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("no matching active code: %w", domain.ErrInvalidCode)
		}
		slog.Error("attempt lookup failed", "identity", identity, "err", err)
		return "", fmt.Errorf("lookup attempt: %w", domain.ErrStorage)
	}

	now := time.Now().UTC()
	if now.UnixMilli() > attempt.ExpiresAt {
		// Expiry is detected lazily, here. Consume so the code can never be
		// checked again; the retry of the same inputs becomes ErrInvalidCode.
		if err := s.attemptRepo.MarkConsumed(ctx, attempt.AttemptID); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return "", fmt.Errorf("code already consumed: %w", domain.ErrInvalidCode)
			}
			slog.Error("consume of expired attempt failed", "attempt_id", attempt.AttemptID, "err", err)
			return "", fmt.Errorf("consume attempt: %w", domain.ErrStorage)
		}
		return "", fmt.Errorf("code past its validity window: %w", domain.ErrCodeExpired)
	}

	if err := s.attemptRepo.MarkConsumed(ctx, attempt.AttemptID); err != nil {
		// A concurrent verification won the consume race; to this caller the
		// code no longer exists.
		if errors.Is(err, domain.ErrConflict) {
			return "", fmt.Errorf("code already consumed: %w", domain.ErrInvalidCode)
		}
		slog.Error("consume attempt failed", "attempt_id", attempt.AttemptID, "err", err)
		return "", fmt.Errorf("consume attempt: %w", domain.ErrStorage)
	}

	// The OTP is burned from here on regardless of downstream outcome —
	// single use is a security property, not bookkeeping.
	if err := s.userRepo.Upsert(ctx, identity, now); err != nil {
		slog.Error("identity upsert failed after consume", "identity", identity, "err", err)
		return "", fmt.Errorf("upsert identity: %w", domain.ErrIdentityUpsert)
	}

	token, err := s.signer.Sign(identity)
	if err != nil {
		slog.Error("credential signing failed", "identity", identity, "err", err)
		return "", fmt.Errorf("sign credential: %w", domain.ErrCredentialIssuance)
	}
	return token, nil
}

// generateCode draws a 6-digit code uniformly from [100000, 999999]. The
// offset keeps the width fixed so there is no leading-zero ambiguity.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
