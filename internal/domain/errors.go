package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking
// infrastructure details.
var (
	// ErrBadRequest covers missing or malformed caller input; no state change.
	ErrBadRequest = errors.New("bad request")
	// ErrStorage covers persistence-layer failures; the caller should retry
	// the whole operation.
	ErrStorage = errors.New("storage failure")
	// ErrInvalidCode deliberately covers wrong code, wrong identity and
	// already-consumed code — the three are indistinguishable to the caller.
	ErrInvalidCode = errors.New("invalid code")
	// ErrCodeExpired means the code matched but its window has passed. The
	// attempt is consumed as a side effect, so a retry yields ErrInvalidCode.
	ErrCodeExpired = errors.New("code expired")
	// ErrIdentityUpsert and ErrCredentialIssuance are post-consumption
	// failures: the OTP is already burned and is not reissued.
	ErrIdentityUpsert     = errors.New("identity upsert failed")
	ErrCredentialIssuance = errors.New("credential issuance failed")

	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)
