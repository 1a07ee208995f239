package domain

// Attempt statuses. An attempt is created active and transitions to consumed
// exactly once — either by a successful verification or when expiry is
// detected at verification time. There is no way back.
const (
	AttemptStatusActive   = "active"
	AttemptStatusConsumed = "consumed"
)

// VerificationAttempt is one issued OTP with its own validity window and
// consumption state. PK: attempt_id (ULID). GSI: identity-expires_at-index.
// Timestamps are Unix milliseconds so that resends within the same second
// still order deterministically.
// Attempts are never deleted; consumed rows are kept for audit.
type VerificationAttempt struct {
	AttemptID string `json:"id" dynamodbav:"attempt_id"`
	Identity  string `json:"identity" dynamodbav:"identity"`
	Code      string `json:"-" dynamodbav:"code"`
	Status    string `json:"status" dynamodbav:"status"`
	IssuedAt  int64  `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}
