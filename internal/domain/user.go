package domain

import "time"

// User is the identity record keyed by email. It is created (or updated) only
// after a successful OTP verification — there is no separate registration.
type User struct {
	Email     string    `json:"email" dynamodbav:"email"`
	LastLogin time.Time `json:"last_login" dynamodbav:"last_login"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

// SendOTPRequest is the body of POST /v1/auth/send-otp.
type SendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

// VerifyOTPRequest is the body of POST /v1/auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}
