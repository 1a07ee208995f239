package handler

import (
	"encoding/json"
	"net/http"

	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/validate"
)

// AuthHandler handles the OTP login flow endpoints.
type AuthHandler struct {
	svc otp.Service
}

func NewAuthHandler(svc otp.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// SendOTP handles POST /v1/auth/send-otp.
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if err := h.svc.IssueOTP(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent successfully"})
}

// VerifyOTP handles POST /v1/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and OTP are required")
		return
	}
	token, err := h.svc.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{Message: "Login successful", Token: token})
}
