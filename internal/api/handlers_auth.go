// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package api

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/classroom/internal/auth"
	"github.com/tomtom215/classroom/internal/logging"
	"github.com/tomtom215/classroom/internal/metrics"
	"github.com/tomtom215/classroom/internal/models"
)

// maxLoginBodyBytes bounds the login request body.
const maxLoginBodyBytes = 4 << 10

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, "Invalid request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	if h.lockout != nil {
		if locked, remaining := h.lockout.CheckLocked(req.Username); locked {
			metrics.RecordLogin("locked")
			h.respondLocked(w, r, remaining.Seconds())
			return
		}
	}

	role, err := h.credentials.Verify(req.Username, req.Password)
	if err != nil {
		metrics.RecordLogin("failure")
		logging.Ctx(r.Context()).Warn().
			Str("username", sanitizeLogValue(req.Username)).
			Msg("Admin login failed")
		if h.lockout != nil {
			if locked, remaining := h.lockout.RecordFailedAttempt(req.Username); locked {
				h.respondLocked(w, r, remaining.Seconds())
				return
			}
		}
		respondError(w, r, http.StatusUnauthorized, codeUnauthorized, "Invalid username or password", nil)
		return
	}

	token, expires, err := h.jwtManager.GenerateToken(req.Username, role)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err)
		return
	}
	if h.lockout != nil {
		h.lockout.RecordSuccessfulLogin(req.Username)
	}
	metrics.RecordLogin("success")

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})

	logging.Ctx(r.Context()).Info().Str("username", sanitizeLogValue(req.Username)).Msg("Admin logged in")
	respondJSON(w, r, http.StatusOK, models.Success(models.LoginResponse{
		Token:     token,
		ExpiresAt: expires,
		Username:  req.Username,
		Role:      role,
	}, h.now()))
}

func (h *Handler) respondLocked(w http.ResponseWriter, r *http.Request, retryAfter float64) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter)))
	respondErrorDetails(w, r, http.StatusTooManyRequests, codeAccountLocked,
		auth.ErrAccountLocked.Error(),
		map[string]interface{}{"retry_after_secs": int(retryAfter)}, nil)
}
