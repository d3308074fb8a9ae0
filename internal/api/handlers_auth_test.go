// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/classroom/internal/auth"
	"github.com/tomtom215/classroom/internal/models"
)

func postLogin(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := postLogin(env.handler, `{"username":"admin","password":"`+testPassword+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	_, data := decodeResponse(t, rec)
	var login models.LoginResponse
	if err := json.Unmarshal(data, &login); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	claims, err := env.jwt.ValidateToken(login.Token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.Username != testAdmin || claims.Role != auth.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.TokenCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != login.Token || !cookie.HttpOnly {
		t.Errorf("token cookie = %+v", cookie)
	}
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"blank username", `{"username":"  ","password":"x"}`, http.StatusBadRequest},
		{"missing password", `{"username":"admin"}`, http.StatusBadRequest},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"root","password":"` + testPassword + `"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := postLogin(env.handler, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestLogin_Lockout(t *testing.T) {
	env := newTestEnv(t)
	bad := `{"username":"admin","password":"wrong-password"}`

	for i := 0; i < 2; i++ {
		if rec := postLogin(env.handler, bad); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, rec.Code)
		}
	}
	rec := postLogin(env.handler, bad)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third failure: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After not set")
	}

	// Correct credentials are refused while locked.
	rec = postLogin(env.handler, `{"username":"admin","password":"`+testPassword+`"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("locked login: status = %d, want 429", rec.Code)
	}
	resp, _ := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != codeAccountLocked {
		t.Errorf("error = %+v", resp.Error)
	}
}
