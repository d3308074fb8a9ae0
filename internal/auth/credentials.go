// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Roles.
const (
	RoleAdmin = "admin"
)

// ErrInvalidCredentials is returned for any username or password mismatch.
var ErrInvalidCredentials = errors.New("invalid username or password")

// defaultBcryptCost is used when hashing the configured admin password.
const defaultBcryptCost = 12

// AdminCredentials verifies the single configured administrator account.
type AdminCredentials struct {
	username     string
	passwordHash []byte // bcrypt hash of password
}

// NewAdminCredentials hashes password once at startup so logins compare
// against a bcrypt hash instead of the plaintext.
func NewAdminCredentials(username, password string) (*AdminCredentials, error) {
	return NewAdminCredentialsWithCost(username, password, defaultBcryptCost)
}

// NewAdminCredentialsWithCost is NewAdminCredentials with an explicit bcrypt
// cost. Tests use bcrypt.MinCost.
func NewAdminCredentialsWithCost(username, password string, cost int) (*AdminCredentials, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &AdminCredentials{
		username:     username,
		passwordHash: hash,
	}, nil
}

// Verify checks username and password and returns the role to issue.
func (c *AdminCredentials) Verify(username, password string) (string, error) {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1

	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passwordMatch := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil

	if !usernameMatch || !passwordMatch {
		return "", ErrInvalidCredentials
	}
	return RoleAdmin, nil
}
