// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

/*
Package auth authenticates the administrators allowed to run restores.

A single admin account is configured through ADMIN_USERNAME and
ADMIN_PASSWORD. The password is bcrypt-hashed at startup. A
successful login issues an HS256 JWT, returned in the body and as an
HttpOnly "token" cookie.

Middleware:

	authMW := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode)
	r.Group(func(r chi.Router) {
	    r.Use(authMW.Authenticate)
	    r.Use(auth.RequireRole(auth.RoleAdmin))
	    r.Post("/admin/restore", h.Restore)
	})

Handlers read the caller with ClaimsFromContext. The restore handler passes
the username to the engine as the actor recorded in restore history.
*/
package auth
