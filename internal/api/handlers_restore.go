// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/classroom/internal/auth"
	"github.com/tomtom215/classroom/internal/backup"
	"github.com/tomtom215/classroom/internal/models"
)

// Restore handles POST /api/v1/admin/restore.
//
// The body is {"backupData": {...}, "options": {...}}, optionally compressed
// with Content-Encoding gzip or zstd. The size limit applies both to the
// bytes on the wire and to the decompressed stream.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit := h.config.Restore.MaxBodyBytes

	body := http.MaxBytesReader(w, r.Body, limit)
	decoded, err := backup.NewContentEncodingReader(body, r.Header.Get("Content-Encoding"))
	if err != nil {
		h.respondDecodeError(w, r, err)
		return
	}
	defer func() { _ = decoded.Close() }()

	// Read fully first so a size violation surfaces as *http.MaxBytesError
	// rather than as a JSON syntax error.
	raw, err := io.ReadAll(http.MaxBytesReader(w, decoded, limit))
	if err != nil {
		h.respondDecodeError(w, r, err)
		return
	}

	req, err := backup.DecodeRequest(bytes.NewReader(raw))
	if err != nil {
		h.respondDecodeError(w, r, err)
		return
	}

	if apiErr := validateRequest(req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx := r.Context()
	if h.config.Restore.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Restore.Timeout)
		defer cancel()
	}
	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		ctx = backup.ContextWithActor(ctx, claims.Username)
	}

	result, err := h.restorer.Restore(ctx, req.BackupData, req.Options)
	if err != nil {
		h.respondRestoreError(w, r, err)
		return
	}

	resp := models.Success(result, h.now())
	resp.Metadata.QueryTimeMS = time.Since(start).Milliseconds()
	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondErrorDetails(w, r, http.StatusRequestEntityTooLarge, codeTooLarge,
			"Request body exceeds the restore size limit",
			map[string]interface{}{"limit_bytes": tooLarge.Limit}, nil)
		return
	}
	respondError(w, r, http.StatusBadRequest, codeInvalidBackup, err.Error(), nil)
}

// respondRestoreError maps engine errors to status codes. Rejections never
// touched the store; step errors rolled back.
func (h *Handler) respondRestoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, backup.ErrUnknownTargetCourse):
		respondError(w, r, http.StatusBadRequest, codeCourseNotFound, err.Error(), nil)
	case backup.IsRejection(err):
		respondError(w, r, http.StatusBadRequest, codeInvalidBackup, err.Error(), nil)
	default:
		var details map[string]interface{}
		var stepErr *backup.StepError
		if errors.As(err, &stepErr) {
			details = map[string]interface{}{"entity": string(stepErr.Entity)}
		}
		respondErrorDetails(w, r, http.StatusInternalServerError, codeRestoreFailed, err.Error(), details, err)
	}
}
