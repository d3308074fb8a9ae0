// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Request is the body of a restore request.
type Request struct {
	BackupData *Document `json:"backupData" validate:"required"`
	Options    Options   `json:"options"`
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// NewDecompressingReader returns a reader over the decompressed content of
// r. Gzip and zstd streams are recognised by their magic bytes; anything
// else is returned as is.
func NewDecompressingReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read backup header: %w", err)
	}
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return newGzipReader(br)
	case bytes.HasPrefix(head, zstdMagic):
		return newZstdReader(br)
	default:
		return io.NopCloser(br), nil
	}
}

// NewContentEncodingReader decodes an HTTP body according to its
// Content-Encoding header value.
func NewContentEncodingReader(r io.Reader, encoding string) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(r), nil
	case "gzip", "x-gzip":
		return newGzipReader(r)
	case "zstd":
		return newZstdReader(r)
	default:
		return nil, fmt.Errorf("%w: unsupported content encoding %q", ErrMalformedDocument, encoding)
	}
}

func newGzipReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid gzip stream: %w", ErrMalformedDocument, err)
	}
	return zr, nil
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid zstd stream: %w", ErrMalformedDocument, err)
	}
	return zr.IOReadCloser(), nil
}

// Decode reads a backup document, plain or compressed.
func Decode(r io.Reader) (*Document, error) {
	rc, err := NewDecompressingReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var doc Document
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return &doc, nil
}

// DecodeRequest reads a restore request body. The caller removes any
// Content-Encoding first.
func DecodeRequest(r io.Reader) (*Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return &req, nil
}

// DecodeFile reads a .json, .json.gz or .json.zst backup file.
func DecodeFile(path string) (*Document, error) {
	f, err := os.Open(path) //nolint:gosec // path is an operator-supplied backup file
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
