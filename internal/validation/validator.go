// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// maxRecordIDLen bounds live course and user ids.
const maxRecordIDLen = 128

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one rejected field. Field is the JSON path relative
// to the validated value, e.g. "options.sourceCourseId".
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Errors lists every rejected field of one request. A nil Errors means the
// value passed.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Details is the error-envelope payload. Rejected values are never echoed.
func (e Errors) Details() map[string]interface{} {
	return map[string]interface{}{"fields": []FieldError(e)}
}

// GetValidator returns the shared validator. Field names in errors come from
// json tags so they match what clients sent.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)

		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("notblank", notBlank)
		_ = validate.RegisterValidation("recordid", recordID)
	})
	return validate
}

// Struct validates s, descending into nested structs. It returns nil when s
// is valid.
func Struct(s interface{}) Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "", Rule: "invalid", Message: err.Error()}}
	}

	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		path := fieldPath(fe)
		out[i] = FieldError{Field: path, Rule: fe.Tag(), Message: message(fe, path)}
	}
	return out
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// fieldPath drops the root type name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError, path string) string {
	param := fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "notblank":
		return path + " must not be blank"
	case "recordid":
		return fmt.Sprintf("%s must be an id of at most %d bytes without whitespace", path, maxRecordIDLen)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", path, param, unit)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", path, param, unit)
	case "gte":
		return fmt.Sprintf("%s must be %s or more", path, param)
	case "lte":
		return fmt.Sprintf("%s must be %s or less", path, param)
	default:
		return fmt.Sprintf("%s failed %s", path, fe.Tag())
	}
}

func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	return f.Kind() == reflect.String && strings.TrimSpace(f.String()) != ""
}

// recordID accepts the opaque ids used for course and user rows.
func recordID(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return false
	}
	id := f.String()
	if id == "" || len(id) > maxRecordIDLen {
		return false
	}
	return strings.IndexFunc(id, unicode.IsSpace) < 0
}
