// Package apierr carries the error taxonomy shared by the API client,
// selectors, and workflow controllers: typed status errors for routed
// failures, field errors for validation and uniqueness conflicts.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

/**
 * @time: 2025/6/17
 * @file: apierr.go
 * @description: 客户端错误分类
 */

// Error is an HTTP-status-shaped failure. Resolution failures on leaf
// entities and fatal routed errors both use this form.
type Error struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Msg)
}

// NotFound constructs a 404-shaped error for an unresolvable identifier.
func NotFound(what, id string) *Error {
	return &Error{Status: http.StatusNotFound, Msg: fmt.Sprintf("%s %q not found", what, id)}
}

// Status constructs an error from a raw response status and message.
func Status(status int, msg string) *Error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Status: status, Msg: msg}
}

// FieldError 字段级校验错误（本地校验或服务端 409 冲突），
// 不升级为全局通知。
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Conflict constructs the field error used for 409 uniqueness conflicts.
func Conflict(field, msg string) *FieldError {
	return &FieldError{Field: field, Msg: msg}
}

// Invalid constructs the field error used by synchronous client-side
// validation. Same shape as a conflict: both stay scoped to the form.
func Invalid(field, msg string) *FieldError {
	return &FieldError{Field: field, Msg: msg}
}

// IsNotFound reports whether err is a 404-shaped Error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusNotFound
}

// IsConflict reports whether err is a field-scoped conflict.
func IsConflict(err error) bool {
	var e *FieldError
	return errors.As(err, &e)
}

// StatusOf returns the HTTP-like status carried by err, or 500 when err
// carries none.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
