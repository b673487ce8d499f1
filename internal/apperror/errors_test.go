package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err      *AppError
		code     int
		typeName string
	}{
		{NewNotFound("x"), http.StatusNotFound, "not_found"},
		{NewBadRequest("x"), http.StatusBadRequest, "bad_request"},
		{NewConflict("x"), http.StatusConflict, "conflict"},
		{NewValidation("x"), http.StatusUnprocessableEntity, "validation_error"},
		{NewTooManyRequests("x"), http.StatusTooManyRequests, "rate_limited"},
		{NewInternal(errors.New("db")), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.code || tt.err.Type != tt.typeName {
			t.Errorf("got %d/%s, want %d/%s", tt.err.Code, tt.err.Type, tt.code, tt.typeName)
		}
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("redis: connection refused")
	err := NewInternal(cause)

	if SafeMessage(err) == cause.Error() {
		t.Error("internal cause leaked into the client message")
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause for logging")
	}
}

func TestSafeHelpers_FollowWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create event: %w", NewConflict("event already exists"))
	if got := SafeCode(wrapped); got != http.StatusConflict {
		t.Errorf("SafeCode = %d, want 409", got)
	}
	if got := SafeMessage(wrapped); got != "event already exists" {
		t.Errorf("SafeMessage = %q", got)
	}

	plain := errors.New("boom")
	if SafeCode(plain) != http.StatusInternalServerError || SafeMessage(plain) != "an unexpected error occurred" {
		t.Error("plain errors should map to a generic 500")
	}
}
