package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorMapping(t *testing.T) {
	t.Parallel()

	if got := ToDomainError(nil); got != nil {
		t.Errorf("nil error: got %v", got)
	}

	de := ToDomainError(pgx.ErrNoRows)
	if de.Code != CodeNotFound || de.HTTPStatus != http.StatusNotFound {
		t.Errorf("pgx.ErrNoRows: got code %q status %d", de.Code, de.HTTPStatus)
	}

	wrapped := fmt.Errorf("loading ticket: %w", pgx.ErrNoRows)
	if de := ToDomainError(wrapped); de.Code != CodeNotFound {
		t.Errorf("wrapped ErrNoRows: got code %q", de.Code)
	}

	de = ToDomainError(errors.New("connection refused"))
	if de.Code != CodeStoreError || de.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("unknown error: got code %q status %d", de.Code, de.HTTPStatus)
	}

	original := NewValidationError("bad input", map[string]any{"field": "subject"})
	if de := ToDomainError(original); de.Code != CodeValidationFailed {
		t.Errorf("existing DomainError rewrapped: got code %q", de.Code)
	}
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	err := NewNotFound("ticket", map[string]any{"ticket_id": "t1"})
	if !IsCode(err, CodeNotFound) {
		t.Error("IsCode missed NOT_FOUND")
	}
	if IsCode(err, CodeValidationFailed) {
		t.Error("IsCode matched wrong code")
	}
	if IsCode(errors.New("plain"), CodeNotFound) {
		t.Error("IsCode matched non-domain error")
	}
	if IsCode(nil, CodeNotFound) {
		t.Error("IsCode matched nil")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsCode(wrapped, CodeNotFound) {
		t.Error("IsCode missed wrapped DomainError")
	}
}
