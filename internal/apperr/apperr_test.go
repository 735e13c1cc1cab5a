package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"typed", NotFound("booking %s not found", "x"), KindNotFound},
		{"wrapped", fmt.Errorf("hire: %w", Conflict("already booked")), KindConflict},
		{"plain", errors.New("boom"), KindInternal},
		{"internal", Internal(errors.New("db down")), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	if got := Message(err); got != "internal server error" {
		t.Errorf("Message() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("Internal error should unwrap to its cause")
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Validation("Rating must be between %d and %d.", 1, 10))
	if got := Message(err); got != "Rating must be between 1 and 10." {
		t.Errorf("Message() = %q", got)
	}
	if !Is(err, KindValidation) {
		t.Error("Is(validation) = false")
	}
}
