package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"sentinel", ErrForbidden, KindForbidden},
		{"wrapped sentinel", fmt.Errorf("can't update video. Err: %w", ErrVideoNotFound), KindNotFound},
		{"validation", Validation("page must be a positive number"), KindValidationFailed},
		{"not found", NotFound("videos not found: 1"), KindNotFound},
		{"unknown error", errors.New("connection reset"), KindUpstreamFailure},
		{"nil error", nil, KindUpstreamFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	t.Run("known error", func(t *testing.T) {
		err := fmt.Errorf("db error: %w", ErrSessionRevoked)
		require.Equal(t, "refresh token is expired or used", Message(err))
	})

	t.Run("unknown error hides details", func(t *testing.T) {
		require.Equal(t, "something went wrong", Message(errors.New("pq: password authentication failed")))
	})
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "TokenExpired", KindTokenExpired.String())
	require.Equal(t, "Unknown", Kind(100).String())
}
