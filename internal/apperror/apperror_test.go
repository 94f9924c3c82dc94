package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "Plain error", err: errors.New("x"), want: CodeInternal},
		{name: "Direct app error", err: NotFound("model config"), want: CodeNotFound},
		{name: "Wrapped app error", err: fmt.Errorf("ctx: %w", Conflict("taken")), want: CodeConflict},
		{name: "Wrap helper", err: Wrap(errors.New("db"), CodeInvalidInput, "bad"), want: CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestModelFailureMessage(t *testing.T) {
	cause := errors.New("boom")
	err := ModelFailure("echo-model", cause)

	assert.Equal(t, "model echo-model error: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, CodeModelFailure))
}

func TestBadCredentialsIsGeneric(t *testing.T) {
	assert.Equal(t, "incorrect username or password", BadCredentials().Error())
	assert.False(t, Is(nil, CodeBadCredentials))
}
