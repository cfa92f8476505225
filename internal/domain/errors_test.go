package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		code   ErrorCode
		status int
	}{
		{ErrSessionNotFound, CodeNotFound, http.StatusNotFound},
		{ErrMatchTerminal, CodeInvalidState, http.StatusConflict},
		{ErrSessionFull, CodeInvalidState, http.StatusConflict},
		{ErrMemberAlreadyQueued, CodeConflict, http.StatusConflict},
		{ErrCourtBusy, CodeConflict, http.StatusConflict},
		{ErrNotEnoughPlayers, CodeInsufficientCandidates, http.StatusUnprocessableEntity},
		{ErrTiedScore, CodeInvalidInput, http.StatusBadRequest},
		{ErrInvalidToken, CodeUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("finish: %w", ErrTiedScore), CodeInvalidInput, http.StatusBadRequest},
		{errors.New("driver: bad connection"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, MapErrorToCode(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestSpecificErrorsUnwrapToKind(t *testing.T) {
	assert.ErrorIs(t, ErrStaleQueue, ErrConflict)
	assert.NotErrorIs(t, ErrStaleQueue, ErrInvalidState)
	assert.Equal(t, "match is already finished or cancelled", ErrMatchTerminal.Error())
}
