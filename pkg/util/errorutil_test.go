package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorCodes(t *testing.T) {
	tests := []struct {
		err        error
		wantCode   string
		wantStatus int
	}{
		{NewInvalidAuth(), CodeInvalidAuth, http.StatusUnauthorized},
		{NewInvalidToken(""), CodeInvalidToken, http.StatusUnauthorized},
		{NewDuplicatedToken(""), CodeDuplicatedToken, http.StatusUnauthorized},
		{NewBadRequest("x"), CodeBadRequest, http.StatusBadRequest},
		{NewForbidden("x"), CodeForbidden, http.StatusForbidden},
		{NewNoDataSaved(), CodeNoDataSaved, http.StatusInternalServerError},
		{NewGeneralFailure(nil), CodeGeneralFailure, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		domainErr := ToDomainError(tt.err)
		require.Equal(t, tt.wantCode, domainErr.Code)
		require.Equal(t, tt.wantStatus, domainErr.HTTPStatus)
		require.True(t, HasCode(tt.err, tt.wantCode))
	}
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	domainErr := ToDomainError(pgx.ErrNoRows)
	require.Equal(t, CodeNotFound, domainErr.Code)
	require.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("boom")
	domainErr := ToDomainError(cause)
	require.Equal(t, CodeInternalError, domainErr.Code)
	require.ErrorIs(t, domainErr, cause)
	require.Nil(t, ToDomainError(nil))
}
