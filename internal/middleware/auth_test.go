package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"govportal/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_IssueAndParse(t *testing.T) {
	auth := NewAuth("test-secret", 60, logger.NewNoOpLogger())

	token, err := auth.IssueToken(7, "123456789V")
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "123456789V", claims.NIC)
}

func TestAuth_ParseRejectsWrongSecret(t *testing.T) {
	auth := NewAuth("secret-a", 60, logger.NewNoOpLogger())
	other := NewAuth("secret-b", 60, logger.NewNoOpLogger())

	token, err := auth.IssueToken(7, "123456789V")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestAuth_ParseRejectsExpired(t *testing.T) {
	auth := NewAuth("test-secret", -1, logger.NewNoOpLogger())

	token, err := auth.IssueToken(7, "123456789V")
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.Error(t, err)
}

func TestRequire_InjectsClaims(t *testing.T) {
	auth := NewAuth("test-secret", 60, logger.NewNoOpLogger())
	token, err := auth.IssueToken(7, "123456789V")
	require.NoError(t, err)

	var gotClaims *Claims
	handler := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, int64(7), gotClaims.UserID)
}

func TestRequire_RejectsMissingAndBadTokens(t *testing.T) {
	auth := NewAuth("test-secret", 60, logger.NewNoOpLogger())
	handler := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
