package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestRequesterIDFromBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tasks/all", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"user_id": "u-77"}))

	id, err := requesterID(r)
	require.NoError(t, err)
	assert.Equal(t, "u-77", id)
}

func TestRequesterIDFallsBackToSubClaim(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tasks/all", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"sub": "u-42"}))

	id, err := requesterID(r)
	require.NoError(t, err)
	assert.Equal(t, "u-42", id)
}

func TestRequesterIDFromHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tasks/all", nil)
	r.Header.Set("Requester-ID", "u-internal")

	id, err := requesterID(r)
	require.NoError(t, err)
	assert.Equal(t, "u-internal", id)
}

func TestRequesterIDMissing(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tasks/all", nil)

	_, err := requesterID(r)
	assert.Error(t, err)
}

func TestRequesterIDMalformedToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tasks/all", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")

	_, err := requesterID(r)
	assert.Error(t, err)
}
