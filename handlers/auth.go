package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// requesterID extracts the acting user's id from the request. The API
// gateway has already verified the Bearer token, so the claims are read
// without re-verification; the Requester-ID header is the fallback for
// internal calls that carry no token.
func requesterID(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil {
			return "", fmt.Errorf("invalid token: %v", err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return "", fmt.Errorf("invalid token claims")
		}
		if id, ok := claims["user_id"].(string); ok && id != "" {
			return id, nil
		}
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return sub, nil
		}
		return "", fmt.Errorf("token carries no user id")
	}

	if id := r.Header.Get("Requester-ID"); id != "" {
		return id, nil
	}

	return "", fmt.Errorf("requester identity is missing")
}
