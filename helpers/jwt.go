package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/cristalhq/jwt/v5"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "jwt"

// sessionLifetime is the validity window of a session token
// and of the cookie carrying it.
const sessionLifetime = 15 * 24 * time.Hour

// CreateToken allows to create JWT tokens
func CreateToken(id string) (string, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, []byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()

	token, err := jwt.NewBuilder(signer).Build(&jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionLifetime)),
		Issuer:    "https://www.flock.social",
	})
	if err != nil {
		return "", err
	}

	return token.String(), nil
}

// CheckToken verifies signature and expiry, and returns the subject
func CheckToken(token string) (string, error) {
	verifier, err := jwt.NewVerifierHS(jwt.HS256, []byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	tokenBytes := []byte(token)
	newToken, err := jwt.Parse(tokenBytes, verifier)
	if err != nil {
		return "", err
	}

	err = verifier.Verify(newToken)
	if err != nil {
		return "", err
	}

	var newClaims jwt.RegisteredClaims
	err = json.Unmarshal(newToken.Claims(), &newClaims)
	if err != nil {
		return "", err
	}

	if !newClaims.IsValidAt(time.Now()) {
		return "", errors.New("invalid time")
	}

	return newClaims.Subject, nil
}

// SetSessionCookie transmits the token as an HTTP-only cookie,
// max-age aligned with token expiry.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie removes the client's copy of the session token.
// Sessions are stateless, so no server-side invalidation happens.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
