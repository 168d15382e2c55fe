package helpers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/cristalhq/jwt/v5"
)

func TestCreateAndCheckToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	token, err := CreateToken("64f0b2a59e7a4c1d2b3c4d5e")
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	subject, err := CheckToken(token)
	if err != nil {
		t.Fatalf("CheckToken() error = %v", err)
	}

	if subject != "64f0b2a59e7a4c1d2b3c4d5e" {
		t.Fatalf("CheckToken() subject = %q, want %q", subject, "64f0b2a59e7a4c1d2b3c4d5e")
	}
}

func TestCheckTokenRejectsTampered(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	token, err := CreateToken("64f0b2a59e7a4c1d2b3c4d5e")
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := CheckToken(tampered); err == nil {
		t.Fatal("CheckToken() accepted a tampered token")
	}
}

func TestCheckTokenRejectsWrongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	token, err := CreateToken("64f0b2a59e7a4c1d2b3c4d5e")
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	os.Setenv("JWT_SECRET", "another-secret")
	defer os.Setenv("JWT_SECRET", "test-secret")

	if _, err := CheckToken(token); err == nil {
		t.Fatal("CheckToken() accepted a token signed with another secret")
	}
}

func TestCheckTokenRejectsExpired(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	signer, err := jwt.NewSignerHS(jwt.HS256, []byte("test-secret"))
	if err != nil {
		t.Fatalf("NewSignerHS() error = %v", err)
	}

	token, err := jwt.NewBuilder(signer).Build(&jwt.RegisteredClaims{
		Subject:   "64f0b2a59e7a4c1d2b3c4d5e",
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := CheckToken(token.String()); err == nil {
		t.Fatal("CheckToken() accepted an expired token")
	}
}

func TestSetSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "some-token")

	res := rec.Result()
	cookies := res.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}

	cookie := cookies[0]
	if cookie.Name != SessionCookie {
		t.Errorf("cookie name = %q, want %q", cookie.Name, SessionCookie)
	}
	if cookie.Value != "some-token" {
		t.Errorf("cookie value = %q, want the token", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be HTTP-only")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Error("cookie must be SameSite strict")
	}
	if cookie.MaxAge != int((15 * 24 * time.Hour).Seconds()) {
		t.Errorf("cookie max-age = %d, not aligned with token expiry", cookie.MaxAge)
	}
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}

	cookie := cookies[0]
	if cookie.Value != "" {
		t.Errorf("cleared cookie value = %q, want empty", cookie.Value)
	}
	if cookie.MaxAge >= 0 {
		t.Errorf("cleared cookie max-age = %d, want negative", cookie.MaxAge)
	}
}
