package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/flocknet/flock/model"
)

func TestValidateSignup(t *testing.T) {
	valid := model.SignupBody{
		FullName: "Jane Doe",
		Username: "jane",
		Email:    "jane@example.com",
		Password: "secret",
	}

	tests := []struct {
		name   string
		mutate func(*model.SignupBody)
		want   string
	}{
		{"valid", func(b *model.SignupBody) {}, ""},
		{"email without tld", func(b *model.SignupBody) { b.Email = "a@b" }, ErrorEmailFormat},
		{"email with tld", func(b *model.SignupBody) { b.Email = "a@b.com" }, ""},
		{"password length 5", func(b *model.SignupBody) { b.Password = "12345" }, ErrorPasswordTooShort},
		{"password length 6", func(b *model.SignupBody) { b.Password = "123456" }, ""},
		{"missing full name", func(b *model.SignupBody) { b.FullName = "" }, ErrorMissingFields},
		{"missing username", func(b *model.SignupBody) { b.Username = "" }, ErrorMissingFields},
		{"email checked before password", func(b *model.SignupBody) {
			b.Email = "broken"
			b.Password = "12345"
		}, ErrorEmailFormat},
		{"password checked before required fields", func(b *model.SignupBody) {
			b.Password = "12345"
			b.FullName = ""
		}, ErrorPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid
			tt.mutate(&body)
			if got := validateSignup(body); got != tt.want {
				t.Errorf("validateSignup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignupRejectsInvalidBodyBeforeStore(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"fullName":"Jane","username":"jane","email":"jane@example.com","password":"12345"}`))

	AuthHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body model.RequestError
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("cannot decode body: %v", err)
	}
	if !body.Error || body.Message != ErrorPasswordTooShort {
		t.Fatalf("body = %+v, want password error", body)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)

	AuthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("logout did not clear the session cookie: %+v", cookies)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	paths := []struct {
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{http.MethodGet, "/auth/me", AuthHandler},
		{http.MethodGet, "/posts/getPosts", PostHandler},
		{http.MethodGet, "/users/suggested", UserHandler},
		{http.MethodGet, "/notifications", NotificationHandler},
	}

	for _, tt := range paths {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, nil)

		tt.handler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestProtectedRoutesRejectGarbageToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts/getPosts", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "not-a-token"})

	PostHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var body model.RequestError
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("cannot decode body: %v", err)
	}
	if body.Message != ErrorInvalidToken {
		t.Fatalf("message = %q, want %q", body.Message, ErrorInvalidToken)
	}
}

func TestUnknownAuthRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/auth/signup", nil)

	AuthHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
