package router

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/flocknet/flock/database"
	"github.com/flocknet/flock/helpers"
	"github.com/flocknet/flock/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// emailCheck accepts local@domain.tld shapes and nothing with spaces
var emailCheck = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthHandler re-routes to the requested handler
func AuthHandler(w http.ResponseWriter, req *http.Request) {
	route := strings.TrimPrefix(req.URL.Path, "/auth/")

	switch {
	case route == "signup" && req.Method == http.MethodPost:
		Signup(w, req)
	case route == "login" && req.Method == http.MethodPost:
		Login(w, req)
	case route == "logout" && req.Method == http.MethodPost:
		Logout(w, req)
	case route == "me" && req.Method == http.MethodGet:
		protect(Me)(w, req)
	default:
		w.Header().Set("Content-Type", "application/json")
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

// validateSignup checks the body in a fixed order:
// email shape, then password length, then required fields.
// It returns an empty string when the body is acceptable.
func validateSignup(body model.SignupBody) string {
	if !emailCheck.MatchString(body.Email) {
		return ErrorEmailFormat
	}

	if len(body.Password) < 6 {
		return ErrorPasswordTooShort
	}

	if body.FullName == "" || body.Username == "" || body.Email == "" || body.Password == "" {
		return ErrorMissingFields
	}

	return ""
}

// Signup creates an account and opens a session for it.
// The record is persisted before the cookie is issued, so a valid
// session cookie always implies the backing user exists.
func Signup(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	defer req.Body.Close()
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return
	}

	var body model.SignupBody
	if err = json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	body.Username = strings.ToLower(strings.TrimSpace(body.Username))
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	body.FullName = strings.TrimSpace(body.FullName)

	if message := validateSignup(body); message != "" {
		writeError(w, http.StatusBadRequest, message)
		return
	}

	taken, err := database.UsernameOrEmailTaken(body.Username, body.Email)
	if err != nil {
		log.Printf("(Signup) uniqueness check failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}
	if taken {
		writeError(w, http.StatusBadRequest, ErrorUserExists)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 10)
	if err != nil {
		log.Printf("(Signup) hashing failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	user, err := database.CreateUser(model.User{
		Username:   body.Username,
		FullName:   body.FullName,
		Email:      body.Email,
		Password:   string(hash),
		Followers:  []primitive.ObjectID{},
		Following:  []primitive.ObjectID{},
		LikedPosts: []primitive.ObjectID{},
	})
	if err != nil {
		log.Printf("(Signup) cannot save user: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	token, err := helpers.CreateToken(user.ID.Hex())
	if err != nil {
		log.Printf("(Signup) cannot sign token: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}
	helpers.SetSessionCookie(w, token)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login opens a session against an existing account. A missing account
// and a wrong password answer with the same body.
func Login(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	defer req.Body.Close()
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return
	}

	var body model.LoginBody
	if err = json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	body.Username = strings.ToLower(strings.TrimSpace(body.Username))
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	user, err := database.GetUserByUsernameOrEmail(body.Username, body.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidCredentials)
		return
	}

	token, err := helpers.CreateToken(user.ID.Hex())
	if err != nil {
		log.Printf("(Login) cannot sign token: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}
	helpers.SetSessionCookie(w, token)

	user.Password = ""
	json.NewEncoder(w).Encode(user)
}

// Logout clears the client's copy of the session token
func Logout(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	helpers.ClearSessionCookie(w)
	writeMessage(w, "Logged out successfully")
}

// Me returns the authenticated user's own profile
func Me(w http.ResponseWriter, _ *http.Request, user model.User) {
	json.NewEncoder(w).Encode(user)
}
