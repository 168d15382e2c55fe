package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/flocknet/flock/database"
	"github.com/flocknet/flock/helpers"
	"github.com/flocknet/flock/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Every possible error list
const (
	ErrorEmailFormat         = "Email is not in correct format"
	ErrorPasswordTooShort    = "Password must be at least 6 characters long"
	ErrorMissingFields       = "All fields are mandatory"
	ErrorUserExists          = "User with this email or username already exists"
	ErrorInvalidCredentials  = "Invalid credentials"
	ErrorInvalidToken        = "Invalid token"
	ErrorInvalidBody         = "Invalid body"
	ErrorUnableReadBody      = "Unable to read body"
	ErrorInvalidUser         = "User not found"
	ErrorInvalidPost         = "Post not found"
	ErrorSelfFollow          = "You can't follow/unfollow yourself"
	ErrorNotPostAuthor       = "You are not authorized to delete this post"
	ErrorTextOrImageRequired = "Text or image is required"
	ErrorCommentRequired     = "Comment text is required"
	ErrorPasswordPair        = "Please provide both current password and new password"
	ErrorIncorrectPassword   = "Incorrect password"
	ErrorBioTooLong          = "Bio must not exceed 100 characters"
	ErrorMethodNotAllowed    = "Method not allowed"
	ErrorUploading           = "Error occurs when uploading content"
	ErrorInternalServerError = "Internal server error"
)

func Index(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "OK")
}

// writeError sends a structured error body with the given status
func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.RequestError{
		Error:   true,
		Message: message,
	})
}

// writeMessage sends a structured acknowledgement body
func writeMessage(w http.ResponseWriter, message string) {
	json.NewEncoder(w).Encode(model.RequestError{
		Error:   false,
		Message: message,
	})
}

// protect is the single gate every authenticated route passes through.
// It extracts the session cookie, verifies signature and expiry, resolves
// the subject against the users collection and hands the resolved record
// (password stripped) to the wrapped handler. Handlers never re-derive
// the identity themselves.
func protect(next func(http.ResponseWriter, *http.Request, model.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		helpers.IncrementRequests()
		defer func() {
			helpers.ObserveRequestDuration(time.Since(start).Seconds())
		}()

		w.Header().Set("Content-Type", "application/json")

		cookie, err := req.Cookie(helpers.SessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
			return
		}

		subject, err := helpers.CheckToken(cookie.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
			return
		}

		id, err := primitive.ObjectIDFromHex(subject)
		if err != nil {
			writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
			return
		}

		// a valid token whose subject vanished is stale
		user, err := database.GetUserByID(id)
		if err != nil {
			writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
			return
		}
		user.Password = ""

		next(w, req, user)
	}
}
