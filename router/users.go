package router

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/flocknet/flock/database"
	"github.com/flocknet/flock/model"
	"github.com/flocknet/flock/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// profileCacheTTL bounds how stale a cached public profile can be
const profileCacheTTL = 60

// UserHandler re-routes to the requested handler
func UserHandler(w http.ResponseWriter, req *http.Request) {
	route := strings.TrimPrefix(req.URL.Path, "/users/")

	switch {
	case strings.HasPrefix(route, "follow/") && req.Method == http.MethodPost:
		protect(FollowUnfollow)(w, req)
	case route == "suggested" && req.Method == http.MethodGet:
		protect(Suggested)(w, req)
	case strings.HasPrefix(route, "profile/") && req.Method == http.MethodGet:
		protect(Profile)(w, req)
	case route == "update" && req.Method == http.MethodPost:
		protect(Update)(w, req)
	default:
		w.Header().Set("Content-Type", "application/json")
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

// FollowUnfollow toggles the directed follow edge between the caller
// and the target, keeping both relationship lists in step. A follow
// notification is emitted on the follow transition only.
func FollowUnfollow(w http.ResponseWriter, req *http.Request, user model.User) {
	id := strings.TrimPrefix(req.URL.Path, "/users/follow/")

	targetID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	}

	if targetID == user.ID {
		writeError(w, http.StatusBadRequest, ErrorSelfFollow)
		return
	}

	target, err := database.GetUserByID(targetID)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	} else if err != nil {
		log.Printf("(FollowUnfollow) cannot fetch target: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	if !user.IsFollowing(targetID) {
		if err := database.Follow(user.ID, targetID); err != nil {
			log.Printf("(FollowUnfollow) follow failed: %v", err)
			writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
			return
		}

		emitNotification(model.Notification{
			From: user.ID,
			To:   target.ID,
			Type: model.NotificationFollow,
		})

		invalidateProfiles(user.Username, target.Username)
		writeMessage(w, target.Username+" followed successfully")
		return
	}

	if err := database.Unfollow(user.ID, targetID); err != nil {
		log.Printf("(FollowUnfollow) unfollow failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	invalidateProfiles(user.Username, target.Username)
	writeMessage(w, target.Username+" unfollowed successfully")
}

// Suggested samples up to 4 accounts the caller does not follow yet
func Suggested(w http.ResponseWriter, _ *http.Request, user model.User) {
	suggested, err := database.SuggestedUsers(user)
	if err != nil {
		log.Printf("(Suggested) sampling failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(suggested)
}

// Profile returns any user's profile by username, memcached-backed
func Profile(w http.ResponseWriter, req *http.Request, _ model.User) {
	username := strings.ToLower(strings.TrimPrefix(req.URL.Path, "/users/profile/"))

	if cached := database.Get("profile-" + username); cached != nil {
		w.Write(cached)
		return
	}

	user, err := database.GetUserByUsername(username)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	} else if err != nil {
		log.Printf("(Profile) cannot fetch user: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}
	user.Password = ""

	payload, err := json.Marshal(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	database.Set("profile-"+username, payload, profileCacheTTL)
	w.Write(payload)
}

// Update applies a partial profile update. Absent fields stay untouched,
// password change needs the current and the new one together, and a
// replaced avatar or cover has its old blob destroyed first.
func Update(w http.ResponseWriter, req *http.Request, user model.User) {
	defer req.Body.Close()
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return
	}

	var body model.UpdateBody
	if err = json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	if (body.CurrentPassword == "") != (body.NewPassword == "") {
		writeError(w, http.StatusBadRequest, ErrorPasswordPair)
		return
	}

	if len(body.Bio) > 100 {
		writeError(w, http.StatusBadRequest, ErrorBioTooLong)
		return
	}

	fields := bson.M{}

	if body.CurrentPassword != "" {
		// protect strips the hash, fetch it back for comparison
		stored, err := database.GetUserByID(user.ID)
		if err != nil {
			writeError(w, http.StatusNotFound, ErrorInvalidUser)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(body.CurrentPassword)) != nil {
			writeError(w, http.StatusBadRequest, ErrorIncorrectPassword)
			return
		}

		if len(body.NewPassword) < 6 {
			writeError(w, http.StatusBadRequest, ErrorPasswordTooShort)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), 10)
		if err != nil {
			log.Printf("(Update) hashing failed: %v", err)
			writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
			return
		}
		fields["password"] = string(hash)
	}

	if body.ProfileImg != "" {
		url, ok := replaceBlob(w, req, user.ProfileImg, body.ProfileImg)
		if !ok {
			return
		}
		fields["profileImg"] = url
	}

	if body.CoverImg != "" {
		url, ok := replaceBlob(w, req, user.CoverImg, body.CoverImg)
		if !ok {
			return
		}
		fields["coverImg"] = url
	}

	if body.Username != "" {
		fields["username"] = strings.ToLower(strings.TrimSpace(body.Username))
	}
	if body.FullName != "" {
		fields["fullName"] = strings.TrimSpace(body.FullName)
	}
	if body.Email != "" {
		email := strings.ToLower(strings.TrimSpace(body.Email))
		if !emailCheck.MatchString(email) {
			writeError(w, http.StatusBadRequest, ErrorEmailFormat)
			return
		}
		fields["email"] = email
	}
	if body.Bio != "" {
		fields["bio"] = body.Bio
	}
	if body.Link != "" {
		fields["link"] = body.Link
	}

	if err := database.UpdateUser(user.ID, fields); err != nil {
		log.Printf("(Update) cannot save user: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	updated, err := database.GetUserByID(user.ID)
	if err != nil {
		log.Printf("(Update) cannot fetch updated user: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}
	updated.Password = ""

	invalidateProfiles(user.Username, updated.Username)
	json.NewEncoder(w).Encode(updated)
}

// replaceBlob destroys the previous blob (best-effort) and uploads the
// replacement, answering the request itself on upload failure.
func replaceBlob(w http.ResponseWriter, req *http.Request, old string, next string) (string, bool) {
	if old != "" {
		if err := storage.Destroy(req.Context(), storage.PublicID(old)); err != nil {
			log.Printf("(Update) cannot destroy old blob: %v", err)
		}
	}

	url, err := storage.Upload(req.Context(), next)
	if err != nil {
		log.Printf("(Update) upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorUploading)
		return "", false
	}

	return url, true
}

// invalidateProfiles drops cached profile payloads after a mutation
func invalidateProfiles(usernames ...string) {
	for _, username := range usernames {
		database.Invalidate("profile-" + username)
	}
}
