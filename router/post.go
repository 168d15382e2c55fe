package router

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/flocknet/flock/database"
	"github.com/flocknet/flock/model"
	"github.com/flocknet/flock/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostHandler re-routes to the requested handler
func PostHandler(w http.ResponseWriter, req *http.Request) {
	route := strings.TrimPrefix(req.URL.Path, "/posts/")

	switch {
	case route == "create" && req.Method == http.MethodPost:
		protect(CreatePost)(w, req)
	case route == "getPosts" && req.Method == http.MethodGet:
		protect(GetPosts)(w, req)
	case route == "following" && req.Method == http.MethodGet:
		protect(GetFollowingPosts)(w, req)
	case strings.HasPrefix(route, "liked/") && req.Method == http.MethodGet:
		protect(GetLikedPosts)(w, req)
	case strings.HasPrefix(route, "user/") && req.Method == http.MethodGet:
		protect(GetUserPosts)(w, req)
	case strings.HasPrefix(route, "like/") && req.Method == http.MethodPost:
		protect(LikeUnlikePost)(w, req)
	case strings.HasPrefix(route, "comment/") && req.Method == http.MethodPost:
		protect(CommentPost)(w, req)
	case req.Method == http.MethodDelete:
		protect(DeletePost)(w, req)
	default:
		w.Header().Set("Content-Type", "application/json")
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

// CreatePost saves a new post; the image, when present, is moved to the
// blob store first and only its canonical URL is persisted.
func CreatePost(w http.ResponseWriter, req *http.Request, user model.User) {
	defer req.Body.Close()
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return
	}

	var body model.PostBody
	if err = json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	if body.Text == "" && body.Img == "" {
		writeError(w, http.StatusBadRequest, ErrorTextOrImageRequired)
		return
	}

	img := ""
	if body.Img != "" {
		img, err = storage.Upload(req.Context(), body.Img)
		if err != nil {
			log.Printf("(CreatePost) upload failed: %v", err)
			writeError(w, http.StatusInternalServerError, ErrorUploading)
			return
		}
	}

	post, err := database.CreatePost(model.Post{
		UserID:   user.ID,
		Text:     body.Text,
		Img:      img,
		Likes:    []primitive.ObjectID{},
		Comments: []model.Comment{},
	})
	if err != nil {
		log.Printf("(CreatePost) cannot save post: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// DeletePost removes one of the caller's own posts. Authorization is
// checked against a read-only fetch before anything is destroyed.
func DeletePost(w http.ResponseWriter, req *http.Request, user model.User) {
	post, ok := fetchPost(w, strings.TrimPrefix(req.URL.Path, "/posts/"))
	if !ok {
		return
	}

	if post.UserID != user.ID {
		writeError(w, http.StatusUnauthorized, ErrorNotPostAuthor)
		return
	}

	if err := database.DeletePost(post.ID); err != nil {
		log.Printf("(DeletePost) cannot delete post: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	if post.Img != "" {
		if err := storage.Destroy(req.Context(), storage.PublicID(post.Img)); err != nil {
			log.Printf("(DeletePost) cannot destroy blob: %v", err)
		}
	}

	json.NewEncoder(w).Encode(post)
}

// LikeUnlikePost toggles the caller's membership in the post's like set
// and, symmetrically, the post in the caller's liked list. A like
// notification goes to the author on the liking transition only.
func LikeUnlikePost(w http.ResponseWriter, req *http.Request, user model.User) {
	post, ok := fetchPost(w, strings.TrimPrefix(req.URL.Path, "/posts/like/"))
	if !ok {
		return
	}

	if post.HasLike(user.ID) {
		if err := database.UnlikePost(post.ID, user.ID); err != nil {
			log.Printf("(LikeUnlikePost) unlike failed: %v", err)
			writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
			return
		}
		if err := database.RemoveLikedPost(user.ID, post.ID); err != nil {
			log.Printf("(LikeUnlikePost) likedPosts pull failed: %v", err)
			writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
			return
		}

		likes := make([]primitive.ObjectID, 0, len(post.Likes))
		for _, id := range post.Likes {
			if id != user.ID {
				likes = append(likes, id)
			}
		}

		json.NewEncoder(w).Encode(likes)
		return
	}

	if err := database.LikePost(post.ID, user.ID); err != nil {
		log.Printf("(LikeUnlikePost) like failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}
	if err := database.AddLikedPost(user.ID, post.ID); err != nil {
		log.Printf("(LikeUnlikePost) likedPosts push failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	emitNotification(model.Notification{
		From: user.ID,
		To:   post.UserID,
		Type: model.NotificationLike,
	})

	json.NewEncoder(w).Encode(append(post.Likes, user.ID))
}

// CommentPost appends a comment and returns the updated post
func CommentPost(w http.ResponseWriter, req *http.Request, user model.User) {
	defer req.Body.Close()
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return
	}

	var body model.CommentBody
	if err = json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	if body.Text == "" {
		writeError(w, http.StatusBadRequest, ErrorCommentRequired)
		return
	}

	post, ok := fetchPost(w, strings.TrimPrefix(req.URL.Path, "/posts/comment/"))
	if !ok {
		return
	}

	if err := database.AddComment(post.ID, model.Comment{
		Text:        body.Text,
		CommentedBy: user.ID,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		log.Printf("(CommentPost) cannot save comment: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	updated, err := database.GetPostByID(post.ID)
	if err != nil {
		log.Printf("(CommentPost) cannot fetch updated post: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(updated)
}

// GetPosts returns every post, newest first
func GetPosts(w http.ResponseWriter, _ *http.Request, _ model.User) {
	list, err := database.GetPosts()
	if err != nil {
		log.Printf("(GetPosts) listing failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(list)
}

// GetFollowingPosts returns the caller's feed, newest first
func GetFollowingPosts(w http.ResponseWriter, _ *http.Request, user model.User) {
	list, err := database.GetFollowingPosts(user.Following)
	if err != nil {
		log.Printf("(GetFollowingPosts) listing failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(list)
}

// GetLikedPosts returns the posts liked by the user in the path
func GetLikedPosts(w http.ResponseWriter, req *http.Request, _ model.User) {
	id, err := primitive.ObjectIDFromHex(strings.TrimPrefix(req.URL.Path, "/posts/liked/"))
	if err != nil {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	}

	target, err := database.GetUserByID(id)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	} else if err != nil {
		log.Printf("(GetLikedPosts) cannot fetch user: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	list, err := database.GetLikedPosts(target.LikedPosts)
	if err != nil {
		log.Printf("(GetLikedPosts) listing failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(list)
}

// GetUserPosts returns the posts of the username in the path
func GetUserPosts(w http.ResponseWriter, req *http.Request, _ model.User) {
	username := strings.ToLower(strings.TrimPrefix(req.URL.Path, "/posts/user/"))

	target, err := database.GetUserByUsername(username)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, ErrorInvalidUser)
		return
	} else if err != nil {
		log.Printf("(GetUserPosts) cannot fetch user: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	list, err := database.GetUserPosts(target.ID)
	if err != nil {
		log.Printf("(GetUserPosts) listing failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(list)
}

// fetchPost resolves a post id from a path suffix, answering the
// request itself when the post cannot be served.
func fetchPost(w http.ResponseWriter, id string) (model.Post, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		writeError(w, http.StatusNotFound, ErrorInvalidPost)
		return model.Post{}, false
	}

	post, err := database.GetPostByID(oid)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, ErrorInvalidPost)
		return model.Post{}, false
	} else if err != nil {
		log.Printf("(fetchPost) cannot fetch post: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return model.Post{}, false
	}

	return post, true
}
