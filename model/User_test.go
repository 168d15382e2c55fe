package model

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserJSONExcludesPassword(t *testing.T) {
	user := User{
		ID:       primitive.NewObjectID(),
		Username: "jane",
		Password: "$2a$10$somethingsecret",
	}

	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if _, ok := fields["password"]; ok {
		t.Fatal("password field present in JSON response")
	}
	if fields["username"] != "jane" {
		t.Errorf("username = %v, want jane", fields["username"])
	}
}

func TestIsFollowing(t *testing.T) {
	target := primitive.NewObjectID()
	other := primitive.NewObjectID()

	user := User{Following: []primitive.ObjectID{target}}

	if !user.IsFollowing(target) {
		t.Error("IsFollowing() = false for a followed id")
	}
	if user.IsFollowing(other) {
		t.Error("IsFollowing() = true for an unrelated id")
	}
}

func TestHasLike(t *testing.T) {
	liker := primitive.NewObjectID()

	post := Post{Likes: []primitive.ObjectID{liker}}

	if !post.HasLike(liker) {
		t.Error("HasLike() = false for a liker")
	}
	if post.HasLike(primitive.NewObjectID()) {
		t.Error("HasLike() = true for a stranger")
	}
}

func TestPostJSONKeepsEmptySets(t *testing.T) {
	post := Post{
		ID:       primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		Text:     "hello",
		Likes:    []primitive.ObjectID{},
		Comments: []Comment{},
	}

	raw, err := json.Marshal(post)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if _, ok := fields["likes"].([]any); !ok {
		t.Error("likes must serialize as an array, not null")
	}
	if _, ok := fields["comments"].([]any); !ok {
		t.Error("comments must serialize as an array, not null")
	}
}
