package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is embedded in its post, in insertion order.
// Comments are immutable once created.
type Comment struct {
	Text        string             `json:"text" bson:"text"`
	CommentedBy primitive.ObjectID `json:"commentedBy" bson:"commentedBy"`
	Author      *User              `json:"author,omitempty" bson:"-"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// Post struct defines how post must be.
// Author is filled from the users collection on reads and never stored.
type Post struct {
	ID        primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID   `json:"user" bson:"user"`
	Author    *User                `json:"author,omitempty" bson:"-"`
	Text      string               `json:"text,omitempty" bson:"text,omitempty"`
	Img       string               `json:"img,omitempty" bson:"img,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}

// HasLike reports whether id is in the post's like set.
func (p Post) HasLike(id primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l == id {
			return true
		}
	}
	return false
}

// PostBody defines how body when posting a new post must be.
// Img may be a data URI, replaced by the blob store URL on creation.
type PostBody struct {
	Text string `json:"text"`
	Img  string `json:"img"`
}

// CommentBody define the struct of the comment body
type CommentBody struct {
	Text string `json:"text"`
}
