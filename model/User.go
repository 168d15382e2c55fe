package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User struct defines user's data architecture.
// Password is never serialized to JSON.
type User struct {
	ID         primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Username   string               `json:"username" bson:"username"`
	FullName   string               `json:"fullName" bson:"fullName"`
	Email      string               `json:"email" bson:"email"`
	Password   string               `json:"-" bson:"password"`
	ProfileImg string               `json:"profileImg" bson:"profileImg"`
	CoverImg   string               `json:"coverImg" bson:"coverImg"`
	Bio        string               `json:"bio" bson:"bio"`
	Link       string               `json:"link" bson:"link"`
	Followers  []primitive.ObjectID `json:"followers" bson:"followers"`
	Following  []primitive.ObjectID `json:"following" bson:"following"`
	LikedPosts []primitive.ObjectID `json:"likedPosts" bson:"likedPosts"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsFollowing reports whether id is in the user's following list.
func (u User) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}
