package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType is the closed set of events a user can be notified about.
type NotificationType string

const (
	NotificationFollow NotificationType = "follow"
	NotificationLike   NotificationType = "like"
)

// Notification records that an event occurred between two users.
// Sender is filled from the users collection on reads and never stored.
type Notification struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	From      primitive.ObjectID `json:"from" bson:"from"`
	To        primitive.ObjectID `json:"to" bson:"to"`
	Type      NotificationType   `json:"type" bson:"type"`
	Read      bool               `json:"read" bson:"read"`
	Sender    *User              `json:"sender,omitempty" bson:"-"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Message represents how NATS publish message
// should be
type Message struct {
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Important bool   `json:"important"`
}
