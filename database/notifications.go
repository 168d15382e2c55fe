package database

import (
	"time"

	"github.com/flocknet/flock/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type notificationWithSender struct {
	model.Notification `bson:",inline"`
	SenderDocs         []model.User `bson:"senderDocs"`
}

// CreateNotification records that an event occurred
func CreateNotification(notification model.Notification) error {
	notification.CreatedAt = time.Now().UTC()

	_, err := Notifications.InsertOne(ctx, notification)
	return err
}

// GetNotifications returns a user's notifications, newest first,
// with the sender joined from the users collection
func GetNotifications(to primitive.ObjectID) ([]model.Notification, error) {
	cursor, err := Notifications.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"to": to}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "from",
			"foreignField": "_id",
			"as":           "senderDocs",
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raw []notificationWithSender
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	list := make([]model.Notification, 0, len(raw))
	for _, r := range raw {
		notification := r.Notification
		if len(r.SenderDocs) > 0 {
			sender := r.SenderDocs[0]
			sender.Password = ""
			notification.Sender = &sender
		}
		list = append(list, notification)
	}

	return list, nil
}

// MarkNotificationsRead flags every notification of the user as seen
func MarkNotificationsRead(to primitive.ObjectID) error {
	_, err := Notifications.UpdateMany(ctx, bson.M{"to": to},
		bson.M{"$set": bson.M{"read": true}})
	return err
}

// DeleteNotifications removes every notification of the user
func DeleteNotifications(to primitive.ObjectID) error {
	_, err := Notifications.DeleteMany(ctx, bson.M{"to": to})
	return err
}
