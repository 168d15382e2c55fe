package router

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/flocknet/flock/database"
	"github.com/flocknet/flock/helpers"
	"github.com/flocknet/flock/model"
)

// NotificationSubject is the NATS subject notifications fan out on
const NotificationSubject = "flock.notifications"

// NotificationHandler re-routes to the requested handler
func NotificationHandler(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		protect(GetNotifications)(w, req)
	case http.MethodDelete:
		protect(DeleteNotifications)(w, req)
	default:
		w.Header().Set("Content-Type", "application/json")
		writeError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
	}
}

// GetNotifications returns the caller's notifications, newest first,
// and marks them read
func GetNotifications(w http.ResponseWriter, _ *http.Request, user model.User) {
	list, err := database.GetNotifications(user.ID)
	if err != nil {
		log.Printf("(GetNotifications) listing failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	if err := database.MarkNotificationsRead(user.ID); err != nil {
		log.Printf("(GetNotifications) cannot mark read: %v", err)
	}

	json.NewEncoder(w).Encode(list)
}

// DeleteNotifications clears every notification of the caller
func DeleteNotifications(w http.ResponseWriter, _ *http.Request, user model.User) {
	if err := database.DeleteNotifications(user.ID); err != nil {
		log.Printf("(DeleteNotifications) delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	writeMessage(w, "Notifications deleted successfully")
}

// emitNotification persists the event and fans it out on NATS.
// Both sides are best-effort for the caller's request: a failed save
// never fails the mutation that triggered it.
func emitNotification(notification model.Notification) {
	if err := database.CreateNotification(notification); err != nil {
		log.Printf("(emitNotification) cannot save notification: %v", err)
		return
	}

	payload, err := json.Marshal(model.Message{
		Type: string(notification.Type),
		From: notification.From.Hex(),
		To:   notification.To.Hex(),
	})
	if err != nil {
		return
	}

	helpers.Publish(NotificationSubject, payload)
}
