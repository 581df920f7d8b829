package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"fintrack/internal/core"
)

// ReminderMessage announces a new recurring reminder to the notifier.
// The notification itself stays in SQLite; the message carries what a push
// channel needs to render it.
type ReminderMessage struct {
	NotificationID string    `json:"notification_id"`
	RecurringID    string    `json:"recurring_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	DueDate        string    `json:"due_date"`
	Timestamp      time.Time `json:"timestamp"`
}

var errMissingNotificationID = errors.New("reminder message has no notification id")

// NewReminderMessage builds the message for a stored reminder.
func NewReminderMessage(n core.Notification) *ReminderMessage {
	msg := &ReminderMessage{
		NotificationID: n.ID,
		RecurringID:    n.RecurringID,
		Title:          n.Title,
		Body:           n.Body,
		Timestamp:      time.Now(),
	}
	if n.NotificationDate != nil {
		msg.DueDate = n.NotificationDate.String()
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderMessageFromJSON decodes a message and checks that it names a notification.
func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.NotificationID == "" {
		return nil, errMissingNotificationID
	}
	return &msg, nil
}
