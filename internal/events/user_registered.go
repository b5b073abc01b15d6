package events

import "time"

const UserRegisteredTopic = "users.account.registered.v1"

type UserRegisteredEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	UserID     string    `json:"user_id"`
	UserType   string    `json:"user_type"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
