package events

import "time"

// Seluruh event lifecycle keanggotaan berbagi satu topic supaya consumer
// notifikasi cukup subscribe sekali dan urutan per-user terjaga lewat key.
const MembershipLifecycleTopic = "users.membership.lifecycle.v1"

type MemberJoinedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Position       string    `json:"position,omitempty"`
	Roles          []string  `json:"roles"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type MemberLeftEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type MemberTransferredEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id,omitempty"`
	UserID          string    `json:"user_id"`
	OrganizationID  string    `json:"organization_id"`
	NewManagerID    string    `json:"new_manager_id"`
	ReportsFollowed bool      `json:"reports_followed"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type MemberRoleChangedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	OldPosition    string    `json:"old_position,omitempty"`
	NewPosition    string    `json:"new_position,omitempty"`
	Roles          []string  `json:"roles"`
	OccurredAt     time.Time `json:"occurred_at"`
}
