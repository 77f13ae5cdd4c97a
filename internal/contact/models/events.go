package models

import "time"

// EventType names a change to the contact graph.
type EventType string

const (
	EventContactCreated EventType = "contact.created"
	EventContactsMerged EventType = "contact.merged"
)

// ContactEvent is emitted after a resolution commits.
type ContactEvent struct {
	Type             EventType      `json:"type"`
	ContactID        int64          `json:"contact_id,omitempty"`
	PrimaryContactID int64          `json:"primary_contact_id"`
	LinkPrecedence   LinkPrecedence `json:"link_precedence,omitempty"`
	DemotedIDs       []int64        `json:"demoted_ids,omitempty"`
	RequestID        string         `json:"request_id,omitempty"`
	OccurredAt       time.Time      `json:"occurred_at"`
}
