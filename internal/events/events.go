package events

import "time"

const (
	TypeCreated = "content.created"
	TypeUpdated = "content.updated"
	TypeDeleted = "content.deleted"
)

// ContentEvent is broadcast to admin clients after every successful write.
type ContentEvent struct {
	Type   string    `json:"type"`
	Entity string    `json:"entity"` // "work", "artist", "category", "label", "expertise"
	ID     string    `json:"id"`
	Slug   string    `json:"slug,omitempty"`
	At     time.Time `json:"at"`
}
