package audit

import "time"

// Entry is a persisted audit trail record.
type Entry struct {
	ID         int64          `json:"id"`
	ActorID    int64          `json:"actorId"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entityId"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Filter narrows a trail listing. Zero values mean "no constraint".
type Filter struct {
	ActorID int64
	Entity  string
	Action  string
	Page    int
	PerPage int
}
