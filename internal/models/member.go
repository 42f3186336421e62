package models

import "time"

// Member is a team roster entry. UID is the tracker-side numeric user id
// used as the aggregation key and table column identity.
type Member struct {
	ID        string    `json:"id"`
	UID       int64     `json:"uid"`
	Login     string    `json:"login"`
	Display   string    `json:"display,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
