package model

import "time"

// CoachProfile is the public identity a schedule is scoped to. The
// scheduling engine only reads it; profile management lives elsewhere.
type CoachProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Slug        string    `json:"slug"`
	DisplayName string    `json:"display_name"`
	PublicNote  string    `json:"public_note"`
	CreatedAt   time.Time `json:"created_at"`
}
