package models

import "time"

// Brand is a top-level phone manufacturer (e.g. Apple, Samsung).
type Brand struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
