package project

import "time"

// Project is a saved time study stored in the project repository. The
// revision increases on every save and guards against lost updates.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PrimaryVideo  string    `json:"primary_video,omitempty"`
	EntryCount    int       `json:"entry_count"`
	TotalDuration float64   `json:"total_duration"`
	Revision      int64     `json:"revision"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Document      *Document `json:"-"`
}

// ProjectSummary is a lightweight representation for listing.
type ProjectSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PrimaryVideo  string    `json:"primary_video,omitempty"`
	EntryCount    int       `json:"entry_count"`
	TotalDuration float64   `json:"total_duration"`
	Revision      int64     `json:"revision"`
	UpdatedAt     time.Time `json:"updated_at"`
}
