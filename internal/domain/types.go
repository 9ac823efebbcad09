package domain

import "time"

// User is a portal account. IDs are employee identifiers chosen at
// provisioning time, not generated.
type User struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Video is a catalogue entry. The binary itself lives in the blob store
// under Filename.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	CreatedAt    time.Time `json:"created_at"`
}
