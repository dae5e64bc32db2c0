package users

import "time"

// User mirrors the identity provider's profile. The row is created lazily
// on first app open and refreshed on every sync.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}
