package identity

import "time"

// Identity is the authenticated user context bound to a session. It is
// created on successful authentication, immutable while bound, and cleared
// wholesale on sign-out.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Industry  string    `json:"industry,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
