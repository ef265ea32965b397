package advisor

import "time"

// Role identifies the author of a transcript turn.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// State tags the lifecycle of a turn's content. Only the most recently
// appended assistant turn may be pending, and only a pending turn is mutable.
type State string

const (
	// StatePending marks an assistant turn still receiving stream fragments.
	StatePending State = "pending"
	// StateFinal marks content that will never change again.
	StateFinal State = "final"
	// StateErrored marks an assistant turn whose stream failed; its content
	// is the fixed error marker, not a partial concatenation.
	StateErrored State = "errored"
)

// Turn is one message in the advisor transcript. The ID is locally generated
// until the history repository assigns a durable one; Persisted records the
// durability lag explicitly instead of hiding it.
type Turn struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identityId"`
	Role       Role      `json:"role"`
	State      State     `json:"state"`
	Content    string    `json:"content"`
	Persisted  bool      `json:"persisted"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Promotable reports whether the turn may be committed to the vault.
func (t Turn) Promotable() bool {
	return t.State == StateFinal && t.Content != ""
}
