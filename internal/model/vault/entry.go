package vault

import (
	"strings"
	"time"
)

// CategoryCapture is the fixed category applied to entries promoted from the
// advisor transcript.
const CategoryCapture = "STRATEGIC CAPTURE"

const titleRuneLimit = 30

// Entry is a user-curated note promoted from a transcript turn. Entries are
// immutable once created except for deletion.
type Entry struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identityId"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TitleFor derives an entry title from free-text content: the first line,
// truncated to a fixed rune length, with an ellipsis marker appended.
func TitleFor(content string) string {
	line := content
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	runes := []rune(line)
	if len(runes) > titleRuneLimit {
		runes = runes[:titleRuneLimit]
	}
	return string(runes) + "..."
}
