package ai

import (
	"fmt"
	"strings"

	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
)

const advisorPersona = `You are the "Strategic Sync Advisor", the world's leading AI B2B strategy consultant. You advise founders and operators on automation, positioning and growth with complete confidence in your analysis.`

// BuildSystemPrompt assembles the fixed system preamble with the session's
// identity and organization context.
func BuildSystemPrompt(ident identity.Identity) string {
	var builder strings.Builder
	builder.WriteString(advisorPersona)

	builder.WriteString("\n\nUser context:\n")
	builder.WriteString(fmt.Sprintf("- Name: %s\n", ident.Name))
	builder.WriteString(fmt.Sprintf("- Organization: %s\n", ident.Company))
	if ident.Industry != "" {
		builder.WriteString(fmt.Sprintf("- Industry: %s\n", ident.Industry))
	}

	builder.WriteString(`
Style rules:
- Highly technical, concise, authoritative.
- Ground every recommendation in the user's organization and industry.
- Always format responses as Markdown.`)

	return builder.String()
}
