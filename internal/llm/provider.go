package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/zcashme/promotebot/internal/model"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Suggest generates alternative tweet copy for a report
	Suggest(ctx context.Context, req SuggestRequest) (*SuggestResponse, error)
}

// SuggestRequest contains the input for copy suggestion.
type SuggestRequest struct {
	// Report is the deterministic report the suggestions are based on
	Report model.Report

	// AllowedMentions is the STRICT allowlist of handles the LLM can
	// mention. Suggestions naming anyone outside it are rejected.
	AllowedMentions []string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SuggestResponse contains the LLM's suggestion output.
type SuggestResponse struct {
	// Text is the generated suggestion text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// BuildPrompt constructs the default prompt for copy suggestions.
func BuildPrompt(rep model.Report, allowedMentions []string) string {
	prompt := fmt.Sprintf(`You are proposing alternative wording for two community announcement tweets. The facts are fixed; only the phrasing may change.

CRITICAL RULES:
1. You MUST ONLY mention handles from this allowed list:
%s
2. DO NOT invent members, handles, or counts.
3. Keep each suggestion under 280 characters.
4. Keep the member counts exactly as given.

Current drafts:

--- new members (%d) ---
%s

--- newly verified (%d) ---
%s

Provide one alternative wording per tweet, separated by a blank line.`,
		joinMentions(allowedMentions),
		len(rep.Users), rep.TweetUsers,
		len(rep.Verified), rep.TweetVerified,
	)

	return prompt
}

func joinMentions(mentions []string) string {
	if len(mentions) == 0 {
		return "(No handles resolved; do not @ anyone)"
	}
	result := ""
	for _, m := range mentions {
		result += "\n- @" + m
	}
	return result
}

// mentionPattern matches @handle tokens in generated text.
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]{1,15})`)

// extractMentions returns the unique handles mentioned in text.
func extractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, m := range matches {
		handle := m[1]
		if !seen[handle] {
			seen[handle] = true
			unique = append(unique, handle)
		}
	}
	return unique
}

// containsFold checks if a slice contains a string, handle-style
// (case-insensitive).
func containsFold(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
