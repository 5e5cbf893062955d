package llm

import (
	"context"
	"fmt"

	"github.com/zcashme/promotebot/internal/model"
)

// Suggester wraps a provider and renders suggestions into a standalone
// document. It is strictly advisory: the deterministic JSON and Markdown
// artifacts are produced before it runs and are never modified by it.
type Suggester struct {
	provider Provider
	cfg      model.LLMConfig
}

// NewSuggester creates a suggester. When cfg.Enabled is false the
// suggester exists but does nothing, mirroring how the pipeline treats it
// as an optional add-on.
func NewSuggester(cfg model.LLMConfig) (*Suggester, error) {
	s := &Suggester{cfg: cfg}
	if !cfg.Enabled {
		return s, nil
	}

	provider, err := NewOpenAIProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	s.provider = provider
	return s, nil
}

// IsEnabled reports whether suggestions will be generated.
func (s *Suggester) IsEnabled() bool {
	return s.provider != nil
}

// Generate produces the suggestion document for a report.
func (s *Suggester) Generate(ctx context.Context, rep *model.Report) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("suggester is disabled")
	}

	resp, err := s.provider.Suggest(ctx, SuggestRequest{
		Report:          *rep,
		AllowedMentions: allowedMentions(rep),
		Model:           s.cfg.Model,
		MaxTokens:       s.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	return RenderSuggestionDoc(resp), nil
}

// allowedMentions collects every resolved handle in the report.
func allowedMentions(rep *model.Report) []string {
	seen := make(map[string]bool)
	var mentions []string

	add := func(handle *string) {
		if handle == nil || *handle == "" || seen[*handle] {
			return
		}
		seen[*handle] = true
		mentions = append(mentions, *handle)
	}

	for _, u := range rep.Users {
		add(u.Handle)
	}
	for _, v := range rep.Verified {
		add(v.Handle)
	}
	return mentions
}

// RenderSuggestionDoc renders the standalone suggestion document.
func RenderSuggestionDoc(resp *SuggestResponse) string {
	return fmt.Sprintf(`# Alternative Tweet Copy (advisory)

Generated by %s. These suggestions are NOT part of the published record;
the deterministic drafts in daily_combined.json are authoritative.

%s
`, resp.Model, resp.Text)
}
