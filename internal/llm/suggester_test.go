package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/zcashme/promotebot/internal/model"
)

func strPtr(s string) *string { return &s }

func TestNewSuggester_DisabledByDefault(t *testing.T) {
	s, err := NewSuggester(model.DefaultConfig().LLM)
	if err != nil {
		t.Fatalf("NewSuggester failed: %v", err)
	}
	if s.IsEnabled() {
		t.Error("Suggester should be disabled by default")
	}
	if _, err := s.Generate(context.Background(), &model.Report{}); err == nil {
		t.Error("Generate on a disabled suggester should fail")
	}
}

func TestNewSuggester_RequiresAPIKey(t *testing.T) {
	cfg := model.DefaultConfig().LLM
	cfg.Enabled = true
	cfg.APIKey = ""

	if _, err := NewSuggester(cfg); err == nil {
		t.Error("Expected error when enabled without API key")
	}
}

func TestAllowedMentions_CollectsResolvedHandles(t *testing.T) {
	rep := model.NewReport("ts",
		[]model.ReportUser{
			{ID: 1, Name: "Alice", Handle: strPtr("alice")},
			{ID: 2, Name: "Bob", Handle: nil},
		},
		[]model.ReportVerified{
			{ID: 3, Name: "Carol", Handle: strPtr("carol"), Method: "dns"},
			{ID: 1, Name: "Alice", Handle: strPtr("alice"), Method: "dns"},
		},
		"u", "v",
	)

	mentions := allowedMentions(rep)
	if len(mentions) != 2 {
		t.Fatalf("Expected 2 unique mentions, got %v", mentions)
	}
	if mentions[0] != "alice" || mentions[1] != "carol" {
		t.Errorf("Unexpected mentions: %v", mentions)
	}
}

func TestExtractMentions(t *testing.T) {
	text := "Welcome @alice and @Bob_99! (@alice again)"
	mentions := extractMentions(text)

	if len(mentions) != 2 {
		t.Fatalf("Expected 2 unique mentions, got %v", mentions)
	}
	if mentions[0] != "alice" || mentions[1] != "Bob_99" {
		t.Errorf("Unexpected mentions: %v", mentions)
	}
}

func TestBuildPrompt_ContainsDraftsAndAllowlist(t *testing.T) {
	rep := *model.NewReport("ts", nil, nil, "users tweet text", "verified tweet text")

	prompt := BuildPrompt(rep, []string{"alice"})

	if !strings.Contains(prompt, "users tweet text") {
		t.Error("Prompt should embed the users draft")
	}
	if !strings.Contains(prompt, "verified tweet text") {
		t.Error("Prompt should embed the verified draft")
	}
	if !strings.Contains(prompt, "- @alice") {
		t.Error("Prompt should list allowed mentions")
	}
}

func TestBuildPrompt_EmptyAllowlist(t *testing.T) {
	rep := *model.NewReport("ts", nil, nil, "u", "v")

	prompt := BuildPrompt(rep, nil)
	if !strings.Contains(prompt, "do not @ anyone") {
		t.Error("Prompt should forbid mentions when none are resolved")
	}
}

func TestRenderSuggestionDoc(t *testing.T) {
	doc := RenderSuggestionDoc(&SuggestResponse{Text: "alt copy", Model: "gpt-4o-mini"})

	if !strings.Contains(doc, "alt copy") {
		t.Error("Document should contain the suggestion text")
	}
	if !strings.Contains(doc, "gpt-4o-mini") {
		t.Error("Document should name the model")
	}
	if !strings.Contains(doc, "advisory") {
		t.Error("Document should be marked advisory")
	}
}
