package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/zcashme/promotebot/internal/model"
)

func strPtr(s string) *string { return &s }

func sampleReport() *model.Report {
	return model.NewReport(
		"2025-06-02T08:00Z",
		[]model.ReportUser{
			{ID: 1, Name: "Alice", Handle: strPtr("alice_99")},
			{ID: 2, Name: "Bob", Handle: nil},
		},
		[]model.ReportVerified{
			{ID: 3, Name: "Carol", Handle: strPtr("carol"), Method: "wallet_signature"},
		},
		"users tweet",
		"verified tweet",
	)
}

func TestWriteJSON_FieldOrderAndNulls(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(true).WriteJSON(sampleReport(), &buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := buf.String()

	// Fixed field order keeps the artifact diffable
	order := []string{`"timestamp_utc"`, `"users"`, `"verified"`, `"tweet_users"`, `"tweet_verified"`}
	last := -1
	for _, field := range order {
		idx := strings.Index(out, field)
		if idx < 0 {
			t.Fatalf("Missing field %s in output:\n%s", field, out)
		}
		if idx < last {
			t.Errorf("Field %s out of order", field)
		}
		last = idx
	}

	if !strings.Contains(out, `"handle": null`) {
		t.Error("Unresolved handle should serialize as null")
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("JSON output should end with a newline")
	}
}

func TestWriteJSON_EmptyGroupsAreArrays(t *testing.T) {
	rep := model.NewReport("2025-06-02T08:00Z", nil, nil, "u", "v")

	var buf bytes.Buffer
	if err := NewRenderer(true).WriteJSON(rep, &buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if string(decoded["users"]) != "[]" {
		t.Errorf("Expected users to be [], got %s", decoded["users"])
	}
	if string(decoded["verified"]) != "[]" {
		t.Errorf("Expected verified to be [], got %s", decoded["verified"])
	}
}

func TestWriteMarkdown_SectionOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(true).WriteMarkdown(sampleReport(), &buf); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	out := buf.String()

	sections := []string{
		"**Generated at:** 2025-06-02T08:00Z UTC",
		"🚀 New to ZcashMe",
		"**Count:** 2",
		"users tweet",
		"Alice (@alice_99)",
		"Bob (no handle)",
		"🔐 Newly Verified",
		"**Count:** 1",
		"verified tweet",
		"Carol (@carol) — wallet_signature",
		"ZcashMe Promote-Bot",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("Missing section %q in output:\n%s", section, out)
		}
		if idx < last {
			t.Errorf("Section %q out of order", section)
		}
		last = idx
	}
}

func TestWriteMarkdown_EmptyWindows(t *testing.T) {
	rep := model.NewReport("2025-06-02T08:00Z", nil, nil, "u tweet", "v tweet")

	var buf bytes.Buffer
	if err := NewRenderer(true).WriteMarkdown(rep, &buf); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "no new users") {
		t.Error("Empty user window should render explicit placeholder")
	}
	if !strings.Contains(out, "no new verifications") {
		t.Error("Empty verification window should render explicit placeholder")
	}
}

func TestWriteMarkdown_NoFooter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).WriteMarkdown(sampleReport(), &buf); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	if strings.Contains(buf.String(), "Promote-Bot") {
		t.Error("Footer should be omitted when disabled")
	}
}

func TestRender_ByteDeterministic(t *testing.T) {
	renderer := NewRenderer(true)

	var json1, json2, md1, md2 bytes.Buffer
	if err := renderer.WriteJSON(sampleReport(), &json1); err != nil {
		t.Fatal(err)
	}
	if err := renderer.WriteJSON(sampleReport(), &json2); err != nil {
		t.Fatal(err)
	}
	if err := renderer.WriteMarkdown(sampleReport(), &md1); err != nil {
		t.Fatal(err)
	}
	if err := renderer.WriteMarkdown(sampleReport(), &md2); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(json1.Bytes(), json2.Bytes()) {
		t.Error("JSON output must be byte-identical across runs")
	}
	if !bytes.Equal(md1.Bytes(), md2.Bytes()) {
		t.Error("Markdown output must be byte-identical across runs")
	}
}
