package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/markdown"

	"github.com/zcashme/promotebot/internal/model"
)

// Renderer serializes a report into the structured record and the
// human-readable document. Both outputs are byte-deterministic: fixed
// field order, fixed whitespace, no map iteration anywhere. Re-running
// over identical inputs with an identical timestamp produces identical
// bytes, which is what lets the downstream commit step detect "nothing
// changed" and skip.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteJSON writes the structured record to w.
func (r *Renderer) WriteJSON(rep *model.Report, w io.Writer) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteMarkdown writes the formatted document to w. Section order is
// fixed: timestamp, new-user count, users tweet preview, user list,
// verification count, verification tweet preview, verification details.
func (r *Renderer) WriteMarkdown(rep *model.Report, w io.Writer) error {
	md := markdown.NewMarkdown(w)

	md.PlainTextf("**Generated at:** %s UTC", rep.TimestampUTC)
	md.PlainText("")
	md.HorizontalRule()

	md.H1("🚀 New to ZcashMe (last 24h)")
	md.PlainTextf("**Count:** %d", len(rep.Users))
	md.PlainText("")
	md.PlainText("### 📝 Tweet Preview")
	md.PlainText(rep.TweetUsers)
	md.PlainText("")
	md.PlainText("### 👥 New Users")
	if len(rep.Users) == 0 {
		md.PlainText("no new users")
	} else {
		items := make([]string, len(rep.Users))
		for i, u := range rep.Users {
			items[i] = fmt.Sprintf("%s (%s)", u.Name, handleText(u.Handle))
		}
		md.BulletList(items...)
	}
	md.PlainText("")
	md.HorizontalRule()

	md.H1("🔐 Newly Verified (last 24h)")
	md.PlainTextf("**Count:** %d", len(rep.Verified))
	md.PlainText("")
	md.PlainText("### 📝 Tweet Preview")
	md.PlainText(rep.TweetVerified)
	md.PlainText("")
	md.PlainText("### 🔎 Verification Details")
	if len(rep.Verified) == 0 {
		md.PlainText("no new verifications")
	} else {
		items := make([]string, len(rep.Verified))
		for i, v := range rep.Verified {
			items[i] = fmt.Sprintf("%s (%s) — %s", v.Name, handleText(v.Handle), v.Method)
		}
		md.BulletList(items...)
	}

	if r.includeFooter {
		md.PlainText("")
		md.HorizontalRule()
		md.PlainText("This summary was automatically generated by the **ZcashMe Promote-Bot**.")
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("build markdown: %w", err)
	}
	return nil
}

// RenderJSON writes the structured record to a file.
func (r *Renderer) RenderJSON(rep *model.Report, path string) error {
	var buf bytes.Buffer
	if err := r.WriteJSON(rep, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the formatted document to a file.
func (r *Renderer) RenderMarkdown(rep *model.Report, path string) error {
	var buf bytes.Buffer
	if err := r.WriteMarkdown(rep, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func handleText(handle *string) string {
	if handle != nil && *handle != "" {
		return "@" + *handle
	}
	return "no handle"
}
