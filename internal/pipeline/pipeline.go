package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zcashme/promotebot/internal/compose"
	"github.com/zcashme/promotebot/internal/model"
	"github.com/zcashme/promotebot/internal/report"
	"github.com/zcashme/promotebot/internal/resolve"
	"github.com/zcashme/promotebot/internal/source"
)

// timestampLayout is ISO-8601 UTC truncated to minutes, matching the
// granularity the downstream publisher expects in timestamp_utc.
const timestampLayout = "2006-01-02T15:04Z07:00"

// window is how far back "new" reaches.
const window = 24 * time.Hour

// Pipeline orchestrates one run: fetch the two windows, resolve handles,
// compose the tweets, build the report. Single-shot and all-or-nothing; a
// fetch failure produces no artifacts.
type Pipeline struct {
	src      source.DataSource
	resolver *resolve.Resolver
	renderer *report.Renderer
	cfg      *model.Config
	now      func() time.Time
}

// New creates a pipeline over the given data source.
func New(cfg *model.Config, src source.DataSource) *Pipeline {
	return &Pipeline{
		src:      src,
		resolver: resolve.New(src, cfg.Concurrency.LinkWorkers),
		renderer: report.NewRenderer(cfg.Output.IncludeFooter),
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetNow injects the clock. A fixed clock makes two runs over identical
// source data byte-identical, which the determinism contract depends on.
func (p *Pipeline) SetNow(now func() time.Time) {
	p.now = now
}

// Run executes one aggregation pass and returns the report.
func (p *Pipeline) Run(ctx context.Context) (*model.Report, error) {
	now := p.now().UTC()
	since := now.Add(-window)
	ts := now.Truncate(time.Minute).Format(timestampLayout)

	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Window: %s .. %s\n", since.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	var users []model.Subject
	var events []model.VerificationEvent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = p.src.FetchNewUsers(gctx, since)
		if err != nil {
			return fmt.Errorf("fetch new users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = p.src.FetchNewVerifications(gctx, since)
		if err != nil {
			return fmt.Errorf("fetch new verifications: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	users = dedupeSubjects(users)
	events = dedupeEvents(events)

	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Fetched %d new users, %d verifications\n", len(users), len(events))
	}

	reportUsers, err := p.resolveUsers(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("resolve user handles: %w", err)
	}
	reportVerified, err := p.resolveVerified(ctx, events)
	if err != nil {
		return nil, fmt.Errorf("resolve verification handles: %w", err)
	}

	tweetUsers, tweetVerified := compose.Compose(reportUsers, reportVerified, ts)

	return model.NewReport(ts, reportUsers, reportVerified, tweetUsers, tweetVerified), nil
}

// Render writes the two artifacts. Any write failure is fatal to the run.
func (p *Pipeline) Render(rep *model.Report, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(rep, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if p.cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(rep, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if p.cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	return nil
}

func (p *Pipeline) resolveUsers(ctx context.Context, users []model.Subject) ([]model.ReportUser, error) {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	handles, err := p.resolver.Handles(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.ReportUser, len(users))
	for i, u := range users {
		out[i] = model.ReportUser{
			ID:     u.ID,
			Name:   u.Name,
			Handle: handles[i],
		}
	}
	return out, nil
}

func (p *Pipeline) resolveVerified(ctx context.Context, events []model.VerificationEvent) ([]model.ReportVerified, error) {
	ids := make([]int64, len(events))
	for i, ev := range events {
		ids[i] = ev.SubjectID
	}

	handles, err := p.resolver.Handles(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.ReportVerified, len(events))
	for i, ev := range events {
		out[i] = model.ReportVerified{
			ID:     ev.SubjectID,
			Name:   ev.SubjectName,
			Handle: handles[i],
			Method: ev.Method,
		}
	}
	return out, nil
}

// dedupeSubjects keeps the first occurrence of each subject id, preserving
// fetch order.
func dedupeSubjects(subjects []model.Subject) []model.Subject {
	seen := make(map[int64]bool, len(subjects))
	out := subjects[:0]
	for _, s := range subjects {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}

// dedupeEvents keeps the first (most recent) event per subject id.
func dedupeEvents(events []model.VerificationEvent) []model.VerificationEvent {
	seen := make(map[int64]bool, len(events))
	out := events[:0]
	for _, ev := range events {
		if seen[ev.SubjectID] {
			continue
		}
		seen[ev.SubjectID] = true
		out = append(out, ev)
	}
	return out
}
