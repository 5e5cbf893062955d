package resolve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zcashme/promotebot/internal/extract"
	"github.com/zcashme/promotebot/internal/model"
)

// LinkSource is the single data source operation the resolver needs.
type LinkSource interface {
	FetchLinks(ctx context.Context, subjectID int64) ([]model.Link, error)
}

// Pick returns the first valid handle the subject's links yield.
//
// The data source does not guarantee link order, so the candidate order is
// made deterministic before iterating: links whose label hints at
// Twitter/X come first, ties broken by ascending link id. Identical link
// sets therefore always resolve to the same handle.
func Pick(links []model.Link) (string, bool) {
	ordered := make([]model.Link, len(links))
	copy(ordered, links)

	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := isSocialLabel(ordered[i].Label), isSocialLabel(ordered[j].Label)
		if si != sj {
			return si
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, link := range ordered {
		if handle, ok := extract.Handle(link.URL); ok {
			return handle, true
		}
	}
	return "", false
}

// isSocialLabel mirrors the label matching of the companion view: any
// label containing "twitter" or "x" counts as a social link hint.
func isSocialLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "twitter") || strings.Contains(l, "x")
}

// Resolver attaches handles to subjects by looking up their links.
type Resolver struct {
	source  LinkSource
	workers int
}

// New creates a resolver with a bounded number of concurrent link lookups.
func New(source LinkSource, workers int) *Resolver {
	if workers <= 0 {
		workers = 8
	}
	return &Resolver{
		source:  source,
		workers: workers,
	}
}

// Handles resolves a handle for each subject id. Lookups run concurrently
// but results are indexed by input position, so the output order always
// equals the input order. Entries without a valid handle are nil. A failed
// lookup fails the whole resolution; partial results are never returned.
func (r *Resolver) Handles(ctx context.Context, subjectIDs []int64) ([]*string, error) {
	results := make([]*string, len(subjectIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, id := range subjectIDs {
		i, id := i, id
		g.Go(func() error {
			links, err := r.source.FetchLinks(gctx, id)
			if err != nil {
				return fmt.Errorf("links for subject %d: %w", id, err)
			}
			if handle, ok := Pick(links); ok {
				results[i] = &handle
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
