package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/zcashme/promotebot/internal/cache"
	"github.com/zcashme/promotebot/internal/model"
	"github.com/zcashme/promotebot/internal/worker"
)

// maxBodyBytes bounds how much of a data source response is read.
const maxBodyBytes = 4 << 20

// DataSource is the read-only view of the remote data the pipeline needs.
// The pipeline never holds a concrete client so tests can substitute a
// fake without any network.
type DataSource interface {
	// FetchNewUsers returns subjects created at or after since, newest first.
	FetchNewUsers(ctx context.Context, since time.Time) ([]model.Subject, error)

	// FetchNewVerifications returns verified events at or after since,
	// newest first. Unverified events are never returned.
	FetchNewVerifications(ctx context.Context, since time.Time) ([]model.VerificationEvent, error)

	// FetchLinks returns the profile links of one subject, ordered by id.
	FetchLinks(ctx context.Context, subjectID int64) ([]model.Link, error)
}

// Client queries a Supabase PostgREST endpoint. All access is read-only;
// a query failure is fatal to the run and is never retried here.
type Client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
	limiter    *worker.Limiter
	linkCache  cache.Cache
	cacheTTL   time.Duration
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg model.SourceConfig) (*Client, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse source URL: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("source URL %q has no host", cfg.URL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		baseURL:   cfg.URL,
		host:      parsed.Host,
		apiKey:    cfg.APIKey,
		limiter:   worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		linkCache: cache.NewMemoryCache(cfg.CacheTTL, 10*time.Minute),
		cacheTTL:  cfg.CacheTTL,
	}, nil
}

// subjectRow is the wire shape of the enrichment view.
type subjectRow struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// verificationRow is the wire shape of a verification event with the
// subject name embedded through the foreign key relationship.
type verificationRow struct {
	SubjectID  int64     `json:"subject_id"`
	VerifiedAt time.Time `json:"verified_at"`
	Method     string    `json:"method"`
	LinkID     int64     `json:"link_id"`
	Verified   bool      `json:"verified"`
	Zcasher    struct {
		Name string `json:"name"`
	} `json:"zcasher"`
}

// FetchNewUsers queries zcasher_with_referral_rank for members created
// inside the window, ordered by created_at descending.
func (c *Client) FetchNewUsers(ctx context.Context, since time.Time) ([]model.Subject, error) {
	query := url.Values{}
	query.Set("select", "id,name,created_at")
	query.Set("created_at", "gte."+since.UTC().Format(time.RFC3339))
	query.Set("order", "created_at.desc")

	var rows []subjectRow
	if err := c.get(ctx, "zcasher_with_referral_rank", query, &rows); err != nil {
		return nil, err
	}

	subjects := make([]model.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, model.Subject{
			ID:        row.ID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return subjects, nil
}

// FetchNewVerifications queries zcasher_verifications for verified events
// inside the window, ordered by verified_at descending.
func (c *Client) FetchNewVerifications(ctx context.Context, since time.Time) ([]model.VerificationEvent, error) {
	query := url.Values{}
	query.Set("select", "subject_id,verified_at,method,link_id,verified,zcasher(name)")
	query.Set("verified", "is.true")
	query.Set("verified_at", "gte."+since.UTC().Format(time.RFC3339))
	query.Set("order", "verified_at.desc")

	var rows []verificationRow
	if err := c.get(ctx, "zcasher_verifications", query, &rows); err != nil {
		return nil, err
	}

	events := make([]model.VerificationEvent, 0, len(rows))
	for _, row := range rows {
		if !row.Verified {
			continue
		}
		events = append(events, model.VerificationEvent{
			SubjectID:   row.SubjectID,
			SubjectName: row.Zcasher.Name,
			VerifiedAt:  row.VerifiedAt.UTC(),
			Method:      row.Method,
			LinkID:      row.LinkID,
			Verified:    row.Verified,
		})
	}
	return events, nil
}

// FetchLinks queries zcasher_links for one subject. Responses are cached
// for the run so a member appearing in both windows costs one query.
func (c *Client) FetchLinks(ctx context.Context, subjectID int64) ([]model.Link, error) {
	key := cache.Key("links:" + strconv.FormatInt(subjectID, 10))
	if data, found := c.linkCache.Get(key); found {
		var links []model.Link
		if err := json.Unmarshal(data, &links); err == nil {
			return links, nil
		}
	}

	query := url.Values{}
	query.Set("select", "id,zcasher_id,url,label")
	query.Set("zcasher_id", "eq."+strconv.FormatInt(subjectID, 10))
	query.Set("order", "id.asc")

	var links []model.Link
	if err := c.get(ctx, "zcasher_links", query, &links); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(links); err == nil {
		_ = c.linkCache.Set(key, data, c.cacheTTL)
	}
	return links, nil
}

// get performs one rate-limited PostgREST read and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, table string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx, c.host); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	endpoint := c.baseURL + "/rest/v1/" + table + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("query %s: unexpected status %d %s", table, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("query %s: read body: %w", table, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("query %s: decode response: %w", table, err)
	}
	return nil
}
