package model

import "time"

// Subject represents a community member row from the enrichment view.
// Handle is derived from the member's profile links at draft time and is
// never written back to the data source.
type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Handle    *string   `json:"handle"`
}

// Link represents a profile link owned by the data source. The core only
// reads links; ordering between links of the same subject is unspecified
// upstream and must be made deterministic by the resolver.
type Link struct {
	ID        int64  `json:"id"`
	SubjectID int64  `json:"zcasher_id"`
	URL       string `json:"url"`
	Label     string `json:"label"`
}

// VerificationEvent represents a completed proof-of-ownership event.
// Only events with Verified set and VerifiedAt inside the window are in
// scope for a run.
type VerificationEvent struct {
	SubjectID   int64     `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	VerifiedAt  time.Time `json:"verified_at"`
	Method      string    `json:"method"`
	LinkID      int64     `json:"link_id"`
	Verified    bool      `json:"verified"`
	Handle      *string   `json:"handle"`
}
