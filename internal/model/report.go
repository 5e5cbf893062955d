package model

// Report is the sole artifact crossing the system boundary. It is built
// once per run and immutable after creation. Field order is fixed so the
// JSON artifact is byte-deterministic and diffable by the downstream
// publishing step.
type Report struct {
	TimestampUTC  string           `json:"timestamp_utc"`
	Users         []ReportUser     `json:"users"`
	Verified      []ReportVerified `json:"verified"`
	TweetUsers    string           `json:"tweet_users"`
	TweetVerified string           `json:"tweet_verified"`
}

// ReportUser is a new member entry in the structured record.
// Handle is null when no profile link yielded a valid handle.
type ReportUser struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Handle *string `json:"handle"`
}

// ReportVerified is a newly verified member entry in the structured record.
type ReportVerified struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Handle *string `json:"handle"`
	Method string  `json:"method"`
}

// NewReport constructs a report with non-nil groups so empty windows
// serialize as [] rather than null.
func NewReport(ts string, users []ReportUser, verified []ReportVerified, tweetUsers, tweetVerified string) *Report {
	if users == nil {
		users = []ReportUser{}
	}
	if verified == nil {
		verified = []ReportVerified{}
	}
	return &Report{
		TimestampUTC:  ts,
		Users:         users,
		Verified:      verified,
		TweetUsers:    tweetUsers,
		TweetVerified: tweetVerified,
	}
}
