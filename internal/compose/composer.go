package compose

import (
	"fmt"
	"strings"

	"github.com/zcashme/promotebot/internal/model"
)

// Placeholder text for empty windows. An empty group still renders an
// informative, diff-stable line rather than an empty string.
const (
	noNewUsers         = "no new users"
	noNewVerifications = "no new verifications"
)

// Compose builds the two tweet-style summaries for a run.
func Compose(users []model.ReportUser, verified []model.ReportVerified, ts string) (tweetUsers, tweetVerified string) {
	return UsersTweet(users, ts), VerifiedTweet(verified, ts)
}

// UsersTweet renders the new-member announcement. Every subject appears
// exactly once: as @handle when one was resolved, as the plain display
// name otherwise.
func UsersTweet(users []model.ReportUser, ts string) string {
	entries := make([]string, 0, len(users))
	for _, u := range users {
		entries = append(entries, mention(u.Name, u.Handle))
	}

	list := noNewUsers
	if len(entries) > 0 {
		list = strings.Join(entries, ", ")
	}

	return fmt.Sprintf(
		"🚀 New to ZcashMe (last 24h since %s UTC): %d\nHelp us welcome: %s\n\nP.S. Easiest way to Zcash you is ZcashMe in your bio 😉",
		ts, len(users), list,
	)
}

// VerifiedTweet renders the newly-verified announcement.
func VerifiedTweet(verified []model.ReportVerified, ts string) string {
	entries := make([]string, 0, len(verified))
	for _, v := range verified {
		entries = append(entries, mention(v.Name, v.Handle))
	}

	list := noNewVerifications
	if len(entries) > 0 {
		list = strings.Join(entries, ", ")
	}

	return fmt.Sprintf(
		"🔐 Newly verified on ZcashMe (last 24h since %s UTC): %d\nProps to: %s\n\nP.S. Secure your ZcashMe profile to unlock full trust ✓",
		ts, len(verified), list,
	)
}

// mention renders one list entry. Handles are never fabricated; a subject
// without one falls back to its display name.
func mention(name string, handle *string) string {
	if handle != nil && *handle != "" {
		return "@" + *handle
	}
	return name
}
