package compose

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zcashme/promotebot/internal/model"
)

func strPtr(s string) *string { return &s }

func TestUsersTweet_MixedHandles(t *testing.T) {
	users := []model.ReportUser{
		{ID: 1, Name: "Alice", Handle: strPtr("alice_99")},
		{ID: 2, Name: "Bob No Handle", Handle: nil},
		{ID: 3, Name: "Carol", Handle: strPtr("carol")},
	}

	tweet := UsersTweet(users, "2025-06-02T08:00Z")

	if !strings.Contains(tweet, "): 3\n") {
		t.Errorf("Expected count 3 in tweet:\n%s", tweet)
	}
	if !strings.Contains(tweet, "@alice_99, Bob No Handle, @carol") {
		t.Errorf("Expected per-entry handle fallback, got:\n%s", tweet)
	}
	if !strings.Contains(tweet, "2025-06-02T08:00Z UTC") {
		t.Errorf("Expected timestamp in tweet:\n%s", tweet)
	}
}

func TestUsersTweet_Empty(t *testing.T) {
	tweet := UsersTweet(nil, "2025-06-02T08:00Z")

	if !strings.Contains(tweet, "): 0\n") {
		t.Errorf("Expected count 0, got:\n%s", tweet)
	}
	if !strings.Contains(tweet, "no new users") {
		t.Errorf("Expected explicit empty phrasing, got:\n%s", tweet)
	}
}

func TestVerifiedTweet_Empty(t *testing.T) {
	tweet := VerifiedTweet(nil, "2025-06-02T08:00Z")

	if !strings.Contains(tweet, "no new verifications") {
		t.Errorf("Expected explicit empty phrasing, got:\n%s", tweet)
	}
}

func TestVerifiedTweet_Entries(t *testing.T) {
	verified := []model.ReportVerified{
		{ID: 5, Name: "Carol", Handle: strPtr("carol"), Method: "wallet_signature"},
		{ID: 6, Name: "Dave", Handle: nil, Method: "dns"},
	}

	tweet := VerifiedTweet(verified, "2025-06-02T08:00Z")

	if !strings.Contains(tweet, "Props to: @carol, Dave") {
		t.Errorf("Unexpected mention list:\n%s", tweet)
	}
	if !strings.Contains(tweet, "): 2\n") {
		t.Errorf("Expected count 2, got:\n%s", tweet)
	}
}

// Count in the rendered tweet always equals the group length.
func TestTweetCountMatchesGroupLength(t *testing.T) {
	for n := 0; n <= 5; n++ {
		users := make([]model.ReportUser, n)
		for i := range users {
			users[i] = model.ReportUser{ID: int64(i), Name: fmt.Sprintf("user%d", i)}
		}

		tweet := UsersTweet(users, "2025-06-02T08:00Z")
		if !strings.Contains(tweet, fmt.Sprintf("): %d\n", n)) {
			t.Errorf("Expected count %d in tweet:\n%s", n, tweet)
		}
	}
}

func TestCompose_Deterministic(t *testing.T) {
	users := []model.ReportUser{{ID: 1, Name: "Alice", Handle: strPtr("alice")}}
	verified := []model.ReportVerified{{ID: 2, Name: "Bob", Method: "wallet_signature"}}

	u1, v1 := Compose(users, verified, "2025-06-02T08:00Z")
	u2, v2 := Compose(users, verified, "2025-06-02T08:00Z")

	if u1 != u2 || v1 != v2 {
		t.Error("Compose must be deterministic for identical inputs")
	}
}
