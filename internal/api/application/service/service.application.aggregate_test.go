package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
)

func reviewWithScore(score float64, decision string) models.ReviewEntry {
	return models.ReviewEntry{Score: &score, Decision: decision}
}

func TestAverageScore(t *testing.T) {
	cases := []struct {
		name    string
		reviews []models.ReviewEntry
		want    string
	}{
		{"no reviews", nil, "N/A"},
		{"no scores", []models.ReviewEntry{{Decision: "accept"}}, "N/A"},
		{"single score", []models.ReviewEntry{reviewWithScore(7, "accept")}, "7.0"},
		{
			"mixed scores",
			[]models.ReviewEntry{
				reviewWithScore(9, "accept"),
				reviewWithScore(7.5, "accept"),
				reviewWithScore(8.8, "waitlist"),
			},
			"8.4",
		},
		{
			"scoreless entries are excluded from the mean",
			[]models.ReviewEntry{
				reviewWithScore(8, "accept"),
				{Decision: "accept"},
			},
			"8.0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AverageScore(tc.reviews))
		})
	}
}

func TestMajorityDecision(t *testing.T) {
	cases := []struct {
		name    string
		reviews []models.ReviewEntry
		want    string
	}{
		{"no reviews", nil, "Undecided"},
		{
			"clear majority",
			[]models.ReviewEntry{
				{Decision: "accept"}, {Decision: "accept"}, {Decision: "reject"},
			},
			"accept",
		},
		{
			"tie",
			[]models.ReviewEntry{
				{Decision: "accept"}, {Decision: "reject"},
			},
			"Undecided (Tie)",
		},
		{
			"case insensitive tally",
			[]models.ReviewEntry{
				{Decision: "Accept"}, {Decision: "accept"}, {Decision: "reject"},
			},
			"accept",
		},
		{
			"empty decisions count as undecided",
			[]models.ReviewEntry{
				{Decision: ""}, {Decision: ""}, {Decision: "accept"},
			},
			"undecided",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MajorityDecision(tc.reviews))
		})
	}
}

func TestMajorityDecisionIsOrderInvariant(t *testing.T) {
	forward := []models.ReviewEntry{
		{Decision: "accept"}, {Decision: "reject"}, {Decision: "accept"},
	}
	backward := []models.ReviewEntry{
		{Decision: "accept"}, {Decision: "reject"}, {Decision: "accept"},
	}
	for i, j := 0, len(backward)-1; i < j; i, j = i+1, j-1 {
		backward[i], backward[j] = backward[j], backward[i]
	}
	assert.Equal(t, MajorityDecision(forward), MajorityDecision(backward))
}

func TestRecommendationLabel(t *testing.T) {
	assert.Equal(t, "Strong Accept", RecommendationLabel("accept"))
	assert.Equal(t, "Reject", RecommendationLabel("reject"))
	assert.Equal(t, "Waitlist", RecommendationLabel("waitlist"))
	// Matching is case-insensitive.
	assert.Equal(t, "Strong Accept", RecommendationLabel("Accept"))
	assert.Equal(t, "Reject", RecommendationLabel("REJECT"))
	assert.Equal(t, "Waitlist", RecommendationLabel("Waitlist"))
	// Unknown values pass through.
	assert.Equal(t, "Undecided (Tie)", RecommendationLabel("Undecided (Tie)"))
	assert.Equal(t, "accepted", RecommendationLabel("accepted"))
}

func TestFlaggedCount(t *testing.T) {
	reviews := []models.ReviewEntry{
		{Flagged: true}, {Flagged: false}, {Flagged: true},
	}
	assert.Equal(t, 2, FlaggedCount(reviews))
	assert.Equal(t, 0, FlaggedCount(nil))
}

func TestBuildReviewSummary(t *testing.T) {
	reviews := []models.ReviewEntry{
		reviewWithScore(9, "accept"),
		reviewWithScore(8, "accept"),
		{Decision: "reject", Flagged: true},
	}
	summary := BuildReviewSummary(reviews)
	assert.Equal(t, "8.5", summary.AverageScore)
	assert.Equal(t, "accept", summary.MajorityDecision)
	assert.Equal(t, "Strong Accept", summary.RecommendationLabel)
	assert.Equal(t, 1, summary.FlaggedCount)
	assert.Equal(t, 3, summary.ReviewCount)
}
