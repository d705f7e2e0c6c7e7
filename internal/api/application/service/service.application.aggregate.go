package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
)

// Sentinels returned by the aggregation functions.
const (
	AverageScoreNA    = "N/A"
	MajorityUndecided = "Undecided"
	MajorityTie       = "Undecided (Tie)"
)

// ReviewSummary is the derived view of an application's reviews. Pure
// function of the review list; every field is order-insensitive.
type ReviewSummary struct {
	AverageScore        string `json:"averageScore"`
	MajorityDecision    string `json:"majorityDecision"`
	RecommendationLabel string `json:"recommendationLabel"`
	FlaggedCount        int    `json:"flaggedCount"`
	ReviewCount         int    `json:"reviewCount"`
}

// AverageScore returns the mean of the scores present, formatted to one
// decimal place, or "N/A" when no review carries a score.
func AverageScore(reviews []models.ReviewEntry) string {
	total := 0.0
	count := 0
	for _, r := range reviews {
		if r.Score != nil {
			total += *r.Score
			count++
		}
	}
	if count == 0 {
		return AverageScoreNA
	}
	return fmt.Sprintf("%.1f", total/float64(count))
}

// MajorityDecision tallies decisions case-insensitively and returns the one
// with the strictly highest count. An exact tie returns the tie sentinel so
// the admin sees it rather than an arbitrary pick. Entries without a
// decision count as "undecided".
func MajorityDecision(reviews []models.ReviewEntry) string {
	if len(reviews) == 0 {
		return MajorityUndecided
	}

	counts := map[string]int{}
	for _, r := range reviews {
		d := lowerOrUndecided(r.Decision)
		counts[d]++
	}

	// Deterministic iteration so results never depend on map order.
	decisions := make([]string, 0, len(counts))
	for d := range counts {
		decisions = append(decisions, d)
	}
	sort.Strings(decisions)

	best := ""
	maxCount := 0
	tied := false
	for _, d := range decisions {
		switch {
		case counts[d] > maxCount:
			maxCount = counts[d]
			best = d
			tied = false
		case counts[d] == maxCount:
			tied = true
		}
	}

	if tied {
		return MajorityTie
	}
	return best
}

// FlaggedCount counts the reviews marked as flagged.
func FlaggedCount(reviews []models.ReviewEntry) int {
	count := 0
	for _, r := range reviews {
		if r.Flagged {
			count++
		}
	}
	return count
}

// RecommendationLabel maps a majority decision to its display label.
// Matching ignores case; unknown values pass through verbatim.
func RecommendationLabel(majority string) string {
	switch strings.ToLower(majority) {
	case "accept":
		return "Strong Accept"
	case "reject":
		return "Reject"
	case "waitlist":
		return "Waitlist"
	}
	return majority
}

// BuildReviewSummary computes the full derived view for the summary page.
func BuildReviewSummary(reviews []models.ReviewEntry) ReviewSummary {
	majority := MajorityDecision(reviews)
	return ReviewSummary{
		AverageScore:        AverageScore(reviews),
		MajorityDecision:    majority,
		RecommendationLabel: RecommendationLabel(majority),
		FlaggedCount:        FlaggedCount(reviews),
		ReviewCount:         len(reviews),
	}
}

func lowerOrUndecided(decision string) string {
	if decision == "" {
		return "undecided"
	}
	return strings.ToLower(decision)
}
