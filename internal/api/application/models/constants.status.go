// Package models - Status, stage and decision vocabularies for the
// application lifecycle.
package models

// Status is the candidate-visible lifecycle state.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusSubmitted        Status = "submitted"
	StatusUnderReview      Status = "under_review"
	StatusDecisionReleased Status = "decision_released"
	StatusEnrolled         Status = "enrolled"
	StatusRejected         Status = "rejected"
	StatusWaitlisted       Status = "waitlisted"
)

// Stage is the review sub-state carried while an application is being
// evaluated, independent of the public status.
type Stage string

const (
	StageFirstRound  Stage = "first_round"
	StageSecondRound Stage = "second_round"
)

// FirstRoundRecommendation is the vocabulary a reviewer may pick from in
// the first round. It overlaps with, but is not the same as, FinalDecision.
type FirstRoundRecommendation string

const (
	RecommendationSecondRound FirstRoundRecommendation = "second_round"
	RecommendationWaitlisted  FirstRoundRecommendation = "waitlisted"
	RecommendationRejected    FirstRoundRecommendation = "rejected"
)

// FinalDecision is the vocabulary for second-round reviews and the
// internal decision an admin marks for release.
type FinalDecision string

const (
	DecisionAccepted   FinalDecision = "accepted"
	DecisionRejected   FinalDecision = "rejected"
	DecisionWaitlisted FinalDecision = "waitlisted"
)

// FirstRoundRecommendations lists the valid first-round values.
var FirstRoundRecommendations = []FirstRoundRecommendation{
	RecommendationSecondRound,
	RecommendationWaitlisted,
	RecommendationRejected,
}

// FinalDecisions lists the valid second-round / internal decision values.
var FinalDecisions = []FinalDecision{
	DecisionAccepted,
	DecisionWaitlisted,
	DecisionRejected,
}

// DecisionToStatus is the release mapping. This table is the core business
// rule: releasing publishes the internal decision as the public status.
var DecisionToStatus = map[FinalDecision]Status{
	DecisionAccepted:   StatusDecisionReleased,
	DecisionRejected:   StatusRejected,
	DecisionWaitlisted: StatusWaitlisted,
}

// MapRecommendation converts a first-round recommendation to the final
// decision it implies. A "second_round" recommendation implies no final
// decision yet and returns false.
func MapRecommendation(rec FirstRoundRecommendation) (FinalDecision, bool) {
	switch rec {
	case RecommendationWaitlisted:
		return DecisionWaitlisted, true
	case RecommendationRejected:
		return DecisionRejected, true
	}
	return "", false
}

// IsValidFirstRoundRecommendation reports whether s is in the first-round
// vocabulary.
func IsValidFirstRoundRecommendation(s string) bool {
	for _, rec := range FirstRoundRecommendations {
		if string(rec) == s {
			return true
		}
	}
	return false
}

// IsValidFinalDecision reports whether s is in the final-decision
// vocabulary.
func IsValidFinalDecision(s string) bool {
	for _, dec := range FinalDecisions {
		if string(dec) == s {
			return true
		}
	}
	return false
}
