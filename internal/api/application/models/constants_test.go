package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecisionToStatusCoversEveryDecision(t *testing.T) {
	for _, decision := range FinalDecisions {
		_, ok := DecisionToStatus[decision]
		assert.True(t, ok, "decision %q has no release status", decision)
	}
	assert.Equal(t, StatusDecisionReleased, DecisionToStatus[DecisionAccepted])
	assert.Equal(t, StatusRejected, DecisionToStatus[DecisionRejected])
	assert.Equal(t, StatusWaitlisted, DecisionToStatus[DecisionWaitlisted])
}

func TestMapRecommendation(t *testing.T) {
	final, ok := MapRecommendation(RecommendationWaitlisted)
	assert.True(t, ok)
	assert.Equal(t, DecisionWaitlisted, final)

	final, ok = MapRecommendation(RecommendationRejected)
	assert.True(t, ok)
	assert.Equal(t, DecisionRejected, final)

	// Advancing to a second round implies no final decision.
	_, ok = MapRecommendation(RecommendationSecondRound)
	assert.False(t, ok)
}

func TestVocabularyValidators(t *testing.T) {
	assert.True(t, IsValidFirstRoundRecommendation("second_round"))
	assert.True(t, IsValidFirstRoundRecommendation("waitlisted"))
	assert.True(t, IsValidFirstRoundRecommendation("rejected"))
	assert.False(t, IsValidFirstRoundRecommendation("accepted"))

	assert.True(t, IsValidFinalDecision("accepted"))
	assert.True(t, IsValidFinalDecision("waitlisted"))
	assert.True(t, IsValidFinalDecision("rejected"))
	assert.False(t, IsValidFinalDecision("second_round"))
}

func TestMissingRequiredFields(t *testing.T) {
	data := map[string]interface{}{}
	for _, field := range EssayFields {
		data[field.ID] = "filled"
	}
	assert.Empty(t, MissingRequiredFields(data))

	delete(data, "aboutMe")
	data["dietary"] = ""
	missing := MissingRequiredFields(data)
	assert.Equal(t, []string{"About Yourself", "Dietary Requirements"}, missing)
}

func TestAvailabilityToleratesDecodedTypes(t *testing.T) {
	app := Application{FormData: map[string]interface{}{
		"availability": []interface{}{"Aug 6-10: Hangzhou", 42, "Aug 13-17: Shanghai"},
	}}
	assert.Equal(t, []string{"Aug 6-10: Hangzhou", "Aug 13-17: Shanghai"}, app.Availability())

	app.FormData["availability"] = []string{"Aug 6-10: Hangzhou"}
	assert.Equal(t, []string{"Aug 6-10: Hangzhou"}, app.Availability())

	app.FormData = nil
	assert.Nil(t, app.Availability())
}

func TestCurrentStageDefaultsToFirstRound(t *testing.T) {
	app := Application{}
	assert.Equal(t, StageFirstRound, app.CurrentStage())

	app.AdminData = &AdminData{Stage: StageSecondRound}
	assert.Equal(t, StageSecondRound, app.CurrentStage())
}
