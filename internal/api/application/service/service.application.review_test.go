package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
	"github.com/JennyYuanZW/JianshanPortal/internal/common"
)

func floatPtr(v float64) *float64 { return &v }

func TestRecordReviewRequiresEvaluationStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "reviewer@example.com",
		Decision: "rejected",
		Comment:  "incomplete",
	})
	var stateErr *common.Error
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, common.ErrCodeBusinessState, stateErr.Code)
}

func TestRecordReviewMovesApplicationUnderReview(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	app, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "reviewer@example.com",
		Decision: "second_round",
		Comment:  "strong essays",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, app.Status)
	require.NotNil(t, app.AdminData)
	require.Len(t, app.AdminData.Reviews, 1)
	assert.Equal(t, "reviewer@example.com", app.AdminData.Reviews[0].Author)
}

func TestFirstRoundReviewRequiresComment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	_, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "reviewer@example.com",
		Decision: "rejected",
	})
	var valErr *common.Error
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, common.ErrCodeValidationInput, valErr.Code)
}

func TestFirstRoundReviewVocabulary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	// "accepted" belongs to the second round vocabulary only.
	_, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "reviewer@example.com",
		Decision: "accepted",
		Comment:  "great",
	})
	var valErr *common.Error
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, common.ErrCodeValidationInput, valErr.Code)
}

func TestSecondRoundRecommendationAdvancesStageOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	app, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "reviewer@example.com",
		Decision: "second_round",
		Comment:  "promising",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageSecondRound, app.CurrentStage())
	// Status stays in evaluation, and no internal decision is marked.
	assert.Equal(t, models.StatusUnderReview, app.Status)
	assert.Empty(t, app.AdminData.InternalDecision)
}

func TestFirstRoundDecisionSetsInternalDecision(t *testing.T) {
	cases := []struct {
		decision string
		want     models.FinalDecision
	}{
		{"waitlisted", models.DecisionWaitlisted},
		{"rejected", models.DecisionRejected},
	}
	for _, tc := range cases {
		t.Run(tc.decision, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()
			submitApplication(t, svc, "user-1")

			app, err := svc.RecordReview(ctx, "user-1", ReviewInput{
				Author:   "reviewer@example.com",
				Decision: tc.decision,
				Comment:  "reviewed",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, app.AdminData.InternalDecision)
			// First round decisions never change the stage.
			assert.Equal(t, models.StageFirstRound, app.CurrentStage())
		})
	}
}

func TestSecondRoundReviewRequiresScore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	_, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "reviewer@example.com",
		Decision: "accepted",
		Stage:    models.StageSecondRound,
	})
	var valErr *common.Error
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, common.ErrCodeValidationInput, valErr.Code)
}

func TestSecondRoundScoreOutOfRange(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	for _, score := range []float64{8.5, -1, 5.01} {
		_, err := svc.RecordReview(ctx, "user-1", ReviewInput{
			Author:   "reviewer@example.com",
			Decision: "accepted",
			Score:    floatPtr(score),
			Stage:    models.StageSecondRound,
		})
		var valErr *common.Error
		require.ErrorAs(t, err, &valErr, "score %v", score)
		assert.Equal(t, common.ErrCodeValidationInput, valErr.Code)
	}

	app, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, app.AdminData.Reviews)
	assert.Zero(t, app.AdminData.ReviewScore)
}

func TestSecondRoundReviewVocabulary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	// "second_round" is not a valid final decision.
	_, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "reviewer@example.com",
		Decision: "second_round",
		Score:    floatPtr(4),
		Stage:    models.StageSecondRound,
	})
	var valErr *common.Error
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, common.ErrCodeValidationInput, valErr.Code)
}

func TestSecondRoundReviewSetsDecisionAndScore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	app, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "reviewer@example.com",
		Decision: "Accepted",
		Score:    floatPtr(4.5),
		Stage:    models.StageSecondRound,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DecisionAccepted, app.AdminData.InternalDecision)
	assert.Equal(t, 4.5, app.AdminData.ReviewScore)
	require.Len(t, app.AdminData.Reviews, 1)
	// Decisions are normalized to lower case before storage.
	assert.Equal(t, "accepted", app.AdminData.Reviews[0].Decision)
}

func TestReviewsAccumulateAcrossReviewers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	_, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "alice@example.com",
		Decision: "second_round",
		Comment:  "good",
	})
	require.NoError(t, err)

	app, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:   "bob@example.com",
		Decision: "waitlisted",
		Score:    floatPtr(3),
		Stage:    models.StageSecondRound,
	})
	require.NoError(t, err)
	require.Len(t, app.AdminData.Reviews, 2)
	assert.Equal(t, "alice@example.com", app.AdminData.Reviews[0].Author)
	assert.Equal(t, "bob@example.com", app.AdminData.Reviews[1].Author)
}

func TestRecordReviewKeepsFlag(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	app, err := svc.RecordReview(ctx, "user-1", ReviewInput{
		Author:     "reviewer@example.com",
		Decision:   "rejected",
		Comment:    "plagiarized essay",
		Flagged:    true,
		FlagReason: "possible plagiarism",
	})
	require.NoError(t, err)
	require.Len(t, app.AdminData.Reviews, 1)
	assert.True(t, app.AdminData.Reviews[0].Flagged)
	assert.Equal(t, "possible plagiarism", app.AdminData.Reviews[0].FlagReason)
}
