package services

import (
	"context"
	"strings"

	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
	"github.com/JennyYuanZW/JianshanPortal/internal/common"
	"github.com/JennyYuanZW/JianshanPortal/internal/logger"
)

// ReviewInput is a reviewer's assessment of one application.
type ReviewInput struct {
	Author     string
	Score      *float64
	Decision   string
	Comment    string
	Flagged    bool
	FlagReason string
	// Stage optionally pins the round being reviewed; when empty the
	// application's current stage is used.
	Stage models.Stage
}

// RecordReview appends a review entry and applies its side effects: the
// application moves to under_review, a first-round "second_round"
// recommendation advances the stage, and decisions update the internal
// decision. The entry itself is appended atomically, so concurrent
// reviewers never overwrite each other.
//
// Round rules: a first-round review requires a comment and must use the
// first-round vocabulary; a second-round review requires a score and must
// use the final-decision vocabulary.
func (s *ApplicationService) RecordReview(ctx context.Context, userID string, input ReviewInput) (*models.Application, error) {
	app, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if app.Status != models.StatusSubmitted && app.Status != models.StatusUnderReview {
		return nil, common.NewStateError("Application is not under evaluation")
	}
	if input.Author == "" {
		return nil, common.NewValidationError("Reviewer identity is required", nil)
	}

	stage := input.Stage
	if stage == "" {
		stage = app.CurrentStage()
	}

	decision := strings.ToLower(strings.TrimSpace(input.Decision))
	now := s.now()

	set := map[string]interface{}{
		"status":          models.StatusUnderReview,
		"adminData.stage": stage,
		"lastUpdatedAt":   now,
	}

	switch stage {
	case models.StageFirstRound:
		if strings.TrimSpace(input.Comment) == "" {
			return nil, common.NewValidationError("A comment is required for first round reviews", nil)
		}
		if !models.IsValidFirstRoundRecommendation(decision) {
			return nil, common.NewValidationError("Unknown first round recommendation", decision)
		}
		rec := models.FirstRoundRecommendation(decision)
		if rec == models.RecommendationSecondRound {
			// Advancing to the second round is a stage change only; the
			// public status is untouched.
			set["adminData.stage"] = models.StageSecondRound
		} else if final, ok := models.MapRecommendation(rec); ok {
			set["adminData.internalDecision"] = final
		}

	case models.StageSecondRound:
		if input.Score == nil {
			return nil, common.NewValidationError("A score is required for second round reviews", nil)
		}
		if *input.Score < 0 || *input.Score > 5 {
			return nil, common.NewValidationError("Second round scores must be between 0 and 5", *input.Score)
		}
		if !models.IsValidFinalDecision(decision) {
			return nil, common.NewValidationError("Unknown second round decision", decision)
		}
		set["adminData.internalDecision"] = models.FinalDecision(decision)
		set["adminData.reviewScore"] = *input.Score

	default:
		return nil, common.NewValidationError("Unknown review stage", string(stage))
	}

	entry := models.ReviewEntry{
		Author:     input.Author,
		Score:      input.Score,
		Decision:   decision,
		Comment:    input.Comment,
		Flagged:    input.Flagged,
		FlagReason: input.FlagReason,
		Date:       now,
	}

	updated, err := s.repo.Append(ctx, userID, "adminData.reviews", entry, set)
	if err != nil {
		return nil, err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"userId":   userID,
		"author":   input.Author,
		"stage":    stage,
		"decision": decision,
	}).Info("Review recorded")
	return updated, nil
}

// SetInternalDecision marks the decision to be released. May be overwritten
// any number of times before release; changing it after a release has no
// public effect until the next release action.
func (s *ApplicationService) SetInternalDecision(ctx context.Context, userID string, decision string) (*models.Application, error) {
	decision = strings.ToLower(strings.TrimSpace(decision))
	if !models.IsValidFinalDecision(decision) {
		return nil, common.NewValidationError("Unknown decision value", decision)
	}

	set := map[string]interface{}{
		"adminData.internalDecision": models.FinalDecision(decision),
		"lastUpdatedAt":              s.now(),
	}
	return s.repo.Update(ctx, userID, set, nil)
}

// SetAllocation assigns the candidate to a camp. An empty allocation clears
// the field, returning the record to the unallocated pool.
func (s *ApplicationService) SetAllocation(ctx context.Context, userID string, allocation string) (*models.Application, error) {
	allocation = strings.TrimSpace(allocation)

	set := map[string]interface{}{"lastUpdatedAt": s.now()}
	var unset []string
	if allocation == "" {
		unset = []string{"adminData.campAllocation"}
	} else {
		set["adminData.campAllocation"] = allocation
	}
	return s.repo.Update(ctx, userID, set, unset)
}

// AddNote appends an admin note. Notes are append-only; existing entries
// are never edited or removed.
func (s *ApplicationService) AddNote(ctx context.Context, userID string, author string, content string) (*models.Application, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.NewValidationError("Note content is required", nil)
	}
	if author == "" {
		return nil, common.NewValidationError("Note author is required", nil)
	}

	now := s.now()
	note := models.NoteEntry{
		Author:  author,
		Content: content,
		Date:    now,
	}
	set := map[string]interface{}{"lastUpdatedAt": now}

	return s.repo.Append(ctx, userID, "adminData.notes", note, set)
}
