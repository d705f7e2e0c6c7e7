package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
	"github.com/JennyYuanZW/JianshanPortal/internal/common"
	"github.com/JennyYuanZW/JianshanPortal/internal/logger"
)

// Notifier delivers candidate-facing notifications for lifecycle events.
// A nil Notifier disables notifications.
type Notifier interface {
	NotifyDecisionReleased(ctx context.Context, app *models.Application) error
}

// ApplicationService implements the application lifecycle: state
// transitions, their guards and side effects. Storage and notification are
// injected so the engine itself stays testable.
type ApplicationService struct {
	repo     models.ApplicationRepository
	notifier Notifier
	now      func() int64
}

// NewApplicationService creates the lifecycle service. notifier may be nil.
func NewApplicationService(repo models.ApplicationRepository, notifier Notifier) *ApplicationService {
	return &ApplicationService{
		repo:     repo,
		notifier: notifier,
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// SetClock overrides the time source. Used by tests.
func (s *ApplicationService) SetClock(now func() int64) {
	s.now = now
}

// GetOrCreate returns the candidate's application, creating a draft record
// with a registration timestamp on first access. Creation is idempotent
// because the document is keyed by userId.
func (s *ApplicationService) GetOrCreate(ctx context.Context, userID string) (*models.Application, error) {
	if userID == "" {
		return nil, common.ErrRequiredField
	}

	app, err := s.repo.Get(ctx, userID)
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	fresh := &models.Application{
		UserID:        userID,
		Status:        models.StatusDraft,
		FormData:      map[string]interface{}{},
		Timeline:      models.Timeline{RegisteredAt: now},
		LastUpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, fresh)
	if err != nil {
		// Another request may have created the record first.
		if errors.Is(err, common.ErrDuplicate) {
			return s.repo.Get(ctx, userID)
		}
		return nil, err
	}

	logger.GetAppLogger().WithField("userId", userID).Info("Created draft application")
	return created, nil
}

// Get returns the application without self-healing. Used by admin views,
// where a missing record is a terminal not-found.
func (s *ApplicationService) Get(ctx context.Context, userID string) (*models.Application, error) {
	if userID == "" {
		return nil, common.ErrRequiredField
	}
	return s.repo.Get(ctx, userID)
}

// SaveForm replaces the candidate's form data and recomputes the personal
// info snapshot in the same write, so the two never diverge. Only allowed
// while the application is a draft.
func (s *ApplicationService) SaveForm(ctx context.Context, userID string, formData map[string]interface{}) (*models.Application, error) {
	app, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.StatusDraft {
		return nil, common.NewStateError("Application can no longer be edited after submission")
	}
	if formData == nil {
		formData = map[string]interface{}{}
	}

	snapshot := BuildSnapshot(formData)
	set := map[string]interface{}{
		"formData":             formData,
		"personalInfoSnapshot": snapshot,
		"lastUpdatedAt":        s.now(),
	}
	return s.repo.Update(ctx, userID, set, nil)
}

// Submit moves a draft to submitted, after validating that every required
// field is filled. Validation failures never touch storage.
func (s *ApplicationService) Submit(ctx context.Context, userID string) (*models.Application, error) {
	app, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.StatusDraft {
		return nil, common.NewStateError("Only a draft application can be submitted")
	}

	if missing := models.MissingRequiredFields(app.FormData); len(missing) > 0 {
		return nil, common.NewValidationError("Required fields are missing", missing)
	}

	now := s.now()
	set := map[string]interface{}{
		"status":               models.StatusSubmitted,
		"timeline.submittedAt": now,
		"lastUpdatedAt":        now,
	}

	updated, err := s.repo.Update(ctx, userID, set, nil)
	if err != nil {
		return nil, err
	}
	logger.GetAppLogger().WithField("userId", userID).Info("Application submitted")
	return updated, nil
}

// Release publishes the internal decision as the candidate-visible status,
// per the DecisionToStatus table. Fails when no internal decision is set.
func (s *ApplicationService) Release(ctx context.Context, userID string) (*models.Application, error) {
	app, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if app.AdminData == nil || app.AdminData.InternalDecision == "" {
		return nil, common.ErrNoDecisionToRelease
	}

	publicStatus, ok := models.DecisionToStatus[app.AdminData.InternalDecision]
	if !ok {
		return nil, common.NewStateError("Internal decision has an unknown value")
	}

	now := s.now()
	set := map[string]interface{}{
		"status":                      publicStatus,
		"timeline.decisionReleasedAt": now,
		"lastUpdatedAt":               now,
	}

	updated, err := s.repo.Update(ctx, userID, set, nil)
	if err != nil {
		return nil, err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"userId":   userID,
		"decision": app.AdminData.InternalDecision,
		"status":   publicStatus,
	}).Info("Decision released")

	if s.notifier != nil {
		if err := s.notifier.NotifyDecisionReleased(ctx, updated); err != nil {
			// Notification failure must not roll back the release.
			logger.GetErrorLogger().WithError(err).WithField("userId", userID).Error("Decision notification failed")
		}
	}
	return updated, nil
}

// AcceptOffer moves a released application to enrolled.
func (s *ApplicationService) AcceptOffer(ctx context.Context, userID string) (*models.Application, error) {
	app, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.StatusDecisionReleased {
		return nil, common.NewStateError("Offer can only be accepted after a decision is released")
	}

	now := s.now()
	set := map[string]interface{}{
		"status":              models.StatusEnrolled,
		"timeline.enrolledAt": now,
		"lastUpdatedAt":       now,
	}
	return s.repo.Update(ctx, userID, set, nil)
}

// AdvanceStatus steps an application to its next lifecycle state. This is
// the admin tooling shortcut: submitted -> under_review ->
// decision_released -> enrolled. Any other status is rejected.
func (s *ApplicationService) AdvanceStatus(ctx context.Context, userID string) (*models.Application, error) {
	app, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	set := map[string]interface{}{"lastUpdatedAt": now}

	switch app.Status {
	case models.StatusSubmitted:
		set["status"] = models.StatusUnderReview
	case models.StatusUnderReview:
		set["status"] = models.StatusDecisionReleased
		set["timeline.decisionReleasedAt"] = now
	case models.StatusDecisionReleased:
		set["status"] = models.StatusEnrolled
		set["timeline.enrolledAt"] = now
	default:
		return nil, common.NewStateError("Status cannot be advanced from " + string(app.Status))
	}

	return s.repo.Update(ctx, userID, set, nil)
}

// Reset reverts an application to draft and clears the submission-related
// timestamps. The record and its form data survive.
func (s *ApplicationService) Reset(ctx context.Context, userID string) (*models.Application, error) {
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return nil, err
	}

	set := map[string]interface{}{
		"status":        models.StatusDraft,
		"lastUpdatedAt": s.now(),
	}
	unset := []string{
		"timeline.submittedAt",
		"timeline.decisionReleasedAt",
		"timeline.enrolledAt",
	}

	updated, err := s.repo.Update(ctx, userID, set, unset)
	if err != nil {
		return nil, err
	}
	logger.GetAuditLogger().WithField("userId", userID).Warn("Application reset to draft")
	return updated, nil
}

// ListAll returns the applications for the admin roster, newest first.
func (s *ApplicationService) ListAll(ctx context.Context, opts models.ListOptions) ([]models.Application, error) {
	return s.repo.ListAll(ctx, opts)
}

// BuildSnapshot derives the denormalized personal info projection from the
// form data. fullName is split into first word / rest; school falls back to
// the year of study when no dedicated school field exists.
func BuildSnapshot(formData map[string]interface{}) models.PersonalInfoSnapshot {
	getString := func(key string) string {
		if s, ok := formData[key].(string); ok {
			return s
		}
		return ""
	}

	fullName := strings.TrimSpace(getString("fullName"))
	firstName := ""
	lastName := ""
	if fullName != "" {
		parts := strings.Fields(fullName)
		firstName = parts[0]
		lastName = strings.Join(parts[1:], " ")
	}

	school := getString("school")
	if school == "" {
		school = getString("yearOfStudy")
	}

	return models.PersonalInfoSnapshot{
		FirstName: firstName,
		LastName:  lastName,
		Email:     getString("email"),
		School:    school,
		Grade:     getString("yearOfStudy"),
	}
}
