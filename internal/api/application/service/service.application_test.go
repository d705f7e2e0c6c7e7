package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
	"github.com/JennyYuanZW/JianshanPortal/internal/common"
)

// memoryRepository is an in-memory ApplicationRepository used by the
// service tests. It mirrors the partial-update semantics of the Mongo
// implementation for the field paths the service writes.
type memoryRepository struct {
	mu   sync.Mutex
	apps map[string]*models.Application
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{apps: map[string]*models.Application{}}
}

func cloneApplication(app *models.Application) *models.Application {
	clone := *app
	if app.FormData != nil {
		clone.FormData = map[string]interface{}{}
		for k, v := range app.FormData {
			clone.FormData[k] = v
		}
	}
	if app.AdminData != nil {
		adminData := *app.AdminData
		adminData.Reviews = append([]models.ReviewEntry(nil), app.AdminData.Reviews...)
		adminData.Notes = append([]models.NoteEntry(nil), app.AdminData.Notes...)
		clone.AdminData = &adminData
	}
	return &clone
}

func (m *memoryRepository) Get(ctx context.Context, userID string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneApplication(app), nil
}

func (m *memoryRepository) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[app.UserID]; ok {
		return nil, common.ErrDuplicate
	}
	m.apps[app.UserID] = cloneApplication(app)
	return cloneApplication(app), nil
}

func (m *memoryRepository) Update(ctx context.Context, userID string, set map[string]interface{}, unset []string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	for field, value := range set {
		m.applyField(app, field, value)
	}
	for _, field := range unset {
		m.clearField(app, field)
	}
	return cloneApplication(app), nil
}

func (m *memoryRepository) Append(ctx context.Context, userID string, field string, value interface{}, set map[string]interface{}) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	ensureAdminData(app)
	switch field {
	case "adminData.reviews":
		app.AdminData.Reviews = append(app.AdminData.Reviews, value.(models.ReviewEntry))
	case "adminData.notes":
		app.AdminData.Notes = append(app.AdminData.Notes, value.(models.NoteEntry))
	default:
		return nil, errors.New("unsupported append field: " + field)
	}
	for f, v := range set {
		m.applyField(app, f, v)
	}
	return cloneApplication(app), nil
}

func (m *memoryRepository) ListAll(ctx context.Context, opts models.ListOptions) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Application, 0, len(m.apps))
	for _, app := range m.apps {
		out = append(out, *cloneApplication(app))
	}
	return out, nil
}

func ensureAdminData(app *models.Application) {
	if app.AdminData == nil {
		app.AdminData = &models.AdminData{}
	}
}

func (m *memoryRepository) applyField(app *models.Application, field string, value interface{}) {
	switch field {
	case "status":
		app.Status = value.(models.Status)
	case "formData":
		app.FormData = value.(map[string]interface{})
	case "personalInfoSnapshot":
		app.PersonalInfoSnapshot = value.(models.PersonalInfoSnapshot)
	case "lastUpdatedAt":
		app.LastUpdatedAt = value.(int64)
	case "timeline.submittedAt":
		app.Timeline.SubmittedAt = value.(int64)
	case "timeline.decisionReleasedAt":
		app.Timeline.DecisionReleasedAt = value.(int64)
	case "timeline.enrolledAt":
		app.Timeline.EnrolledAt = value.(int64)
	case "adminData.stage":
		ensureAdminData(app)
		app.AdminData.Stage = value.(models.Stage)
	case "adminData.internalDecision":
		ensureAdminData(app)
		app.AdminData.InternalDecision = value.(models.FinalDecision)
	case "adminData.reviewScore":
		ensureAdminData(app)
		app.AdminData.ReviewScore = value.(float64)
	case "adminData.campAllocation":
		ensureAdminData(app)
		app.AdminData.CampAllocation = value.(string)
	}
}

func (m *memoryRepository) clearField(app *models.Application, field string) {
	switch field {
	case "timeline.submittedAt":
		app.Timeline.SubmittedAt = 0
	case "timeline.decisionReleasedAt":
		app.Timeline.DecisionReleasedAt = 0
	case "timeline.enrolledAt":
		app.Timeline.EnrolledAt = 0
	case "adminData.campAllocation":
		if app.AdminData != nil {
			app.AdminData.CampAllocation = ""
		}
	}
}

// recordingNotifier captures decision-release notifications.
type recordingNotifier struct {
	notified []string
	fail     bool
}

func (n *recordingNotifier) NotifyDecisionReleased(ctx context.Context, app *models.Application) error {
	if n.fail {
		return errors.New("smtp unreachable")
	}
	n.notified = append(n.notified, app.UserID)
	return nil
}

func newTestService(t *testing.T) (*ApplicationService, *memoryRepository) {
	t.Helper()
	repo := newMemoryRepository()
	svc := NewApplicationService(repo, nil)
	clock := int64(1000)
	svc.SetClock(func() int64 {
		clock++
		return clock
	})
	return svc, repo
}

// completeFormData fills every required field.
func completeFormData() map[string]interface{} {
	data := map[string]interface{}{}
	for _, field := range models.EssayFields {
		data[field.ID] = "answer for " + field.ID
	}
	data["fullName"] = "Mei Ling Chen"
	data["email"] = "mei@example.com"
	data["yearOfStudy"] = "Grade 11"
	data["subjectGroup"] = "Physics"
	data["availability"] = []string{"Aug 6-10: Hangzhou"}
	return data
}

func submitApplication(t *testing.T, svc *ApplicationService, userID string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	_, err = svc.SaveForm(ctx, userID, completeFormData())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, userID)
	require.NoError(t, err)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, first.Status)
	assert.NotZero(t, first.Timeline.RegisteredAt)

	second, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.Timeline.RegisteredAt, second.Timeline.RegisteredAt)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestGetOrCreateRequiresUserID(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetOrCreate(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrRequiredField)
}

func TestSaveFormRecomputesSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	app, err := svc.SaveForm(ctx, "user-1", map[string]interface{}{
		"fullName":    "",
		"email":       "mei@example.com",
		"yearOfStudy": "Grade 11",
	})
	require.NoError(t, err)
	assert.Equal(t, "mei@example.com", app.PersonalInfoSnapshot.Email)
	assert.Equal(t, "Grade 11", app.PersonalInfoSnapshot.Grade)
	// No dedicated school field, year of study stands in.
	assert.Equal(t, "Grade 11", app.PersonalInfoSnapshot.School)
}

func TestSaveFormSplitsFullName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	app, err := svc.SaveForm(ctx, "user-1", map[string]interface{}{
		"fullName": "Mei Ling Chen",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mei", app.PersonalInfoSnapshot.FirstName)
	assert.Equal(t, "Ling Chen", app.PersonalInfoSnapshot.LastName)
}

func TestSaveFormRejectedAfterSubmission(t *testing.T) {
	svc, _ := newTestService(t)
	submitApplication(t, svc, "user-1")

	_, err := svc.SaveForm(context.Background(), "user-1", map[string]interface{}{"fullName": "X"})
	var stateErr *common.Error
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, common.ErrCodeBusinessState, stateErr.Code)
}

func TestSubmitRejectsIncompleteForm(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	data := completeFormData()
	delete(data, "aboutMe")
	data["interest"] = "   "
	_, err = svc.SaveForm(ctx, "user-1", data)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "user-1")
	var valErr *common.Error
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, common.ErrCodeValidationInput, valErr.Code)

	// A failed submit never touches the stored record.
	app, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, app.Status)
	assert.Zero(t, app.Timeline.SubmittedAt)
}

func TestSubmitSetsStatusAndTimestamp(t *testing.T) {
	svc, _ := newTestService(t)
	submitApplication(t, svc, "user-1")

	app, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.NotZero(t, app.Timeline.SubmittedAt)
}

func TestSubmitOnlyFromDraft(t *testing.T) {
	svc, _ := newTestService(t)
	submitApplication(t, svc, "user-1")

	_, err := svc.Submit(context.Background(), "user-1")
	var stateErr *common.Error
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, common.ErrCodeBusinessState, stateErr.Code)
}

func TestReleaseWithoutDecisionFails(t *testing.T) {
	statuses := []models.Status{
		models.StatusDraft, models.StatusSubmitted, models.StatusUnderReview,
		models.StatusDecisionReleased, models.StatusEnrolled,
		models.StatusRejected, models.StatusWaitlisted,
	}
	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			svc, repo := newTestService(t)
			ctx := context.Background()
			_, err := svc.GetOrCreate(ctx, "user-1")
			require.NoError(t, err)
			_, err = repo.Update(ctx, "user-1", map[string]interface{}{"status": status}, nil)
			require.NoError(t, err)

			_, err = svc.Release(ctx, "user-1")
			assert.ErrorIs(t, err, common.ErrNoDecisionToRelease)
		})
	}
}

func TestReleaseAppliesDecisionMapping(t *testing.T) {
	cases := []struct {
		decision string
		want     models.Status
	}{
		{"accepted", models.StatusDecisionReleased},
		{"rejected", models.StatusRejected},
		{"waitlisted", models.StatusWaitlisted},
	}
	for _, tc := range cases {
		t.Run(tc.decision, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()
			submitApplication(t, svc, "user-1")

			_, err := svc.SetInternalDecision(ctx, "user-1", tc.decision)
			require.NoError(t, err)

			app, err := svc.Release(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, app.Status)
			assert.NotZero(t, app.Timeline.DecisionReleasedAt)
		})
	}
}

func TestReleaseNotifiesCandidate(t *testing.T) {
	repo := newMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewApplicationService(repo, notifier)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	_, err := svc.SetInternalDecision(ctx, "user-1", "accepted")
	require.NoError(t, err)
	_, err = svc.Release(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, notifier.notified)
}

func TestReleaseSurvivesNotifierFailure(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewApplicationService(repo, &recordingNotifier{fail: true})
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	_, err := svc.SetInternalDecision(ctx, "user-1", "accepted")
	require.NoError(t, err)

	app, err := svc.Release(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDecisionReleased, app.Status)
}

func TestAcceptOfferRequiresReleasedDecision(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	_, err := svc.AcceptOffer(ctx, "user-1")
	var stateErr *common.Error
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, common.ErrCodeBusinessState, stateErr.Code)

	_, err = svc.SetInternalDecision(ctx, "user-1", "accepted")
	require.NoError(t, err)
	_, err = svc.Release(ctx, "user-1")
	require.NoError(t, err)

	app, err := svc.AcceptOffer(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, app.Status)
	assert.NotZero(t, app.Timeline.EnrolledAt)
}

func TestAdvanceStatusWalksTheChain(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	app, err := svc.AdvanceStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, app.Status)

	app, err = svc.AdvanceStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDecisionReleased, app.Status)
	assert.NotZero(t, app.Timeline.DecisionReleasedAt)

	app, err = svc.AdvanceStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, app.Status)
	assert.NotZero(t, app.Timeline.EnrolledAt)

	_, err = svc.AdvanceStatus(ctx, "user-1")
	var stateErr *common.Error
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, common.ErrCodeBusinessState, stateErr.Code)
}

func TestAdvanceStatusRejectsDraft(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(ctx, "user-1")
	var stateErr *common.Error
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, common.ErrCodeBusinessState, stateErr.Code)
}

func TestResetClearsLifecycleTimestamps(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")
	_, err := svc.SetInternalDecision(ctx, "user-1", "accepted")
	require.NoError(t, err)
	_, err = svc.Release(ctx, "user-1")
	require.NoError(t, err)

	app, err := svc.Reset(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, app.Status)
	assert.Zero(t, app.Timeline.SubmittedAt)
	assert.Zero(t, app.Timeline.DecisionReleasedAt)
	assert.Zero(t, app.Timeline.EnrolledAt)
	// Registration and form data survive the reset.
	assert.NotZero(t, app.Timeline.RegisteredAt)
	assert.NotEmpty(t, app.FormData)
}

func TestLastUpdatedAtMovesForward(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	saved, err := svc.SaveForm(ctx, "user-1", completeFormData())
	require.NoError(t, err)
	assert.Greater(t, saved.LastUpdatedAt, created.LastUpdatedAt)

	submitted, err := svc.Submit(ctx, "user-1")
	require.NoError(t, err)
	assert.Greater(t, submitted.LastUpdatedAt, saved.LastUpdatedAt)
}

func TestAddNoteIsAppendOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	_, err := svc.AddNote(ctx, "user-1", "admin@example.com", "first note")
	require.NoError(t, err)
	app, err := svc.AddNote(ctx, "user-1", "admin@example.com", "second note")
	require.NoError(t, err)

	require.NotNil(t, app.AdminData)
	require.Len(t, app.AdminData.Notes, 2)
	assert.Equal(t, "first note", app.AdminData.Notes[0].Content)
	assert.Equal(t, "second note", app.AdminData.Notes[1].Content)
}

func TestAddNoteRequiresContent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	_, err := svc.AddNote(ctx, "user-1", "admin@example.com", "   ")
	var valErr *common.Error
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, common.ErrCodeValidationInput, valErr.Code)
}

func TestSetAllocationAndClear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	app, err := svc.SetAllocation(ctx, "user-1", "Hangzhou")
	require.NoError(t, err)
	assert.Equal(t, "Hangzhou", app.Allocation())

	app, err = svc.SetAllocation(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, "", app.Allocation())
}

func TestSetInternalDecisionValidatesVocabulary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	submitApplication(t, svc, "user-1")

	_, err := svc.SetInternalDecision(ctx, "user-1", "maybe")
	var valErr *common.Error
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, common.ErrCodeValidationInput, valErr.Code)

	app, err := svc.SetInternalDecision(ctx, "user-1", "  Accepted ")
	require.NoError(t, err)
	require.NotNil(t, app.AdminData)
	assert.Equal(t, models.DecisionAccepted, app.AdminData.InternalDecision)
}
