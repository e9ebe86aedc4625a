package jobs_test

import (
	"context"
	"testing"
	"time"

	"intervue/jobs"
	"intervue/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockExperienceStore implements jobs.ExperienceStore.
type MockExperienceStore struct {
	mock.Mock
}

func (m *MockExperienceStore) DueForDeletion(ctx context.Context, now int64) ([]models.Experience, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Experience), args.Error(1)
}

func (m *MockExperienceStore) UnlistOverReported(ctx context.Context, now int64) ([]models.Experience, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Experience), args.Error(1)
}

func (m *MockExperienceStore) ResetReportState(ctx context.Context, id primitive.ObjectID, now int64) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockExperienceStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExperienceStore) FindAuthor(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockJobStore implements jobs.JobStore.
type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) DeleteExpired(ctx context.Context, cutoff int64) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// recordingNotifier captures notifications instead of sending mail.
type recordingNotifier struct {
	sent []string
}

func (r *recordingNotifier) Notify(name, email, subject, body, ctaLabel, ctaLink string) {
	r.sent = append(r.sent, email+": "+subject)
}

func int64Ptr(v int64) *int64 { return &v }

// TestSweeperDeletesOverduePost verifies an overdue post that was never
// edited is permanently deleted and nobody is notified.
func TestSweeperDeletesOverduePost(t *testing.T) {
	// Arrange
	expStore := new(MockExperienceStore)
	jobStore := new(MockJobStore)
	notifier := &recordingNotifier{}

	overdue := models.Experience{
		ID:                   primitive.NewObjectID(),
		UserID:               primitive.NewObjectID(),
		Company:              "Acme",
		Unlisted:             true,
		ReportedAt:           int64Ptr(time.Now().Add(-25 * time.Hour).Unix()),
		ScheduledForDeletion: int64Ptr(time.Now().Add(-1 * time.Hour).Unix()),
	}

	expStore.On("UnlistOverReported", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{}, nil).Once()
	expStore.On("DueForDeletion", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{overdue}, nil).Once()
	expStore.On("Delete", mock.Anything, overdue.ID).Return(nil).Once()
	jobStore.On("DeleteExpired", mock.Anything, mock.AnythingOfType("int64")).
		Return(int64(0), nil).Once()

	sweeper := jobs.NewSweeper(expStore, jobStore, notifier, "http://localhost:3000")

	// Act
	sweeper.RunOnce()

	// Assert
	expStore.AssertExpectations(t)
	expStore.AssertNotCalled(t, "ResetReportState", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, notifier.sent, "deletion must not notify anyone")
}

// TestSweeperResetsEditedPost verifies a post edited after being reported is
// reset instead of deleted, and the author is told it is live again.
func TestSweeperResetsEditedPost(t *testing.T) {
	// Arrange
	expStore := new(MockExperienceStore)
	jobStore := new(MockJobStore)
	notifier := &recordingNotifier{}

	authorID := primitive.NewObjectID()
	edited := models.Experience{
		ID:                   primitive.NewObjectID(),
		UserID:               authorID,
		Company:              "Acme",
		Unlisted:             true,
		ReportedAt:           int64Ptr(time.Now().Add(-26 * time.Hour).Unix()),
		ContentUpdatedAt:     int64Ptr(time.Now().Add(-2 * time.Hour).Unix()),
		ScheduledForDeletion: int64Ptr(time.Now().Add(-2 * time.Hour).Unix()),
	}

	expStore.On("UnlistOverReported", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{}, nil).Once()
	expStore.On("DueForDeletion", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{edited}, nil).Once()
	expStore.On("ResetReportState", mock.Anything, edited.ID, mock.AnythingOfType("int64")).
		Return(nil).Once()
	expStore.On("FindAuthor", mock.Anything, authorID).
		Return(&models.User{ID: authorID, Name: "Ava", Email: "ava@example.com"}, nil).Once()
	jobStore.On("DeleteExpired", mock.Anything, mock.AnythingOfType("int64")).
		Return(int64(0), nil).Once()

	sweeper := jobs.NewSweeper(expStore, jobStore, notifier, "http://localhost:3000")

	// Act
	sweeper.RunOnce()

	// Assert
	expStore.AssertExpectations(t)
	expStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "ava@example.com")
}

// TestSweeperIdempotent verifies a second immediate run finds nothing left
// to do and changes nothing.
func TestSweeperIdempotent(t *testing.T) {
	// Arrange
	expStore := new(MockExperienceStore)
	jobStore := new(MockJobStore)
	notifier := &recordingNotifier{}

	overdue := models.Experience{
		ID:                   primitive.NewObjectID(),
		UserID:               primitive.NewObjectID(),
		Unlisted:             true,
		ReportedAt:           int64Ptr(time.Now().Add(-30 * time.Hour).Unix()),
		ScheduledForDeletion: int64Ptr(time.Now().Add(-6 * time.Hour).Unix()),
	}

	// First run sees the overdue post; after deletion the second run sees
	// an empty result set, as the real store would report.
	expStore.On("UnlistOverReported", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{}, nil).Twice()
	expStore.On("DueForDeletion", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{overdue}, nil).Once()
	expStore.On("Delete", mock.Anything, overdue.ID).Return(nil).Once()
	expStore.On("DueForDeletion", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{}, nil).Once()
	jobStore.On("DeleteExpired", mock.Anything, mock.AnythingOfType("int64")).
		Return(int64(0), nil).Twice()

	sweeper := jobs.NewSweeper(expStore, jobStore, notifier, "http://localhost:3000")

	// Act
	sweeper.RunOnce()
	sweeper.RunOnce()

	// Assert
	expStore.AssertExpectations(t)
	expStore.AssertNumberOfCalls(t, "Delete", 1)
}

// TestSweeperDutiesAreIndependent verifies a failure in report resolution
// does not stop the stale-job duty from running in the same tick.
func TestSweeperDutiesAreIndependent(t *testing.T) {
	// Arrange
	expStore := new(MockExperienceStore)
	jobStore := new(MockJobStore)

	expStore.On("UnlistOverReported", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{}, nil).Once()
	expStore.On("DueForDeletion", mock.Anything, mock.AnythingOfType("int64")).
		Return(nil, assert.AnError).Once()
	jobStore.On("DeleteExpired", mock.Anything, mock.AnythingOfType("int64")).
		Return(int64(3), nil).Once()

	sweeper := jobs.NewSweeper(expStore, jobStore, &recordingNotifier{}, "")

	// Act
	sweeper.RunOnce()

	// Assert
	jobStore.AssertExpectations(t)
}

// TestSweeperStaleJobCutoff verifies jobs are purged against a cutoff seven
// days in the past.
func TestSweeperStaleJobCutoff(t *testing.T) {
	// Arrange
	expStore := new(MockExperienceStore)
	jobStore := new(MockJobStore)

	expStore.On("UnlistOverReported", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{}, nil).Once()
	expStore.On("DueForDeletion", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{}, nil).Once()

	var gotCutoff int64
	jobStore.On("DeleteExpired", mock.Anything, mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) { gotCutoff = args.Get(1).(int64) }).
		Return(int64(0), nil).Once()

	sweeper := jobs.NewSweeper(expStore, jobStore, &recordingNotifier{}, "")

	// Act
	before := time.Now().Add(-7 * 24 * time.Hour).Unix()
	sweeper.RunOnce()
	after := time.Now().Add(-7 * 24 * time.Hour).Unix()

	// Assert
	assert.GreaterOrEqual(t, gotCutoff, before)
	assert.LessOrEqual(t, gotCutoff, after)
}

// TestSweeperUnlistsStragglers verifies a post stranded at the report
// threshold by a failed request is unlisted by the sweep and its author
// warned, without being deleted or reset in the same tick.
func TestSweeperUnlistsStragglers(t *testing.T) {
	// Arrange
	expStore := new(MockExperienceStore)
	jobStore := new(MockJobStore)
	notifier := &recordingNotifier{}

	authorID := primitive.NewObjectID()
	straggler := models.Experience{
		ID:                   primitive.NewObjectID(),
		UserID:               authorID,
		Company:              "Acme",
		ReportCount:          3,
		Unlisted:             true,
		ReportedAt:           int64Ptr(time.Now().Unix()),
		ScheduledForDeletion: int64Ptr(time.Now().Add(24 * time.Hour).Unix()),
	}

	expStore.On("UnlistOverReported", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{straggler}, nil).Once()
	expStore.On("FindAuthor", mock.Anything, authorID).
		Return(&models.User{ID: authorID, Name: "Ava", Email: "ava@example.com"}, nil).Once()
	expStore.On("DueForDeletion", mock.Anything, mock.AnythingOfType("int64")).
		Return([]models.Experience{}, nil).Once()
	jobStore.On("DeleteExpired", mock.Anything, mock.AnythingOfType("int64")).
		Return(int64(0), nil).Once()

	sweeper := jobs.NewSweeper(expStore, jobStore, notifier, "http://localhost:3000")

	// Act
	sweeper.RunOnce()

	// Assert
	expStore.AssertExpectations(t)
	expStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	expStore.AssertNotCalled(t, "ResetReportState", mock.Anything, mock.Anything, mock.Anything)
	assert.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "reported")
}
