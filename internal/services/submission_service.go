package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/events"
	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
)

type submissionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewSubmissionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) SubmissionService {
	return &submissionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// Record appends the answer set as-is. The responses blob is not checked
// against the test's question set, and repeated submissions for the same
// (test, user) pair are kept as separate rows.
func (s *submissionService) Record(ctx context.Context, req *SubmissionRequest, userID uint) (*models.Submission, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	// The session principal wins over whatever user id the payload claims.
	if userID == 0 {
		userID = req.UserID
	}
	if userID == 0 {
		return nil, fmt.Errorf("%w: no user for submission", ErrValidationFailed)
	}

	submittedAt := req.Timestamp
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	submission := &models.Submission{
		TestID:      req.TestID,
		UserID:      userID,
		Responses:   datatypes.JSON(req.Responses),
		SubmittedAt: submittedAt,
	}

	if err := s.repo.Submission().Create(ctx, s.db, submission); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	s.logger.Info("submission recorded", "submission_id", submission.ID, "test_id", submission.TestID, "user_id", userID)
	s.publish(ctx, events.NewEvent(events.EventSubmissionReceived, map[string]interface{}{
		"submission_id": submission.ID,
		"test_id":       submission.TestID,
		"user_id":       userID,
	}))

	return submission, nil
}

func (s *submissionService) ListByTest(ctx context.Context, testID uint) ([]*models.Submission, error) {
	submissions, err := s.repo.Submission().GetByTest(ctx, s.db, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func (s *submissionService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.Type, "error", err)
	}
}
