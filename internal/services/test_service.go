package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/events"
	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
)

type testService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewTestService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) TestService {
	return &testService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// ===== AUTHORING TRANSACTION =====

// Save commits the whole nested structure in one transaction: the test row,
// then each section in input order, then that section's questions. Either
// every row is visible to readers afterwards or none is. A malformed options
// value on a single question is substituted with [] and logged, never
// escalated; any database error rolls the entire structure back.
func (s *testService) Save(ctx context.Context, req *TestSaveRequest, creatorID uint) (uint, error) {
	s.logger.Info("saving test", "creator_id", creatorID, "title", req.Title, "sections", len(req.Sections))

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	var testID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		test := &models.Test{
			Title:     req.Title,
			CreatedBy: creatorID,
		}
		if err := s.repo.Test().Create(ctx, tx, test); err != nil {
			return err
		}
		testID = test.ID

		for _, sectionReq := range req.Sections {
			section := &models.Section{
				Title:  sectionReq.Title,
				TestID: test.ID,
			}
			if err := s.repo.Test().CreateSection(ctx, tx, section); err != nil {
				return err
			}

			for _, questionReq := range sectionReq.Questions {
				question := s.buildQuestion(test.ID, section.ID, &questionReq)
				if err := s.repo.Question().Create(ctx, tx, question); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		s.logger.Error("test save rolled back", "creator_id", creatorID, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	s.logger.Info("test saved", "test_id", testID, "creator_id", creatorID)
	s.publish(ctx, events.NewEvent(events.EventTestCreated, map[string]interface{}{
		"test_id":    testID,
		"title":      req.Title,
		"created_by": creatorID,
	}))

	return testID, nil
}

// buildQuestion normalizes options and applies the marking-scheme defaults.
func (s *testService) buildQuestion(testID, sectionID uint, req *QuestionSaveRequest) *models.Question {
	options, ok := NormalizeOptions(req.Options)
	if !ok {
		s.logger.Warn("invalid options format, defaulting to empty list",
			"test_id", testID, "section_id", sectionID)
	}

	question := &models.Question{
		TestID:        testID,
		SectionID:     sectionID,
		QuestionImage: req.FileName,
		QuestionType:  models.TypeMCQ,
		CorrectOption: req.CorrectOption,
		Options:       options,
		PositiveMarks: models.DefaultPositiveMarks,
		NegativeMarks: models.DefaultNegativeMarks,
	}

	if req.QuestionType != "" {
		question.QuestionType = models.QuestionType(req.QuestionType)
	}
	if req.PositiveMarks != nil {
		question.PositiveMarks = *req.PositiveMarks
	}
	if req.NegativeMarks != nil {
		question.NegativeMarks = *req.NegativeMarks
	}

	return question
}

// ===== SIMPLE WRITES =====

func (s *testService) Create(ctx context.Context, req *TestCreateRequest, creatorID uint) (*models.Test, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	test := &models.Test{
		Title:     req.Title,
		CreatedBy: creatorID,
	}
	if err := s.repo.Test().Create(ctx, s.db, test); err != nil {
		return nil, fmt.Errorf("failed to create test: %w", err)
	}

	return test, nil
}

func (s *testService) AddQuestion(ctx context.Context, req *QuestionAddRequest) (*models.Question, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	if _, err := s.repo.Test().GetByID(ctx, s.db, req.TestID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	options, ok := NormalizeOptions(req.Options)
	if !ok {
		s.logger.Warn("invalid options format, defaulting to empty list",
			"test_id", req.TestID, "section_id", req.SectionID)
	}

	question := &models.Question{
		TestID:        req.TestID,
		SectionID:     req.SectionID,
		QuestionImage: req.QuestionImage,
		QuestionType:  models.TypeMCQ,
		CorrectOption: req.CorrectOption,
		Options:       options,
		PositiveMarks: models.DefaultPositiveMarks,
		NegativeMarks: models.DefaultNegativeMarks,
	}
	if req.QuestionType != "" {
		question.QuestionType = models.QuestionType(req.QuestionType)
	}
	if req.PositiveMarks != nil {
		question.PositiveMarks = *req.PositiveMarks
	}
	if req.NegativeMarks != nil {
		question.NegativeMarks = *req.NegativeMarks
	}

	if err := s.repo.Question().Create(ctx, s.db, question); err != nil {
		return nil, fmt.Errorf("failed to add question: %w", err)
	}

	return question, nil
}

// ===== READ PATH =====

// GetByID assembles the test, its sections, and each section's questions
// into one tree. NotFound is reported distinctly from a server error.
func (s *testService) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	test, err := s.repo.Test().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	// Sections with no questions still serialize as an empty list.
	for i := range test.Sections {
		if test.Sections[i].Questions == nil {
			test.Sections[i].Questions = []models.Question{}
		}
	}

	return test, nil
}

func (s *testService) List(ctx context.Context) ([]*models.Test, error) {
	tests, err := s.repo.Test().List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, nil
}

func (s *testService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.Type, "error", err)
	}
}
