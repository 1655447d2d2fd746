package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
)

// Expected import sheet layout (first row is a header and is skipped):
// question_type | correct_option | options | positive_marks | negative_marks | question_image
// The options cell is either a JSON array or pipe-separated values.
var exportHeader = []interface{}{
	"section", "question_type", "correct_option", "options", "positive_marks", "negative_marks", "question_image",
}

type importExportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewImportExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// ImportQuestions parses the workbook's first sheet and inserts every parsed
// row into the target section inside one transaction, so a bad row late in
// the sheet leaves no partial import behind.
func (s *importExportService) ImportQuestions(ctx context.Context, testID, sectionID uint, r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: not a readable workbook", ErrValidationFailed)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("%w: workbook has no sheets", ErrValidationFailed)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) <= 1 {
		return 0, fmt.Errorf("%w: sheet has no question rows", ErrValidationFailed)
	}

	if _, err := s.repo.Test().GetByID(ctx, s.db, testID); err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, ErrTestNotFound
		}
		return 0, fmt.Errorf("failed to get test: %w", err)
	}

	questions := make([]*models.Question, 0, len(rows)-1)
	for i, row := range rows[1:] {
		question, err := s.parseQuestionRow(testID, sectionID, row)
		if err != nil {
			return 0, fmt.Errorf("%w: row %d: %v", ErrValidationFailed, i+2, err)
		}
		questions = append(questions, question)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, question := range questions {
			if err := s.repo.Question().Create(ctx, tx, question); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import questions: %w", err)
	}

	s.logger.Info("questions imported", "test_id", testID, "section_id", sectionID, "count", len(questions))
	return len(questions), nil
}

func (s *importExportService) parseQuestionRow(testID, sectionID uint, row []string) (*models.Question, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	correctOption := cell(1)
	if correctOption == "" {
		return nil, fmt.Errorf("correct_option is empty")
	}

	question := &models.Question{
		TestID:        testID,
		SectionID:     sectionID,
		QuestionType:  models.TypeMCQ,
		CorrectOption: correctOption,
		Options:       parseOptionsCell(cell(2)),
		PositiveMarks: models.DefaultPositiveMarks,
		NegativeMarks: models.DefaultNegativeMarks,
	}

	if questionType := cell(0); questionType != "" {
		question.QuestionType = models.QuestionType(questionType)
	}
	if marks := cell(3); marks != "" {
		value, err := strconv.ParseFloat(marks, 64)
		if err != nil {
			return nil, fmt.Errorf("positive_marks %q is not numeric", marks)
		}
		question.PositiveMarks = value
	}
	if marks := cell(4); marks != "" {
		value, err := strconv.ParseFloat(marks, 64)
		if err != nil {
			return nil, fmt.Errorf("negative_marks %q is not numeric", marks)
		}
		question.NegativeMarks = value
	}
	if image := cell(5); image != "" {
		question.QuestionImage = &image
	}

	return question, nil
}

// parseOptionsCell accepts the same JSON-array shape the authoring endpoint
// does, or a simpler A|B|C spreadsheet convention.
func parseOptionsCell(cell string) datatypes.JSON {
	if cell == "" {
		return emptyOptionList
	}

	if normalized, ok := NormalizeOptions(json.RawMessage(cell)); ok {
		return normalized
	}

	parts := strings.Split(cell, "|")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return emptyOptionList
	}
	return data
}

// ExportTest renders the whole test, section by section, onto one sheet.
func (s *importExportService) ExportTest(ctx context.Context, testID uint) (*excelize.File, error) {
	test, err := s.repo.Test().GetByIDWithDetails(ctx, s.db, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	rowIndex := 2
	for _, section := range test.Sections {
		for _, question := range section.Questions {
			image := ""
			if question.QuestionImage != nil {
				image = *question.QuestionImage
			}

			row := []interface{}{
				section.Title,
				string(question.QuestionType),
				question.CorrectOption,
				string(question.Options),
				question.PositiveMarks,
				question.NegativeMarks,
				image,
			}
			cellRef, err := excelize.CoordinatesToCellName(1, rowIndex)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to build cell reference: %w", err)
			}
			if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
			rowIndex++
		}
	}

	return f, nil
}
