package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/PrepGrid-2025/testing-service/internal/models"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"question_type", "correct_option", "options", "positive_marks", "negative_marks", "question_image"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("Failed to write header: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("Failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("Failed to write row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to serialize workbook: %v", err)
	}
	return buf
}

func TestImportExportService_ImportQuestions(t *testing.T) {
	env := newTestEnv(t)
	testSvc := env.testService()
	service := NewImportExportService(env.repo, env.db, env.logger)
	ctx := context.Background()

	testID, err := testSvc.Save(ctx, &TestSaveRequest{
		Title:    "Imported Quiz",
		Sections: []SectionSaveRequest{{Title: "Section 1"}},
	}, 1)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	saved, err := testSvc.GetByID(ctx, testID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	sectionID := saved.Sections[0].ID

	t.Run("imports rows with both options conventions", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"MCQ", "B", `["A","B","C"]`, 2, -1, ""},
			{"", "A", "Yes | No", "", "", "diagram.png"},
		})

		count, err := service.ImportQuestions(ctx, testID, sectionID, buf)
		if err != nil {
			t.Fatalf("ImportQuestions failed: %v", err)
		}
		if count != 2 {
			t.Fatalf("Expected 2 imported questions, got %d", count)
		}

		tree, err := testSvc.GetByID(ctx, testID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		questions := tree.Sections[0].Questions
		if len(questions) != 2 {
			t.Fatalf("Expected 2 questions in section, got %d", len(questions))
		}

		if string(questions[0].Options) != `["A","B","C"]` {
			t.Errorf("Expected JSON options kept, got %s", questions[0].Options)
		}
		if questions[0].PositiveMarks != 2 || questions[0].NegativeMarks != -1 {
			t.Errorf("Expected marks 2/-1, got %v/%v", questions[0].PositiveMarks, questions[0].NegativeMarks)
		}

		var piped []string
		if err := json.Unmarshal(questions[1].Options, &piped); err != nil {
			t.Fatalf("Failed to decode piped options: %v", err)
		}
		if len(piped) != 2 || piped[0] != "Yes" || piped[1] != "No" {
			t.Errorf("Expected pipe-separated options split, got %v", piped)
		}
		if questions[1].QuestionType != models.TypeMCQ {
			t.Errorf("Expected default question type, got %q", questions[1].QuestionType)
		}
		if questions[1].QuestionImage == nil || *questions[1].QuestionImage != "diagram.png" {
			t.Error("Expected question image kept")
		}
	})

	t.Run("bad row aborts entire import", func(t *testing.T) {
		var before int64
		env.db.Model(&models.Question{}).Count(&before)

		buf := buildWorkbook(t, [][]interface{}{
			{"MCQ", "A", `["A","B"]`, 1, 0, ""},
			{"MCQ", "", `["A","B"]`, 1, 0, ""},
		})

		if _, err := service.ImportQuestions(ctx, testID, sectionID, buf); !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("Expected ErrValidationFailed, got %v", err)
		}

		var after int64
		env.db.Model(&models.Question{}).Count(&after)
		if after != before {
			t.Errorf("Expected no questions inserted, got %d new rows", after-before)
		}
	})

	t.Run("unknown test", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"MCQ", "A", `["A","B"]`, 1, 0, ""},
		})
		if _, err := service.ImportQuestions(ctx, 99999, sectionID, buf); !errors.Is(err, ErrTestNotFound) {
			t.Errorf("Expected ErrTestNotFound, got %v", err)
		}
	})

	t.Run("garbage input", func(t *testing.T) {
		if _, err := service.ImportQuestions(ctx, testID, sectionID, bytes.NewBufferString("not a workbook")); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("Expected ErrValidationFailed, got %v", err)
		}
	})
}

func TestImportExportService_ExportTest(t *testing.T) {
	env := newTestEnv(t)
	testSvc := env.testService()
	service := NewImportExportService(env.repo, env.db, env.logger)
	ctx := context.Background()

	testID, err := testSvc.Save(ctx, &TestSaveRequest{
		Title: "Export Me",
		Sections: []SectionSaveRequest{
			{
				Title: "Alpha",
				Questions: []QuestionSaveRequest{
					{CorrectOption: "A", Options: json.RawMessage(`["A","B"]`)},
				},
			},
			{
				Title: "Beta",
				Questions: []QuestionSaveRequest{
					{CorrectOption: "C", Options: json.RawMessage(`["C","D"]`)},
				},
			},
		},
	}, 1)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := service.ExportTest(ctx, testID)
	if err != nil {
		t.Fatalf("ExportTest failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("Failed to read exported sheet: %v", err)
	}

	// Header plus one row per question.
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[1][0] != "Alpha" || rows[2][0] != "Beta" {
		t.Errorf("Expected section names in order, got %q and %q", rows[1][0], rows[2][0])
	}
	if rows[1][2] != "A" {
		t.Errorf("Expected correct option in row, got %q", rows[1][2])
	}

	t.Run("unknown test", func(t *testing.T) {
		if _, err := service.ExportTest(ctx, 99999); !errors.Is(err, ErrTestNotFound) {
			t.Errorf("Expected ErrTestNotFound, got %v", err)
		}
	})
}
