package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/PrepGrid-2025/testing-service/internal/events"
	"github.com/PrepGrid-2025/testing-service/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestTestService_SaveAndGet(t *testing.T) {
	env := newTestEnv(t)
	service := env.testService()
	ctx := context.Background()

	req := &TestSaveRequest{
		Title: "Midterm Physics",
		Sections: []SectionSaveRequest{
			{
				Title: "Mechanics",
				Questions: []QuestionSaveRequest{
					{
						CorrectOption: "B",
						Options:       json.RawMessage(`["A","B","C","D"]`),
						PositiveMarks: ptr(2.0),
						NegativeMarks: ptr(-0.5),
					},
					{
						CorrectOption: "A",
						Options:       json.RawMessage(`"[\"Yes\",\"No\"]"`),
					},
				},
			},
			{
				Title: "Optics",
				Questions: []QuestionSaveRequest{
					{
						CorrectOption: "C",
						Options:       json.RawMessage(`{"bad":"shape"}`),
					},
				},
			},
			{
				Title: "Thermodynamics",
			},
		},
	}

	testID, err := service.Save(ctx, req, 7)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if testID == 0 {
		t.Fatal("Save returned zero test id")
	}

	test, err := service.GetByID(ctx, testID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if test.Title != "Midterm Physics" {
		t.Errorf("Expected title 'Midterm Physics', got %q", test.Title)
	}
	if test.CreatedBy != 7 {
		t.Errorf("Expected creator 7, got %d", test.CreatedBy)
	}
	if len(test.Sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(test.Sections))
	}

	// Sections come back in insertion order.
	for i, title := range []string{"Mechanics", "Optics", "Thermodynamics"} {
		if test.Sections[i].Title != title {
			t.Errorf("Section %d: expected %q, got %q", i, title, test.Sections[i].Title)
		}
	}

	mechanics := test.Sections[0]
	if len(mechanics.Questions) != 2 {
		t.Fatalf("Expected 2 questions in first section, got %d", len(mechanics.Questions))
	}

	q1 := mechanics.Questions[0]
	if string(q1.Options) != `["A","B","C","D"]` {
		t.Errorf("Expected options stored as-is, got %s", q1.Options)
	}
	if q1.PositiveMarks != 2.0 || q1.NegativeMarks != -0.5 {
		t.Errorf("Expected explicit marks 2.0/-0.5, got %v/%v", q1.PositiveMarks, q1.NegativeMarks)
	}

	q2 := mechanics.Questions[1]
	if string(q2.Options) != `["Yes","No"]` {
		t.Errorf("Expected stringified options unwrapped, got %s", q2.Options)
	}
	if q2.QuestionType != models.TypeMCQ {
		t.Errorf("Expected default question type %q, got %q", models.TypeMCQ, q2.QuestionType)
	}
	if q2.PositiveMarks != models.DefaultPositiveMarks || q2.NegativeMarks != models.DefaultNegativeMarks {
		t.Errorf("Expected default marks, got %v/%v", q2.PositiveMarks, q2.NegativeMarks)
	}

	// The malformed options value was stored as [] without failing the save.
	optics := test.Sections[1]
	if len(optics.Questions) != 1 {
		t.Fatalf("Expected 1 question in second section, got %d", len(optics.Questions))
	}
	if string(optics.Questions[0].Options) != `[]` {
		t.Errorf("Expected malformed options stored as [], got %s", optics.Questions[0].Options)
	}

	// The empty section still serializes with a question list.
	if test.Sections[2].Questions == nil {
		t.Error("Expected empty section to have a non-nil question list")
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(published))
	}
	if published[0].Type != events.EventTestCreated {
		t.Errorf("Expected event type %q, got %q", events.EventTestCreated, published[0].Type)
	}
}

func TestTestService_SaveRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	service := env.testService()
	ctx := context.Background()

	// Force the question insert, the last write of the transaction, to fail.
	if err := env.db.Migrator().DropTable(&models.Question{}); err != nil {
		t.Fatalf("Failed to drop questions table: %v", err)
	}

	req := &TestSaveRequest{
		Title: "Doomed Test",
		Sections: []SectionSaveRequest{
			{
				Title: "Section 1",
				Questions: []QuestionSaveRequest{
					{CorrectOption: "A", Options: json.RawMessage(`["A","B"]`)},
				},
			},
		},
	}

	if _, err := service.Save(ctx, req, 1); !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("Expected ErrSaveFailed, got %v", err)
	}

	// Neither the test row nor the section row survived the rollback.
	var testCount, sectionCount int64
	env.db.Model(&models.Test{}).Count(&testCount)
	env.db.Model(&models.Section{}).Count(&sectionCount)
	if testCount != 0 {
		t.Errorf("Expected 0 test rows after rollback, got %d", testCount)
	}
	if sectionCount != 0 {
		t.Errorf("Expected 0 section rows after rollback, got %d", sectionCount)
	}

	if len(env.publisher.GetPublishedEvents()) != 0 {
		t.Error("Expected no events for a rolled back save")
	}
}

func TestTestService_SaveValidation(t *testing.T) {
	env := newTestEnv(t)
	service := env.testService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  *TestSaveRequest
	}{
		{name: "missing title", req: &TestSaveRequest{Sections: []SectionSaveRequest{{Title: "S"}}}},
		{name: "no sections", req: &TestSaveRequest{Title: "T"}},
		{name: "section without title", req: &TestSaveRequest{Title: "T", Sections: []SectionSaveRequest{{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Save(ctx, tt.req, 1); !errors.Is(err, ErrValidationFailed) {
				t.Errorf("Expected ErrValidationFailed, got %v", err)
			}
		})
	}
}

func TestTestService_GetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	service := env.testService()

	if _, err := service.GetByID(context.Background(), 12345); !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("Expected ErrTestNotFound, got %v", err)
	}
}

func TestTestService_AddQuestion(t *testing.T) {
	env := newTestEnv(t)
	service := env.testService()
	ctx := context.Background()

	testID, err := service.Save(ctx, &TestSaveRequest{
		Title:    "Quiz",
		Sections: []SectionSaveRequest{{Title: "Only Section"}},
	}, 1)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	saved, err := service.GetByID(ctx, testID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	sectionID := saved.Sections[0].ID

	question, err := service.AddQuestion(ctx, &QuestionAddRequest{
		TestID:        testID,
		SectionID:     sectionID,
		CorrectOption: "D",
		Options:       json.RawMessage(`["A","B","C","D"]`),
	})
	if err != nil {
		t.Fatalf("AddQuestion failed: %v", err)
	}
	if question.ID == 0 {
		t.Error("Expected question to get an id")
	}

	t.Run("unknown test", func(t *testing.T) {
		_, err := service.AddQuestion(ctx, &QuestionAddRequest{
			TestID:        99999,
			SectionID:     sectionID,
			CorrectOption: "A",
		})
		if !errors.Is(err, ErrTestNotFound) {
			t.Errorf("Expected ErrTestNotFound, got %v", err)
		}
	})
}

func TestTestService_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	service := env.testService()
	ctx := context.Background()

	if _, err := service.Create(ctx, &TestCreateRequest{Title: "First"}, 2); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := service.Create(ctx, &TestCreateRequest{Title: "Second"}, 2); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests, err := service.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tests) != 2 {
		t.Fatalf("Expected 2 tests, got %d", len(tests))
	}
}
