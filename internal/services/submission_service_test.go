package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/PrepGrid-2025/testing-service/internal/events"
	"github.com/PrepGrid-2025/testing-service/internal/models"
)

func TestSubmissionService_Record(t *testing.T) {
	env := newTestEnv(t)
	service := env.submissionService()
	ctx := context.Background()

	responses := json.RawMessage(`{"1":"A","2":"C"}`)

	t.Run("records and publishes", func(t *testing.T) {
		when := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)

		submission, err := service.Record(ctx, &SubmissionRequest{
			TestID:    1,
			Responses: responses,
			Timestamp: when,
		}, 42)
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if submission.ID == 0 {
			t.Fatal("Expected submission to be persisted")
		}
		if submission.UserID != 42 {
			t.Errorf("Expected user 42, got %d", submission.UserID)
		}
		if !submission.SubmittedAt.Equal(when) {
			t.Errorf("Expected client timestamp kept, got %v", submission.SubmittedAt)
		}
		if string(submission.Responses) != string(responses) {
			t.Errorf("Expected responses stored as-is, got %s", submission.Responses)
		}

		published := env.publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventSubmissionReceived {
			t.Errorf("Expected event type %q, got %q", events.EventSubmissionReceived, published[0].Type)
		}
	})

	t.Run("repeat submissions append", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if _, err := service.Record(ctx, &SubmissionRequest{
				TestID:    2,
				Responses: responses,
			}, 42); err != nil {
				t.Fatalf("Record failed: %v", err)
			}
		}

		submissions, err := service.ListByTest(ctx, 2)
		if err != nil {
			t.Fatalf("ListByTest failed: %v", err)
		}
		if len(submissions) != 2 {
			t.Errorf("Expected 2 rows for repeated submission, got %d", len(submissions))
		}
	})

	t.Run("session principal wins over payload", func(t *testing.T) {
		submission, err := service.Record(ctx, &SubmissionRequest{
			TestID:    3,
			UserID:    999,
			Responses: responses,
		}, 42)
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if submission.UserID != 42 {
			t.Errorf("Expected session user 42, got %d", submission.UserID)
		}
	})

	t.Run("missing timestamp defaults to now", func(t *testing.T) {
		before := time.Now().Add(-time.Second)
		submission, err := service.Record(ctx, &SubmissionRequest{
			TestID:    4,
			Responses: responses,
		}, 42)
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if submission.SubmittedAt.Before(before) {
			t.Errorf("Expected server timestamp, got %v", submission.SubmittedAt)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		if _, err := service.Record(ctx, &SubmissionRequest{Responses: responses}, 42); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("Expected ErrValidationFailed for missing test id, got %v", err)
		}
		if _, err := service.Record(ctx, &SubmissionRequest{TestID: 1}, 42); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("Expected ErrValidationFailed for missing responses, got %v", err)
		}
		if _, err := service.Record(ctx, &SubmissionRequest{TestID: 1, Responses: responses}, 0); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("Expected ErrValidationFailed for no principal, got %v", err)
		}

		var count int64
		env.db.Model(&models.Submission{}).Where("test_id = ?", 1).Count(&count)
		if count != 1 {
			t.Errorf("Expected rejected submissions to leave no rows, got %d for test 1", count)
		}
	})
}
