package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is append-only: two submissions for the same (test, user) pair
// are two independent rows. Responses is an opaque blob keyed by question id;
// no validation against the test's question set happens here.
type Submission struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TestID uint `json:"test_id" gorm:"not null;index"`
	UserID uint `json:"user_id" gorm:"not null;index"`

	Responses datatypes.JSON `json:"responses" gorm:"type:jsonb"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`
}

func (Submission) TableName() string {
	return "submissions"
}
