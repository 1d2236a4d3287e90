package models

import "time"

type SubmissionStatus string

const (
	// StatusPending marks a coding submission whose judgment is in flight.
	StatusPending SubmissionStatus = "pending"
	// StatusCompleted marks a graded submission (correct or, for MCQ, incorrect).
	StatusCompleted SubmissionStatus = "completed"
	// StatusFailed marks a coding submission the judge graded incorrect.
	StatusFailed SubmissionStatus = "failed"
	// StatusError marks a submission whose judgment failed for
	// infrastructure reasons — safe to retry without penalty.
	StatusError SubmissionStatus = "error"
)

// Submission is the single ledger row for a (user, puzzle) pair.
// Resubmissions overwrite it in place; submitted_at keeps the time of
// the first attempt.
type Submission struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	PuzzleID    int64            `json:"puzzle_id"`
	Code        string           `json:"code,omitempty"`
	Answer      string           `json:"answer,omitempty"`
	IsCorrect   bool             `json:"is_correct"`
	Status      SubmissionStatus `json:"status"`
	Feedback    string           `json:"feedback,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

type SubmitRequest struct {
	Answer string `json:"answer,omitempty"`
	Code   string `json:"code,omitempty"`
}

type SubmitResponse struct {
	Submission    Submission `json:"submission"`
	PointsAwarded int        `json:"points_awarded"`
	Message       string     `json:"message"`
}

type RetryCodeResponse struct {
	Code string `json:"code"`
}
