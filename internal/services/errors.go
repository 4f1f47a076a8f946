package services

import "errors"

var (
	ErrUnitNotFound     = errors.New("unit not found")
	ErrResultNotFound   = errors.New("result not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrGradeNotFound    = errors.New("grade not found")
	ErrBadgeNotFound    = errors.New("badge not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrQuizAlreadyCompleted guards double finalization: a completed
	// attempt is review-only, re-attempts are not supported.
	ErrQuizAlreadyCompleted = errors.New("quiz already completed")
	// ErrNoQuizInProgress means a submission arrived for a (student,
	// unit) pair with no open attempt.
	ErrNoQuizInProgress = errors.New("no quiz in progress")

	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrMissingCorrectAnswer is a content-authoring defect: a text
	// question reached grading with no answer flagged correct.
	ErrMissingCorrectAnswer = errors.New("question has no correct answer configured")

	ErrNotEligible = errors.New("not eligible for a certificate")
	ErrForbidden   = errors.New("access denied")
)
