package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"school-quiz-backend/internal/models"
)

// QuizSubmission is the payload a student posts when finishing a quiz.
// Answers is keyed by question id (decimal string). Questions missing
// from the map are graded as unanswered. TimeTakenSeconds is
// client-reported and stored as-is.
type QuizSubmission struct {
	Answers          map[string]*AnswerValue `json:"answers"`
	TimeTakenSeconds int                     `json:"time_taken_seconds"`
}

// AnswerValue is one submitted answer. Exactly one member is set,
// decided by the JSON shape: a number is a selected answer id, a
// string is free text, an object is a prompt->match mapping.
type AnswerValue struct {
	SelectedID *uint
	Text       *string
	Matches    models.MatchingSelection
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty answer value", ErrInvalidSubmission)
	}

	switch trimmed[0] {
	case 'n': // null, treated as unanswered
		return nil
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
		v.Text = &text
	case '{':
		var matches models.MatchingSelection
		if err := json.Unmarshal(trimmed, &matches); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
		v.Matches = matches
	default:
		var id uint
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
		v.SelectedID = &id
	}
	return nil
}
