package models

import "gorm.io/datatypes"

// MatchingSelection maps a prompt id (decimal string, as JSON object
// keys arrive) to the chosen match-option id.
type MatchingSelection map[string]uint

type StudentAnswer struct {
	ID               uint                                  `gorm:"primaryKey" json:"id"`
	QuizResultID     uint                                  `gorm:"not null;uniqueIndex:idx_result_question" json:"quiz_result_id"`
	QuestionID       uint                                  `gorm:"not null;uniqueIndex:idx_result_question" json:"question_id"`
	Question         Question                              `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	SelectedAnswerID *uint                                 `json:"selected_answer_id,omitempty"`
	SelectedAnswer   *Answer                               `gorm:"foreignKey:SelectedAnswerID" json:"selected_answer,omitempty"`
	TextAnswer       string                                `gorm:"size:500" json:"text_answer,omitempty"`
	MatchingAnswer   datatypes.JSONType[MatchingSelection] `json:"matching_answer,omitempty"`
	IsCorrect        bool                                  `gorm:"not null;default:false" json:"is_correct"`
}
