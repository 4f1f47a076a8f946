package models

const (
	QuestionTypeChoiceText    = "MCQ"
	QuestionTypeChoiceImage   = "MCQI"
	QuestionTypeTrueFalse     = "TF"
	QuestionTypeShortAnswer   = "SA"
	QuestionTypeFillBlank     = "FITB"
	QuestionTypeMatchingText  = "MATCH"
	QuestionTypeMatchingImage = "MATI"
)

type Question struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UnitID        uint           `gorm:"not null;index;uniqueIndex:idx_unit_question_order" json:"unit_id"`
	Text          string         `gorm:"size:500;not null" json:"text"`
	Type          string         `gorm:"size:5;not null" json:"type"`
	OrderNum      int            `gorm:"not null;default:1;uniqueIndex:idx_unit_question_order" json:"order_num"`
	Answers       []Answer       `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	MatchingPairs []MatchingPair `gorm:"foreignKey:QuestionID" json:"matching_pairs,omitempty"`
}

func (q *Question) IsChoice() bool {
	return q.Type == QuestionTypeChoiceText || q.Type == QuestionTypeChoiceImage || q.Type == QuestionTypeTrueFalse
}

func (q *Question) IsTextEntry() bool {
	return q.Type == QuestionTypeShortAnswer || q.Type == QuestionTypeFillBlank
}

func (q *Question) IsMatching() bool {
	return q.Type == QuestionTypeMatchingText || q.Type == QuestionTypeMatchingImage
}

// CorrectAnswer returns the single answer flagged as correct, or nil
// when the question was authored without one.
func (q *Question) CorrectAnswer() *Answer {
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			return &q.Answers[i]
		}
	}
	return nil
}
