package models

// MatchingPair is one correct prompt->match association of a matching
// question. The pair id doubles as the correct match-option key in the
// presented quiz, so a submission is correct when every prompt id maps
// back to itself.
type MatchingPair struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	QuestionID     uint   `gorm:"not null;index" json:"question_id"`
	PromptText     string `gorm:"size:255" json:"prompt_text,omitempty"`
	MatchText      string `gorm:"size:255" json:"match_text,omitempty"`
	PromptImageURL string `gorm:"size:500" json:"prompt_image_url,omitempty"`
	MatchImageURL  string `gorm:"size:500" json:"match_image_url,omitempty"`
}
