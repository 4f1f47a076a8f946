package models

type Answer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:500" json:"text,omitempty"`
	ImageURL   string `gorm:"size:500" json:"image_url,omitempty"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
}
