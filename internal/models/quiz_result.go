package models

import "time"

// QuizResult is one student's attempt at a unit quiz. Score,
// CompletedAt and TimeTakenSeconds stay null while the attempt is in
// progress. The partial unique index keeps at most one open attempt
// per (student, unit) even under concurrent session opens.
type QuizResult struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	StudentID        uint            `gorm:"not null;index;uniqueIndex:idx_open_attempt,where:completed_at IS NULL" json:"student_id"`
	UnitID           uint            `gorm:"not null;index;uniqueIndex:idx_open_attempt" json:"unit_id"`
	Unit             Unit            `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Score            *float64        `json:"score"`
	StartTime        time.Time       `gorm:"not null" json:"start_time"`
	CompletedAt      *time.Time      `gorm:"index" json:"completed_at"`
	TimeTakenSeconds *int            `json:"time_taken_seconds"`
	StudentAnswers   []StudentAnswer `gorm:"foreignKey:QuizResultID" json:"student_answers,omitempty"`
}

func (r *QuizResult) IsCompleted() bool {
	return r.CompletedAt != nil
}
