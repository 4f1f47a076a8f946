package models

import "time"

type Unit struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	GradeID         uint       `gorm:"not null;index" json:"grade_id"`
	Grade           Grade      `gorm:"foreignKey:GradeID;constraint:OnDelete:CASCADE" json:"-"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	UnitNumber      int        `gorm:"not null;default:1" json:"unit_number"`
	DurationMinutes int        `gorm:"not null;default:10" json:"duration_minutes"`
	IsPublished     bool       `gorm:"not null;default:false" json:"is_published"`
	Questions       []Question `gorm:"foreignKey:UnitID" json:"questions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
