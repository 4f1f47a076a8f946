package models

type Grade struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Units       []Unit `gorm:"foreignKey:GradeID" json:"units,omitempty"`
}
