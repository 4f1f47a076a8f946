package models

import "time"

const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:200" json:"full_name,omitempty"`
	Role         string    `gorm:"size:10;not null;default:'STUDENT'" json:"role"`
	GradeID      *uint     `gorm:"index" json:"grade_id,omitempty"`
	Grade        *Grade    `gorm:"foreignKey:GradeID" json:"grade,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
