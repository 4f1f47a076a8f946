package models

import "time"

// Well-known badge slugs checked by the achievement rules. Badges are
// admin-provisioned content; a missing slug just disables its rule.
const (
	BadgeSlugPerfectScore      = "perfect_score"
	BadgeSlugPersistentLearner = "persistent_learner"
	BadgeSlugProStudent        = "pro_student"
	BadgeSlugRocketSolver      = "rocket_solver"
)

type Badge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	IconURL     string `gorm:"size:500" json:"icon_url,omitempty"`
	Slug        string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
}

type StudentBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_student_badge" json:"student_id"`
	BadgeID   uint      `gorm:"not null;uniqueIndex:idx_student_badge" json:"badge_id"`
	Badge     Badge     `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	Count     int       `gorm:"not null;default:1" json:"count"`
	AwardedAt time.Time `json:"awarded_at"`
}
