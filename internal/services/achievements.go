package services

import (
	"errors"
	"time"

	"school-quiz-backend/internal/models"

	"gorm.io/gorm"
)

// AchievementService awards badges after each quiz finalization. It holds
// no state between calls; every rule re-reads cumulative history.
type AchievementService struct {
	db *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{db: db}
}

// Evaluate runs every badge rule against the just-finalized attempt
// and returns the slugs that were awarded or incremented. The rules
// are independent; one submission can award several badges.
func (s *AchievementService) Evaluate(studentID uint, result *models.QuizResult) ([]string, error) {
	var awarded []string

	if result.Score != nil && *result.Score == 100 {
		ok, err := s.award(studentID, models.BadgeSlugPerfectScore, true)
		if err != nil {
			return awarded, err
		}
		if ok {
			awarded = append(awarded, models.BadgeSlugPerfectScore)
		}
	}

	// One-time threshold: fires on exactly the 5th completion.
	var totalCompleted int64
	if err := s.db.Model(&models.QuizResult{}).
		Where("student_id = ? AND completed_at IS NOT NULL", studentID).
		Count(&totalCompleted).Error; err != nil {
		return awarded, err
	}
	if totalCompleted == 5 {
		ok, err := s.award(studentID, models.BadgeSlugPersistentLearner, true)
		if err != nil {
			return awarded, err
		}
		if ok {
			awarded = append(awarded, models.BadgeSlugPersistentLearner)
		}
	}

	var avgScore float64
	if err := s.db.Model(&models.QuizResult{}).
		Where("student_id = ? AND completed_at IS NOT NULL", studentID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avgScore).Error; err != nil {
		return awarded, err
	}
	if avgScore >= 90 {
		// Award-or-noop: this badge never increments.
		ok, err := s.award(studentID, models.BadgeSlugProStudent, false)
		if err != nil {
			return awarded, err
		}
		if ok {
			awarded = append(awarded, models.BadgeSlugProStudent)
		}
	}

	if result.TimeTakenSeconds != nil && result.Score != nil {
		var unit models.Unit
		if err := s.db.First(&unit, result.UnitID).Error; err != nil {
			return awarded, err
		}
		limitSeconds := unit.DurationMinutes * 60
		if limitSeconds > 0 && *result.TimeTakenSeconds > 0 &&
			float64(*result.TimeTakenSeconds) < float64(limitSeconds)/2 && *result.Score >= 80 {
			ok, err := s.award(studentID, models.BadgeSlugRocketSolver, true)
			if err != nil {
				return awarded, err
			}
			if ok {
				awarded = append(awarded, models.BadgeSlugRocketSolver)
			}
		}
	}

	return awarded, nil
}

// award grants the badge with the given slug, creating the student's
// row with count 1 or incrementing an existing one when increment is
// set. A slug with no provisioned badge is skipped: badge content is
// optional and its absence only disables the rule.
func (s *AchievementService) award(studentID uint, slug string, increment bool) (bool, error) {
	var badge models.Badge
	err := s.db.Where("slug = ?", slug).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var sb models.StudentBadge
	err = s.db.Where("student_id = ? AND badge_id = ?", studentID, badge.ID).First(&sb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sb = models.StudentBadge{
			StudentID: studentID,
			BadgeID:   badge.ID,
			Count:     1,
			AwardedAt: time.Now(),
		}
		if err := s.db.Create(&sb).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if !increment {
		return false, nil
	}
	if err := s.db.Model(&sb).Update("count", gorm.Expr("count + 1")).Error; err != nil {
		return false, err
	}
	return true, nil
}
