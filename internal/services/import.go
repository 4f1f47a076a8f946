package services

import (
	"school-quiz-backend/internal/models"

	"gorm.io/gorm"
)

// Curriculum bulk import. The payload mirrors the JSON files the
// content team authors: a structure section (grades and units, matched
// by name) and a flat question list matched to units by topic.

type ImportInput struct {
	Grades    []ImportGrade    `json:"grades"`
	Units     []ImportUnit     `json:"units"`
	Questions []ImportQuestion `json:"questions"`
}

type ImportGrade struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ImportUnit struct {
	GradeName       string `json:"grade_name" binding:"required"`
	UnitNumber      int    `json:"unit_number" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ImportQuestion struct {
	Topic         string              `json:"topic" binding:"required"`
	QuestionText  string              `json:"question_text" binding:"required"`
	QuestionType  string              `json:"question_type" binding:"required"`
	Answers       []AnswerInput       `json:"answers"`
	MatchingPairs []MatchingPairInput `json:"matching_pairs"`
}

type ImportStats struct {
	Grades    int `json:"grades"`
	Units     int `json:"units"`
	Questions int `json:"questions"`
	Skipped   int `json:"skipped"`
}

// ImportContent applies the whole payload in one transaction. Grades
// and units are upserted by their natural keys; entries referencing an
// unknown grade or topic are skipped and counted, not fatal.
func (s *CurriculumService) ImportContent(input ImportInput) (*ImportStats, error) {
	stats := &ImportStats{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, g := range input.Grades {
			var grade models.Grade
			if err := tx.Where(models.Grade{Name: g.Name}).
				Assign(models.Grade{Description: g.Description}).
				FirstOrCreate(&grade).Error; err != nil {
				return err
			}
			stats.Grades++
		}

		for _, u := range input.Units {
			var grade models.Grade
			if err := tx.Where("name = ?", u.GradeName).First(&grade).Error; err != nil {
				stats.Skipped++
				continue
			}
			duration := u.DurationMinutes
			if duration <= 0 {
				duration = 10
			}
			var unit models.Unit
			if err := tx.Where(models.Unit{GradeID: grade.ID, UnitNumber: u.UnitNumber}).
				Assign(map[string]interface{}{
					"title":            u.Title,
					"description":      u.Description,
					"duration_minutes": duration,
				}).
				FirstOrCreate(&unit).Error; err != nil {
				return err
			}
			stats.Units++
		}

		for _, q := range input.Questions {
			var unit models.Unit
			if err := tx.Where("title = ?", q.Topic).First(&unit).Error; err != nil {
				stats.Skipped++
				continue
			}
			if err := validateQuestionByType(q.QuestionType, q.Answers, q.MatchingPairs); err != nil {
				stats.Skipped++
				continue
			}

			var count int64
			if err := tx.Model(&models.Question{}).Where("unit_id = ?", unit.ID).Count(&count).Error; err != nil {
				return err
			}
			question := models.Question{
				UnitID:   unit.ID,
				Text:     q.QuestionText,
				Type:     q.QuestionType,
				OrderNum: int(count) + 1,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			if err := s.createQuestionChildren(tx, &question, QuestionInput{
				Answers:       q.Answers,
				MatchingPairs: q.MatchingPairs,
			}); err != nil {
				return err
			}
			stats.Questions++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
