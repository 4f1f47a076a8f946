package services

import (
	"errors"
	"fmt"

	"school-quiz-backend/internal/models"

	"gorm.io/gorm"
)

// CurriculumService manages the content the quiz engine reads: grades,
// units, questions with their answers or matching pairs, and badges.
type CurriculumService struct {
	db *gorm.DB
}

func NewCurriculumService(db *gorm.DB) *CurriculumService {
	return &CurriculumService{db: db}
}

func (s *CurriculumService) ListGrades() ([]models.Grade, error) {
	var grades []models.Grade
	err := s.db.Order("name ASC").Find(&grades).Error
	return grades, err
}

func (s *CurriculumService) CreateGrade(name, description string) (*models.Grade, error) {
	grade := models.Grade{Name: name, Description: description}
	if err := s.db.Create(&grade).Error; err != nil {
		return nil, err
	}
	return &grade, nil
}

func (s *CurriculumService) UpdateGrade(gradeID uint, name, description string) (*models.Grade, error) {
	var grade models.Grade
	if err := s.db.First(&grade, gradeID).Error; err != nil {
		return nil, ErrGradeNotFound
	}
	grade.Name = name
	grade.Description = description
	if err := s.db.Save(&grade).Error; err != nil {
		return nil, err
	}
	return &grade, nil
}

func (s *CurriculumService) DeleteGrade(gradeID uint) error {
	result := s.db.Delete(&models.Grade{}, gradeID)
	if result.RowsAffected == 0 {
		return ErrGradeNotFound
	}
	return result.Error
}

type UnitInput struct {
	Title           string `json:"title" binding:"required,max=200"`
	Description     string `json:"description"`
	UnitNumber      int    `json:"unit_number" binding:"required,min=1"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
	IsPublished     bool   `json:"is_published"`
}

func (s *CurriculumService) ListUnits(gradeID uint) ([]models.Unit, error) {
	var units []models.Unit
	err := s.db.Where("grade_id = ?", gradeID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Order("unit_number ASC").
		Find(&units).Error
	return units, err
}

func (s *CurriculumService) CreateUnit(gradeID uint, input UnitInput) (*models.Unit, error) {
	var grade models.Grade
	if err := s.db.First(&grade, gradeID).Error; err != nil {
		return nil, ErrGradeNotFound
	}

	unit := models.Unit{
		GradeID:         gradeID,
		Title:           input.Title,
		Description:     input.Description,
		UnitNumber:      input.UnitNumber,
		DurationMinutes: input.DurationMinutes,
		IsPublished:     input.IsPublished,
	}
	if err := s.db.Create(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (s *CurriculumService) UpdateUnit(unitID uint, input UnitInput) (*models.Unit, error) {
	var unit models.Unit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		return nil, ErrUnitNotFound
	}

	unit.Title = input.Title
	unit.Description = input.Description
	unit.UnitNumber = input.UnitNumber
	unit.DurationMinutes = input.DurationMinutes
	unit.IsPublished = input.IsPublished
	if err := s.db.Save(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (s *CurriculumService) DeleteUnit(unitID uint) error {
	var unit models.Unit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		return ErrUnitNotFound
	}

	s.db.Where("question_id IN (SELECT id FROM questions WHERE unit_id = ?)", unitID).Delete(&models.Answer{})
	s.db.Where("question_id IN (SELECT id FROM questions WHERE unit_id = ?)", unitID).Delete(&models.MatchingPair{})
	s.db.Where("unit_id = ?", unitID).Delete(&models.Question{})
	return s.db.Delete(&unit).Error
}

type AnswerInput struct {
	Text      string `json:"text"`
	ImageURL  string `json:"image_url"`
	IsCorrect bool   `json:"is_correct"`
}

type MatchingPairInput struct {
	PromptText     string `json:"prompt_text"`
	MatchText      string `json:"match_text"`
	PromptImageURL string `json:"prompt_image_url"`
	MatchImageURL  string `json:"match_image_url"`
}

type QuestionInput struct {
	Text          string              `json:"text" binding:"required,max=500"`
	Type          string              `json:"type" binding:"required"`
	Answers       []AnswerInput       `json:"answers"`
	MatchingPairs []MatchingPairInput `json:"matching_pairs"`
}

func (s *CurriculumService) CreateQuestion(unitID uint, input QuestionInput) (*models.Question, error) {
	var unit models.Unit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		return nil, ErrUnitNotFound
	}

	if err := validateQuestionByType(input.Type, input.Answers, input.MatchingPairs); err != nil {
		return nil, err
	}

	var maxOrder int
	s.db.Model(&models.Question{}).Where("unit_id = ?", unitID).
		Select("COALESCE(MAX(order_num), 0)").Scan(&maxOrder)

	question := models.Question{
		UnitID:   unitID,
		Text:     input.Text,
		Type:     input.Type,
		OrderNum: maxOrder + 1,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		return s.createQuestionChildren(tx, &question, input)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Answers").Preload("MatchingPairs").First(&question, question.ID)
	return &question, nil
}

func (s *CurriculumService) UpdateQuestion(questionID uint, input QuestionInput) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return nil, ErrQuestionNotFound
	}

	if err := validateQuestionByType(input.Type, input.Answers, input.MatchingPairs); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		question.Text = input.Text
		question.Type = input.Type
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.MatchingPair{}).Error; err != nil {
			return err
		}
		return s.createQuestionChildren(tx, &question, input)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Answers").Preload("MatchingPairs").First(&question, questionID)
	return &question, nil
}

func (s *CurriculumService) createQuestionChildren(tx *gorm.DB, question *models.Question, input QuestionInput) error {
	for _, a := range input.Answers {
		answer := models.Answer{
			QuestionID: question.ID,
			Text:       a.Text,
			ImageURL:   a.ImageURL,
			IsCorrect:  a.IsCorrect,
		}
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
	}
	for _, p := range input.MatchingPairs {
		pair := models.MatchingPair{
			QuestionID:     question.ID,
			PromptText:     p.PromptText,
			MatchText:      p.MatchText,
			PromptImageURL: p.PromptImageURL,
			MatchImageURL:  p.MatchImageURL,
		}
		if err := tx.Create(&pair).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *CurriculumService) DeleteQuestion(questionID uint) error {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return ErrQuestionNotFound
	}

	s.db.Where("question_id = ?", questionID).Delete(&models.Answer{})
	s.db.Where("question_id = ?", questionID).Delete(&models.MatchingPair{})
	return s.db.Delete(&question).Error
}

func validateQuestionByType(qType string, answers []AnswerInput, pairs []MatchingPairInput) error {
	correctCount := 0
	for _, a := range answers {
		if a.IsCorrect {
			correctCount++
		}
	}

	switch qType {
	case models.QuestionTypeChoiceText, models.QuestionTypeChoiceImage:
		if len(answers) < 2 || len(answers) > 6 {
			return errors.New("choice questions must have 2 to 6 answers")
		}
		if correctCount != 1 {
			return errors.New("exactly one answer must be marked as correct")
		}

	case models.QuestionTypeTrueFalse:
		if len(answers) != 2 {
			return errors.New("true/false questions must have exactly 2 answers")
		}
		if correctCount != 1 {
			return errors.New("exactly one answer must be marked as correct")
		}

	case models.QuestionTypeShortAnswer, models.QuestionTypeFillBlank:
		if len(answers) < 1 {
			return errors.New("text questions must have at least one answer")
		}
		if correctCount != 1 {
			return errors.New("exactly one answer must be marked as correct")
		}

	case models.QuestionTypeMatchingText, models.QuestionTypeMatchingImage:
		if len(pairs) < 2 || len(pairs) > 8 {
			return errors.New("matching questions must have 2 to 8 pairs")
		}

	default:
		return fmt.Errorf("unknown question type: %s", qType)
	}
	return nil
}

// badges are admin-provisioned content referenced by slug from the
// achievement rules.

type BadgeInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	Slug        string `json:"slug" binding:"required,max=100"`
}

func (s *CurriculumService) ListBadges() ([]models.Badge, error) {
	var badges []models.Badge
	err := s.db.Order("name ASC").Find(&badges).Error
	return badges, err
}

func (s *CurriculumService) CreateBadge(input BadgeInput) (*models.Badge, error) {
	badge := models.Badge{
		Name:        input.Name,
		Description: input.Description,
		IconURL:     input.IconURL,
		Slug:        input.Slug,
	}
	if err := s.db.Create(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (s *CurriculumService) DeleteBadge(badgeID uint) error {
	result := s.db.Delete(&models.Badge{}, badgeID)
	if result.RowsAffected == 0 {
		return ErrBadgeNotFound
	}
	return result.Error
}
