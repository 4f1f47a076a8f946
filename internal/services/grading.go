package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"school-quiz-backend/internal/logger"
	"school-quiz-backend/internal/models"
	"school-quiz-backend/internal/ws"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TimeoutAnswerText is the sentinel recorded for every question of an
// attempt finalized by deadline expiry.
const TimeoutAnswerText = "Time Out"

// GradingService finalizes quiz attempts: it grades the submission,
// persists the per-question results and aggregate score in one
// transaction, and hands the completed attempt to the achievement
// evaluator. Each attempt is finalized at most once.
type GradingService struct {
	db           *gorm.DB
	achievements *AchievementService
	hub          *ws.Hub
	log          *logger.Logger
}

func NewGradingService(db *gorm.DB, achievements *AchievementService, hub *ws.Hub, log *logger.Logger) *GradingService {
	return &GradingService{db: db, achievements: achievements, hub: hub, log: log}
}

// SubmitQuiz grades and finalizes the in-progress attempt of
// (student, unit) from an explicit submission.
func (s *GradingService) SubmitQuiz(studentID, unitID uint, sub QuizSubmission) (*models.QuizResult, error) {
	var completed models.QuizResult
	err := s.db.Where("student_id = ? AND unit_id = ? AND completed_at IS NOT NULL", studentID, unitID).
		First(&completed).Error
	if err == nil {
		return nil, ErrQuizAlreadyCompleted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var result models.QuizResult
	err = s.db.Where("student_id = ? AND unit_id = ? AND completed_at IS NULL", studentID, unitID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoQuizInProgress
	}
	if err != nil {
		return nil, err
	}

	questions, err := s.loadQuestions(unitID)
	if err != nil {
		return nil, err
	}

	submitted := sub.Answers
	if submitted == nil {
		submitted = map[string]*AnswerValue{}
	}

	answers := make([]models.StudentAnswer, 0, len(questions))
	correctCount := 0
	for i := range questions {
		q := &questions[i]
		sa, err := s.gradeQuestion(q, submitted[strconv.FormatUint(uint64(q.ID), 10)])
		if err != nil {
			return nil, err
		}
		if sa.IsCorrect {
			correctCount++
		}
		answers = append(answers, sa)
	}

	score := 0.0
	if len(questions) > 0 {
		score = float64(correctCount) / float64(len(questions)) * 100
	}

	now := time.Now()
	timeTaken := sub.TimeTakenSeconds
	if err := s.finalize(&result, answers, map[string]interface{}{
		"score":              score,
		"completed_at":       now,
		"time_taken_seconds": timeTaken,
	}); err != nil {
		return nil, err
	}

	result.Score = &score
	result.CompletedAt = &now
	result.TimeTakenSeconds = &timeTaken

	s.afterFinalize(&result)
	return &result, nil
}

// FinalizeTimeout closes an attempt whose deadline passed without a
// submission: score is hard-set to 0 and every question gets the
// timeout sentinel answer. Elapsed time stays null.
func (s *GradingService) FinalizeTimeout(result *models.QuizResult) error {
	questions, err := s.loadQuestions(result.UnitID)
	if err != nil {
		return err
	}

	answers := make([]models.StudentAnswer, 0, len(questions))
	for i := range questions {
		answers = append(answers, models.StudentAnswer{
			QuestionID: questions[i].ID,
			TextAnswer: TimeoutAnswerText,
		})
	}

	score := 0.0
	now := time.Now()
	if err := s.finalize(result, answers, map[string]interface{}{
		"score":        score,
		"completed_at": now,
	}); err != nil {
		return err
	}

	result.Score = &score
	result.CompletedAt = &now

	s.afterFinalize(result)
	return nil
}

// finalize applies the attempt updates and the answer batch as one
// atomic unit. The guarded update rejects attempts already completed
// by a concurrent finalization.
func (s *GradingService) finalize(result *models.QuizResult, answers []models.StudentAnswer, updates map[string]interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.QuizResult{}).
			Where("id = ? AND completed_at IS NULL", result.ID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuizAlreadyCompleted
		}

		for i := range answers {
			answers[i].QuizResultID = result.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GradingService) loadQuestions(unitID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Where("unit_id = ?", unitID).
		Preload("Answers").
		Preload("MatchingPairs").
		Order("order_num ASC").
		Find(&questions).Error
	return questions, err
}

// gradeQuestion applies the type-specific correctness rule. The switch
// is exhaustive over the question-type set; an unknown type aborts the
// whole finalize. A nil or shape-mismatched value counts as unanswered.
func (s *GradingService) gradeQuestion(q *models.Question, val *AnswerValue) (models.StudentAnswer, error) {
	sa := models.StudentAnswer{QuestionID: q.ID}

	switch q.Type {
	case models.QuestionTypeChoiceText, models.QuestionTypeChoiceImage, models.QuestionTypeTrueFalse:
		if val == nil || val.SelectedID == nil {
			return sa, nil
		}
		// Ids that don't belong to this question grade as unanswered.
		for i := range q.Answers {
			if q.Answers[i].ID == *val.SelectedID {
				sa.SelectedAnswerID = &q.Answers[i].ID
				sa.IsCorrect = q.Answers[i].IsCorrect
				break
			}
		}

	case models.QuestionTypeShortAnswer, models.QuestionTypeFillBlank:
		correct := q.CorrectAnswer()
		if correct == nil {
			return sa, fmt.Errorf("%w: question %d", ErrMissingCorrectAnswer, q.ID)
		}
		if val == nil || val.Text == nil {
			return sa, nil
		}
		text := strings.TrimSpace(*val.Text)
		sa.TextAnswer = text
		sa.IsCorrect = strings.EqualFold(text, strings.TrimSpace(correct.Text))

	case models.QuestionTypeMatchingText, models.QuestionTypeMatchingImage:
		if val == nil || val.Matches == nil {
			return sa, nil
		}
		sa.MatchingAnswer = datatypes.NewJSONType(val.Matches)
		// Match-option ids are the pair ids themselves, so a pairing is
		// correct when the prompt id maps back to itself. All pairs must
		// match for the question to count.
		correctMatches := 0
		for promptID, matchID := range val.Matches {
			if promptID == strconv.FormatUint(uint64(matchID), 10) {
				correctMatches++
			}
		}
		total := len(q.MatchingPairs)
		sa.IsCorrect = total > 0 && correctMatches == total

	default:
		return sa, fmt.Errorf("%w: unknown question type %q", ErrInvalidSubmission, q.Type)
	}

	return sa, nil
}

// afterFinalize runs badge evaluation and broadcasts activity. It runs
// after the grading transaction committed; a badge failure is logged
// and never reverts the grade.
func (s *GradingService) afterFinalize(result *models.QuizResult) {
	awarded, err := s.achievements.Evaluate(result.StudentID, result)
	if err != nil {
		s.log.Error("badge evaluation failed", "result_id", result.ID, "student_id", result.StudentID, "err", err)
	}

	s.hub.Broadcast(ws.Event{Type: "quiz_completed", Data: map[string]interface{}{
		"result_id":  result.ID,
		"student_id": result.StudentID,
		"unit_id":    result.UnitID,
		"score":      result.Score,
	}})
	for _, slug := range awarded {
		s.hub.Broadcast(ws.Event{Type: "badge_awarded", Data: map[string]interface{}{
			"student_id": result.StudentID,
			"badge":      slug,
		}})
	}
}
