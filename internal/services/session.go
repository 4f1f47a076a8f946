package services

import (
	"errors"
	"math/rand"
	"time"

	"school-quiz-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SessionModeLive   = "live"
	SessionModeReview = "review"
)

// SessionView is what a student gets when opening a unit quiz: either
// the live question set with the countdown, or a read-only review of
// the completed attempt.
type SessionView struct {
	Mode   string      `json:"mode"`
	Live   *LiveQuiz   `json:"live,omitempty"`
	Review *QuizReview `json:"review,omitempty"`
}

type LiveQuiz struct {
	Unit                 UnitSummary    `json:"unit"`
	Questions            []LiveQuestion `json:"questions"`
	TimeRemainingSeconds int            `json:"time_remaining_seconds"`
}

type UnitSummary struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

// LiveQuestion carries no correctness flags. For matching questions
// the match options are the pairs themselves, re-shuffled on every
// view; the presented order is never persisted.
type LiveQuestion struct {
	ID           uint         `json:"id"`
	Text         string       `json:"text"`
	Type         string       `json:"type"`
	OrderNum     int          `json:"order_num"`
	Options      []LiveOption `json:"options,omitempty"`
	Prompts      []LiveOption `json:"prompts,omitempty"`
	MatchOptions []LiveOption `json:"match_options,omitempty"`
}

type LiveOption struct {
	ID       uint   `json:"id"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type QuizReview struct {
	Result  *models.QuizResult     `json:"result"`
	Answers []models.StudentAnswer `json:"answers"`
}

// SessionService resolves what a (student, unit) pair should see:
// a review of the completed attempt, a timeout finalization of an
// overdue one, or the live quiz with the remaining time.
type SessionService struct {
	db      *gorm.DB
	grading *GradingService
}

func NewSessionService(db *gorm.DB, grading *GradingService) *SessionService {
	return &SessionService{db: db, grading: grading}
}

func (s *SessionService) OpenSession(studentID, unitID uint) (*SessionView, error) {
	unit, err := s.visibleUnit(studentID, unitID)
	if err != nil {
		return nil, err
	}

	var completed models.QuizResult
	err = s.db.Where("student_id = ? AND unit_id = ? AND completed_at IS NOT NULL", studentID, unitID).
		First(&completed).Error
	if err == nil {
		return s.reviewView(&completed)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attempt, err := s.openAttempt(studentID, unit.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Lost a race with a concurrent finalization; the attempt is
		// completed now, so show the review.
		return s.completedReview(studentID, unitID)
	}
	if err != nil {
		return nil, err
	}

	deadline := attempt.StartTime.Add(time.Duration(unit.DurationMinutes) * time.Minute)
	if !time.Now().Before(deadline) {
		if err := s.grading.FinalizeTimeout(attempt); err != nil && !errors.Is(err, ErrQuizAlreadyCompleted) {
			return nil, err
		}
		return s.completedReview(studentID, unitID)
	}

	return s.liveView(unit, int(time.Until(deadline).Seconds()))
}

// visibleUnit enforces that the unit is published and belongs to the
// student's grade.
func (s *SessionService) visibleUnit(studentID, unitID uint) (*models.Unit, error) {
	var student models.User
	if err := s.db.First(&student, studentID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if student.GradeID == nil {
		return nil, ErrForbidden
	}

	var unit models.Unit
	err := s.db.Where("id = ? AND grade_id = ? AND is_published = ?", unitID, *student.GradeID, true).
		First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// openAttempt gets or creates the single in-progress attempt for the
// pair. The insert goes through the partial unique index, so two
// concurrent first opens converge on one row; the loser of the insert
// race just re-reads the winner's row.
func (s *SessionService) openAttempt(studentID, unitID uint) (*models.QuizResult, error) {
	attempt := models.QuizResult{
		StudentID: studentID,
		UnitID:    unitID,
		StartTime: time.Now(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "student_id"}, {Name: "unit_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "completed_at IS NULL"}}},
		DoNothing:   true,
	}).Create(&attempt).Error
	if err != nil {
		return nil, err
	}

	var open models.QuizResult
	if err := s.db.Where("student_id = ? AND unit_id = ? AND completed_at IS NULL", studentID, unitID).
		First(&open).Error; err != nil {
		return nil, err
	}
	return &open, nil
}

func (s *SessionService) completedReview(studentID, unitID uint) (*SessionView, error) {
	var completed models.QuizResult
	if err := s.db.Where("student_id = ? AND unit_id = ? AND completed_at IS NOT NULL", studentID, unitID).
		First(&completed).Error; err != nil {
		return nil, err
	}
	return s.reviewView(&completed)
}

func (s *SessionService) reviewView(result *models.QuizResult) (*SessionView, error) {
	var answers []models.StudentAnswer
	err := s.db.Where("quiz_result_id = ?", result.ID).
		Joins("JOIN questions ON questions.id = student_answers.question_id").
		Order("questions.order_num ASC").
		Preload("Question").
		Preload("Question.Answers").
		Preload("Question.MatchingPairs").
		Preload("SelectedAnswer").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	return &SessionView{
		Mode:   SessionModeReview,
		Review: &QuizReview{Result: result, Answers: answers},
	}, nil
}

func (s *SessionService) liveView(unit *models.Unit, remainingSeconds int) (*SessionView, error) {
	var questions []models.Question
	err := s.db.Where("unit_id = ?", unit.ID).
		Preload("Answers").
		Preload("MatchingPairs").
		Order("order_num ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	live := &LiveQuiz{
		Unit: UnitSummary{
			ID:              unit.ID,
			Title:           unit.Title,
			DurationMinutes: unit.DurationMinutes,
		},
		Questions:            make([]LiveQuestion, 0, len(questions)),
		TimeRemainingSeconds: remainingSeconds,
	}

	for i := range questions {
		q := &questions[i]
		lq := LiveQuestion{
			ID:       q.ID,
			Text:     q.Text,
			Type:     q.Type,
			OrderNum: q.OrderNum,
		}

		if q.IsChoice() {
			for j := range q.Answers {
				a := &q.Answers[j]
				lq.Options = append(lq.Options, LiveOption{ID: a.ID, Text: a.Text, ImageURL: a.ImageURL})
			}
		}

		if q.IsMatching() {
			for j := range q.MatchingPairs {
				p := &q.MatchingPairs[j]
				lq.Prompts = append(lq.Prompts, LiveOption{ID: p.ID, Text: p.PromptText, ImageURL: p.PromptImageURL})
				lq.MatchOptions = append(lq.MatchOptions, LiveOption{ID: p.ID, Text: p.MatchText, ImageURL: p.MatchImageURL})
			}
			rand.Shuffle(len(lq.MatchOptions), func(a, b int) {
				lq.MatchOptions[a], lq.MatchOptions[b] = lq.MatchOptions[b], lq.MatchOptions[a]
			})
		}

		live.Questions = append(live.Questions, lq)
	}

	return &SessionView{Mode: SessionModeLive, Live: live}, nil
}
