package services

import (
	"sort"

	"school-quiz-backend/internal/models"

	"gorm.io/gorm"
)

const (
	UnitStatusLocked    = "locked"
	UnitStatusUnlocked  = "unlocked"
	UnitStatusCompleted = "completed"
)

// ReportsService serves the read-views around the quiz engine: the
// student's unit map, profile, mistakes review, grade leaderboards and
// the admin dashboard analytics.
type ReportsService struct {
	db *gorm.DB
}

func NewReportsService(db *gorm.DB) *ReportsService {
	return &ReportsService{db: db}
}

type AdventureUnit struct {
	Unit          models.Unit `json:"unit"`
	QuestionCount int64       `json:"question_count"`
	Status        string      `json:"status"`
}

// AdventureMap lists every unit of the student's grade with its state:
// completed once finalized, unlocked when published and question-ready,
// locked otherwise.
func (s *ReportsService) AdventureMap(studentID uint) ([]AdventureUnit, error) {
	var student models.User
	if err := s.db.First(&student, studentID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if student.GradeID == nil {
		return nil, ErrForbidden
	}

	var units []models.Unit
	if err := s.db.Where("grade_id = ?", *student.GradeID).
		Order("unit_number ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}

	counts := map[uint]int64{}
	type unitCount struct {
		UnitID uint
		Cnt    int64
	}
	var rows []unitCount
	if err := s.db.Model(&models.Question{}).
		Select("unit_id, COUNT(*) AS cnt").
		Group("unit_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.UnitID] = r.Cnt
	}

	completedIDs := map[uint]bool{}
	var unitIDs []uint
	if err := s.db.Model(&models.QuizResult{}).
		Where("student_id = ? AND completed_at IS NOT NULL", studentID).
		Pluck("unit_id", &unitIDs).Error; err != nil {
		return nil, err
	}
	for _, id := range unitIDs {
		completedIDs[id] = true
	}

	result := make([]AdventureUnit, 0, len(units))
	for _, unit := range units {
		status := UnitStatusLocked
		switch {
		case completedIDs[unit.ID]:
			status = UnitStatusCompleted
		case unit.IsPublished && counts[unit.ID] > 0:
			status = UnitStatusUnlocked
		}
		result = append(result, AdventureUnit{
			Unit:          unit,
			QuestionCount: counts[unit.ID],
			Status:        status,
		})
	}
	return result, nil
}

type GradeProgress struct {
	GradeID      uint                `json:"grade_id"`
	GradeName    string              `json:"grade_name"`
	Results      []models.QuizResult `json:"results"`
	TotalQuizzes int                 `json:"total_quizzes"`
	AverageScore float64             `json:"average_score"`
}

type StudentProfile struct {
	Student  models.User           `json:"student"`
	Progress []GradeProgress       `json:"progress"`
	Badges   []models.StudentBadge `json:"badges"`
}

// StudentProfile aggregates the student's completed results per grade
// and attaches the earned badges.
func (s *ReportsService) StudentProfile(studentID uint) (*StudentProfile, error) {
	var student models.User
	if err := s.db.Preload("Grade").First(&student, studentID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var results []models.QuizResult
	if err := s.db.Where("student_id = ? AND completed_at IS NOT NULL", studentID).
		Preload("Unit").
		Preload("Unit.Grade").
		Order("completed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	byGrade := map[uint]*GradeProgress{}
	var order []uint
	for _, r := range results {
		if r.Score == nil {
			continue
		}
		gid := r.Unit.GradeID
		progress, ok := byGrade[gid]
		if !ok {
			progress = &GradeProgress{GradeID: gid, GradeName: r.Unit.Grade.Name}
			byGrade[gid] = progress
			order = append(order, gid)
		}
		progress.Results = append(progress.Results, r)
		progress.TotalQuizzes++
		progress.AverageScore += *r.Score
	}

	progress := make([]GradeProgress, 0, len(order))
	for _, gid := range order {
		p := byGrade[gid]
		if p.TotalQuizzes > 0 {
			p.AverageScore /= float64(p.TotalQuizzes)
		}
		progress = append(progress, *p)
	}

	var badges []models.StudentBadge
	if err := s.db.Where("student_id = ?", studentID).
		Preload("Badge").
		Order("awarded_at DESC").
		Find(&badges).Error; err != nil {
		return nil, err
	}

	return &StudentProfile{Student: student, Progress: progress, Badges: badges}, nil
}

type MistakeEntry struct {
	Question      models.Question      `json:"question"`
	StudentAnswer models.StudentAnswer `json:"student_answer"`
	CorrectAnswer *models.Answer       `json:"correct_answer,omitempty"`
}

type UnitMistakes struct {
	Unit     models.Unit    `json:"unit"`
	Mistakes []MistakeEntry `json:"mistakes"`
}

// ReviewMistakes groups every incorrectly answered question of the
// student's completed attempts by unit.
func (s *ReportsService) ReviewMistakes(studentID uint) ([]UnitMistakes, error) {
	var answers []models.StudentAnswer
	err := s.db.
		Joins("JOIN quiz_results ON quiz_results.id = student_answers.quiz_result_id").
		Joins("JOIN questions ON questions.id = student_answers.question_id").
		Where("quiz_results.student_id = ? AND quiz_results.completed_at IS NOT NULL AND student_answers.is_correct = ?", studentID, false).
		Order("questions.unit_id ASC, questions.order_num ASC").
		Preload("Question").
		Preload("Question.Answers").
		Preload("SelectedAnswer").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	byUnit := map[uint][]MistakeEntry{}
	var unitIDs []uint
	for _, sa := range answers {
		entry := MistakeEntry{
			Question:      sa.Question,
			StudentAnswer: sa,
			CorrectAnswer: sa.Question.CorrectAnswer(),
		}
		if _, seen := byUnit[sa.Question.UnitID]; !seen {
			unitIDs = append(unitIDs, sa.Question.UnitID)
		}
		byUnit[sa.Question.UnitID] = append(byUnit[sa.Question.UnitID], entry)
	}

	var units []models.Unit
	if len(unitIDs) > 0 {
		if err := s.db.Where("id IN ?", unitIDs).Find(&units).Error; err != nil {
			return nil, err
		}
	}
	sort.Slice(units, func(a, b int) bool { return units[a].UnitNumber < units[b].UnitNumber })

	result := make([]UnitMistakes, 0, len(units))
	for _, unit := range units {
		result = append(result, UnitMistakes{Unit: unit, Mistakes: byUnit[unit.ID]})
	}
	return result, nil
}

type LeaderboardEntry struct {
	StudentID      uint    `json:"student_id"`
	Username       string  `json:"username"`
	FullName       string  `json:"full_name"`
	TotalQuizzes   int64   `json:"total_quizzes"`
	AverageScore   float64 `json:"average_score"`
	AvgTimeSeconds float64 `json:"avg_time_seconds,omitempty"`
}

type Leaderboard struct {
	Grade          models.Grade       `json:"grade"`
	TopScorers     []LeaderboardEntry `json:"top_scorers"`
	MostActive     []LeaderboardEntry `json:"most_active"`
	FastestSolvers []LeaderboardEntry `json:"fastest_solvers"`
}

// Leaderboard builds the three boards for the student's own grade.
func (s *ReportsService) Leaderboard(studentID uint) (*Leaderboard, error) {
	var student models.User
	if err := s.db.First(&student, studentID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if student.GradeID == nil {
		return nil, ErrForbidden
	}

	var grade models.Grade
	if err := s.db.First(&grade, *student.GradeID).Error; err != nil {
		return nil, ErrGradeNotFound
	}

	board := &Leaderboard{Grade: grade}

	base := func() *gorm.DB {
		return s.db.Table("users").
			Select("users.id AS student_id, users.username, users.full_name, COUNT(quiz_results.id) AS total_quizzes, COALESCE(AVG(quiz_results.score), 0) AS average_score").
			Joins("JOIN quiz_results ON quiz_results.student_id = users.id AND quiz_results.completed_at IS NOT NULL").
			Where("users.grade_id = ? AND users.role = ?", grade.ID, models.RoleStudent).
			Group("users.id, users.username, users.full_name")
	}

	if err := base().Order("average_score DESC, total_quizzes DESC").
		Limit(10).Scan(&board.TopScorers).Error; err != nil {
		return nil, err
	}
	if err := base().Order("total_quizzes DESC, average_score DESC").
		Limit(10).Scan(&board.MostActive).Error; err != nil {
		return nil, err
	}

	err := s.db.Table("users").
		Select("users.id AS student_id, users.username, users.full_name, COUNT(quiz_results.id) AS total_quizzes, COALESCE(AVG(quiz_results.time_taken_seconds), 0) AS avg_time_seconds").
		Joins("JOIN quiz_results ON quiz_results.student_id = users.id AND quiz_results.score = 100").
		Where("users.grade_id = ? AND users.role = ?", grade.ID, models.RoleStudent).
		Group("users.id, users.username, users.full_name").
		Order("avg_time_seconds ASC").
		Limit(10).
		Scan(&board.FastestSolvers).Error
	if err != nil {
		return nil, err
	}

	return board, nil
}

type QuestionDifficulty struct {
	QuestionID      uint    `json:"question_id"`
	Text            string  `json:"text"`
	TotalAttempts   int64   `json:"total_attempts"`
	CorrectAttempts int64   `json:"correct_attempts"`
	SuccessRate     float64 `json:"success_rate"`
}

type UnitDifficulty struct {
	Unit         models.Unit          `json:"unit"`
	AverageScore float64              `json:"average_score"`
	Attempts     int64                `json:"attempts"`
	Questions    []QuestionDifficulty `json:"questions"`
}

type GradeAnalytics struct {
	Grade models.Grade     `json:"grade"`
	Units []UnitDifficulty `json:"units"`
}

type DashboardStats struct {
	TotalStudents       int64              `json:"total_students"`
	TotalQuizzesTaken   int64              `json:"total_quizzes_taken"`
	OverallAverageScore float64            `json:"overall_average_score"`
	ContentAnalytics    []GradeAnalytics   `json:"content_analytics"`
	MostActiveStudents  []LeaderboardEntry `json:"most_active_students"`
}

// Dashboard computes the platform-wide admin view: summary counters
// plus, per grade, the three hardest published units and their five
// lowest-success-rate questions.
func (s *ReportsService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.User{}).
		Where("role = ?", models.RoleStudent).
		Count(&stats.TotalStudents).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.QuizResult{}).
		Where("completed_at IS NOT NULL").
		Count(&stats.TotalQuizzesTaken).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.QuizResult{}).
		Where("completed_at IS NOT NULL").
		Select("COALESCE(AVG(score), 0)").
		Scan(&stats.OverallAverageScore).Error; err != nil {
		return nil, err
	}

	var grades []models.Grade
	if err := s.db.Order("name ASC").Find(&grades).Error; err != nil {
		return nil, err
	}

	for _, grade := range grades {
		type unitAgg struct {
			UnitID       uint
			AverageScore float64
			Attempts     int64
		}
		var aggs []unitAgg
		err := s.db.Table("units").
			Select("units.id AS unit_id, COALESCE(AVG(quiz_results.score), 0) AS average_score, COUNT(quiz_results.id) AS attempts").
			Joins("JOIN quiz_results ON quiz_results.unit_id = units.id").
			Where("units.grade_id = ? AND units.is_published = ?", grade.ID, true).
			Group("units.id").
			Order("average_score ASC").
			Limit(3).
			Scan(&aggs).Error
		if err != nil {
			return nil, err
		}

		var unitsData []UnitDifficulty
		for _, agg := range aggs {
			var unit models.Unit
			if err := s.db.First(&unit, agg.UnitID).Error; err != nil {
				return nil, err
			}

			var questions []QuestionDifficulty
			err := s.db.Table("questions").
				Select("questions.id AS question_id, questions.text, COUNT(student_answers.id) AS total_attempts, " +
					"SUM(CASE WHEN student_answers.is_correct THEN 1 ELSE 0 END) AS correct_attempts, " +
					"(SUM(CASE WHEN student_answers.is_correct THEN 1 ELSE 0 END) * 100.0 / COUNT(student_answers.id)) AS success_rate").
				Joins("JOIN student_answers ON student_answers.question_id = questions.id").
				Where("questions.unit_id = ?", agg.UnitID).
				Group("questions.id, questions.text").
				Order("success_rate ASC").
				Limit(5).
				Scan(&questions).Error
			if err != nil {
				return nil, err
			}
			if len(questions) == 0 {
				continue
			}

			unitsData = append(unitsData, UnitDifficulty{
				Unit:         unit,
				AverageScore: agg.AverageScore,
				Attempts:     agg.Attempts,
				Questions:    questions,
			})
		}

		if len(unitsData) > 0 {
			stats.ContentAnalytics = append(stats.ContentAnalytics, GradeAnalytics{Grade: grade, Units: unitsData})
		}
	}

	err := s.db.Table("users").
		Select("users.id AS student_id, users.username, users.full_name, COUNT(quiz_results.id) AS total_quizzes, COALESCE(AVG(quiz_results.score), 0) AS average_score").
		Joins("JOIN quiz_results ON quiz_results.student_id = users.id AND quiz_results.completed_at IS NOT NULL").
		Where("users.role = ?", models.RoleStudent).
		Group("users.id, users.username, users.full_name").
		Order("total_quizzes DESC").
		Limit(5).
		Scan(&stats.MostActiveStudents).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
