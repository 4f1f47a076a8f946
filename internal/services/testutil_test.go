package services

import (
	"fmt"
	"testing"
	"time"

	"school-quiz-backend/internal/logger"
	"school-quiz-backend/internal/models"
	"school-quiz-backend/internal/ws"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Grade{},
		&models.User{},
		&models.Unit{},
		&models.Question{},
		&models.Answer{},
		&models.MatchingPair{},
		&models.QuizResult{},
		&models.StudentAnswer{},
		&models.Badge{},
		&models.StudentBadge{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestEngine(t *testing.T, db *gorm.DB) (*SessionService, *GradingService, *AchievementService) {
	t.Helper()
	log := logger.NewNop()
	achievements := NewAchievementService(db)
	grading := NewGradingService(db, achievements, ws.NewHub(log), log)
	session := NewSessionService(db, grading)
	return session, grading, achievements
}

func createGrade(t *testing.T, db *gorm.DB, name string) *models.Grade {
	t.Helper()
	grade := models.Grade{Name: name}
	if err := db.Create(&grade).Error; err != nil {
		t.Fatalf("create grade: %v", err)
	}
	return &grade
}

func createStudent(t *testing.T, db *gorm.DB, username string, gradeID uint) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Role:         models.RoleStudent,
		GradeID:      &gradeID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	return &user
}

func createUnit(t *testing.T, db *gorm.DB, gradeID uint, durationMinutes int, published bool) *models.Unit {
	t.Helper()
	unit := models.Unit{
		GradeID:         gradeID,
		Title:           fmt.Sprintf("Unit %d", time.Now().UnixNano()),
		UnitNumber:      1,
		DurationMinutes: durationMinutes,
		IsPublished:     published,
	}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatalf("create unit: %v", err)
	}
	return &unit
}

// addChoiceQuestion creates a single-select question with one correct
// and two wrong options, returning the question and the correct
// answer's id.
func addChoiceQuestion(t *testing.T, db *gorm.DB, unitID uint, order int) (*models.Question, uint) {
	t.Helper()
	question := models.Question{UnitID: unitID, Text: "pick one", Type: models.QuestionTypeChoiceText, OrderNum: order}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	answers := []models.Answer{
		{QuestionID: question.ID, Text: "right", IsCorrect: true},
		{QuestionID: question.ID, Text: "wrong a"},
		{QuestionID: question.ID, Text: "wrong b"},
	}
	if err := db.Create(&answers).Error; err != nil {
		t.Fatalf("create answers: %v", err)
	}
	return &question, answers[0].ID
}

func addTextQuestion(t *testing.T, db *gorm.DB, unitID uint, order int, correctText string) *models.Question {
	t.Helper()
	question := models.Question{UnitID: unitID, Text: "type it", Type: models.QuestionTypeShortAnswer, OrderNum: order}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	answer := models.Answer{QuestionID: question.ID, Text: correctText, IsCorrect: true}
	if err := db.Create(&answer).Error; err != nil {
		t.Fatalf("create answer: %v", err)
	}
	return &question
}

// addMatchingQuestion creates a matching question with n pairs and
// returns the pair ids.
func addMatchingQuestion(t *testing.T, db *gorm.DB, unitID uint, order, n int) (*models.Question, []uint) {
	t.Helper()
	question := models.Question{UnitID: unitID, Text: "match them", Type: models.QuestionTypeMatchingText, OrderNum: order}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		pair := models.MatchingPair{
			QuestionID: question.ID,
			PromptText: fmt.Sprintf("prompt %d", i),
			MatchText:  fmt.Sprintf("match %d", i),
		}
		if err := db.Create(&pair).Error; err != nil {
			t.Fatalf("create pair: %v", err)
		}
		ids = append(ids, pair.ID)
	}
	return &question, ids
}

func createBadge(t *testing.T, db *gorm.DB, slug string) *models.Badge {
	t.Helper()
	badge := models.Badge{Name: slug, Slug: slug}
	if err := db.Create(&badge).Error; err != nil {
		t.Fatalf("create badge: %v", err)
	}
	return &badge
}

// insertCompletedResult seeds a finalized attempt directly.
func insertCompletedResult(t *testing.T, db *gorm.DB, studentID, unitID uint, score float64, timeTaken *int) *models.QuizResult {
	t.Helper()
	now := time.Now()
	result := models.QuizResult{
		StudentID:        studentID,
		UnitID:           unitID,
		Score:            &score,
		StartTime:        now.Add(-time.Minute),
		CompletedAt:      &now,
		TimeTakenSeconds: timeTaken,
	}
	if err := db.Create(&result).Error; err != nil {
		t.Fatalf("insert completed result: %v", err)
	}
	return &result
}

func selectedID(id uint) *AnswerValue {
	return &AnswerValue{SelectedID: &id}
}

func textAnswer(text string) *AnswerValue {
	return &AnswerValue{Text: &text}
}

func matchAnswer(m models.MatchingSelection) *AnswerValue {
	return &AnswerValue{Matches: m}
}

func questionKey(q *models.Question) string {
	return fmt.Sprintf("%d", q.ID)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
