package services

import (
	"errors"
	"testing"
	"time"

	"school-quiz-backend/internal/models"
)

func TestOpenSessionStartsLiveQuiz(t *testing.T) {
	db := newTestDB(t)
	session, _, _ := newTestEngine(t, db)

	grade := createGrade(t, db, "Grade 4")
	student := createStudent(t, db, "farah", grade.ID)
	unit := createUnit(t, db, grade.ID, 10, true)
	addChoiceQuestion(t, db, unit.ID, 1)
	addTextQuestion(t, db, unit.ID, 2, "nile")

	view, err := session.OpenSession(student.ID, unit.ID)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if view.Mode != SessionModeLive {
		t.Fatalf("mode = %q, want live", view.Mode)
	}
	if view.Live == nil || len(view.Live.Questions) != 2 {
		t.Fatalf("live view = %+v", view.Live)
	}
	if view.Live.TimeRemainingSeconds <= 0 || view.Live.TimeRemainingSeconds > 600 {
		t.Fatalf("time_remaining_seconds = %d", view.Live.TimeRemainingSeconds)
	}
	if view.Live.Questions[0].OrderNum != 1 || view.Live.Questions[1].OrderNum != 2 {
		t.Fatal("questions not ordered by order_num")
	}
	if len(view.Live.Questions[0].Options) != 3 {
		t.Fatalf("choice question has %d options", len(view.Live.Questions[0].Options))
	}

	var open models.QuizResult
	err = db.Where("student_id = ? AND unit_id = ? AND completed_at IS NULL", student.ID, unit.ID).
		First(&open).Error
	if err != nil {
		t.Fatalf("no open attempt persisted: %v", err)
	}
}

func TestOpenSessionReusesOpenAttempt(t *testing.T) {
	db := newTestDB(t)
	session, _, _ := newTestEngine(t, db)

	grade := createGrade(t, db, "Grade 4")
	student := createStudent(t, db, "karim", grade.ID)
	unit := createUnit(t, db, grade.ID, 10, true)
	addChoiceQuestion(t, db, unit.ID, 1)

	if _, err := session.OpenSession(student.ID, unit.ID); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := session.OpenSession(student.ID, unit.ID); err != nil {
		t.Fatalf("second open: %v", err)
	}

	var count int64
	if err := db.Model(&models.QuizResult{}).
		Where("student_id = ? AND unit_id = ?", student.ID, unit.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 1 {
		t.Fatalf("attempts = %d, want 1", count)
	}
}

func TestOpenSessionHidesUnitsOutsideGrade(t *testing.T) {
	db := newTestDB(t)
	session, _, _ := newTestEngine(t, db)

	own := createGrade(t, db, "Grade 4")
	other := createGrade(t, db, "Grade 5")
	student := createStudent(t, db, "dina", own.ID)

	foreign := createUnit(t, db, other.ID, 10, true)
	if _, err := session.OpenSession(student.ID, foreign.ID); !errors.Is(err, ErrUnitNotFound) {
		t.Fatalf("foreign-grade unit err = %v, want ErrUnitNotFound", err)
	}

	draft := createUnit(t, db, own.ID, 10, false)
	if _, err := session.OpenSession(student.ID, draft.ID); !errors.Is(err, ErrUnitNotFound) {
		t.Fatalf("unpublished unit err = %v, want ErrUnitNotFound", err)
	}
}

func TestOpenSessionFinalizesOverdueAttempt(t *testing.T) {
	db := newTestDB(t)
	session, _, _ := newTestEngine(t, db)

	grade := createGrade(t, db, "Grade 4")
	student := createStudent(t, db, "ziad", grade.ID)
	unit := createUnit(t, db, grade.ID, 10, true)
	addChoiceQuestion(t, db, unit.ID, 1)
	addTextQuestion(t, db, unit.ID, 2, "delta")

	if _, err := session.OpenSession(student.ID, unit.ID); err != nil {
		t.Fatalf("open session: %v", err)
	}
	// Push the attempt past its deadline.
	err := db.Model(&models.QuizResult{}).
		Where("student_id = ? AND unit_id = ?", student.ID, unit.ID).
		Update("start_time", time.Now().Add(-11*time.Minute)).Error
	if err != nil {
		t.Fatalf("backdate attempt: %v", err)
	}

	view, err := session.OpenSession(student.ID, unit.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if view.Mode != SessionModeReview {
		t.Fatalf("mode = %q, want review", view.Mode)
	}
	result := view.Review.Result
	if result.Score == nil || *result.Score != 0 {
		t.Fatalf("timed-out score = %v, want 0", result.Score)
	}
	if result.CompletedAt == nil {
		t.Fatal("timed-out attempt not completed")
	}
	if result.TimeTakenSeconds != nil {
		t.Fatalf("time_taken_seconds = %v, want nil on timeout", result.TimeTakenSeconds)
	}
	if len(view.Review.Answers) != 2 {
		t.Fatalf("review has %d answers, want 2", len(view.Review.Answers))
	}
	for _, a := range view.Review.Answers {
		if a.TextAnswer != TimeoutAnswerText {
			t.Fatalf("text_answer = %q, want %q", a.TextAnswer, TimeoutAnswerText)
		}
		if a.IsCorrect {
			t.Fatal("timed-out answer graded correct")
		}
	}
}

func TestOpenSessionReviewsCompletedAttempt(t *testing.T) {
	db := newTestDB(t)
	session, grading, _ := newTestEngine(t, db)

	grade := createGrade(t, db, "Grade 4")
	student := createStudent(t, db, "amira", grade.ID)
	unit := createUnit(t, db, grade.ID, 10, true)
	q, correctID := addChoiceQuestion(t, db, unit.ID, 1)

	if _, err := session.OpenSession(student.ID, unit.ID); err != nil {
		t.Fatalf("open session: %v", err)
	}
	if _, err := grading.SubmitQuiz(student.ID, unit.ID, QuizSubmission{
		Answers:          map[string]*AnswerValue{questionKey(q): selectedID(correctID)},
		TimeTakenSeconds: 30,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	view, err := session.OpenSession(student.ID, unit.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if view.Mode != SessionModeReview {
		t.Fatalf("mode = %q, want review", view.Mode)
	}
	if len(view.Review.Answers) != 1 || !view.Review.Answers[0].IsCorrect {
		t.Fatalf("review answers = %+v", view.Review.Answers)
	}
	if view.Review.Answers[0].Question.ID != q.ID {
		t.Fatal("review answer not preloaded with its question")
	}

	// No second attempt was opened by the review.
	var count int64
	if err := db.Model(&models.QuizResult{}).
		Where("student_id = ? AND unit_id = ?", student.ID, unit.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 1 {
		t.Fatalf("attempts = %d, want 1", count)
	}
}

func TestLiveMatchingOptionsCoverAllPairs(t *testing.T) {
	db := newTestDB(t)
	session, _, _ := newTestEngine(t, db)

	grade := createGrade(t, db, "Grade 4")
	student := createStudent(t, db, "tarek", grade.ID)
	unit := createUnit(t, db, grade.ID, 10, true)
	_, pairIDs := addMatchingQuestion(t, db, unit.ID, 1, 4)

	view, err := session.OpenSession(student.ID, unit.ID)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	q := view.Live.Questions[0]
	if len(q.Prompts) != 4 || len(q.MatchOptions) != 4 {
		t.Fatalf("prompts/options = %d/%d, want 4/4", len(q.Prompts), len(q.MatchOptions))
	}

	want := map[uint]bool{}
	for _, id := range pairIDs {
		want[id] = true
	}
	for _, opt := range q.MatchOptions {
		if !want[opt.ID] {
			t.Fatalf("unexpected match option id %d", opt.ID)
		}
		delete(want, opt.ID)
	}
	if len(want) != 0 {
		t.Fatalf("match options missing pair ids: %v", want)
	}
}
