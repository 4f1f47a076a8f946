package services

import (
	"testing"

	"school-quiz-backend/internal/models"
)

func TestCreateQuestionAssignsNextOrder(t *testing.T) {
	db := newTestDB(t)
	curriculum := NewCurriculumService(db)

	grade := createGrade(t, db, "Grade 4")
	unit := createUnit(t, db, grade.ID, 10, true)

	input := QuestionInput{
		Text: "first",
		Type: models.QuestionTypeChoiceText,
		Answers: []AnswerInput{
			{Text: "a", IsCorrect: true},
			{Text: "b"},
		},
	}
	first, err := curriculum.CreateQuestion(unit.ID, input)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.OrderNum != 1 {
		t.Fatalf("first order_num = %d, want 1", first.OrderNum)
	}

	input.Text = "second"
	second, err := curriculum.CreateQuestion(unit.ID, input)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.OrderNum != 2 {
		t.Fatalf("second order_num = %d, want 2", second.OrderNum)
	}
	if len(second.Answers) != 2 {
		t.Fatalf("answers not persisted: %d", len(second.Answers))
	}
}

func TestQuestionValidationByType(t *testing.T) {
	cases := []struct {
		name    string
		qType   string
		answers []AnswerInput
		pairs   []MatchingPairInput
		wantErr bool
	}{
		{
			name:    "choice with one answer",
			qType:   models.QuestionTypeChoiceText,
			answers: []AnswerInput{{Text: "a", IsCorrect: true}},
			wantErr: true,
		},
		{
			name:  "choice with two correct",
			qType: models.QuestionTypeChoiceText,
			answers: []AnswerInput{
				{Text: "a", IsCorrect: true},
				{Text: "b", IsCorrect: true},
			},
			wantErr: true,
		},
		{
			name:  "valid true/false",
			qType: models.QuestionTypeTrueFalse,
			answers: []AnswerInput{
				{Text: "True", IsCorrect: true},
				{Text: "False"},
			},
		},
		{
			name:  "true/false with three answers",
			qType: models.QuestionTypeTrueFalse,
			answers: []AnswerInput{
				{Text: "True", IsCorrect: true},
				{Text: "False"},
				{Text: "Maybe"},
			},
			wantErr: true,
		},
		{
			name:    "valid short answer",
			qType:   models.QuestionTypeShortAnswer,
			answers: []AnswerInput{{Text: "nile", IsCorrect: true}},
		},
		{
			name:    "short answer with no correct flag",
			qType:   models.QuestionTypeShortAnswer,
			answers: []AnswerInput{{Text: "nile"}},
			wantErr: true,
		},
		{
			name:  "valid matching",
			qType: models.QuestionTypeMatchingText,
			pairs: []MatchingPairInput{
				{PromptText: "a", MatchText: "1"},
				{PromptText: "b", MatchText: "2"},
			},
		},
		{
			name:    "matching with one pair",
			qType:   models.QuestionTypeMatchingText,
			pairs:   []MatchingPairInput{{PromptText: "a", MatchText: "1"}},
			wantErr: true,
		},
		{
			name:    "unknown type",
			qType:   "ESSAY",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateQuestionByType(tc.qType, tc.answers, tc.pairs)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpdateQuestionReplacesChildren(t *testing.T) {
	db := newTestDB(t)
	curriculum := NewCurriculumService(db)

	grade := createGrade(t, db, "Grade 4")
	unit := createUnit(t, db, grade.ID, 10, true)

	created, err := curriculum.CreateQuestion(unit.ID, QuestionInput{
		Text: "original",
		Type: models.QuestionTypeChoiceText,
		Answers: []AnswerInput{
			{Text: "a", IsCorrect: true},
			{Text: "b"},
			{Text: "c"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := curriculum.UpdateQuestion(created.ID, QuestionInput{
		Text: "revised",
		Type: models.QuestionTypeTrueFalse,
		Answers: []AnswerInput{
			{Text: "True"},
			{Text: "False", IsCorrect: true},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Text != "revised" || updated.Type != models.QuestionTypeTrueFalse {
		t.Fatalf("updated = %+v", updated)
	}
	if len(updated.Answers) != 2 {
		t.Fatalf("answers after update = %d, want 2", len(updated.Answers))
	}

	var orphans int64
	if err := db.Model(&models.Answer{}).
		Where("question_id = ?", created.ID).
		Count(&orphans).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if orphans != 2 {
		t.Fatalf("stored answers = %d, want old ones replaced", orphans)
	}
}

func TestDeleteUnitRemovesContent(t *testing.T) {
	db := newTestDB(t)
	curriculum := NewCurriculumService(db)

	grade := createGrade(t, db, "Grade 4")
	unit := createUnit(t, db, grade.ID, 10, true)
	q, _ := addChoiceQuestion(t, db, unit.ID, 1)
	addMatchingQuestion(t, db, unit.ID, 2, 2)

	if err := curriculum.DeleteUnit(unit.ID); err != nil {
		t.Fatalf("delete unit: %v", err)
	}

	var questions, answers, pairs int64
	db.Model(&models.Question{}).Where("unit_id = ?", unit.ID).Count(&questions)
	db.Model(&models.Answer{}).Where("question_id = ?", q.ID).Count(&answers)
	db.Model(&models.MatchingPair{}).Count(&pairs)
	if questions != 0 || answers != 0 || pairs != 0 {
		t.Fatalf("leftovers after delete: questions=%d answers=%d pairs=%d", questions, answers, pairs)
	}
}

func TestGradeCRUD(t *testing.T) {
	db := newTestDB(t)
	curriculum := NewCurriculumService(db)

	grade, err := curriculum.CreateGrade("Grade 1", "first year")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := curriculum.UpdateGrade(grade.ID, "Grade One", "renamed")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Grade One" {
		t.Fatalf("name = %q", updated.Name)
	}

	if err := curriculum.DeleteGrade(grade.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := curriculum.DeleteGrade(grade.ID); err != ErrGradeNotFound {
		t.Fatalf("double delete err = %v, want ErrGradeNotFound", err)
	}
}
