package services

import (
	"errors"
	"testing"

	"school-quiz-backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, "test-secret")

	grade := createGrade(t, db, "Grade 4")

	token, err := auth.RegisterStudent("salma", "s3cret", "Salma A", grade.ID)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("register returned empty token")
	}

	var user models.User
	if err := db.Where("username = ?", "salma").First(&user).Error; err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if user.Role != models.RoleStudent {
		t.Fatalf("role = %q, want STUDENT", user.Role)
	}
	if user.GradeID == nil || *user.GradeID != grade.ID {
		t.Fatalf("grade_id = %v, want %d", user.GradeID, grade.ID)
	}
	if user.PasswordHash == "s3cret" {
		t.Fatal("password stored in plain text")
	}

	if _, err := auth.Login("salma", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := auth.Login("salma", "wrong"); err == nil {
		t.Fatal("login accepted a wrong password")
	}
	if _, err := auth.Login("nobody", "s3cret"); err == nil {
		t.Fatal("login accepted an unknown user")
	}
}

func TestRegisterRejectsDuplicateAndUnknownGrade(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, "test-secret")

	grade := createGrade(t, db, "Grade 4")

	if _, err := auth.RegisterStudent("taken", "pw", "", grade.ID); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := auth.RegisterStudent("taken", "pw", "", grade.ID); err == nil {
		t.Fatal("duplicate username accepted")
	}
	if _, err := auth.RegisterStudent("fresh", "pw", "", 9999); !errors.Is(err, ErrGradeNotFound) {
		t.Fatalf("unknown grade err = %v, want ErrGradeNotFound", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, "test-secret")

	token, err := auth.GenerateToken(42, models.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, role, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != 42 || role != models.RoleAdmin {
		t.Fatalf("claims = (%d, %q), want (42, ADMIN)", userID, role)
	}

	other := NewAuthService(db, "other-secret")
	if _, _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token validated with the wrong secret")
	}
	if _, _, err := auth.ValidateToken("garbage"); err == nil {
		t.Fatal("garbage token validated")
	}
}

func TestListAndDeleteStudents(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, "test-secret")

	gradeA := createGrade(t, db, "Grade 4")
	gradeB := createGrade(t, db, "Grade 5")
	a := createStudent(t, db, "anna", gradeA.ID)
	createStudent(t, db, "bill", gradeB.ID)

	admin := models.User{Username: "boss", PasswordHash: "x", Role: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	all, err := auth.ListStudents(nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("students = %d, want 2 (admin excluded)", len(all))
	}

	scoped, err := auth.ListStudents(&gradeA.ID)
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(scoped) != 1 || scoped[0].ID != a.ID {
		t.Fatalf("scoped = %+v", scoped)
	}

	if err := auth.DeleteStudent(admin.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("deleting an admin err = %v, want ErrUserNotFound", err)
	}
	if err := auth.DeleteStudent(a.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}
	if err := auth.DeleteStudent(a.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("double delete err = %v, want ErrUserNotFound", err)
	}
}
