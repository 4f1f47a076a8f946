package services

import (
	"errors"
	"time"

	"school-quiz-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateMinScore is the completion score required for a
// certificate.
const CertificateMinScore = 80

type Certificate struct {
	SerialNumber string    `json:"serial_number"`
	StudentName  string    `json:"student_name"`
	UnitTitle    string    `json:"unit_title"`
	Score        float64   `json:"score"`
	CompletedAt  time.Time `json:"completed_at"`
	IssuedAt     time.Time `json:"issued_at"`
}

type CertificateService struct {
	db *gorm.DB
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{db: db}
}

// GetResult returns the student's own result or ErrResultNotFound.
func (s *CertificateService) GetResult(studentID, resultID uint) (*models.QuizResult, error) {
	var result models.QuizResult
	err := s.db.Where("id = ? AND student_id = ?", resultID, studentID).
		Preload("Unit").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// IsEligible reports whether the attempt earns a certificate: it must
// be completed with a score of at least CertificateMinScore.
func (s *CertificateService) IsEligible(result *models.QuizResult) bool {
	return result.IsCompleted() && result.Score != nil && *result.Score >= CertificateMinScore
}

// Issue builds the certificate payload for an eligible result.
func (s *CertificateService) Issue(studentID, resultID uint) (*Certificate, error) {
	result, err := s.GetResult(studentID, resultID)
	if err != nil {
		return nil, err
	}
	if !s.IsEligible(result) {
		return nil, ErrNotEligible
	}

	var student models.User
	if err := s.db.First(&student, studentID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	name := student.FullName
	if name == "" {
		name = student.Username
	}

	return &Certificate{
		SerialNumber: uuid.NewString(),
		StudentName:  name,
		UnitTitle:    result.Unit.Title,
		Score:        *result.Score,
		CompletedAt:  *result.CompletedAt,
		IssuedAt:     time.Now(),
	}, nil
}
