package handlers

import (
	"errors"
	"net/http"

	"school-quiz-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// abortWithError maps service errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnitNotFound),
		errors.Is(err, services.ErrResultNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrGradeNotFound),
		errors.Is(err, services.ErrBadgeNotFound),
		errors.Is(err, services.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrQuizAlreadyCompleted):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNoQuizInProgress),
		errors.Is(err, services.ErrInvalidSubmission):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotEligible):
		status = http.StatusForbidden
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
