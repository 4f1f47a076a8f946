package handlers

import (
	"net/http"
	"strconv"

	"school-quiz-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	sessionService     *services.SessionService
	gradingService     *services.GradingService
	certificateService *services.CertificateService
}

func NewQuizHandler(sessionService *services.SessionService, gradingService *services.GradingService, certificateService *services.CertificateService) *QuizHandler {
	return &QuizHandler{
		sessionService:     sessionService,
		gradingService:     gradingService,
		certificateService: certificateService,
	}
}

// OpenQuiz godoc
// @Summary      Open a unit quiz session
// @Description  Returns a live quiz with remaining time, or the review of a completed attempt
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Unit ID"
// @Router       /units/{id}/quiz [get]
func (h *QuizHandler) OpenQuiz(c *gin.Context) {
	unitID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid unit id"})
		return
	}

	view, err := h.sessionService.OpenSession(c.GetUint("user_id"), uint(unitID))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SubmitQuiz godoc
// @Summary      Submit quiz answers for grading
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Unit ID"
// @Router       /units/{id}/quiz [post]
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	unitID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid unit id"})
		return
	}

	var sub services.QuizSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.gradingService.SubmitQuiz(c.GetUint("user_id"), uint(unitID), sub)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"score":     result.Score,
		"result_id": result.ID,
	})
}

func (h *QuizHandler) GetResult(c *gin.Context) {
	resultID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid result id"})
		return
	}

	result, err := h.certificateService.GetResult(c.GetUint("user_id"), uint(resultID))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":               result,
		"certificate_eligible": h.certificateService.IsEligible(result),
	})
}

// Certificate godoc
// @Summary      Issue the certificate for a passing result
// @Tags         quiz
// @Security     BearerAuth
// @Param        id path int true "Result ID"
// @Router       /results/{id}/certificate [get]
func (h *QuizHandler) Certificate(c *gin.Context) {
	resultID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid result id"})
		return
	}

	cert, err := h.certificateService.Issue(c.GetUint("user_id"), uint(resultID))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cert)
}
