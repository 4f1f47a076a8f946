package handlers

import (
	"net/http"

	"school-quiz-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	reportsService *services.ReportsService
}

func NewStudentHandler(reportsService *services.ReportsService) *StudentHandler {
	return &StudentHandler{reportsService: reportsService}
}

// Units returns the adventure map of the student's grade.
func (h *StudentHandler) Units(c *gin.Context) {
	units, err := h.reportsService.AdventureMap(c.GetUint("user_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

func (h *StudentHandler) Profile(c *gin.Context) {
	profile, err := h.reportsService.StudentProfile(c.GetUint("user_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *StudentHandler) Mistakes(c *gin.Context) {
	mistakes, err := h.reportsService.ReviewMistakes(c.GetUint("user_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mistakes_by_unit": mistakes})
}

func (h *StudentHandler) Leaderboard(c *gin.Context) {
	board, err := h.reportsService.Leaderboard(c.GetUint("user_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
