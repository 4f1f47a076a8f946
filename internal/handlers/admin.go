package handlers

import (
	"net/http"
	"strconv"

	"school-quiz-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	curriculumService *services.CurriculumService
	reportsService    *services.ReportsService
	authService       *services.AuthService
}

func NewAdminHandler(curriculumService *services.CurriculumService, reportsService *services.ReportsService, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		curriculumService: curriculumService,
		reportsService:    reportsService,
		authService:       authService,
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

type GradeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

func (h *AdminHandler) ListGrades(c *gin.Context) {
	grades, err := h.curriculumService.ListGrades()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grades": grades})
}

func (h *AdminHandler) CreateGrade(c *gin.Context) {
	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	grade, err := h.curriculumService.CreateGrade(req.Name, req.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grade)
}

func (h *AdminHandler) UpdateGrade(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	grade, err := h.curriculumService.UpdateGrade(id, req.Name, req.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, grade)
}

func (h *AdminHandler) DeleteGrade(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.curriculumService.DeleteGrade(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "grade deleted"})
}

func (h *AdminHandler) ListUnits(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	units, err := h.curriculumService.ListUnits(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

func (h *AdminHandler) CreateUnit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.UnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	unit, err := h.curriculumService.CreateUnit(id, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func (h *AdminHandler) UpdateUnit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.UnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	unit, err := h.curriculumService.UpdateUnit(id, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *AdminHandler) DeleteUnit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.curriculumService.DeleteUnit(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "unit deleted"})
}

func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	question, err := h.curriculumService.CreateQuestion(id, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	question, err := h.curriculumService.UpdateQuestion(id, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.curriculumService.DeleteQuestion(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}

func (h *AdminHandler) ListBadges(c *gin.Context) {
	badges, err := h.curriculumService.ListBadges()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func (h *AdminHandler) CreateBadge(c *gin.Context) {
	var input services.BadgeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	badge, err := h.curriculumService.CreateBadge(input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, badge)
}

func (h *AdminHandler) DeleteBadge(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.curriculumService.DeleteBadge(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "badge deleted"})
}

// Import godoc
// @Summary      Bulk-import curriculum content
// @Tags         admin
// @Security     BearerAuth
// @Router       /admin/import [post]
func (h *AdminHandler) Import(c *gin.Context) {
	var input services.ImportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	stats, err := h.curriculumService.ImportContent(input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportsService.Dashboard()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListStudents(c *gin.Context) {
	var gradeID *uint
	if raw := c.Query("grade_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid grade_id"})
			return
		}
		id := uint(parsed)
		gradeID = &id
	}
	students, err := h.authService.ListStudents(gradeID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.authService.DeleteStudent(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "student deleted"})
}
