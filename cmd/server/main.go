package main

import (
	"school-quiz-backend/internal/config"
	"school-quiz-backend/internal/database"
	"school-quiz-backend/internal/handlers"
	"school-quiz-backend/internal/logger"
	"school-quiz-backend/internal/middleware"
	"school-quiz-backend/internal/models"
	"school-quiz-backend/internal/services"
	"school-quiz-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title           School Quiz API
// @version         1.0
// @description     API for per-unit student quizzes with timed sessions, grading, badges and certificates
// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := database.Connect(cfg, log)
	database.AutoMigrate(db, log)

	hub := ws.NewHub(log)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	curriculumService := services.NewCurriculumService(db)
	achievementService := services.NewAchievementService(db)
	gradingService := services.NewGradingService(db, achievementService, hub, log)
	sessionService := services.NewSessionService(db, gradingService)
	certificateService := services.NewCertificateService(db)
	reportsService := services.NewReportsService(db)

	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(sessionService, gradingService, certificateService)
	studentHandler := handlers.NewStudentHandler(reportsService)
	adminHandler := handlers.NewAdminHandler(curriculumService, reportsService, authService)
	wsHandler := handlers.NewWSHandler(hub, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws/activity", wsHandler.ActivityFeed)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		student := api.Group("")
		student.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleStudent))
		{
			student.GET("/units", studentHandler.Units)
			student.GET("/units/:id/quiz", quizHandler.OpenQuiz)
			student.POST("/units/:id/quiz", quizHandler.SubmitQuiz)
			student.GET("/results/:id", quizHandler.GetResult)
			student.GET("/results/:id/certificate", quizHandler.Certificate)
			student.GET("/profile", studentHandler.Profile)
			student.GET("/mistakes", studentHandler.Mistakes)
			student.GET("/leaderboard", studentHandler.Leaderboard)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/grades", adminHandler.ListGrades)
			admin.POST("/grades", adminHandler.CreateGrade)
			admin.PUT("/grades/:id", adminHandler.UpdateGrade)
			admin.DELETE("/grades/:id", adminHandler.DeleteGrade)

			admin.GET("/grades/:id/units", adminHandler.ListUnits)
			admin.POST("/grades/:id/units", adminHandler.CreateUnit)
			admin.PUT("/units/:id", adminHandler.UpdateUnit)
			admin.DELETE("/units/:id", adminHandler.DeleteUnit)

			admin.POST("/units/:id/questions", adminHandler.CreateQuestion)
			admin.PUT("/questions/:id", adminHandler.UpdateQuestion)
			admin.DELETE("/questions/:id", adminHandler.DeleteQuestion)

			admin.GET("/badges", adminHandler.ListBadges)
			admin.POST("/badges", adminHandler.CreateBadge)
			admin.DELETE("/badges/:id", adminHandler.DeleteBadge)

			admin.POST("/import", adminHandler.Import)
			admin.GET("/dashboard", adminHandler.Dashboard)

			admin.GET("/students", adminHandler.ListStudents)
			admin.DELETE("/students/:id", adminHandler.DeleteStudent)
		}
	}

	log.Info("server starting", "port", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}
