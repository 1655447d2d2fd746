package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/PrepGrid-2025/testing-service/internal/config"
	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories/casdoor"
	"github.com/PrepGrid-2025/testing-service/internal/services"
	"github.com/PrepGrid-2025/testing-service/internal/sessions"
	"github.com/PrepGrid-2025/testing-service/internal/utils"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	testHandler       *TestHandler
	submissionHandler *SubmissionHandler
	adminHandler      *AdminHandler
	authMiddleware    *SessionAuthMiddleware
	uploadDir         string
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	provider *casdoor.IdentityProvider,
	store sessions.Store,
	validator *validator.Validator,
	logger utils.Logger,
	cfg *config.Config,
) *HandlerManager {
	authMiddleware := NewSessionAuthMiddleware(store, serviceManager.Auth())

	return &HandlerManager{
		authHandler:       NewAuthHandler(provider, serviceManager.Auth(), store, cfg, logger),
		testHandler:       NewTestHandler(serviceManager.Test(), validator, logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), validator, logger),
		adminHandler:      NewAdminHandler(serviceManager.Test(), serviceManager.ImportExport(), validator, cfg.UploadDir, logger),
		authMiddleware:    authMiddleware,
		uploadDir:         cfg.UploadDir,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// OAuth surface, reachable without a session
	auth := router.Group("/auth")
	{
		auth.GET("/login", hm.authHandler.Login)
		auth.GET("/callback", hm.authHandler.Callback)
		auth.GET("/logout", hm.authHandler.Logout)
		auth.GET("/current_user", hm.authMiddleware.AuthMiddleware(), hm.authHandler.CurrentUser)
	}

	// Uploaded question images are public reads
	router.Static("/uploads", hm.uploadDir)

	// Everything below requires a live session
	api := router.Group("/")
	api.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Reads and submissions - any authenticated user
		api.GET("/tests", hm.testHandler.ListTests)
		api.GET("/tests/:id", hm.testHandler.GetTest)
		api.POST("/submit", hm.submissionHandler.Submit)

		// Authoring and review - admins only, role checked fresh per request
		admin := api.Group("/")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/save_test", hm.testHandler.SaveTest)
			admin.POST("/tests", hm.testHandler.CreateTest)
			admin.POST("/questions", hm.adminHandler.AddQuestion)
			admin.POST("/upload", hm.adminHandler.UploadImage)
			admin.POST("/tests/import", hm.adminHandler.ImportQuestions)
			admin.GET("/tests/:id/export", hm.adminHandler.ExportTest)
			admin.GET("/tests/:id/submissions", hm.submissionHandler.ListByTest)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "testing-service",
		})
	})
}
