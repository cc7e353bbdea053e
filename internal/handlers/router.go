// internal/handlers/router.go
package handlers

import (
	"net/http"
	"time"

	"apptrack-backend/internal/common/config"
	"apptrack-backend/internal/common/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the router needs to assemble the API surface.
type Deps struct {
	Config    *config.Config
	Log       logger.Logger
	Validator TokenValidator
	Auth      *AuthHandler
	Jobs      *JobsHandler
	Resumes   *ResumesHandler
	Analysis  *AnalysisHandler
	Admin     *AdminHandler
	Health    gin.HandlerFunc
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(Metrics())

	corsCfg := cors.DefaultConfig()
	if d.Config.Server.CORSAllowedOrigin != "" {
		corsCfg.AllowOrigins = []string{d.Config.Server.CORSAllowedOrigin}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Admin-Secret")
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	if d.Health != nil {
		router.GET("/healthz", d.Health)
	} else {
		router.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", d.Auth.Signup)
		authGroup.POST("/login", d.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(AuthRequired(d.Validator, d.Log))
	{
		protected.POST("/jobs", d.Jobs.Create)
		protected.GET("/jobs", d.Jobs.List)
		protected.GET("/jobs/:id", d.Jobs.Get)
		protected.PATCH("/jobs/:id", d.Jobs.Update)
		protected.DELETE("/jobs/:id", d.Jobs.Delete)
		protected.GET("/jobs/:id/interview-questions", d.Analysis.InterviewQuestions)
		protected.GET("/jobs/:id/matching-resumes", d.Resumes.MatchJob)

		protected.POST("/resumes", d.Resumes.Upload)
		protected.GET("/resumes", d.Resumes.List)
		protected.GET("/resumes/:id", d.Resumes.Get)
		protected.DELETE("/resumes/:id", d.Resumes.Delete)

		protected.POST("/analyze", d.Analysis.Analyze)
	}

	admin := api.Group("/admin")
	admin.Use(AdminSecretRequired(d.Config.Server.AdminSecret))
	{
		admin.POST("/tasks/send-deadline-reminders", d.Admin.TriggerDeadlineSweep)
	}

	return router
}
