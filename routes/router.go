package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/plabs/showwall/config"
	"github.com/plabs/showwall/controllers"
	"github.com/plabs/showwall/middleware"
	"github.com/plabs/showwall/repository"
	"github.com/plabs/showwall/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(repo repository.SubmissionRepository, ledger repository.UploadLedger) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// File-based access log so the app log stays readable
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(middleware.AccessLog(gl))
		r.Use(middleware.Recovery(gl))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Stored images are served straight off disk
	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	submissionController := controllers.NewSubmissionController(repo, ledger, controllers.SubmissionOptions{
		UploadDir:     cfg.UploadDir,
		BaseURL:       cfg.BaseURL,
		MaxUploadSize: int64(cfg.MaxUploadSizeMB) << 20,
		MaxImages:     cfg.MaxImagesPerSubmission,
		CacheTTL:      time.Duration(cfg.CacheTTLSeconds) * time.Second,
	})

	api := r.Group("/api")
	api.POST("/submissions", submissionController.CreateSubmission)
	api.GET("/submissions", submissionController.ListSubmissions)
	api.GET("/submissions/grouped", submissionController.ListGrouped)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
