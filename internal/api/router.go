// Package api exposes the lesson, homework and STEM features over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/grading"
	"github.com/abhisek/tinysteps/internal/lessons"
	"github.com/abhisek/tinysteps/internal/logger"
	"github.com/abhisek/tinysteps/internal/stem"
	"github.com/abhisek/tinysteps/internal/usage"
)

// RouterConfig carries the services the handlers call.
type RouterConfig struct {
	Client   *ai.Client
	Lessons  *lessons.Generator
	Grader   *grading.Grader
	STEM     *stem.Generator
	Recorder *usage.Recorder
	Log      *logger.Logger

	// MaxBatch caps the submissions of one batch grading request.
	MaxBatch int
}

// DefaultMaxBatch is used when RouterConfig.MaxBatch is zero.
const DefaultMaxBatch = 50

type handler struct {
	client   *ai.Client
	lessons  *lessons.Generator
	grader   *grading.Grader
	stem     *stem.Generator
	recorder *usage.Recorder
	log      *logger.Logger
	maxBatch int
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	h := &handler{
		client:   cfg.Client,
		lessons:  cfg.Lessons,
		grader:   cfg.Grader,
		stem:     cfg.STEM,
		recorder: cfg.Recorder,
		log:      logger.OrNop(cfg.Log),
		maxBatch: cfg.MaxBatch,
	}
	if h.maxBatch <= 0 {
		h.maxBatch = DefaultMaxBatch
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.log))

	r.GET("/healthz", h.health)

	v1 := r.Group("/v1", RequireTenant())
	{
		v1.GET("/lesson-templates", h.listTemplates)
		v1.POST("/lessons/generate", h.generateFromTemplate)
		v1.POST("/lessons/custom", h.generateCustom)
		v1.POST("/lessons", h.saveLesson)
		v1.GET("/lessons/:id", h.getLesson)

		v1.GET("/homework/criteria/:type", h.getCriteria)
		v1.POST("/homework/grade", h.gradeSubmission)
		v1.POST("/homework/grade/batch", h.batchGrade)
		v1.POST("/homework/:id/reviews", h.reviewSubmission)
		v1.GET("/homework/:id/reviews", h.listReviews)
		v1.GET("/students/:id/progress", h.progressReport)

		v1.POST("/stem/activities", h.generateActivity)
		v1.POST("/stem/safety", h.safetyGuidelines)
		v1.GET("/stem/concepts", h.listConcepts)
		v1.GET("/stem/kits", h.listKits)

		v1.GET("/usage", h.usageStats)
	}
	return r
}
