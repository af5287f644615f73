package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"momentumlab/internal/app"
	"momentumlab/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LabRunner is the part of app.LabHandler the api needs
type LabRunner interface {
	Run(ctx context.Context, in app.RunInput) (*app.RunOutput, error)
}

// reportStore holds the most recent report. Runs replace it whole.
type reportStore struct {
	mu     sync.RWMutex
	report map[string]any
}

func (s *reportStore) get() (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.report != nil
}

func (s *reportStore) set(report map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = report
}

type ApiHandler struct {
	LabRunner LabRunner
	// attached to every request context when set
	Logger *zap.SugaredLogger

	store *reportStore
	// serializes POST /run
	runMu *sync.Mutex
}

// NewApiHandler serves initial until the first POST /run; initial may be
// nil
func NewApiHandler(runner LabRunner, initial map[string]any) ApiHandler {
	store := &reportStore{}
	if initial != nil {
		store.set(initial)
	}
	return ApiHandler{
		LabRunner: runner,
		store:     store,
		runMu:     &sync.Mutex{},
	}
}

func (m ApiHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to momentumlab"})
	})
	router.GET("/report", m.getReport)
	router.GET("/strategies", m.listStrategies)
	router.GET("/strategies/:name", m.getStrategy)
	router.GET("/robustness/:test", m.getRobustness)
	router.POST("/run", m.run)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.Router().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Errorf("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	if m.Logger != nil {
		ctx.Request = ctx.Request.WithContext(logger.WithLogger(ctx.Request.Context(), m.Logger))
	}
	log := logger.FromContext(ctx.Request.Context())
	start := time.Now().UTC()

	ctx.Next()

	log.Infow("request",
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"ip", ctx.ClientIP(),
		"status", ctx.Writer.Status(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
