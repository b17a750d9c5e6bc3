package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blueplan/technotes-go/internal/technotes/config"
	"github.com/blueplan/technotes-go/internal/technotes/limiter"
	logx "github.com/blueplan/technotes-go/internal/technotes/log"
	"github.com/blueplan/technotes-go/internal/technotes/notes"
	"github.com/blueplan/technotes-go/internal/technotes/users"
)

// Router wires middleware and routes onto a gin engine.
type Router struct {
	engine *gin.Engine
	config *config.Config
	logger *logx.Logger
	start  time.Time
}

// NewRouter creates the HTTP router. The rate limiter may be nil when
// limiting is disabled.
func NewRouter(
	cfg *config.Config,
	logger *logx.Logger,
	noteService *notes.Service,
	directory users.Directory,
	rateLimiter limiter.Limiter,
) *Router {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(NewRecoveryMiddleware(logger).Recovery())
	engine.Use(NewLoggingMiddleware(logger).LogRequest())
	engine.Use(NewCORSMiddleware(&cfg.API, logger).CORS())
	engine.Use(NewRequestSizeLimit(cfg.API.MaxRequestSize, logger).LimitRequestSize())
	if cfg.Security.EnableRateLimit && rateLimiter != nil {
		engine.Use(NewRateLimitMiddleware(rateLimiter, logger).RateLimit())
	}

	router := &Router{
		engine: engine,
		config: cfg,
		logger: logger,
		start:  time.Now(),
	}
	router.setupRoutes(
		NewNoteHandler(noteService, logger),
		NewUserHandler(directory, logger),
	)
	return router
}

func (r *Router) setupRoutes(noteHandler *NoteHandler, userHandler *UserHandler) {
	r.engine.GET("/health", r.handleHealth)

	r.engine.GET("/notes", noteHandler.GetAllNotes)
	r.engine.POST("/notes", noteHandler.CreateNote)
	r.engine.PATCH("/notes", noteHandler.UpdateNote)
	r.engine.DELETE("/notes", noteHandler.DeleteNote)

	r.engine.GET("/users", userHandler.GetAllUsers)

	r.engine.GET("/", r.handleIndex)
	r.engine.NoRoute(r.handleNotFound)
}

// Handler exposes the engine for the http.Server in main and for tests.
func (r *Router) Handler() http.Handler {
	return r.engine
}

func (r *Router) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": r.config.App.Version,
		"uptime":  time.Since(r.start).String(),
	})
}

func (r *Router) handleIndex(c *gin.Context) {
	index := filepath.Join(r.config.API.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		r.respond404(c)
		return
	}
	c.File(index)
}

// handleNotFound serves static assets for unmatched GETs and otherwise
// answers 404 in whichever format the client accepts.
func (r *Router) handleNotFound(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		path := filepath.Join(r.config.API.StaticDir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
	}
	r.respond404(c)
}

func (r *Router) respond404(c *gin.Context) {
	switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON, gin.MIMEPlain) {
	case gin.MIMEHTML:
		page, err := os.ReadFile(filepath.Join(r.config.API.ViewsDir, "404.html"))
		if err != nil {
			c.String(http.StatusNotFound, "404 Not Found")
			return
		}
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", page)
	case gin.MIMEJSON:
		c.JSON(http.StatusNotFound, gin.H{"message": "404 Not Found"})
	default:
		c.String(http.StatusNotFound, "404 Not Found")
	}
}
