// Package fakeapi is an in-memory implementation of the DocAssist backend
// API. It serves the same JSON envelope and endpoints as the real service
// and backs the client tests and cmd/server.
//
// Uploaded documents start as UPLOADING and move one step along
// UPLOADING -> PROCESSING -> READY on every call to Advance. A file whose
// name contains "fail" ends in FAILED instead.
package fakeapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/docassist/internal/client/models"
	"github.com/dmitrijs2005/docassist/internal/common"
	"github.com/dmitrijs2005/docassist/internal/logging"
	"github.com/dmitrijs2005/docassist/internal/server/auth"
)

type Config struct {
	Secret         string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	MaxUploadBytes int64
}

func DefaultConfig() Config {
	return Config{
		Secret:         "docassist-fakeapi-secret",
		AccessTTL:      15 * time.Minute,
		RefreshTTL:     7 * 24 * time.Hour,
		MaxUploadBytes: 50 << 20,
	}
}

type user struct {
	models.User
	passwordHash []byte
}

type document struct {
	models.Document
	owner   string
	content []byte
}

type session struct {
	models.ChatSession
	owner    string
	messages []models.ChatMessage
}

type Server struct {
	cfg    Config
	tokens *auth.Issuer
	log    logging.Logger
	now    func() time.Time
	engine *gin.Engine

	mu       sync.Mutex
	users    map[string]*user // by email
	docs     []*document
	sessions []*session
}

func New(cfg Config, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop{}
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:   cfg,
		log:   log.With("component", "fakeapi"),
		now:   time.Now,
		users: make(map[string]*user),
	}
	s.tokens = auth.NewIssuer([]byte(cfg.Secret), func() time.Time { return s.now() })
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	api := r.Group("/api")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/auth/refresh", s.refresh)

	protected := api.Group("")
	protected.Use(s.requireAuth())
	protected.GET("/auth/me", s.me)

	protected.GET("/documents", s.listDocuments)
	protected.POST("/documents", s.uploadDocument)
	protected.GET("/documents/:id", s.getDocument)
	protected.GET("/documents/:id/status", s.documentStatus)
	protected.DELETE("/documents/:id", s.deleteDocument)

	protected.POST("/ai/chat", s.chat)
	protected.GET("/ai/sessions", s.listSessions)
	protected.GET("/ai/sessions/:id", s.sessionMessages)
	protected.DELETE("/ai/sessions/:id", s.deleteSession)

	r.NoRoute(func(c *gin.Context) { fail(c, http.StatusNotFound, "no such endpoint") })
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

const userIDKey = "userID"

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := common.ExtractBearer(c.GetHeader(common.AuthorizationHeader))
		if raw == "" {
			fail(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}
		userID, err := s.tokens.UserID(raw, auth.Access)
		if err != nil {
			fail(c, http.StatusUnauthorized, "invalid access token")
			c.Abort()
			return
		}

		s.mu.Lock()
		_, ok := s.userByID(userID)
		s.mu.Unlock()
		if !ok {
			fail(c, http.StatusUnauthorized, "unknown user")
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func succeed(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg, "data": nil})
}

// Advance moves every in-progress document one pipeline step.
func (s *Server) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.docs {
		switch d.Status {
		case models.StatusUploading:
			d.Status = models.StatusProcessing
		case models.StatusProcessing:
			if failing(d.Filename) {
				d.Status = models.StatusFailed
				continue
			}
			d.Status = models.StatusReady
			d.PageCount = 1 + len(d.content)/4096
			d.ChunkCount = 1 + len(d.content)/1024
		}
	}
}
