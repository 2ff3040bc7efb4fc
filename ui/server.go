package ui

import (
	"log"
	"net/http"

	"gosheet/internal/api"
	"gosheet/internal/assistant"
	"gosheet/internal/config"
	"gosheet/internal/document"
	"gosheet/ui/middleware"

	"github.com/gin-gonic/gin"
)

// MaxUploadBytes bounds an imported file
const MaxUploadBytes = 32 << 20

// Server is the JSON API, served by gin under /api
type Server struct {
	router    *gin.Engine
	documents *document.Service
	assistant *assistant.Assistant
	hub       *api.SSEHub
	grid      config.GridConfig
}

// ServerDeps are the services the API exposes
type ServerDeps struct {
	Documents *document.Service
	Assistant *assistant.Assistant
	Hub       *api.SSEHub
	Grid      config.GridConfig
	GinMode   string
}

// NewServer creates the API server and registers its routes
func NewServer(deps ServerDeps) *Server {
	if deps.GinMode != "" {
		gin.SetMode(deps.GinMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = MaxUploadBytes

	s := &Server{
		router:    router,
		documents: deps.Documents,
		assistant: deps.Assistant,
		hub:       deps.Hub,
		grid:      deps.Grid,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the gin engine
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	docs := s.router.Group("/api/documents")
	docs.POST("", s.handleImport)
	docs.POST("/new", s.handleCreate)
	docs.GET("", s.handleList)

	doc := docs.Group("/:id", middleware.RequireDocumentID())
	doc.GET("", s.handleGet)
	doc.DELETE("", s.handleDelete)
	doc.PUT("/table", s.handleReplace)
	doc.GET("/export", s.handleExport)
	doc.POST("/query", s.handleQuery)
	doc.POST("/summary", s.handleSummary)
	doc.POST("/chat", s.handleChat)
	doc.DELETE("/chat", s.handleCancelChat)
	doc.GET("/chat", s.handleChatHistory)
	if s.hub != nil {
		doc.GET("/events", s.hub.HandleSSE)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "code": "NOT_FOUND"})
	})

	log.Printf("[Server] API routes registered under /api/documents")
}
