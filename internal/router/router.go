package router

import (
	"github.com/gin-gonic/gin"

	"draftwise/internal/auth"
	"draftwise/internal/handler"
	"draftwise/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	verifier auth.Verifier,
	allowedOrigins []string,
	extractionH *handler.ExtractionHandler,
	resolveH *handler.ResolveHandler,
	workflowH *handler.WorkflowHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Everything under /api/v1 requires a valid bearer token
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(verifier))

	// One-shot extraction
	extractions := v1.Group("/extractions")
	extractions.POST("", extractionH.Extract)
	extractions.POST("/client", extractionH.ExtractClient)

	// Entity resolution
	resolve := v1.Group("/resolve")
	resolve.POST("/clients", resolveH.ResolveClient)
	resolve.POST("/products", resolveH.ResolveProduct)

	// Clarification sessions
	workflows := v1.Group("/workflows")
	workflows.POST("", workflowH.Create)
	workflows.GET("/:id", workflowH.Get)
	workflows.DELETE("/:id", workflowH.Delete)
	workflows.POST("/:id/text", workflowH.SubmitText)
	workflows.PUT("/:id/answers/:index", workflowH.Answer)
	workflows.POST("/:id/clarifications", workflowH.SubmitClarifications)
	workflows.PUT("/:id/items/:index", workflowH.ReviseItem)
	workflows.POST("/:id/edit", workflowH.Edit)
	workflows.POST("/:id/reset", workflowH.Reset)

	return r
}
