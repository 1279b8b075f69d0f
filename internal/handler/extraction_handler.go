package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"draftwise/internal/service"
)

// ExtractionHandler handles one-shot extraction endpoints.
type ExtractionHandler struct {
	extractionService service.ExtractionService
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extractionService service.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService}
}

// Extract handles POST /api/v1/extractions
// @Summary Extract a draft document
// @Description Turn free-form text into a structured invoice or quote draft
// @Tags extractions
// @Accept json
// @Produce json
// @Param request body service.ExtractionInput true "Request text and document type"
// @Success 200 {object} APIResponse{data=service.ExtractionResponse} "Extraction outcome"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 404 {object} APIResponse "Business profile not found"
// @Security BearerAuth
// @Router /extractions [post]
func (h *ExtractionHandler) Extract(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input service.ExtractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	resp, err := h.extractionService.Extract(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, resp)
}

// ExtractClient handles POST /api/v1/extractions/client
// @Summary Extract client details
// @Description Extract a single client's contact details from free-form text
// @Tags extractions
// @Accept json
// @Produce json
// @Param request body service.ClientExtractionInput true "Text describing the client"
// @Success 200 {object} APIResponse{data=domain.ExtractedClient} "Extracted client"
// @Security BearerAuth
// @Router /extractions/client [post]
func (h *ExtractionHandler) ExtractClient(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input service.ClientExtractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	client, err := h.extractionService.ExtractClient(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, client)
}
