package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"draftwise/internal/domain"
	"draftwise/internal/service"
)

// CreateWorkflowRequest is the body of POST /workflows.
type CreateWorkflowRequest struct {
	DocumentType domain.DocumentType `json:"document_type" binding:"required"`
}

// SubmitTextRequest is the body of POST /workflows/:id/text.
type SubmitTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// AnswerRequest is the body of PUT /workflows/:id/answers/:index.
type AnswerRequest struct {
	Value string `json:"value"`
}

// WorkflowHandler handles clarification workflow endpoints.
type WorkflowHandler struct {
	workflowService service.WorkflowService
}

// NewWorkflowHandler creates a new WorkflowHandler.
func NewWorkflowHandler(workflowService service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

// Create handles POST /api/v1/workflows
// @Summary Start a drafting session
// @Tags workflows
// @Accept json
// @Produce json
// @Param request body CreateWorkflowRequest true "Document type"
// @Success 201 {object} APIResponse{data=service.WorkflowView} "Session in the input state"
// @Security BearerAuth
// @Router /workflows [post]
func (h *WorkflowHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var req CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.workflowService.Create(userID, req.DocumentType)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, view)
}

// Get handles GET /api/v1/workflows/:id
// @Summary Get a drafting session
// @Description Returns the current state; a session mid-extraction reports processing
// @Tags workflows
// @Produce json
// @Param id path string true "Workflow ID (UUID)"
// @Success 200 {object} APIResponse{data=service.WorkflowView} "Session"
// @Failure 404 {object} APIResponse "Workflow not found"
// @Security BearerAuth
// @Router /workflows/{id} [get]
func (h *WorkflowHandler) Get(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	view, err := h.workflowService.Get(userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// SubmitText handles POST /api/v1/workflows/:id/text
// @Summary Submit the request text
// @Description Runs extraction; the session moves to clarification or review
// @Tags workflows
// @Accept json
// @Produce json
// @Param id path string true "Workflow ID (UUID)"
// @Param request body SubmitTextRequest true "Free-form request"
// @Success 200 {object} APIResponse{data=service.WorkflowView} "Updated session"
// @Failure 409 {object} APIResponse "Busy or invalid transition"
// @Security BearerAuth
// @Router /workflows/{id}/text [post]
func (h *WorkflowHandler) SubmitText(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	var req SubmitTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.workflowService.SubmitText(c.Request.Context(), userID, id, req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Answer handles PUT /api/v1/workflows/:id/answers/:index
// @Summary Answer a clarification question
// @Tags workflows
// @Accept json
// @Produce json
// @Param id path string true "Workflow ID (UUID)"
// @Param index path int true "Question index (0-based)"
// @Param request body AnswerRequest true "Answer"
// @Success 200 {object} APIResponse{data=service.WorkflowView} "Updated session"
// @Failure 400 {object} APIResponse "Invalid answer index"
// @Failure 409 {object} APIResponse "Busy or invalid transition"
// @Security BearerAuth
// @Router /workflows/{id}/answers/{index} [put]
func (h *WorkflowHandler) Answer(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ANSWER_INDEX", "answer index must be an integer")
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.workflowService.Answer(userID, id, index, req.Value)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// SubmitClarifications handles POST /api/v1/workflows/:id/clarifications
// @Summary Submit clarification answers
// @Description Re-runs extraction with the answers appended to the original text
// @Tags workflows
// @Produce json
// @Param id path string true "Workflow ID (UUID)"
// @Success 200 {object} APIResponse{data=service.WorkflowView} "Updated session"
// @Failure 422 {object} APIResponse "Unanswered questions"
// @Security BearerAuth
// @Router /workflows/{id}/clarifications [post]
func (h *WorkflowHandler) SubmitClarifications(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	view, err := h.workflowService.SubmitClarifications(c.Request.Context(), userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// ReviseItem handles PUT /api/v1/workflows/:id/items/:index
// @Summary Revise a line item of the reviewed draft
// @Description Replaces the item and recalculates its amounts and the document totals
// @Tags workflows
// @Accept json
// @Produce json
// @Param id path string true "Workflow ID (UUID)"
// @Param index path int true "Line item index (0-based)"
// @Param request body domain.ExtractedLineItem true "Line item"
// @Success 200 {object} APIResponse{data=service.WorkflowView} "Updated session"
// @Failure 409 {object} APIResponse "Not in review or no such item"
// @Security BearerAuth
// @Router /workflows/{id}/items/{index} [put]
func (h *WorkflowHandler) ReviseItem(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ITEM_INDEX", "item index must be an integer")
		return
	}

	var item domain.ExtractedLineItem
	if err := c.ShouldBindJSON(&item); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.workflowService.ReviseItem(userID, id, index, item)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Edit handles POST /api/v1/workflows/:id/edit
// @Summary Return to text input
// @Description The original text is kept as the draft
// @Tags workflows
// @Produce json
// @Param id path string true "Workflow ID (UUID)"
// @Success 200 {object} APIResponse{data=service.WorkflowView} "Updated session"
// @Failure 409 {object} APIResponse "Busy or invalid transition"
// @Security BearerAuth
// @Router /workflows/{id}/edit [post]
func (h *WorkflowHandler) Edit(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	view, err := h.workflowService.Edit(userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Reset handles POST /api/v1/workflows/:id/reset
// @Summary Reset a drafting session
// @Tags workflows
// @Produce json
// @Param id path string true "Workflow ID (UUID)"
// @Success 200 {object} APIResponse{data=service.WorkflowView} "Empty session"
// @Failure 409 {object} APIResponse "Busy"
// @Security BearerAuth
// @Router /workflows/{id}/reset [post]
func (h *WorkflowHandler) Reset(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	view, err := h.workflowService.Reset(userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Delete handles DELETE /api/v1/workflows/:id
// @Summary Delete a drafting session
// @Tags workflows
// @Produce json
// @Param id path string true "Workflow ID (UUID)"
// @Success 200 {object} APIResponse "Workflow deleted"
// @Failure 404 {object} APIResponse "Workflow not found"
// @Failure 409 {object} APIResponse "Busy"
// @Security BearerAuth
// @Router /workflows/{id} [delete]
func (h *WorkflowHandler) Delete(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.workflowService.Delete(userID, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "workflow deleted"})
}

// ids extracts the caller and the workflow id. Returns false if either is
// missing or malformed (error response already written).
func (h *WorkflowHandler) ids(c *gin.Context) (userID, id uuid.UUID, ok bool) {
	if userID, ok = extractUserID(c); !ok {
		return
	}
	id, ok = parseUUIDParam(c, "id")
	return
}
