package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"draftwise/internal/domain"
	"draftwise/internal/handler"
	"draftwise/internal/service"
	"draftwise/internal/workflow"
	"draftwise/mocks"
)

func newWorkflowHandler() (*handler.WorkflowHandler, *mocks.MockWorkflowService) {
	mockSvc := new(mocks.MockWorkflowService)
	return handler.NewWorkflowHandler(mockSvc), mockSvc
}

func idParam(id uuid.UUID) gin.Param { return gin.Param{Key: "id", Value: id.String()} }

func TestWorkflowHandler_Create(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	userID, id := uuid.New(), uuid.New()
	mockSvc.On("Create", userID, domain.DocumentTypeInvoice).
		Return(&service.WorkflowView{ID: id, DocumentType: domain.DocumentTypeInvoice, Snapshot: workflow.Snapshot{Status: workflow.StatusInput}}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/workflows", map[string]string{"document_type": "invoice"}, userID)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(w).Data.(map[string]interface{})
	assert.Equal(t, id.String(), data["id"])
	assert.Equal(t, "input", data["status"])
}

func TestWorkflowHandler_Create_InvalidType(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	mockSvc.On("Create", mock.Anything, domain.DocumentType("receipt")).Return(nil, domain.ErrInvalidDocumentType)

	c, w := newContext(http.MethodPost, "/api/v1/workflows", map[string]string{"document_type": "receipt"}, uuid.New())
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DOCUMENT_TYPE", decode(w).Error.Code)
}

func TestWorkflowHandler_SubmitText(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	userID, id := uuid.New(), uuid.New()
	mockSvc.On("SubmitText", mock.Anything, userID, id, "bill acme").Return(&service.WorkflowView{
		ID: id,
		Snapshot: workflow.Snapshot{
			Status:    workflow.StatusClarification,
			Questions: []string{"What is the rate?"},
			Answers:   []string{""},
		},
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/workflows/"+id.String()+"/text", map[string]string{"text": "bill acme"}, userID, idParam(id))
	h.SubmitText(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(w).Data.(map[string]interface{})
	assert.Equal(t, "clarification", data["status"])
	assert.Equal(t, []interface{}{"What is the rate?"}, data["questions"])
}

func TestWorkflowHandler_SubmitText_Busy(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	id := uuid.New()
	mockSvc.On("SubmitText", mock.Anything, mock.Anything, id, "again").Return(nil, eris.Wrap(domain.ErrWorkflowBusy, "workflow"))

	c, w := newContext(http.MethodPost, "/", map[string]string{"text": "again"}, uuid.New(), idParam(id))
	h.SubmitText(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "WORKFLOW_BUSY", decode(w).Error.Code)
}

func TestWorkflowHandler_InvalidID(t *testing.T) {
	h, _ := newWorkflowHandler()

	c, w := newContext(http.MethodGet, "/", nil, uuid.New(), gin.Param{Key: "id", Value: "nope"})
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decode(w).Error.Code)
}

func TestWorkflowHandler_Get_NotFound(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	id := uuid.New()
	mockSvc.On("Get", mock.Anything, id).Return(nil, domain.ErrWorkflowNotFound)

	c, w := newContext(http.MethodGet, "/", nil, uuid.New(), idParam(id))
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkflowHandler_Answer(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	userID, id := uuid.New(), uuid.New()
	mockSvc.On("Answer", userID, id, 1, "$80/hour").Return(&service.WorkflowView{ID: id}, nil)

	c, w := newContext(http.MethodPut, "/", map[string]string{"value": "$80/hour"}, userID,
		idParam(id), gin.Param{Key: "index", Value: "1"})
	h.Answer(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestWorkflowHandler_Answer_BadIndex(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	id := uuid.New()

	c, w := newContext(http.MethodPut, "/", map[string]string{"value": "x"}, uuid.New(),
		idParam(id), gin.Param{Key: "index", Value: "first"})
	h.Answer(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockSvc.On("Answer", mock.Anything, id, 9, "x").Return(nil, domain.ErrInvalidAnswerIndex)
	c, w = newContext(http.MethodPut, "/", map[string]string{"value": "x"}, uuid.New(),
		idParam(id), gin.Param{Key: "index", Value: "9"})
	h.Answer(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ANSWER_INDEX", decode(w).Error.Code)
}

func TestWorkflowHandler_SubmitClarifications_Unanswered(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	id := uuid.New()
	mockSvc.On("SubmitClarifications", mock.Anything, mock.Anything, id).
		Return(&service.WorkflowView{ID: id}, eris.Wrap(domain.ErrUnansweredQuestions, "workflow"))

	c, w := newContext(http.MethodPost, "/", nil, uuid.New(), idParam(id))
	h.SubmitClarifications(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestWorkflowHandler_ReviseItem(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	userID, id := uuid.New(), uuid.New()
	item := domain.ExtractedLineItem{Description: "Design", Quantity: "3", UnitPrice: "50.00"}
	mockSvc.On("ReviseItem", userID, id, 0, item).Return(&service.WorkflowView{ID: id}, nil)

	c, w := newContext(http.MethodPut, "/", item, userID, idParam(id), gin.Param{Key: "index", Value: "0"})
	h.ReviseItem(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestWorkflowHandler_EditResetDelete(t *testing.T) {
	h, mockSvc := newWorkflowHandler()
	userID, id := uuid.New(), uuid.New()
	mockSvc.On("Edit", userID, id).Return(nil, eris.Wrap(domain.ErrInvalidTransition, "input cannot handle edit"))
	mockSvc.On("Reset", userID, id).Return(&service.WorkflowView{ID: id}, nil)
	mockSvc.On("Delete", userID, id).Return(nil)

	c, w := newContext(http.MethodPost, "/", nil, userID, idParam(id))
	h.Edit(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decode(w).Error.Code)

	c, w = newContext(http.MethodPost, "/", nil, userID, idParam(id))
	h.Reset(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodDelete, "/", nil, userID, idParam(id))
	h.Delete(c)
	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
