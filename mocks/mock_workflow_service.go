package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"draftwise/internal/domain"
	"draftwise/internal/service"
)

// MockWorkflowService is a mock implementation of service.WorkflowService.
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) view(args mock.Arguments) (*service.WorkflowView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WorkflowView), args.Error(1)
}

func (m *MockWorkflowService) Create(userID uuid.UUID, documentType domain.DocumentType) (*service.WorkflowView, error) {
	return m.view(m.Called(userID, documentType))
}

func (m *MockWorkflowService) Get(userID, id uuid.UUID) (*service.WorkflowView, error) {
	return m.view(m.Called(userID, id))
}

func (m *MockWorkflowService) SubmitText(ctx context.Context, userID, id uuid.UUID, text string) (*service.WorkflowView, error) {
	return m.view(m.Called(ctx, userID, id, text))
}

func (m *MockWorkflowService) Answer(userID, id uuid.UUID, index int, value string) (*service.WorkflowView, error) {
	return m.view(m.Called(userID, id, index, value))
}

func (m *MockWorkflowService) SubmitClarifications(ctx context.Context, userID, id uuid.UUID) (*service.WorkflowView, error) {
	return m.view(m.Called(ctx, userID, id))
}

func (m *MockWorkflowService) ReviseItem(userID, id uuid.UUID, index int, item domain.ExtractedLineItem) (*service.WorkflowView, error) {
	return m.view(m.Called(userID, id, index, item))
}

func (m *MockWorkflowService) Edit(userID, id uuid.UUID) (*service.WorkflowView, error) {
	return m.view(m.Called(userID, id))
}

func (m *MockWorkflowService) Reset(userID, id uuid.UUID) (*service.WorkflowView, error) {
	return m.view(m.Called(userID, id))
}

func (m *MockWorkflowService) Delete(userID, id uuid.UUID) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

func (m *MockWorkflowService) Sweep(cutoff time.Time) int {
	args := m.Called(cutoff)
	return args.Int(0)
}
