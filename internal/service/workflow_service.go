package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"draftwise/internal/domain"
	"draftwise/internal/workflow"
)

// WorkflowView is the client-facing view of a clarification session.
type WorkflowView struct {
	ID           uuid.UUID           `json:"id"`
	DocumentType domain.DocumentType `json:"document_type"`
	workflow.Snapshot
	Warnings  []string  `json:"warnings,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkflowService manages in-memory clarification sessions. Sessions are
// scoped to the user that created them; an operation on a session that is
// still extracting fails with domain.ErrWorkflowBusy.
type WorkflowService interface {
	Create(userID uuid.UUID, documentType domain.DocumentType) (*WorkflowView, error)
	Get(userID, id uuid.UUID) (*WorkflowView, error)
	SubmitText(ctx context.Context, userID, id uuid.UUID, text string) (*WorkflowView, error)
	Answer(userID, id uuid.UUID, index int, value string) (*WorkflowView, error)
	SubmitClarifications(ctx context.Context, userID, id uuid.UUID) (*WorkflowView, error)
	ReviseItem(userID, id uuid.UUID, index int, item domain.ExtractedLineItem) (*WorkflowView, error)
	Edit(userID, id uuid.UUID) (*WorkflowView, error)
	Reset(userID, id uuid.UUID) (*WorkflowView, error)
	Delete(userID, id uuid.UUID) error
	Sweep(cutoff time.Time) int
}

type session struct {
	id           uuid.UUID
	userID       uuid.UUID
	documentType domain.DocumentType

	mu        sync.Mutex // held for the whole of an operation
	wf        *workflow.Workflow
	updatedAt atomic.Int64
}

func (s *session) touch(t time.Time) { s.updatedAt.Store(t.UnixNano()) }

func (s *session) lastTouched() time.Time { return time.Unix(0, s.updatedAt.Load()).UTC() }

type workflowService struct {
	extractor workflow.Extractor
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// NewWorkflowService creates a new WorkflowService implementation.
func NewWorkflowService(extractor workflow.Extractor) WorkflowService {
	return &workflowService{
		extractor: extractor,
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*session),
	}
}

func (s *workflowService) Create(userID uuid.UUID, documentType domain.DocumentType) (*WorkflowView, error) {
	if !documentType.Valid() {
		return nil, eris.Wrapf(domain.ErrInvalidDocumentType, "document type %q", documentType)
	}
	sess := &session{
		id:           uuid.New(),
		userID:       userID,
		documentType: documentType,
		wf:           workflow.New(s.extractor, userID, documentType),
	}
	sess.touch(s.now())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	zap.L().Debug("workflow created",
		zap.String("workflow_id", sess.id.String()),
		zap.String("user_id", userID.String()),
		zap.String("document_type", string(documentType)))
	return view(sess), nil
}

func (s *workflowService) Get(userID, id uuid.UUID) (*WorkflowView, error) {
	sess, busy, err := s.acquire(userID, id)
	if err != nil {
		return nil, err
	}
	if busy {
		return &WorkflowView{
			ID:           sess.id,
			DocumentType: sess.documentType,
			Snapshot:     workflow.Snapshot{Status: workflow.StatusProcessing},
			UpdatedAt:    sess.lastTouched(),
		}, nil
	}
	defer sess.mu.Unlock()
	return view(sess), nil
}

func (s *workflowService) SubmitText(ctx context.Context, userID, id uuid.UUID, text string) (*WorkflowView, error) {
	return s.with(userID, id, func(wf *workflow.Workflow) error {
		return wf.SubmitText(ctx, text)
	})
}

func (s *workflowService) Answer(userID, id uuid.UUID, index int, value string) (*WorkflowView, error) {
	return s.with(userID, id, func(wf *workflow.Workflow) error {
		return wf.AnswerClarification(index, value)
	})
}

func (s *workflowService) SubmitClarifications(ctx context.Context, userID, id uuid.UUID) (*WorkflowView, error) {
	return s.with(userID, id, func(wf *workflow.Workflow) error {
		return wf.SubmitClarifications(ctx)
	})
}

func (s *workflowService) ReviseItem(userID, id uuid.UUID, index int, item domain.ExtractedLineItem) (*WorkflowView, error) {
	return s.with(userID, id, func(wf *workflow.Workflow) error {
		return wf.ReviseItem(index, item)
	})
}

func (s *workflowService) Edit(userID, id uuid.UUID) (*WorkflowView, error) {
	return s.with(userID, id, func(wf *workflow.Workflow) error {
		return wf.EditResult()
	})
}

func (s *workflowService) Reset(userID, id uuid.UUID) (*WorkflowView, error) {
	return s.with(userID, id, func(wf *workflow.Workflow) error {
		wf.Reset()
		return nil
	})
}

func (s *workflowService) Delete(userID, id uuid.UUID) error {
	sess, busy, err := s.acquire(userID, id)
	if err != nil {
		return err
	}
	if busy {
		return eris.Wrapf(domain.ErrWorkflowBusy, "workflow %s", id)
	}
	defer sess.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Sweep drops idle sessions last touched before cutoff and returns how many
// were removed. Sessions with an operation in flight are kept.
func (s *workflowService) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if !sess.lastTouched().Before(cutoff) || !sess.mu.TryLock() {
			continue
		}
		delete(s.sessions, id)
		sess.mu.Unlock()
		removed++
	}
	return removed
}

// acquire finds the caller's session and takes its lock. Lookup and lock
// happen under s.mu, so Sweep never drops a session once it is acquired.
// busy reports that another operation holds the session; the lock is then
// not taken.
func (s *workflowService) acquire(userID, id uuid.UUID) (sess *session, busy bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.userID != userID {
		return nil, false, eris.Wrapf(domain.ErrWorkflowNotFound, "workflow %s", id)
	}
	if !sess.mu.TryLock() {
		return sess, true, nil
	}
	return sess, false, nil
}

// with runs op on the session's workflow while holding its lock. The
// returned view reflects the state after op even when op fails.
func (s *workflowService) with(userID, id uuid.UUID, op func(*workflow.Workflow) error) (*WorkflowView, error) {
	sess, busy, err := s.acquire(userID, id)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, eris.Wrapf(domain.ErrWorkflowBusy, "workflow %s", id)
	}
	defer sess.mu.Unlock()

	opErr := op(sess.wf)
	sess.touch(s.now())
	if opErr != nil {
		return view(sess), eris.Wrapf(opErr, "workflow %s", id)
	}
	return view(sess), nil
}

// view must be called with sess.mu held.
func view(sess *session) *WorkflowView {
	return &WorkflowView{
		ID:           sess.id,
		DocumentType: sess.documentType,
		Snapshot:     workflow.Snap(sess.wf.State()),
		Warnings:     sess.wf.Warnings(),
		UpdatedAt:    sess.lastTouched(),
	}
}
