package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrProfileNotFound     = errors.New("business profile not found")
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrEmptyInput          = errors.New("input text is empty")
	ErrModelUnavailable    = errors.New("text model unavailable")
	ErrMalformedModelReply = errors.New("model reply is not a JSON object")
	ErrInvalidTransition   = errors.New("invalid workflow transition")
	ErrUnansweredQuestions = errors.New("all clarification questions must be answered")
	ErrInvalidAnswerIndex  = errors.New("clarification answer index out of range")
	ErrWorkflowNotFound    = errors.New("workflow not found")
	ErrWorkflowBusy        = errors.New("workflow is processing another request")
)
