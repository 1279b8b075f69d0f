package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"draftwise/internal/domain"
	"draftwise/internal/extraction"
	"draftwise/internal/workflow"
	"draftwise/mocks"
)

const requestText = "Invoice for the new website"

func isReextraction(in domain.RawInput) bool {
	return strings.Contains(in.Text, "Additional Information:")
}

func firstPass(in domain.RawInput) bool {
	return in.Text == requestText
}

func TestWorkflow_DirectReview(t *testing.T) {
	ex := new(mocks.MockExtractor)
	userID := uuid.New()
	result := resultWithQuestions()
	ex.On("Extract", mock.Anything, domain.RawInput{Text: requestText, DocumentType: domain.DocumentTypeInvoice, UserID: userID}).
		Return(&extraction.Outcome{Result: result, Valid: true, Warnings: []string{"w"}}, nil)

	w := workflow.New(ex, userID, domain.DocumentTypeInvoice)
	require.NoError(t, w.SubmitText(context.Background(), requestText))

	assert.Equal(t, workflow.StatusReview, w.State().Status())
	assert.Same(t, result, w.Result())
	assert.Equal(t, []string{"w"}, w.Warnings())
	ex.AssertExpectations(t)
}

func TestWorkflow_ClarificationRoundTrip(t *testing.T) {
	ex := new(mocks.MockExtractor)
	userID := uuid.New()
	first := resultWithQuestions("Who is the client?", "What is the rate?")
	second := resultWithQuestions()
	second.Client.Name = "Acme"

	ex.On("Extract", mock.Anything, mock.MatchedBy(firstPass)).Return(&extraction.Outcome{Result: first}, nil).Once()
	ex.On("Extract", mock.Anything, mock.MatchedBy(isReextraction)).Return(&extraction.Outcome{Result: second, Valid: true}, nil).Once()

	w := workflow.New(ex, userID, domain.DocumentTypeInvoice)
	require.NoError(t, w.SubmitText(context.Background(), requestText))
	require.Equal(t, workflow.StatusClarification, w.State().Status())

	err := w.SubmitClarifications(context.Background())
	assert.True(t, errors.Is(err, domain.ErrUnansweredQuestions))

	require.NoError(t, w.AnswerClarification(0, "Acme"))
	require.NoError(t, w.AnswerClarification(1, "$80/hour"))
	require.NoError(t, w.SubmitClarifications(context.Background()))

	assert.Equal(t, workflow.StatusReview, w.State().Status())
	assert.Equal(t, "Acme", w.Result().Client.Name)

	reextract := ex.Calls[1].Arguments.Get(1).(domain.RawInput)
	assert.Equal(t, requestText+"\n\nAdditional Information:\nQ: Who is the client?\nA: Acme\n\nQ: What is the rate?\nA: $80/hour", reextract.Text)
	assert.Equal(t, userID, reextract.UserID)
	assert.Equal(t, requestText, w.State().(workflow.Review).OriginalText)
}

func TestWorkflow_ReextractionFailureKeepsPriorResult(t *testing.T) {
	ex := new(mocks.MockExtractor)
	first := resultWithQuestions("Who is the client?", "What is the rate?")
	ex.On("Extract", mock.Anything, mock.MatchedBy(firstPass)).Return(&extraction.Outcome{Result: first}, nil).Once()
	ex.On("Extract", mock.Anything, mock.MatchedBy(isReextraction)).Return(nil, errors.New("model exploded")).Once()

	w := workflow.New(ex, uuid.New(), domain.DocumentTypeInvoice)
	require.NoError(t, w.SubmitText(context.Background(), requestText))
	require.NoError(t, w.AnswerClarification(0, "Acme"))
	require.NoError(t, w.AnswerClarification(1, "$80/hour"))
	require.NoError(t, w.SubmitClarifications(context.Background()))

	assert.Equal(t, workflow.StatusReview, w.State().Status())
	assert.False(t, w.Result().NeedsClarification)
	assert.Equal(t, first.Items, w.Result().Items)
}

func TestWorkflow_ReextractionFallbackKeepsPriorResult(t *testing.T) {
	ex := new(mocks.MockExtractor)
	first := resultWithQuestions("Who is the client?")
	fallback := extraction.Fallback("x", domain.DocumentTypeInvoice, fixedClock())
	ex.On("Extract", mock.Anything, mock.MatchedBy(firstPass)).Return(&extraction.Outcome{Result: first}, nil).Once()
	ex.On("Extract", mock.Anything, mock.MatchedBy(isReextraction)).
		Return(&extraction.Outcome{Result: fallback, Fallback: true}, nil).Once()

	w := workflow.New(ex, uuid.New(), domain.DocumentTypeInvoice)
	require.NoError(t, w.SubmitText(context.Background(), requestText))
	require.NoError(t, w.AnswerClarification(0, "Acme"))
	require.NoError(t, w.SubmitClarifications(context.Background()))

	assert.Equal(t, workflow.StatusReview, w.State().Status())
	assert.Equal(t, "John Doe", w.Result().Client.Name)
	assert.False(t, w.Result().NeedsClarification)
}

func TestWorkflow_FirstPassFallbackAsksGenericQuestions(t *testing.T) {
	ex := new(mocks.MockExtractor)
	fallback := extraction.Fallback(requestText, domain.DocumentTypeInvoice, fixedClock())
	ex.On("Extract", mock.Anything, mock.Anything).Return(&extraction.Outcome{Result: fallback, Fallback: true}, nil)

	w := workflow.New(ex, uuid.New(), domain.DocumentTypeInvoice)
	require.NoError(t, w.SubmitText(context.Background(), requestText))

	c, ok := w.State().(workflow.Clarification)
	require.True(t, ok)
	assert.Equal(t, extraction.GenericQuestions, c.Questions())
}

func TestWorkflow_FirstPassErrorFails(t *testing.T) {
	ex := new(mocks.MockExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).Return(nil, domain.ErrProfileNotFound)

	w := workflow.New(ex, uuid.New(), domain.DocumentTypeInvoice)
	require.NoError(t, w.SubmitText(context.Background(), requestText))

	failed, ok := w.State().(workflow.Failed)
	require.True(t, ok)
	assert.Equal(t, workflow.FailureMessage, failed.Message)
	assert.Nil(t, w.Result())

	require.NoError(t, w.EditResult())
	assert.Equal(t, workflow.Input{Draft: requestText}, w.State())
}

func TestWorkflow_EditAndReset(t *testing.T) {
	ex := new(mocks.MockExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).Return(&extraction.Outcome{Result: resultWithQuestions()}, nil)

	w := workflow.New(ex, uuid.New(), domain.DocumentTypeQuote)
	assert.True(t, errors.Is(w.EditResult(), domain.ErrInvalidTransition))

	require.NoError(t, w.SubmitText(context.Background(), requestText))
	require.NoError(t, w.EditResult())
	assert.Equal(t, workflow.Input{Draft: requestText}, w.State())

	require.NoError(t, w.SubmitText(context.Background(), requestText))
	w.Reset()
	assert.Equal(t, workflow.Input{}, w.State())
	assert.Nil(t, w.Result())
	assert.Nil(t, w.Warnings())
}
