package workflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftwise/internal/domain"
	"draftwise/internal/extraction"
	"draftwise/internal/workflow"
)

func resultWithQuestions(questions ...string) *domain.ParseResult {
	return &domain.ParseResult{
		Client: domain.ExtractedClient{Name: "John Doe", Confidence: domain.ConfidenceMedium},
		Items: []domain.ExtractedLineItem{
			{Description: "Web development", Quantity: "5", UnitPrice: "100.00", TaxRate: "8", Subtotal: "500.00", TaxAmount: "40.00", Total: "540.00"},
		},
		Document:               domain.ExtractedDocument{IssueDate: "2026-03-10", DueDate: "2026-04-09"},
		NeedsClarification:     len(questions) > 0,
		ClarificationQuestions: questions,
	}
}

func TestTransition_SubmitText(t *testing.T) {
	next, err := workflow.Transition(workflow.Input{}, workflow.SubmitText{Text: "invoice John"})

	require.NoError(t, err)
	assert.Equal(t, workflow.Processing{OriginalText: "invoice John", Text: "invoice John"}, next)
}

func TestTransition_SubmitBlankText(t *testing.T) {
	next, err := workflow.Transition(workflow.Input{Draft: "d"}, workflow.SubmitText{Text: "  "})

	assert.True(t, errors.Is(err, domain.ErrEmptyInput))
	assert.Equal(t, workflow.Input{Draft: "d"}, next)
}

func TestTransition_ExtractionSucceeded(t *testing.T) {
	processing := workflow.Processing{OriginalText: "t", Text: "t"}

	t.Run("complete result goes to review", func(t *testing.T) {
		r := resultWithQuestions()
		next, err := workflow.Transition(processing, workflow.ExtractionSucceeded{Result: r})

		require.NoError(t, err)
		assert.Equal(t, workflow.Review{Result: r, OriginalText: "t"}, next)
	})

	t.Run("questions go to clarification", func(t *testing.T) {
		r := resultWithQuestions("Which client?", "Which rate?")
		next, err := workflow.Transition(processing, workflow.ExtractionSucceeded{Result: r})

		require.NoError(t, err)
		c, ok := next.(workflow.Clarification)
		require.True(t, ok)
		assert.Equal(t, []string{"", ""}, c.Answers)
		assert.Equal(t, []string{"Which client?", "Which rate?"}, c.Questions())
	})

	t.Run("flag without questions goes to review", func(t *testing.T) {
		r := resultWithQuestions()
		r.NeedsClarification = true
		next, err := workflow.Transition(processing, workflow.ExtractionSucceeded{Result: r})

		require.NoError(t, err)
		assert.Equal(t, workflow.StatusReview, next.Status())
	})
}

func TestTransition_ExtractionFailed(t *testing.T) {
	t.Run("no prior result", func(t *testing.T) {
		next, err := workflow.Transition(workflow.Processing{OriginalText: "t", Text: "t"},
			workflow.ExtractionFailed{Err: errors.New("boom")})

		require.NoError(t, err)
		assert.Equal(t, workflow.Failed{Message: workflow.FailureMessage, OriginalText: "t"}, next)
	})

	t.Run("prior result is reused", func(t *testing.T) {
		prior := resultWithQuestions("Which client?")
		next, err := workflow.Transition(workflow.Processing{OriginalText: "t", Text: "t+", Reextract: true, Prior: prior},
			workflow.ExtractionFailed{Err: errors.New("boom")})

		require.NoError(t, err)
		review, ok := next.(workflow.Review)
		require.True(t, ok)
		assert.False(t, review.Result.NeedsClarification)
		assert.Equal(t, prior.Items, review.Result.Items)
		assert.True(t, prior.NeedsClarification, "prior result must not be modified")
	})

	t.Run("prior result without a client name", func(t *testing.T) {
		prior := resultWithQuestions("Who is the client?")
		prior.Client = domain.ExtractedClient{Confidence: domain.ConfidenceLow}
		next, err := workflow.Transition(workflow.Processing{OriginalText: "t", Text: "t+", Reextract: true, Prior: prior},
			workflow.ExtractionFailed{Err: errors.New("boom")})

		require.NoError(t, err)
		review := next.(workflow.Review)
		assert.Equal(t, extraction.UnknownClientName, review.Result.Client.Name)
		assert.Equal(t, domain.ConfidenceLow, review.Result.Client.Confidence)
		assert.Empty(t, prior.Client.Name)
	})
}

func TestTransition_Answers(t *testing.T) {
	c := workflow.Clarification{
		Result:       resultWithQuestions("Q1", "Q2"),
		Answers:      []string{"", ""},
		OriginalText: "orig",
	}

	next, err := workflow.Transition(c, workflow.AnswerQuestion{Index: 1, Value: "forty"})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "forty"}, next.(workflow.Clarification).Answers)
	assert.Equal(t, []string{"", ""}, c.Answers, "input state must not be modified")

	_, err = workflow.Transition(c, workflow.AnswerQuestion{Index: 2, Value: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidAnswerIndex))
	_, err = workflow.Transition(c, workflow.AnswerQuestion{Index: -1, Value: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidAnswerIndex))
}

func TestTransition_SubmitClarifications(t *testing.T) {
	result := resultWithQuestions("Who is the client?", "What is the rate?")
	c := workflow.Clarification{Result: result, Answers: []string{"Acme", " "}, OriginalText: "invoice for design"}

	_, err := workflow.Transition(c, workflow.SubmitClarifications{})
	assert.True(t, errors.Is(err, domain.ErrUnansweredQuestions))

	c.Answers = []string{"Acme", "$80/hour"}
	next, err := workflow.Transition(c, workflow.SubmitClarifications{})
	require.NoError(t, err)
	assert.Equal(t, workflow.Processing{
		OriginalText: "invoice for design",
		Text:         "invoice for design\n\nAdditional Information:\nQ: Who is the client?\nA: Acme\n\nQ: What is the rate?\nA: $80/hour",
		Reextract:    true,
		Prior:        result,
	}, next)
}

func TestTransition_EditAndReset(t *testing.T) {
	review := workflow.Review{Result: resultWithQuestions(), OriginalText: "orig"}

	next, err := workflow.Transition(review, workflow.Edit{})
	require.NoError(t, err)
	assert.Equal(t, workflow.Input{Draft: "orig"}, next)

	next, err = workflow.Transition(workflow.Failed{Message: "m", OriginalText: "orig"}, workflow.Edit{})
	require.NoError(t, err)
	assert.Equal(t, workflow.Input{Draft: "orig"}, next)

	states := []workflow.State{
		workflow.Input{Draft: "x"},
		workflow.Processing{OriginalText: "x"},
		workflow.Clarification{Result: resultWithQuestions("q"), Answers: []string{"a"}},
		review,
		workflow.Failed{},
	}
	for _, s := range states {
		next, err := workflow.Transition(s, workflow.Reset{})
		require.NoError(t, err)
		assert.Equal(t, workflow.Input{}, next)
	}
}

func TestTransition_ReviseItem(t *testing.T) {
	review := workflow.Review{Result: resultWithQuestions(), OriginalText: "orig"}

	next, err := workflow.Transition(review, workflow.ReviseItem{Index: 0, Item: domain.ExtractedLineItem{
		Description: "Web development", Quantity: "6", UnitPrice: "100.00", TaxRate: "8",
	}})

	require.NoError(t, err)
	r := next.(workflow.Review).Result
	assert.Equal(t, "600.00", r.Items[0].Subtotal)
	assert.Equal(t, "648.00", r.Items[0].Total)
	assert.Equal(t, "648.00", r.Totals.Total)
	assert.Equal(t, "500.00", review.Result.Items[0].Subtotal)

	_, err = workflow.Transition(review, workflow.ReviseItem{Index: 3})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestTransition_ReviseItemDropsTax(t *testing.T) {
	review := workflow.Review{Result: resultWithQuestions(), OriginalText: "orig"}
	require.Equal(t, "40.00", review.Result.Items[0].TaxAmount)

	next, err := workflow.Transition(review, workflow.ReviseItem{Index: 0, Item: domain.ExtractedLineItem{
		Description: "Web development", Quantity: "5", UnitPrice: "100.00", TaxAmount: "40.00",
	}})

	require.NoError(t, err)
	item := next.(workflow.Review).Result.Items[0]
	assert.Empty(t, item.TaxAmount)
	assert.Equal(t, "500.00", item.Subtotal)
	assert.Equal(t, "500.00", item.Total)
	assert.Equal(t, "0.00", next.(workflow.Review).Result.Totals.Tax)
	assert.Equal(t, "500.00", next.(workflow.Review).Result.Totals.Total)
}

func TestTransition_InvalidEvents(t *testing.T) {
	tests := []struct {
		name  string
		state workflow.State
		event workflow.Event
	}{
		{"answer in input", workflow.Input{}, workflow.AnswerQuestion{}},
		{"submit text while processing", workflow.Processing{}, workflow.SubmitText{Text: "again"}},
		{"edit while processing", workflow.Processing{}, workflow.Edit{}},
		{"extraction result in review", workflow.Review{}, workflow.ExtractionSucceeded{}},
		{"submit clarifications in review", workflow.Review{}, workflow.SubmitClarifications{}},
		{"edit in clarification", workflow.Clarification{}, workflow.Edit{}},
		{"submit text in error", workflow.Failed{}, workflow.SubmitText{Text: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := workflow.Transition(tt.state, tt.event)
			assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
			assert.Equal(t, tt.state, next)
		})
	}
}

func TestAugmentText(t *testing.T) {
	got := workflow.AugmentText("orig", []string{"Q1"}, []string{"  A1 "})
	assert.Equal(t, "orig\n\nAdditional Information:\nQ: Q1\nA: A1", got)
}

func TestSnap(t *testing.T) {
	c := workflow.Clarification{Result: resultWithQuestions("Q1"), Answers: []string{"a"}, OriginalText: "o"}

	snap := workflow.Snap(c)

	assert.Equal(t, workflow.StatusClarification, snap.Status)
	assert.Equal(t, []string{"Q1"}, snap.Questions)
	assert.Equal(t, []string{"a"}, snap.Answers)
	assert.Equal(t, "o", snap.OriginalText)
	assert.Equal(t, workflow.StatusError, workflow.Snap(workflow.Failed{Message: "m"}).Status)
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}
