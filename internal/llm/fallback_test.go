package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"draftwise/internal/llm"
	"draftwise/internal/port"
	"draftwise/mocks"
)

func TestFallbackModel_FirstSucceeds(t *testing.T) {
	primary, secondary := new(mocks.MockTextModel), new(mocks.MockTextModel)
	primary.On("Complete", mock.Anything, "p", port.FormatJSON).Return("{}", nil)

	f := llm.NewFallbackModel([]port.TextModel{primary, secondary}, []string{"primary", "secondary"})
	out, err := f.Complete(context.Background(), "p", port.FormatJSON)

	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	secondary.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestFallbackModel_FallsThroughOnError(t *testing.T) {
	primary, secondary := new(mocks.MockTextModel), new(mocks.MockTextModel)
	primary.On("Complete", mock.Anything, "p", port.FormatJSON).Return("", errors.New("boom"))
	secondary.On("Complete", mock.Anything, "p", port.FormatJSON).Return(`{"ok":true}`, nil)

	f := llm.NewFallbackModel([]port.TextModel{primary, secondary}, []string{"primary", "secondary"})
	out, err := f.Complete(context.Background(), "p", port.FormatJSON)

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestFallbackModel_RateLimitOpensCircuit(t *testing.T) {
	primary, secondary := new(mocks.MockTextModel), new(mocks.MockTextModel)
	primary.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", llm.NewRateLimitError("primary", errors.New("429"), 60)).Once()
	secondary.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("{}", nil)

	f := llm.NewFallbackModel([]port.TextModel{primary, secondary}, []string{"primary", "secondary"})
	_, err := f.Complete(context.Background(), "p", port.FormatJSON)
	require.NoError(t, err)
	_, err = f.Complete(context.Background(), "p", port.FormatJSON)
	require.NoError(t, err)

	primary.AssertNumberOfCalls(t, "Complete", 1)
	secondary.AssertNumberOfCalls(t, "Complete", 2)
}

func TestFallbackModel_AllRateLimited(t *testing.T) {
	primary, secondary := new(mocks.MockTextModel), new(mocks.MockTextModel)
	primary.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", llm.NewRateLimitError("primary", errors.New("429"), 30))
	secondary.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", llm.NewRateLimitError("secondary", errors.New("429"), 90))

	f := llm.NewFallbackModel([]port.TextModel{primary, secondary}, []string{"primary", "secondary"})
	_, err := f.Complete(context.Background(), "p", port.FormatJSON)

	var rl *llm.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "all", rl.Provider)
	assert.LessOrEqual(t, rl.RetryAfter, 30*time.Second)

	// both circuits are open now, so nothing is called
	_, err = f.Complete(context.Background(), "p", port.FormatJSON)
	require.True(t, errors.As(err, &rl))
	primary.AssertNumberOfCalls(t, "Complete", 1)
	secondary.AssertNumberOfCalls(t, "Complete", 1)
}

func TestFallbackModel_AllFail(t *testing.T) {
	primary, secondary := new(mocks.MockTextModel), new(mocks.MockTextModel)
	primary.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", llm.NewRateLimitError("primary", errors.New("429"), 30))
	secondary.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bad request"))

	f := llm.NewFallbackModel([]port.TextModel{primary, secondary}, []string{"primary", "secondary"})
	_, err := f.Complete(context.Background(), "p", port.FormatJSON)

	require.Error(t, err)
	var rl *llm.RateLimitError
	assert.False(t, errors.As(err, &rl))
	assert.Contains(t, err.Error(), "all models failed")
}
