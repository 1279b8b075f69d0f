package port

import "context"

// ResponseFormat is the reply shape requested from a text model.
type ResponseFormat string

const (
	FormatText ResponseFormat = "text"
	FormatJSON ResponseFormat = "json"
)

// TextModel abstracts a generative text model: prompt in, free text out.
// Implementations own their retry policy; callers treat every error the same.
type TextModel interface {
	Complete(ctx context.Context, prompt string, format ResponseFormat) (string, error)
}
