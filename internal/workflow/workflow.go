package workflow

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"draftwise/internal/domain"
	"draftwise/internal/extraction"
)

// Extractor is the extraction step a Workflow runs while Processing.
type Extractor interface {
	Extract(ctx context.Context, in domain.RawInput) (*extraction.Outcome, error)
}

// Workflow owns one clarification session. It is not safe for concurrent
// use; callers must not submit again while an extraction is in flight.
type Workflow struct {
	extractor    Extractor
	userID       uuid.UUID
	documentType domain.DocumentType
	state        State
	warnings     []string
}

// New creates a Workflow in the Input state.
func New(extractor Extractor, userID uuid.UUID, documentType domain.DocumentType) *Workflow {
	return &Workflow{
		extractor:    extractor,
		userID:       userID,
		documentType: documentType,
		state:        Input{},
	}
}

// State returns the current state.
func (w *Workflow) State() State { return w.state }

// UserID returns the owner of the session.
func (w *Workflow) UserID() uuid.UUID { return w.userID }

// DocumentType returns the kind of document being drafted.
func (w *Workflow) DocumentType() domain.DocumentType { return w.documentType }

// Warnings returns the advisory notes of the last successful extraction.
func (w *Workflow) Warnings() []string { return w.warnings }

// Result returns the result shown in Clarification or Review, or nil.
func (w *Workflow) Result() *domain.ParseResult {
	switch st := w.state.(type) {
	case Clarification:
		return st.Result
	case Review:
		return st.Result
	default:
		return nil
	}
}

// SubmitText submits the user's request and runs the first extraction.
func (w *Workflow) SubmitText(ctx context.Context, text string) error {
	if err := w.apply(SubmitText{Text: text}); err != nil {
		return err
	}
	w.run(ctx)
	return nil
}

// AnswerClarification records the answer to question index.
func (w *Workflow) AnswerClarification(index int, value string) error {
	return w.apply(AnswerQuestion{Index: index, Value: value})
}

// SubmitClarifications re-extracts with the answers attached. When the
// re-extraction fails the previous result is kept and shown for review.
func (w *Workflow) SubmitClarifications(ctx context.Context) error {
	if err := w.apply(SubmitClarifications{}); err != nil {
		return err
	}
	w.run(ctx)
	return nil
}

// ReviseItem replaces one line item of the reviewed result.
func (w *Workflow) ReviseItem(index int, item domain.ExtractedLineItem) error {
	return w.apply(ReviseItem{Index: index, Item: item})
}

// EditResult returns to Input with the original text as the draft.
func (w *Workflow) EditResult() error {
	return w.apply(Edit{})
}

// Reset discards the session's state.
func (w *Workflow) Reset() {
	w.state = Input{}
	w.warnings = nil
}

func (w *Workflow) apply(e Event) error {
	next, err := Transition(w.state, e)
	if err != nil {
		return err
	}
	w.state = next
	return nil
}

// run performs the extraction for the current Processing state and feeds
// the outcome back into the machine.
func (w *Workflow) run(ctx context.Context) {
	p, ok := w.state.(Processing)
	if !ok {
		return
	}

	out, err := w.extractor.Extract(ctx, domain.RawInput{
		Text:         p.Text,
		DocumentType: w.documentType,
		UserID:       w.userID,
	})

	var ev Event
	switch {
	case err != nil:
		zap.L().Warn("workflow extraction failed",
			zap.String("user_id", w.userID.String()),
			zap.Bool("reextract", p.Reextract),
			zap.Error(err))
		ev = ExtractionFailed{Err: err}
	case p.Reextract && out.Fallback:
		// a fallback draft would throw away the answers; keep the prior result
		zap.L().Warn("workflow re-extraction fell back, keeping prior result",
			zap.String("user_id", w.userID.String()))
		ev = ExtractionFailed{Err: domain.ErrModelUnavailable}
	default:
		w.warnings = out.Warnings
		ev = ExtractionSucceeded{Result: out.Result}
	}

	// Processing accepts both outcome events
	w.state, _ = Transition(w.state, ev)
}
