// Package workflow drives a draft from free text through optional
// clarification to review as an explicit state machine.
package workflow

import "draftwise/internal/domain"

// Status names a workflow state.
type Status string

const (
	StatusInput         Status = "input"
	StatusProcessing    Status = "processing"
	StatusClarification Status = "clarification"
	StatusReview        Status = "review"
	StatusError         Status = "error"
)

// State is one of Input, Processing, Clarification, Review or Failed. Each
// carries only the data valid in that state.
type State interface {
	Status() Status
	isState()
}

// Input waits for the user's text. Draft holds earlier text after an edit.
type Input struct {
	Draft string
}

// Processing is an extraction in flight. Text is what is sent to the
// extractor; for a re-extraction it is OriginalText plus the answers, and
// Prior is the result being clarified.
type Processing struct {
	OriginalText string
	Text         string
	Reextract    bool
	Prior        *domain.ParseResult
}

// Clarification waits for an answer to every question of Result.
type Clarification struct {
	Result       *domain.ParseResult
	Answers      []string
	OriginalText string
}

// Review holds a result ready for the user.
type Review struct {
	Result       *domain.ParseResult
	OriginalText string
}

// Failed is reached only when extraction failed and no earlier result exists.
type Failed struct {
	Message      string
	OriginalText string
}

func (Input) Status() Status         { return StatusInput }
func (Processing) Status() Status    { return StatusProcessing }
func (Clarification) Status() Status { return StatusClarification }
func (Review) Status() Status        { return StatusReview }
func (Failed) Status() Status        { return StatusError }

func (Input) isState()         {}
func (Processing) isState()    {}
func (Clarification) isState() {}
func (Review) isState()        {}
func (Failed) isState()        {}

// Questions returns the questions being asked.
func (c Clarification) Questions() []string {
	if c.Result == nil {
		return nil
	}
	return c.Result.ClarificationQuestions
}

// Event is an input to Transition.
type Event interface {
	isEvent()
}

// SubmitText submits the user's request.
type SubmitText struct{ Text string }

// ExtractionSucceeded delivers the result of the extraction started by
// entering Processing.
type ExtractionSucceeded struct{ Result *domain.ParseResult }

// ExtractionFailed reports that the extraction produced nothing usable.
type ExtractionFailed struct{ Err error }

// AnswerQuestion records the answer to question Index.
type AnswerQuestion struct {
	Index int
	Value string
}

// SubmitClarifications re-extracts with every answer attached.
type SubmitClarifications struct{}

// ReviseItem replaces line item Index of the reviewed result. Amounts are
// recalculated from quantity, unit price and tax rate.
type ReviseItem struct {
	Index int
	Item  domain.ExtractedLineItem
}

// Edit returns to Input with the original text as the draft.
type Edit struct{}

// Reset discards everything and returns to an empty Input.
type Reset struct{}

func (SubmitText) isEvent()           {}
func (ExtractionSucceeded) isEvent()  {}
func (ExtractionFailed) isEvent()     {}
func (AnswerQuestion) isEvent()       {}
func (SubmitClarifications) isEvent() {}
func (ReviseItem) isEvent()           {}
func (Edit) isEvent()                 {}
func (Reset) isEvent()                {}

// Snapshot is a serialisable view of a state.
type Snapshot struct {
	Status       Status              `json:"status"`
	Draft        string              `json:"draft,omitempty"`
	OriginalText string              `json:"original_text,omitempty"`
	Result       *domain.ParseResult `json:"result,omitempty"`
	Questions    []string            `json:"questions,omitempty"`
	Answers      []string            `json:"answers,omitempty"`
	Message      string              `json:"message,omitempty"`
}

// Snap renders s as a Snapshot.
func Snap(s State) Snapshot {
	switch st := s.(type) {
	case Input:
		return Snapshot{Status: StatusInput, Draft: st.Draft}
	case Processing:
		return Snapshot{Status: StatusProcessing, OriginalText: st.OriginalText}
	case Clarification:
		return Snapshot{
			Status:       StatusClarification,
			OriginalText: st.OriginalText,
			Result:       st.Result,
			Questions:    st.Questions(),
			Answers:      append([]string(nil), st.Answers...),
		}
	case Review:
		return Snapshot{Status: StatusReview, OriginalText: st.OriginalText, Result: st.Result}
	case Failed:
		return Snapshot{Status: StatusError, OriginalText: st.OriginalText, Message: st.Message}
	default:
		return Snapshot{}
	}
}
