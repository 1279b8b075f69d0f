package workflow

import (
	"strings"

	"github.com/rotisserie/eris"

	"draftwise/internal/domain"
	"draftwise/internal/extraction"
)

// FailureMessage is shown when extraction fails with nothing to fall back on.
const FailureMessage = "We could not process your request. Please try again or enter the details manually."

// Transition applies e to s. It never modifies s or e; an event that is not
// valid in s returns domain.ErrInvalidTransition and leaves the caller's
// state untouched.
func Transition(s State, e Event) (State, error) {
	if _, ok := e.(Reset); ok {
		return Input{}, nil
	}

	switch st := s.(type) {
	case Input:
		if ev, ok := e.(SubmitText); ok {
			if strings.TrimSpace(ev.Text) == "" {
				return s, domain.ErrEmptyInput
			}
			return Processing{OriginalText: ev.Text, Text: ev.Text}, nil
		}

	case Processing:
		switch ev := e.(type) {
		case ExtractionSucceeded:
			return settle(ev.Result, st.OriginalText), nil
		case ExtractionFailed:
			if st.Prior != nil {
				recovered := st.Prior.Clone()
				recovered.NeedsClarification = false
				if strings.TrimSpace(recovered.Client.Name) == "" {
					recovered.Client.Name = extraction.UnknownClientName
					recovered.Client.Confidence = domain.ConfidenceLow
				}
				return Review{Result: recovered, OriginalText: st.OriginalText}, nil
			}
			return Failed{Message: FailureMessage, OriginalText: st.OriginalText}, nil
		}

	case Clarification:
		switch ev := e.(type) {
		case AnswerQuestion:
			if ev.Index < 0 || ev.Index >= len(st.Answers) {
				return s, eris.Wrapf(domain.ErrInvalidAnswerIndex, "question %d of %d", ev.Index, len(st.Answers))
			}
			answers := append([]string(nil), st.Answers...)
			answers[ev.Index] = ev.Value
			return Clarification{Result: st.Result, Answers: answers, OriginalText: st.OriginalText}, nil
		case SubmitClarifications:
			for _, a := range st.Answers {
				if strings.TrimSpace(a) == "" {
					return s, domain.ErrUnansweredQuestions
				}
			}
			return Processing{
				OriginalText: st.OriginalText,
				Text:         AugmentText(st.OriginalText, st.Questions(), st.Answers),
				Reextract:    true,
				Prior:        st.Result,
			}, nil
		}

	case Review:
		switch ev := e.(type) {
		case Edit:
			return Input{Draft: st.OriginalText}, nil
		case ReviseItem:
			if st.Result == nil || ev.Index < 0 || ev.Index >= len(st.Result.Items) {
				return s, eris.Wrapf(domain.ErrInvalidTransition, "no line item %d", ev.Index)
			}
			revised := st.Result.Clone()
			revised.Items[ev.Index] = extraction.Recalculate(ev.Item)
			revised.Totals = extraction.Totals(revised)
			return Review{Result: revised, OriginalText: st.OriginalText}, nil
		}

	case Failed:
		if _, ok := e.(Edit); ok {
			return Input{Draft: st.OriginalText}, nil
		}
	}

	return s, eris.Wrapf(domain.ErrInvalidTransition, "%s cannot handle %T", statusOf(s), e)
}

// settle routes a fresh result to Clarification when it asks questions and
// to Review otherwise.
func settle(result *domain.ParseResult, originalText string) State {
	if result != nil && result.NeedsClarification && len(result.ClarificationQuestions) > 0 {
		return Clarification{
			Result:       result,
			Answers:      make([]string, len(result.ClarificationQuestions)),
			OriginalText: originalText,
		}
	}
	return Review{Result: result, OriginalText: originalText}
}

// AugmentText appends each question and its answer to the original request.
func AugmentText(original string, questions, answers []string) string {
	var b strings.Builder
	b.WriteString(original)
	b.WriteString("\n\nAdditional Information:\n")
	for i, q := range questions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		var a string
		if i < len(answers) {
			a = strings.TrimSpace(answers[i])
		}
		b.WriteString("Q: " + q + "\nA: " + a)
	}
	return b.String()
}

func statusOf(s State) Status {
	if s == nil {
		return ""
	}
	return s.Status()
}
