package extraction

import (
	"time"

	"draftwise/internal/domain"
)

// DefaultTermDays is the gap between the issue date and the due or
// valid-until date when the request does not state one.
const DefaultTermDays = 30

// UnknownClientName stands in for a client the request did not identify.
const UnknownClientName = "Unknown Client"

const (
	dateLayout          = "2006-01-02"
	placeholderItemDesc = "Services as described"
)

// GenericQuestions are asked whenever a result needs clarification and the
// model supplied no questions of its own.
var GenericQuestions = []string{
	"Could you provide more details about the client (name, email, or company)?",
	"What specific items or services should be included?",
	"What are the quantities and prices for each item?",
}

func genericQuestions() []string {
	return append([]string(nil), GenericQuestions...)
}

func placeholderItem() domain.ExtractedLineItem {
	return domain.ExtractedLineItem{
		Description: placeholderItemDesc,
		Quantity:    "1",
		UnitPrice:   "0",
		Subtotal:    "0",
		Total:       "0",
	}
}

// setTermDate fills the due date of an invoice or the valid-until date of a
// quote with issue + DefaultTermDays.
func setTermDate(doc *domain.ExtractedDocument, docType domain.DocumentType, issue time.Time) {
	term := issue.AddDate(0, 0, DefaultTermDays).Format(dateLayout)
	if docType == domain.DocumentTypeQuote {
		doc.ValidUntil = term
		return
	}
	doc.DueDate = term
}

// Fallback builds the minimal result used when the model produced nothing
// usable. It always asks for clarification and keeps the original text.
func Fallback(text string, docType domain.DocumentType, now time.Time) *domain.ParseResult {
	doc := domain.ExtractedDocument{IssueDate: now.Format(dateLayout)}
	setTermDate(&doc, docType, now)

	return &domain.ParseResult{
		Client: domain.ExtractedClient{
			Name:       UnknownClientName,
			Confidence: domain.ConfidenceLow,
		},
		Items:                  []domain.ExtractedLineItem{placeholderItem()},
		Document:               doc,
		NeedsClarification:     true,
		ClarificationQuestions: genericQuestions(),
		RawText:                text,
	}
}

// FallbackClient is the client used when client-only extraction fails.
func FallbackClient() *domain.ExtractedClient {
	return &domain.ExtractedClient{Name: UnknownClientName, Confidence: domain.ConfidenceLow}
}
