package domain

import "github.com/google/uuid"

// RawInput is the free-form request submitted by a user.
type RawInput struct {
	Text         string       `json:"text"`
	DocumentType DocumentType `json:"document_type"`
	UserID       uuid.UUID    `json:"user_id"`
}

// ExtractedClient is the client as understood from the request text.
// ID is set only when the model matched an existing client record.
type ExtractedClient struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Address    string     `json:"address,omitempty"`
	TaxNumber  string     `json:"taxNumber,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// ExtractedLineItem holds one billable line. Money and quantities are decimal
// strings so that no value ever passes through a float.
type ExtractedLineItem struct {
	ProductID   string `json:"productId,omitempty"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TaxRate     string `json:"taxRate,omitempty"`
	Subtotal    string `json:"subtotal"`
	TaxAmount   string `json:"taxAmount,omitempty"`
	Total       string `json:"total"`
}

// ExtractedDocument holds document-level fields. Invoices use DueDate,
// quotes use ValidUntil. Dates are ISO YYYY-MM-DD.
type ExtractedDocument struct {
	IssueDate  string `json:"issueDate"`
	DueDate    string `json:"dueDate,omitempty"`
	ValidUntil string `json:"validUntil,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Discount   string `json:"discount,omitempty"`
}

// DocumentTotals are derived from the line items and the document discount.
type DocumentTotals struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// ParseResult is the structured draft produced by one extraction attempt.
type ParseResult struct {
	Client                 ExtractedClient     `json:"client"`
	Items                  []ExtractedLineItem `json:"items"`
	Document               ExtractedDocument   `json:"document"`
	Totals                 *DocumentTotals     `json:"totals,omitempty"`
	NeedsClarification     bool                `json:"needsClarification"`
	ClarificationQuestions []string            `json:"clarificationQuestions"`
	RawText                string              `json:"rawText"`
}

// Clone returns a deep copy of r.
func (r *ParseResult) Clone() *ParseResult {
	if r == nil {
		return nil
	}
	out := *r
	if r.Items != nil {
		out.Items = make([]ExtractedLineItem, len(r.Items))
		copy(out.Items, r.Items)
	}
	if r.ClarificationQuestions != nil {
		out.ClarificationQuestions = make([]string, len(r.ClarificationQuestions))
		copy(out.ClarificationQuestions, r.ClarificationQuestions)
	}
	if r.Totals != nil {
		t := *r.Totals
		out.Totals = &t
	}
	return &out
}
