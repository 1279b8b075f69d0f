package extraction

import (
	"fmt"
	"strings"
	"time"

	"draftwise/internal/domain"
)

// Report lists what Repair found. Errors mean a default was injected or a
// required value is absent; warnings are advisory and never affect validity.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether the reply needed no repair.
func (r Report) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Repair converts a decoded model reply into a fully populated ParseResult.
// raw is not modified. The result is usable whether or not the report is
// valid; a non-empty error list always forces NeedsClarification.
func Repair(raw map[string]any, docType domain.DocumentType, now time.Time) (*domain.ParseResult, Report) {
	var rep Report
	result := &domain.ParseResult{}

	result.Client = repairClient(raw["client"], &rep)
	result.Items = repairItems(raw["items"], &rep)
	result.Document = repairDocument(raw["document"], docType, now, &rep)

	needs, present := raw["needsClarification"].(bool)
	if _, exists := raw["needsClarification"]; exists && !present {
		rep.warnf("needsClarification is not a boolean")
	}
	if !present {
		needs = len(rep.Errors) > 0
	}
	if len(rep.Errors) > 0 {
		needs = true
	}
	result.NeedsClarification = needs

	result.ClarificationQuestions = questions(raw["clarificationQuestions"], &rep)
	if needs && len(result.ClarificationQuestions) == 0 {
		result.ClarificationQuestions = genericQuestions()
		rep.errorf("clarificationQuestions missing while needsClarification is true")
	}

	result.RawText, _ = asString(raw["rawText"])
	return result, rep
}

func repairClient(v any, rep *Report) domain.ExtractedClient {
	client := domain.ExtractedClient{Confidence: domain.ConfidenceLow}
	m, ok := v.(map[string]any)
	if !ok {
		rep.errorf("client is missing or not an object")
		return client
	}

	var hasName bool
	client.Name, hasName = field(m, "name")
	if !hasName {
		rep.errorf("client.name is missing")
	}
	client.ID, _ = field(m, "id")
	client.Email, _ = field(m, "email")
	client.Phone, _ = field(m, "phone")
	client.Address, _ = field(m, "address")
	client.TaxNumber, _ = field(m, "taxNumber")

	if c, ok := field(m, "confidence"); ok {
		conf := domain.Confidence(strings.ToLower(c))
		if domain.ValidConfidences[conf] {
			client.Confidence = conf
		} else {
			rep.warnf("client.confidence %q is not a confidence level", c)
		}
	}
	return client
}

func repairItems(v any, rep *Report) []domain.ExtractedLineItem {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		rep.errorf("items must be a non-empty array")
		return []domain.ExtractedLineItem{placeholderItem()}
	}

	items := make([]domain.ExtractedLineItem, 0, len(list))
	for i, entry := range list {
		path := fmt.Sprintf("items[%d]", i)
		m, ok := entry.(map[string]any)
		if !ok {
			rep.errorf("%s is not an object", path)
			continue
		}
		items = append(items, repairItem(m, path, rep))
	}
	if len(items) == 0 {
		items = append(items, placeholderItem())
	}
	return items
}

func repairItem(m map[string]any, path string, rep *Report) domain.ExtractedLineItem {
	var item domain.ExtractedLineItem
	var ok bool

	if item.Description, ok = field(m, "description"); !ok {
		rep.errorf("%s.description is missing", path)
	}
	if item.Quantity, ok = field(m, "quantity"); !ok {
		rep.errorf("%s.quantity is missing", path)
		item.Quantity = "1"
	}
	if item.UnitPrice, ok = field(m, "unitPrice"); !ok {
		rep.errorf("%s.unitPrice is missing", path)
		item.UnitPrice = "0"
	}
	if item.Subtotal, ok = field(m, "subtotal"); !ok {
		item.Subtotal = item.UnitPrice
	}
	if item.Total, ok = field(m, "total"); !ok {
		item.Total = item.Subtotal
	}
	item.ProductID, _ = field(m, "productId")
	item.TaxRate, _ = field(m, "taxRate")
	item.TaxAmount, _ = field(m, "taxAmount")

	rep.Warnings = append(rep.Warnings, normalizeItem(&item, path)...)
	return item
}

func repairDocument(v any, docType domain.DocumentType, now time.Time, rep *Report) domain.ExtractedDocument {
	var doc domain.ExtractedDocument
	m, isObject := v.(map[string]any)
	if !isObject {
		rep.errorf("document is missing or not an object")
		m = map[string]any{}
	}

	issue := now
	if s, ok := field(m, "issueDate"); ok {
		doc.IssueDate = s
		if t, err := time.Parse(dateLayout, s); err == nil {
			issue = t
		} else {
			rep.warnf("document.issueDate %q is not an ISO date", s)
		}
	} else {
		if isObject {
			rep.errorf("document.issueDate is missing")
		}
		doc.IssueDate = now.Format(dateLayout)
	}

	doc.DueDate, _ = field(m, "dueDate")
	doc.ValidUntil, _ = field(m, "validUntil")
	doc.Notes, _ = field(m, "notes")
	if d, ok := field(m, "discount"); ok {
		if out, ok := formatMoney(d); ok {
			doc.Discount = out
		} else {
			doc.Discount = d
			rep.warnf("document.discount is not a decimal: %q", d)
		}
	}

	termField, termValue := "dueDate", doc.DueDate
	if docType == domain.DocumentTypeQuote {
		termField, termValue = "validUntil", doc.ValidUntil
	}
	if termValue == "" {
		if isObject {
			rep.errorf("document.%s is missing", termField)
		}
		setTermDate(&doc, docType, issue)
	}
	return doc
}

func questions(v any, rep *Report) []string {
	out := []string{}
	list, ok := v.([]any)
	if !ok {
		if v != nil {
			rep.warnf("clarificationQuestions is not an array")
		}
		return out
	}
	for _, q := range list {
		s, ok := q.(string)
		if !ok {
			rep.warnf("clarificationQuestions contains a non-string entry")
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
