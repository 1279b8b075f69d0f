package domain

// DocumentType identifies the kind of business document being drafted.
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeQuote   DocumentType = "quote"
)

// ValidDocumentTypes is the set of accepted document types.
var ValidDocumentTypes = map[DocumentType]bool{
	DocumentTypeInvoice: true,
	DocumentTypeQuote:   true,
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	return ValidDocumentTypes[t]
}

// Confidence is a coarse trust level for an extracted or matched value.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ValidConfidences is the set of accepted confidence levels.
var ValidConfidences = map[Confidence]bool{
	ConfidenceHigh:   true,
	ConfidenceMedium: true,
	ConfidenceLow:    true,
}

// Rank orders confidence levels so they can be compared: low < medium < high.
// Unknown values rank below low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// Recurrence describes how often a product is billed.
type Recurrence string

const (
	RecurrenceOneTime Recurrence = "one_time"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)
