package extraction

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"draftwise/internal/domain"
)

var optionalString = map[string]any{"type": []string{"string", "null"}}

func confidenceSchema() map[string]any {
	return map[string]any{
		"type": "string",
		"enum": []string{string(domain.ConfidenceHigh), string(domain.ConfidenceMedium), string(domain.ConfidenceLow)},
	}
}

// clientSchema describes the ExtractedClient shape.
func clientSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"id":         optionalString,
			"name":       map[string]any{"type": "string", "minLength": 1},
			"email":      optionalString,
			"phone":      optionalString,
			"address":    optionalString,
			"taxNumber":  optionalString,
			"confidence": confidenceSchema(),
		},
	}
}

// documentSchema describes the ParseResult shape requested for docType.
func documentSchema(docType domain.DocumentType) map[string]any {
	decimalString := map[string]any{"type": "string", "pattern": `^-?[0-9]+(\.[0-9]+)?$`}
	isoDate := map[string]any{"type": "string", "pattern": `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`}

	docProps := map[string]any{
		"issueDate": isoDate,
		"notes":     optionalString,
		"discount":  decimalString,
	}
	docRequired := []string{"issueDate"}
	if docType == domain.DocumentTypeQuote {
		docProps["validUntil"] = isoDate
		docRequired = append(docRequired, "validUntil")
	} else {
		docProps["dueDate"] = isoDate
		docRequired = append(docRequired, "dueDate")
	}

	return map[string]any{
		"type":     "object",
		"required": []string{"client", "items", "document", "needsClarification", "clarificationQuestions"},
		"properties": map[string]any{
			"client": clientSchema(),
			"items": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"description", "quantity", "unitPrice", "subtotal", "total"},
					"properties": map[string]any{
						"productId":   optionalString,
						"description": map[string]any{"type": "string"},
						"quantity":    decimalString,
						"unitPrice":   decimalString,
						"taxRate":     decimalString,
						"subtotal":    decimalString,
						"taxAmount":   decimalString,
						"total":       decimalString,
					},
				},
			},
			"document": map[string]any{
				"type":       "object",
				"required":   docRequired,
				"properties": docProps,
			},
			"needsClarification": map[string]any{"type": "boolean"},
			"clarificationQuestions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	}
}

// schemaText renders a schema for embedding in a prompt. Map keys marshal in
// sorted order, so the output is stable.
func schemaText(schema map[string]any) string {
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		// static schemas always marshal
		panic(err)
	}
	return string(b)
}

var (
	clientSchemaOnce     sync.Once
	compiledClientSchema *jsonschema.Schema
	clientSchemaErr      error
)

// validateClientReply checks a decoded client-only reply against clientSchema.
func validateClientReply(v any) error {
	clientSchemaOnce.Do(func() {
		compiledClientSchema, clientSchemaErr = compileSchema("client.json", clientSchema())
	})
	if clientSchemaErr != nil {
		return clientSchemaErr
	}
	if err := compiledClientSchema.Validate(v); err != nil {
		return eris.Wrap(domain.ErrMalformedModelReply, err.Error())
	}
	return nil
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, eris.Wrap(err, "marshal schema")
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, eris.Wrap(err, "add schema")
	}
	s, err := compiler.Compile(name)
	if err != nil {
		return nil, eris.Wrap(err, "compile schema")
	}
	return s, nil
}
