package extraction

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"draftwise/internal/domain"
)

// DecodeReply turns a model reply into a JSON object. A single surrounding
// Markdown code fence is stripped and the outermost {...} is decoded; numbers
// are kept as json.Number so money never passes through a float.
func DecodeReply(reply string) (map[string]any, error) {
	s := stripFence(strings.TrimSpace(reply))

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, eris.Wrap(domain.ErrMalformedModelReply, "no JSON object in reply")
	}

	dec := json.NewDecoder(strings.NewReader(s[start : end+1]))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, eris.Wrapf(domain.ErrMalformedModelReply, "decode reply: %v", err)
	}
	if out == nil {
		return nil, eris.Wrap(domain.ErrMalformedModelReply, "reply is null")
	}
	return out, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the info string, e.g. ```json
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// asString reads a scalar as text. Numbers are rendered without exponent.
func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

// field returns the trimmed text of m[key]; blank and non-scalar values count
// as missing.
func field(m map[string]any, key string) (string, bool) {
	s, ok := asString(m[key])
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
