package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractMessage builds a display message from an error payload. A string
// "message" is used as-is; a field map under "message" or "errors" is
// flattened into "msg1, msg2" in field order; a string "error" comes last.
func ExtractMessage(body []byte, status int) string {
	fields, err := topLevel(body)
	if err == nil {
		for _, key := range []string{"message", "errors", "error"} {
			raw, ok := fields[key]
			if !ok {
				continue
			}
			if msg := flatten(raw); msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func topLevel(body []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// flatten renders a string, an array of strings, or an object of either,
// keeping object keys in document order.
func flatten(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return ""
		}
		var parts []string
		for _, it := range items {
			if s := flatten(it); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case '{':
		var parts []string
		for _, v := range orderedValues(raw) {
			if s := flatten(v); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// orderedValues returns the values of a JSON object in document order.
func orderedValues(raw json.RawMessage) []json.RawMessage {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var out []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return out
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return out
		}
		out = append(out, v)
	}
	return out
}
