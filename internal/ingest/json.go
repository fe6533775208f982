package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/certquiz/internal/question"
)

// JSONAdapter reads an array of question objects. Text before the opening
// bracket and after the closing bracket is ignored.
type JSONAdapter struct{}

func (JSONAdapter) Format() string { return FormatJSON }

func (JSONAdapter) Parse(data []byte) ([]question.Candidate, error) {
	elems, err := decodeArray(data)
	if err != nil {
		return nil, &ParseError{Format: FormatJSON, Err: err}
	}

	out := make([]question.Candidate, 0, len(elems))
	for _, raw := range elems {
		out = append(out, decodeRecord(raw))
	}
	return out, nil
}

// decodeArray finds the question array inside data. Each '[' is tried in
// order and anything after a decoded array is ignored. An array of objects
// is preferred over an earlier one that only decodes, so a bracketed note
// like "[v2]" ahead of the payload is skipped. The error from the first
// candidate is returned when nothing decodes.
func decodeArray(data []byte) ([]json.RawMessage, error) {
	var (
		firstErr error
		fallback []json.RawMessage
		found    bool
	)
	for off := 0; off < len(data); {
		i := bytes.IndexByte(data[off:], '[')
		if i < 0 {
			break
		}
		start := off + i
		off = start + 1

		var elems []json.RawMessage
		if err := json.NewDecoder(bytes.NewReader(data[start:])).Decode(&elems); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(elems) == 0 || isObject(elems[0]) {
			return elems, nil
		}
		if !found {
			fallback, found = elems, true
		}
	}
	if found {
		return fallback, nil
	}
	if firstErr == nil {
		firstErr = errors.New("no array found")
	}
	return nil, firstErr
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

// decodeRecord decodes one element without failing the batch: type
// mismatches are recorded as problems so the record counts as invalid.
func decodeRecord(raw json.RawMessage) question.Candidate {
	var c question.Candidate

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		c.Problems = append(c.Problems, "record is not an object")
		return c
	}

	c.Question = stringField(fields, "question", &c)
	c.CorrectAnswer = stringField(fields, "correctAnswer", &c)
	c.Explanation = stringField(fields, "explanation", &c)

	if rawOpts, ok := fields["options"]; ok && !isNull(rawOpts) {
		if err := json.Unmarshal(rawOpts, &c.Options); err != nil {
			c.Problems = append(c.Problems, "options must be an array of strings")
		}
	}

	if rawID, ok := fields["id"]; ok && !isNull(rawID) {
		var id int
		if err := json.Unmarshal(rawID, &id); err != nil {
			c.Problems = append(c.Problems, fmt.Sprintf("id must be an integer, got %s", rawID))
		} else {
			c.ID = &id
		}
	}
	return c
}

func stringField(fields map[string]json.RawMessage, key string, c *question.Candidate) string {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		c.Problems = append(c.Problems, key+" must be a string")
		return ""
	}
	return s
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
