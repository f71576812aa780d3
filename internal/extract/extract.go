// Package extract recovers strict JSON values from free-form model output.
//
// Models tend to wrap structured output in prose or code fences. Extraction
// trims the text, strips at most one leading and one trailing fence, locates
// a candidate span, parses it strictly and validates its shape. Arrays use
// the greedy span (first '[' to last ']') so brackets inside string values
// never truncate the array. Objects use the narrow span (the first '{' to the
// nearest following '}') so trailing prose containing braces is never
// swallowed.
package extract

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"mockprep/internal/model"
)

// Shape is the expected structure of an extraction
type Shape int

const (
	// ArrayShape is an array of {"question","answer"} objects
	ArrayShape Shape = iota + 1
	// ObjectShape is a single {"ratings","feedback"} object
	ObjectShape
)

func (s Shape) String() string {
	switch s {
	case ArrayShape:
		return "array"
	case ObjectShape:
		return "object"
	default:
		return "value"
	}
}

const (
	fieldQuestion = "question"
	fieldAnswer   = "answer"
	fieldRatings  = "ratings"
	fieldFeedback = "feedback"

	maxRating = 10
)

var (
	leadingFence  = regexp.MustCompile("(?i)^(```[a-z0-9_+-]*|`)")
	trailingFence = regexp.MustCompile("(```|`)$")
)

// stripFences removes one optional leading and one optional trailing fence
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Span returns the candidate JSON substring for shape, after fence stripping
func Span(raw string, shape Shape) (string, error) {
	s := stripFences(raw)

	switch shape {
	case ArrayShape:
		start := strings.IndexByte(s, '[')
		end := strings.LastIndexByte(s, ']')
		if start < 0 || end < start {
			return "", noStructure(shape)
		}
		return s[start : end+1], nil

	case ObjectShape:
		start := strings.IndexByte(s, '{')
		if start < 0 {
			return "", noStructure(shape)
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			return "", noStructure(shape)
		}
		return s[start : start+end+1], nil
	}

	return "", noStructure(shape)
}

// Extract recovers and validates a value of the given shape. The result is
// []model.QuestionAnswer for ArrayShape and model.EvaluationResult for
// ObjectShape. Every failure is an *Error.
func Extract(raw string, shape Shape) (any, error) {
	switch shape {
	case ArrayShape:
		return Questions(raw)
	case ObjectShape:
		return Evaluation(raw)
	default:
		return nil, noStructure(shape)
	}
}

// Questions extracts the question/answer array from a generation response
func Questions(raw string) ([]model.QuestionAnswer, error) {
	span, err := Span(raw, ArrayShape)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		return nil, malformed(ArrayShape, span, err)
	}
	out := make([]model.QuestionAnswer, 0, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, mismatch(ArrayShape, span, "element %d is not an object", i)
		}
		if len(fields) != 2 {
			return nil, mismatch(ArrayShape, span, "element %d must have exactly %q and %q, got %d fields", i, fieldQuestion, fieldAnswer, len(fields))
		}
		q, ok := stringField(fields, fieldQuestion)
		if !ok {
			return nil, mismatch(ArrayShape, span, "element %d: %q must be a non-empty string", i, fieldQuestion)
		}
		a, ok := stringField(fields, fieldAnswer)
		if !ok {
			return nil, mismatch(ArrayShape, span, "element %d: %q must be a non-empty string", i, fieldAnswer)
		}
		out = append(out, model.QuestionAnswer{Question: q, Answer: a})
	}
	return out, nil
}

// Evaluation extracts the rating/feedback object from an evaluation response
func Evaluation(raw string) (model.EvaluationResult, error) {
	span, err := Span(raw, ObjectShape)
	if err != nil {
		return model.EvaluationResult{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return model.EvaluationResult{}, malformed(ObjectShape, span, err)
	}

	rawRating, ok := fields[fieldRatings]
	if !ok {
		return model.EvaluationResult{}, mismatch(ObjectShape, span, "missing %q", fieldRatings)
	}
	rating, ok := ratingValue(rawRating)
	if !ok {
		return model.EvaluationResult{}, mismatch(ObjectShape, span, "%q must be an integer from 0 to %d", fieldRatings, maxRating)
	}

	rawFeedback, ok := fields[fieldFeedback]
	if !ok {
		return model.EvaluationResult{}, mismatch(ObjectShape, span, "missing %q", fieldFeedback)
	}
	feedback, ok := jsonString(rawFeedback)
	if !ok {
		return model.EvaluationResult{}, mismatch(ObjectShape, span, "%q must be a string", fieldFeedback)
	}

	return model.EvaluationResult{Rating: rating, Feedback: feedback}, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	v, ok := jsonString(raw)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func jsonString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

func ratingValue(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f < 0 || f > maxRating {
		return 0, false
	}
	return int(f), true
}
