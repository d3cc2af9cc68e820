// Package batch supports tools that operate on several tasks at once.
// The batch task tools accept a single task ID or title as well as an
// array of them; each item is processed independently so one failing
// task does not abort the rest of the batch.
package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Per-item outcome statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result represents the outcome of one task in a batch operation
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // StatusSuccess or StatusError
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult represents the aggregated results of a batch operation
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray parses a tool argument that holds either a single
// value or an array of values (task IDs, task titles). Some MCP clients
// send arrays as a JSON-encoded string, so strings that look like a JSON
// array are decoded; anything else bracket-shaped (a task title such as
// "[urgent] file taxes") stays a single literal value.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		if decoded, ok := decodeJSONStringArray(v); ok {
			if len(decoded) == 0 {
				return nil, fmt.Errorf("%s cannot be empty", paramName)
			}
			for i, item := range decoded {
				if item == "" {
					return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
				}
			}
			result = decoded
			break
		}
		result = []string{v}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}

// decodeJSONStringArray reports whether s is a JSON array of strings and
// returns its elements. Strings that merely start with "[" but do not
// decode cleanly are not arrays.
func decodeJSONStringArray(s string) ([]string, bool) {
	if !strings.HasPrefix(strings.TrimSpace(s), "[") {
		return nil, false
	}
	var decoded []string
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

// FormatResults creates a formatted JSON string from batch results
func FormatResults(results []Result) string {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}

	for _, r := range results {
		if r.Status == StatusSuccess {
			br.Successful++
		} else {
			br.Failed++
		}
	}

	jsonBytes, _ := json.MarshalIndent(br, "", "  ")
	return string(jsonBytes)
}

// ProcessBatch runs fn against each task and collects per-task results.
// A failure is recorded against its task and processing continues.
func ProcessBatch(ids []string, fn func(id string) (string, error)) []Result {
	results := make([]Result, 0, len(ids))

	for _, id := range ids {
		result := Result{ID: id}
		res, err := fn(id)
		if err != nil {
			result.Status = StatusError
			result.Error = err.Error()
		} else {
			result.Status = StatusSuccess
			result.Result = res
		}
		results = append(results, result)
	}

	return results
}

// NewSuccessResult creates a success result for a task
func NewSuccessResult(id, message string) Result {
	return Result{
		ID:     id,
		Status: StatusSuccess,
		Result: message,
	}
}

// NewErrorResult creates an error result for a task
func NewErrorResult(id string, err error) Result {
	return Result{
		ID:     id,
		Status: StatusError,
		Error:  err.Error(),
	}
}
