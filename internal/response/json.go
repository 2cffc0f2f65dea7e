package response

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
)

const (
	defaultSuccessMessage = "Request successful"
	defaultFailureMessage = "Request failed"
)

// Response is the envelope every endpoint answers with. Data is set on success
// and Error on failure; Status repeats the HTTP status code.
type Response[T any] struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	Error   T      `json:"error,omitempty"`
}

func JSONCreatedResponse(w http.ResponseWriter, data any, message string, headers http.Header) error {
	return success(w, http.StatusCreated, data, message, headers)
}

func JSONOkResponse(w http.ResponseWriter, data any, message string, headers http.Header) error {
	return success(w, http.StatusOK, data, message, headers)
}

// JSONErrorResponse falls back to a 500 when status is zero.
func JSONErrorResponse(w http.ResponseWriter, err any, message string, status int, headers http.Header) error {
	if message == "" {
		message = defaultFailureMessage
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return write(w, &Response[any]{
		Status:  status,
		Success: false,
		Message: message,
		Error:   err,
	}, headers)
}

func success(w http.ResponseWriter, status int, data any, message string, headers http.Header) error {
	if message == "" {
		message = defaultSuccessMessage
	}
	if m, ok := data.(map[string]any); ok {
		data = ConvertKeysToSnakeCase(m)
	}

	return write(w, &Response[any]{
		Status:  status,
		Success: true,
		Message: message,
		Data:    data,
	}, headers)
}

func write(w http.ResponseWriter, response *Response[any], headers http.Header) error {
	js, err := json.MarshalIndent(response, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.Status)

	_, err = w.Write(js)
	return err
}

var rxCamelBoundary = regexp.MustCompile("([a-z0-9])([A-Z])")

func toSnakeCase(s string) string {
	return strings.ToLower(rxCamelBoundary.ReplaceAllString(s, "${1}_${2}"))
}

// ConvertKeysToSnakeCase rewrites map keys such as ActiveSessions to active_sessions,
// descending into nested maps and into maps held in slices.
func ConvertKeysToSnakeCase(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		out[toSnakeCase(key)] = convertValue(value)
	}
	return out
}

func convertValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return ConvertKeysToSnakeCase(v)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = convertValue(item)
		}
		return items
	default:
		return value
	}
}
