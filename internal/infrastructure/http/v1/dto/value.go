package dto

// FormatValueRequest asks to format a model value for output.
type FormatValueRequest struct {
	Value  any    `json:"value"`
	Target string `json:"target" binding:"required"`
}

// ParseValueRequest asks to parse external input into a model value.
type ParseValueRequest struct {
	Value  any    `json:"value"`
	Source string `json:"source" binding:"required"`
}

// ValidateValueRequest asks to validate a model value.
type ValidateValueRequest struct {
	Value any `json:"value"`
}

// ValueResponse carries the result of a format or parse operation.
type ValueResponse struct {
	Value any `json:"value"`
}

// ValidationResponse carries the result of a validate operation.
type ValidationResponse struct {
	Valid   bool           `json:"valid"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// SetLocaleRequest switches the service locale.
type SetLocaleRequest struct {
	Locale string `json:"locale" binding:"required"`
}
