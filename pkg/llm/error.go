package llm

import "fmt"

// Error types used in OpenAI error payloads.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeAuth           = "auth_error"
	ErrorTypeServer         = "server_error"
)

// CodeModelNotFound is the error code for an unknown model.
const CodeModelNotFound = "model_not_found"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error fields. Param and Code are omitted when nil.
type ErrorDetail struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param,omitempty"`
	Code    *string `json:"code,omitempty"`
}

// NewErrorResponse builds an error payload with only a message and type.
func NewErrorResponse(typ, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Message: message, Type: typ}}
}

// InvalidRequestError is a request that failed validation.
type InvalidRequestError struct {
	Param   string
	Message string
}

// Invalidf builds an InvalidRequestError for param.
func Invalidf(param, format string, args ...any) *InvalidRequestError {
	return &InvalidRequestError{Param: param, Message: fmt.Sprintf(format, args...)}
}

func (e *InvalidRequestError) Error() string {
	if e.Param == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Param, e.Message)
}

// Response renders the error as an OpenAI payload.
func (e *InvalidRequestError) Response() ErrorResponse {
	resp := NewErrorResponse(ErrorTypeInvalidRequest, e.Message)
	if e.Param != "" {
		param := e.Param
		resp.Error.Param = &param
	}
	return resp
}
