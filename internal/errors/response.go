package errors

import (
	"net/http"
	"strings"
)

// Standard for Error reponses to the client.
type ErrorResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

// Error is required by the error interface.
func (e ErrorResponse) Error() string {
	return e.Message
}

// Get the StatusCode of the error.
func (e ErrorResponse) StatusCode() int {
	return e.Status
}

// Replicates the New method of default errors package.
func New(err string) error {
	return ErrorResponse{
		Message: err,
	}
}

// InternalServerError creates a new error response representing an internal server error (HTTP 500)
func InternalServerError(msg string) ErrorResponse {
	if msg == "" {
		msg = "We encountered an error while processing your request."
	}
	return ErrorResponse{
		Status:  http.StatusInternalServerError,
		Message: msg,
	}
}

// ServiceUnavailable creates a new error response representing an unreachable datastore (HTTP 503)
func ServiceUnavailable(msg string) ErrorResponse {
	if msg == "" {
		msg = "The datastore is currently unavailable."
	}
	return ErrorResponse{
		Status:  http.StatusServiceUnavailable,
		Message: msg,
	}
}

// NotFound creates a new error response representing a resource-not-found error (HTTP 404)
func NotFound(msg string) ErrorResponse {
	if msg == "" {
		msg = "The requested resource was not found."
	}
	return ErrorResponse{
		Status:  http.StatusNotFound,
		Message: msg,
	}
}

// BadRequest creates a new error response representing a bad request (HTTP 400)
func BadRequest(msg string) ErrorResponse {
	if msg == "" {
		msg = "Your request is in a bad format."
	}
	return ErrorResponse{
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// Converts any error into an ErrorResponse, unknown errors become a 500.
func Wrap(err error) ErrorResponse {
	if err == nil {
		return ErrorResponse{}
	}
	if resp, ok := err.(ErrorResponse); ok {
		return resp
	}
	return InternalServerError("")
}

// Body returned by the live game mutation endpoints whenever a change is rejected.
type MutationFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Builds the mutation failure body out of an error.
// Validation details are flattened into the message so the scoreboard can show a single line.
func NewMutationFailure(err error) (int, MutationFailure) {
	resp := Wrap(err)
	msg := resp.Message
	if v, ok := resp.Details.(ValidationErrorResponse); ok && len(v.Response) != 0 {
		parts := make([]string, 0, len(v.Response))
		for _, e := range v.Response {
			parts = append(parts, e.Param+": "+e.Message)
		}
		msg = strings.Join(parts, "; ")
	}
	return resp.Status, MutationFailure{Success: false, Error: msg}
}

// Standard for Validation-error responses to the client.
type validationError struct {
	Param   string `json:"param"`   // Parameter or Field
	Message string `json:"message"` // Issue in Field
}

// Captures multiple validation issues and sends it as a response in one go.
// Use-case of this would be bunch of validation issues caught in a form.
type ValidationErrorResponse struct {
	Response []validationError `json:"errors"`
}

// Scans through set of validation errors found by govalidator,
// Generates a slice of serializable validationErrorResponse.
func GenerateValidationErrorResponse(errs []error) ErrorResponse {
	// govalidator returns array of errors in -> Param:Message format
	// We split the error from ":"
	resp := []validationError{}
	for _, err := range errs {
		e := strings.SplitN(err.Error(), ":", 2)
		if len(e) < 2 {
			resp = append(resp, validationError{Param: "request", Message: strings.TrimSpace(e[0])})
			continue
		}
		resp = append(
			resp, validationError{
				Param:   strings.TrimSpace(e[0]),
				Message: strings.TrimSpace(e[1]),
			},
		)
	}
	return ErrorResponse{
		Status:  http.StatusBadRequest,
		Message: "Data validation error",
		Details: ValidationErrorResponse{Response: resp},
	}
}
