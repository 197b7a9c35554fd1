package apperror

import "net/http"

// AppError carries the HTTP status and the JSON body a request should end with.
// Fields, when set, is rendered verbatim as the response object.
type AppError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Body is the response object for this error.
func (e *AppError) Body() map[string]string {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	return map[string]string{"message": e.Message}
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FieldError answers with a single-key object such as {"noprofile": "..."}.
func FieldError(code int, field, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// Validation answers 400 with one message per offending field.
func Validation(fields map[string]string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// StoreFailure surfaces a storage error as 404 with the raw error text.
func StoreFailure(err error) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: err.Error(),
		Fields:  map[string]string{"error": err.Error()},
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}
