package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/videohub/internal/apperrors"
)

// Max size of JSON request body
const maxBodySize = 1 << 20

var debug atomic.Bool

// SetDebug enables error details in responses
// Should be disabled in production
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

type Struct any

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Response is the envelope for every API response
type Response struct {
	StatusCode int          `json:"statusCode"`
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	Data       any          `json:"data,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	Stack      string       `json:"stack,omitempty"`
}

func JSON(w http.ResponseWriter, message string, data any) {
	Success(w, http.StatusOK, message, data)
}

func Created(w http.ResponseWriter, message string, data any) {
	Success(w, http.StatusCreated, message, data)
}

func Success(w http.ResponseWriter, code int, message string, data any) {
	jsonWithStatus(w, Response{
		StatusCode: code,
		Success:    true,
		Message:    message,
		Data:       data,
	}, code)
}

// StatusOf maps error kind to HTTP status code
func StatusOf(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidationFailed, apperrors.KindInvalidOperation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalidCredential,
		apperrors.KindTokenInvalid,
		apperrors.KindTokenExpired,
		apperrors.KindSessionRevoked:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error renders service error
// Only client-safe message is shown, full error goes to 'stack' in debug mode
func Error(w http.ResponseWriter, err error) {
	code := StatusOf(err)
	response := Response{
		StatusCode: code,
		Success:    false,
		Message:    apperrors.Message(err),
	}
	if debug.Load() {
		response.Stack = err.Error()
	}

	jsonWithStatus(w, response, code)
}

// Fail renders error with arbitrary message
func Fail(w http.ResponseWriter, code int, message string) {
	jsonWithStatus(w, Response{StatusCode: code, Message: message}, code)
}

// Render json DecodeError
func DecodeError(w http.ResponseWriter, err error) {
	var message string

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		message = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	case errors.As(err, &maxErr):
		message = "Request body is too large"
	default:
		message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	Fail(w, http.StatusBadRequest, message)
}

// Render ValidationErrors
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := Response{
		StatusCode: http.StatusBadRequest,
		Message:    "Request validation failed",
		Errors:     make([]FieldError, 0, len(errs)),
	}

	for _, fieldError := range errs {
		response.Errors = append(response.Errors, FieldError{
			Field:   fieldError.Field(),
			Message: fieldMessage(fieldError),
		})
	}

	jsonWithStatus(w, response, http.StatusBadRequest)
}

// Validate struct and render validation errors if any
func Validate(w http.ResponseWriter, value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		ValidationErrors(w, errs)
		return err
	}

	Fail(w, http.StatusBadRequest, err.Error())
	return err
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	if err := Validate(w, value); err != nil {
		return value, err
	}

	return value, nil
}

// renderJSONWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
