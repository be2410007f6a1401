package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMalformedSheet      = "MALFORMED_SHEET"
	ErrCodeDishFileRequired    = "DISH_FILE_REQUIRED"
	ErrCodeInvalidFileType     = "INVALID_FILE_TYPE"
	ErrCodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
	ErrCodeIngredientNotFound  = "INGREDIENT_NOT_FOUND"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeUnknownChart        = "UNKNOWN_CHART"
	ErrCodeNoChartData         = "NO_CHART_DATA"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeSourceUnavailable   = "SOURCE_UNAVAILABLE"
	ErrCodeSheetNotFound       = "SHEET_NOT_FOUND"
	ErrCodeUnsupportedEncoding = "UNSUPPORTED_CONTENT_TYPE"
	ErrCodeMalformedUpload     = "MALFORMED_UPLOAD"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrDishFileRequired    = NewDomainError(ErrCodeDishFileRequired, "A dish spreadsheet is required")
	ErrInvalidFileType     = NewDomainError(ErrCodeInvalidFileType, "Spreadsheets must be .xlsx files")
	ErrPayloadTooLarge     = NewDomainError(ErrCodePayloadTooLarge, "Upload exceeds the maximum allowed size")
	ErrIngredientNotFound  = NewDomainError(ErrCodeIngredientNotFound, "Ingredient not found in the reference catalogue")
	ErrUnknownChart        = NewDomainError(ErrCodeUnknownChart, "Unknown chart kind")
	ErrNoChartData         = NewDomainError(ErrCodeNoChartData, "No dish has data for this chart")
	ErrSourceUnavailable   = NewDomainError(ErrCodeSourceUnavailable, "Spreadsheet sources are not configured")
	ErrUnsupportedEncoding = NewDomainError(ErrCodeUnsupportedEncoding, "Send multipart/form-data or application/json")
	ErrMalformedUpload     = NewDomainError(ErrCodeMalformedUpload, "The upload could not be read as multipart/form-data")
)

// SheetError reports a spreadsheet that cannot be processed.
// Row and Column are zero when the problem is not tied to a cell.
type SheetError struct {
	File    string
	Row     int
	Column  string
	Message string
}

func (e *SheetError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("%s: row %d, column %q: %s", e.File, e.Row, e.Column, e.Message)
	case e.Row > 0:
		return fmt.Sprintf("%s: row %d: %s", e.File, e.Row, e.Message)
	case e.Column != "":
		return fmt.Sprintf("%s: column %q: %s", e.File, e.Column, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
}

// Code returns the API error code for sheet errors.
func (e *SheetError) Code() string {
	return ErrCodeMalformedSheet
}

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
