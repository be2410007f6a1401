package handler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"dish-analyzer/internal/chart"
	"dish-analyzer/internal/middleware"
	"dish-analyzer/internal/model"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// Multipart field names for uploaded workbooks.
const (
	DishField  = "dish_file"
	PriceField = "price_file"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

// writeError maps err to a status and error code and writes it as JSON.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status, code, message := classify(err)
	correlationID := middleware.CorrelationIDFrom(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("code", code).
		Int("status", status).
		Str("correlation_id", correlationID).
		Msg("handler error")

	writeJSON(w, r, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: correlationID,
	})
}

// classify returns the HTTP status, error code and user-visible message for err.
func classify(err error) (int, string, string) {
	var (
		sheetErr  *model.SheetError
		validErr  *model.ValidationError
		domainErr *model.DomainError
		tooLarge  *http.MaxBytesError
	)

	switch {
	case errors.As(err, &sheetErr):
		return http.StatusUnprocessableEntity, sheetErr.Code(), sheetErr.Error()
	case errors.As(err, &validErr):
		return http.StatusBadRequest, model.ErrCodeValidationFailed, validErr.Error()
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, model.ErrCodePayloadTooLarge, model.ErrPayloadTooLarge.Message
	case errors.Is(err, chart.ErrUnknownKind):
		return http.StatusNotFound, model.ErrCodeUnknownChart, model.ErrUnknownChart.Message
	case errors.Is(err, chart.ErrNoData):
		return http.StatusUnprocessableEntity, model.ErrCodeNoChartData, model.ErrNoChartData.Message
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, model.ErrCodeSheetNotFound, "Spreadsheet not found"
	case errors.As(err, &domainErr):
		return domainStatus(domainErr.Code), domainErr.Code, domainErr.Message
	default:
		return http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error"
	}
}

func domainStatus(code string) int {
	switch code {
	case model.ErrCodeDishFileRequired, model.ErrCodeInvalidFileType, model.ErrCodeInvalidJSON,
		model.ErrCodeMalformedUpload:
		return http.StatusBadRequest
	case model.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case model.ErrCodeIngredientNotFound, model.ErrCodeUnknownChart:
		return http.StatusNotFound
	case model.ErrCodeNoChartData:
		return http.StatusUnprocessableEntity
	case model.ErrCodeUnsupportedEncoding:
		return http.StatusUnsupportedMediaType
	case model.ErrCodeSourceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// readAnalysisRequest decodes a multipart upload or a JSON body naming
// source keys. Uploads are bounded by maxBytes.
func readAnalysisRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (*model.AnalysisRequest, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, model.ErrUnsupportedEncoding
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	switch mediaType {
	case "multipart/form-data":
		return readUpload(r, maxBytes)
	case "application/json":
		var req model.AnalysisRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, err
			}
			return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid JSON request body")
		}
		req.DishKey = strings.TrimSpace(req.DishKey)
		req.PriceKey = strings.TrimSpace(req.PriceKey)
		if len(req.DishKey) > 1024 || len(req.PriceKey) > 1024 {
			return nil, &model.ValidationError{Field: "dishKey", Message: "keys must be at most 1024 characters"}
		}
		return &req, nil
	default:
		return nil, model.ErrUnsupportedEncoding
	}
}

// readUpload reads the dish and price workbooks from a multipart form. The
// price workbook is optional. A body that is not multipart is rejected as an
// unsupported encoding and a broken multipart body as a malformed upload.
func readUpload(r *http.Request, maxBytes int64) (*model.AnalysisRequest, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, err
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, model.ErrUnsupportedEncoding
		default:
			return nil, model.ErrMalformedUpload
		}
	}
	defer r.MultipartForm.RemoveAll()

	req := &model.AnalysisRequest{}
	var err error
	if req.DishWorkbook, err = readFormFile(r, DishField); err != nil {
		return nil, err
	}
	if req.PriceWorkbook, err = readFormFile(r, PriceField); err != nil {
		return nil, err
	}
	return req, nil
}

// readFormFile returns the bytes of an uploaded .xlsx file, or nil when the
// field is absent or empty.
func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}
	if !isXLSX(header) {
		return nil, model.ErrInvalidFileType
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	return data, nil
}

func isXLSX(header *multipart.FileHeader) bool {
	return strings.EqualFold(filepath.Ext(header.Filename), ".xlsx")
}

// attachment writes a file download.
func attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
