// Package sheet loads dish templates and ingredient price lists from xlsx
// workbooks held on local disk or in S3.
package sheet

import (
	"context"
	"io"
)

// Source opens spreadsheet files by key.
type Source interface {
	// Open returns a reader for the workbook stored under key.
	// Callers must close the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
