package sheet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileSource implements Source for workbooks on the local file system.
type fileSource struct {
	baseDir string
	logger  zerolog.Logger
}

// NewFileSource creates a source that resolves keys below baseDir.
// Keys cannot escape baseDir.
func NewFileSource(baseDir string, logger zerolog.Logger) Source {
	return &fileSource{
		baseDir: baseDir,
		logger:  logger.With().Str("component", "file-source").Logger(),
	}
}

// Open opens the workbook at baseDir/key.
func (s *fileSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.resolve(key)
	s.logger.Debug().Str("file", path).Msg("opening spreadsheet")

	file, err := os.Open(path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to open spreadsheet")
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", key, err)
	}

	return file, nil
}

// resolve joins key onto baseDir after rooting it, so ".." cannot climb out.
func (s *fileSource) resolve(key string) string {
	cleaned := filepath.Clean(string(filepath.Separator) + key)
	if s.baseDir == "" {
		return cleaned[1:]
	}
	return filepath.Join(s.baseDir, cleaned)
}
