package handler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/streamhub-server/internal/logger"
)

// tempFiles saves multipart files to a local directory for the duration of a request.
type tempFiles struct {
	dir    string
	paths  []string
	logger *logger.Logger
}

func newTempFiles(dir string, log *logger.Logger) *tempFiles {
	if dir == "" {
		dir = os.TempDir()
	}
	return &tempFiles{dir: dir, logger: log}
}

// save stores the form file field and returns its local path, or "" when the
// request is not multipart or the field is absent.
func (t *tempFiles) save(c *fiber.Ctx, field string) (string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return "", nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return "", nil
	}
	fh := files[0]

	path := filepath.Join(t.dir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	if err := c.SaveFile(fh, path); err != nil {
		return "", err
	}
	t.paths = append(t.paths, path)
	return path, nil
}

// cleanup removes every saved file.
func (t *tempFiles) cleanup() {
	for _, path := range t.paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.logger.Warn("HTTP handler: failed to remove temp file", "path", path, "error", err.Error())
		}
	}
	t.paths = nil
}
