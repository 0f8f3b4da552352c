// Package storage uploads local files to object storage, normalizing images
// on the way.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
)

var (
	// ErrNoFile is returned when Upload is called without a path.
	ErrNoFile = errors.New("no file to upload")
	// ErrUnavailable is returned while the breaker rejects calls to the backend.
	ErrUnavailable = errors.New("object storage unavailable")
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

var _ model.Uploader = (*Uploader)(nil)

// Uploader pushes local files to an ObjectBackend through a circuit breaker.
type Uploader struct {
	backend model.ObjectBackend
	breaker *gobreaker.CircuitBreaker
	maxDim  int
	logger  *logger.Logger
}

// Params configures image normalization and the breaker.
type Params struct {
	MaxImageDimension int
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
}

func NewUploader(backend model.ObjectBackend, p Params, log *logger.Logger) *Uploader {
	failures := p.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "object-storage",
		MaxRequests: 1,
		Timeout:     p.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Uploader: circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Uploader{
		backend: backend,
		breaker: breaker,
		maxDim:  p.MaxImageDimension,
		logger:  log,
	}
}

// Upload stores the file at localPath under a fresh key and returns its URL.
// Images are auto-oriented and fit into the configured bounding box first.
func (u *Uploader) Upload(ctx context.Context, localPath string) (model.UploadResult, error) {
	if localPath == "" {
		return model.UploadResult{}, ErrNoFile
	}

	ext := strings.ToLower(filepath.Ext(localPath))

	body, size, err := u.open(localPath, ext)
	if err != nil {
		return model.UploadResult{}, err
	}
	defer body.Close()

	key := uuid.NewString() + ext

	out, err := u.breaker.Execute(func() (interface{}, error) {
		return u.backend.Put(ctx, key, body, size, contentType(ext))
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return model.UploadResult{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err != nil {
		u.logger.Error("Uploader: failed to put object", "key", key, "error", err.Error())
		return model.UploadResult{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	u.logger.Debug("Uploader: object stored", "key", key, "size", size)

	return model.UploadResult{URL: out.(string)}, nil
}

// open returns the bytes to upload: a normalized re-encoding for images, the
// raw file otherwise.
func (u *Uploader) open(localPath, ext string) (io.ReadCloser, int64, error) {
	if imageExtensions[ext] {
		data, err := u.normalizeImage(localPath)
		if err != nil {
			return nil, 0, err
		}
		return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return f, info.Size(), nil
}

func (u *Uploader) normalizeImage(localPath string) ([]byte, error) {
	format, err := imaging.FormatFromFilename(localPath)
	if err != nil {
		return nil, fmt.Errorf("unsupported image format: %w", err)
	}

	img, err := imaging.Open(localPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if u.maxDim > 0 && (b.Dx() > u.maxDim || b.Dy() > u.maxDim) {
		img = imaging.Fit(img, u.maxDim, u.maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func contentType(ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
