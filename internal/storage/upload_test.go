package storage

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/streamhub-server/internal/testutil"
)

type putCall struct {
	key         string
	size        int64
	contentType string
	body        []byte
}

// recordingBackend keeps every Put and optionally fails.
type recordingBackend struct {
	mu    sync.Mutex
	err   error
	calls []putCall
}

func (b *recordingBackend) Put(_ context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		b.calls = append(b.calls, putCall{key: key})
		return "", b.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	b.calls = append(b.calls, putCall{key: key, size: size, contentType: contentType, body: body})
	return "http://cdn.local/media/" + key, nil
}

func writeImage(t *testing.T, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestUploader_Upload_ResizesLargeImage(t *testing.T) {
	backend := &recordingBackend{}
	u := NewUploader(backend, Params{MaxImageDimension: 256}, testutil.MakeNoopLogger())

	path := writeImage(t, "avatar.PNG", 1024, 512)

	res, err := u.Upload(context.Background(), path)
	require.NoError(t, err)
	require.True(t, res.Usable())
	require.Len(t, backend.calls, 1)

	call := backend.calls[0]
	assert.True(t, strings.HasSuffix(call.key, ".png"))
	assert.Equal(t, "http://cdn.local/media/"+call.key, res.URL)
	assert.Equal(t, "image/png", call.contentType)
	assert.Equal(t, int64(len(call.body)), call.size)

	img, err := imaging.Decode(bytes.NewReader(call.body))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())
}

func TestUploader_Upload_KeepsSmallImage(t *testing.T) {
	backend := &recordingBackend{}
	u := NewUploader(backend, Params{MaxImageDimension: 1024}, testutil.MakeNoopLogger())

	path := writeImage(t, "pic.jpg", 64, 32)

	_, err := u.Upload(context.Background(), path)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(backend.calls[0].body))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, "image/jpeg", backend.calls[0].contentType)
}

func TestUploader_Upload_NonImagePassesThrough(t *testing.T) {
	backend := &recordingBackend{}
	u := NewUploader(backend, Params{MaxImageDimension: 16}, testutil.MakeNoopLogger())

	path := filepath.Join(t.TempDir(), "notes.bin")
	require.NoError(t, os.WriteFile(path, []byte("raw bytes"), 0o600))

	_, err := u.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw bytes"), backend.calls[0].body)
	assert.Equal(t, int64(9), backend.calls[0].size)
	assert.Equal(t, "application/octet-stream", backend.calls[0].contentType)
}

func TestUploader_Upload_KeysAreUnique(t *testing.T) {
	backend := &recordingBackend{}
	u := NewUploader(backend, Params{}, testutil.MakeNoopLogger())

	path := writeImage(t, "a.png", 4, 4)

	_, err := u.Upload(context.Background(), path)
	require.NoError(t, err)
	_, err = u.Upload(context.Background(), path)
	require.NoError(t, err)

	assert.NotEqual(t, backend.calls[0].key, backend.calls[1].key)
}

func TestUploader_Upload_Errors(t *testing.T) {
	u := NewUploader(&recordingBackend{}, Params{}, testutil.MakeNoopLogger())

	_, err := u.Upload(context.Background(), "")
	require.ErrorIs(t, err, ErrNoFile)

	_, err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)

	corrupt := filepath.Join(t.TempDir(), "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o600))
	_, err = u.Upload(context.Background(), corrupt)
	assert.Error(t, err)
}

func TestUploader_Upload_BreakerOpensAfterFailures(t *testing.T) {
	backend := &recordingBackend{err: errors.New("backend down")}
	u := NewUploader(backend, Params{BreakerFailures: 2, BreakerTimeout: time.Minute}, testutil.MakeNoopLogger())

	path := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	for i := 0; i < 2; i++ {
		_, err := u.Upload(context.Background(), path)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	_, err := u.Upload(context.Background(), path)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Len(t, backend.calls, 2)
}
