package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	err   error
	input *s3.PutObjectInput
	body  string
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.input = input
	f.body = string(b)
	return &manager.UploadOutput{Key: input.Key}, nil
}

func TestClient_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		up := &fakeUploader{}
		c := NewClientWithUploader(up, "media", "https://s3.eu-central-1.amazonaws.com/")

		url, err := c.Put(ctx, "abc.jpg", strings.NewReader("jpeg"), 4, "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "https://s3.eu-central-1.amazonaws.com/media/abc.jpg", url)
		assert.Equal(t, "media", aws.ToString(up.input.Bucket))
		assert.Equal(t, "abc.jpg", aws.ToString(up.input.Key))
		assert.Equal(t, "image/jpeg", aws.ToString(up.input.ContentType))
		assert.Equal(t, "jpeg", up.body)
	})

	t.Run("no content type", func(t *testing.T) {
		up := &fakeUploader{}
		c := NewClientWithUploader(up, "media", "http://localhost:4566")

		_, err := c.Put(ctx, "file.bin", strings.NewReader("x"), 1, "")
		require.NoError(t, err)
		assert.Nil(t, up.input.ContentType)
	})

	t.Run("error", func(t *testing.T) {
		up := &fakeUploader{err: errors.New("denied")}
		c := NewClientWithUploader(up, "media", "http://localhost:4566")

		url, err := c.Put(ctx, "k", strings.NewReader("x"), 1, "")
		assert.Empty(t, url)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}
