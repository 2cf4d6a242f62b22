package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	putKey string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.putKey = *in.Key
	return &s3.PutObjectOutput{}, nil
}

func TestUploadReturnsPublicURL(t *testing.T) {
	client := &fakeS3{}
	u := NewS3Uploader(client, "clinic-media", "https://cdn.example.com", nil)

	url, err := u.Upload(context.Background(), "profiles/abc.png", "image/png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://cdn.example.com/profiles/abc.png" {
		t.Errorf("url = %q", url)
	}
	if client.putKey != "profiles/abc.png" {
		t.Errorf("put key = %q", client.putKey)
	}
}

func TestUploadDefaultURL(t *testing.T) {
	u := NewS3Uploader(&fakeS3{}, "clinic-media", "", nil)
	url, err := u.Upload(context.Background(), "k.png", "image/png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://clinic-media.s3.amazonaws.com/k.png" {
		t.Errorf("url = %q", url)
	}
}

func TestUploadFailure(t *testing.T) {
	u := NewS3Uploader(&fakeS3{err: io.ErrUnexpectedEOF}, "clinic-media", "", nil)
	if _, err := u.Upload(context.Background(), "k.png", "image/png", strings.NewReader("img")); !errors.Is(err, ErrUploadFailed) {
		t.Errorf("got %v, want ErrUploadFailed", err)
	}
}

func TestUploadUnconfigured(t *testing.T) {
	u := NewS3Uploader(nil, "", "", nil)
	if _, err := u.Upload(context.Background(), "k.png", "image/png", strings.NewReader("img")); !errors.Is(err, ErrUploadFailed) {
		t.Errorf("got %v, want ErrUploadFailed", err)
	}
}
