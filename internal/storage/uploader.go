package storage

import (
	"bytes"
	"context"
	"fmt"

	storage_go "github.com/supabase-community/storage-go"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

type implUploader struct {
	client *storage_go.Client
	bucket string
}

// NewUploader creates an object storage Uploader backed by a Supabase
// storage bucket.
func NewUploader(url, serviceKey, bucket string) Uploader {
	return &implUploader{
		client: storage_go.NewClient(url, serviceKey, nil),
		bucket: bucket,
	}
}

// Upload stores data under path and returns its public URL.
func (u *implUploader) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", &podcast.StorageError{Path: path, Err: fmt.Errorf("no data to upload")}
	}

	upsert := true
	_, err := u.client.UploadFile(u.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", &podcast.StorageError{Path: path, Err: err}
	}

	public := u.client.GetPublicUrl(u.bucket, path)
	if public.SignedURL == "" {
		return "", &podcast.StorageError{Path: path, Err: fmt.Errorf("no public URL returned")}
	}
	return public.SignedURL, nil
}
