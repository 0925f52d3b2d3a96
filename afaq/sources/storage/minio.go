package storage

import (
	"bytes"
	"context"
	"crypto/md5" // For simple URL hashing
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"afaq/afaq/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOClient struct {
	client *minio.Client
	bucket string
}

type ScrapeObject struct {
	URL       string    `json:"url"`
	Text      string    `json:"extracted_text"`
	Metadata  string    `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
}

// ScrapeKey is the object key under which the scrape of url is stored.
func ScrapeKey(url string) string {
	return path.Join("scrapes", fmt.Sprintf("%x.json", md5.Sum([]byte(url))))
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOSecure,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
		}
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

func (m *MinIOClient) UploadScrape(ctx context.Context, url, text, metadata string) (string, error) {
	key := ScrapeKey(url)
	data, err := json.Marshal(ScrapeObject{
		URL:       url,
		Text:      text,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", err
	}
	return key, nil
}

// GetScrape loads the stored scrape of url. A missing object is returned as an error.
func (m *MinIOClient) GetScrape(ctx context.Context, url string) (*ScrapeObject, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, ScrapeKey(url), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	var so ScrapeObject
	if err := json.Unmarshal(data, &so); err != nil {
		return nil, fmt.Errorf("decoding scrape object: %w", err)
	}
	return &so, nil
}
