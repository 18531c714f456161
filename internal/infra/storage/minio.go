package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioMirror uploads a copy of staged artifacts to a bucket. The local
// file stays in place; the downloads endpoint keeps serving from disk.
type MinioMirror struct {
	client     *minio.Client
	bucketName string
	region     string
}

func NewMinioMirror(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*MinioMirror, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &MinioMirror{client: cli, bucketName: bucket, region: region}, nil
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".txt":  "text/plain",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
}

// MirrorArtifact implements process.Mirror.
func (m *MinioMirror) MirrorArtifact(ctx context.Context, localPath, key string) (string, error) {
	contentType := contentTypes[filepath.Ext(localPath)]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := m.client.FPutObject(ctx, m.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://%s/%s/%s", m.client.EndpointURL().Host, m.bucketName, key)
	return url, nil
}
