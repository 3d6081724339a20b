package service

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/util"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveStore 导出文件归档
type ArchiveStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	URL(key string) string
}

// LocalArchive 本地目录，经 /exports 静态路由访问
type LocalArchive struct {
	Root string
}

func (p *LocalArchive) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", err
	}
	return p.URL(key), nil
}

func (p *LocalArchive) URL(key string) string {
	return "/exports/" + key
}

type MinioArchive struct {
	Bucket string
	Client *minio.Client
}

func NewMinioArchive(cfg *config.StorageConfig) (*MinioArchive, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioArchive{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioArchive) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	exists, err := p.Client.BucketExists(ctx, p.Bucket)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := p.Client.MakeBucket(ctx, p.Bucket, minio.MakeBucketOptions{}); err != nil {
			return "", err
		}
	}
	_, err = p.Client.PutObject(ctx, p.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.URL(key), nil
}

func (p *MinioArchive) URL(key string) string {
	return "/" + p.Bucket + "/" + key
}

type OSSArchive struct {
	Endpoint string
	Bucket   string
	Client   *oss.Client
}

func NewOSSArchive(cfg *config.StorageConfig) (*OSSArchive, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSArchive{Endpoint: cfg.OSSEndpoint, Bucket: cfg.OSSBucket, Client: client}, nil
}

func (p *OSSArchive) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	bucket, err := p.Client.Bucket(p.Bucket)
	if err != nil {
		return "", err
	}
	if err := bucket.PutObject(key, r, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return p.URL(key), nil
}

func (p *OSSArchive) URL(key string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(p.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", p.Bucket, host, key)
}

// NewArchiveStore 按 storage.type 选择归档后端
func NewArchiveStore(cfg *config.StorageConfig) (ArchiveStore, error) {
	switch cfg.Type {
	case util.StorageMinio:
		return NewMinioArchive(cfg)
	case util.StorageOSS:
		return NewOSSArchive(cfg)
	case util.StorageLocal, "":
		return &LocalArchive{Root: cfg.LocalPath}, nil
	}
	return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
}
