package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"law_office_app_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentKeyPrefix is the folder every uploaded document lives under
const DocumentKeyPrefix = "documents"

// StorageProvider defines the interface for file storage operations.
// Delete and Get return an error wrapping ErrFileNotFound when the object is gone.
type StorageProvider interface {
	Upload(ctx context.Context, file *multipart.FileHeader, key string) (*StorageResult, error)
	UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error)
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error) // Returns reader, content-type, error
	Name() string
}

// StorageResult contains information about the stored file
type StorageResult struct {
	Key      string
	FileSize int64
	MimeType string
}

// Storage is the global storage instance
var Storage StorageProvider

// InitializeStorage picks S3 when fully configured and reachable, local disk otherwise
func InitializeStorage(cfg *config.Config) {
	if !cfg.S3Configured() {
		Storage = NewLocalStorage(cfg.UploadDir)
		zap.L().Info("Storage connection established", zap.String("provider", "local"), zap.String("path", cfg.UploadDir))
		return
	}

	remote, err := NewS3Storage(cfg)
	if err != nil {
		zap.L().Warn("Failed to initialize S3 storage, falling back to local storage", zap.Error(err))
		Storage = NewLocalStorage(cfg.UploadDir)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := remote.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.S3Bucket)}); err != nil {
		zap.L().Warn("S3 bucket connection test failed, falling back to local storage", zap.Error(err))
		Storage = NewLocalStorage(cfg.UploadDir)
		return
	}

	Storage = remote
	zap.L().Info("Storage connection established", zap.String("provider", "s3"), zap.String("bucket", cfg.S3Bucket))
}

// S3Storage implements StorageProvider for any S3-compatible object store
type S3Storage struct {
	client *s3.Client
	bucket string
}

// NewS3Storage creates an S3 client from static credentials and an optional custom endpoint
func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(cfg.S3Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{client: client, bucket: cfg.S3Bucket}, nil
}

func (s *S3Storage) Name() string {
	return "s3"
}

// Upload uploads a multipart file to the bucket
func (s *S3Storage) Upload(ctx context.Context, file *multipart.FileHeader, key string) (*StorageResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	return s.UploadReader(ctx, src, key, contentTypeOf(file), file.Size)
}

// UploadReader uploads content from a reader to the bucket
func (s *S3Storage) UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &StorageResult{Key: key, FileSize: size, MimeType: contentType}, nil
}

// Delete removes an object. S3 deletes are idempotent, so a HeadObject first
// tells a missing object apart from a successful delete.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return fmt.Errorf("%s: %w", key, ErrFileNotFound)
		}
		return fmt.Errorf("failed to stat object: %w", err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// Get retrieves an object and returns a reader
func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, "", fmt.Errorf("%s: %w", key, ErrFileNotFound)
		}
		return nil, "", fmt.Errorf("failed to get object from S3: %w", err)
	}

	contentType := "application/octet-stream"
	if result.ContentType != nil {
		contentType = *result.ContentType
	}
	return result.Body, contentType, nil
}

// LocalStorage implements StorageProvider for local filesystem
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a new local storage provider
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

func (l *LocalStorage) Name() string {
	return "local"
}

// Upload saves a multipart file to local filesystem
func (l *LocalStorage) Upload(ctx context.Context, file *multipart.FileHeader, key string) (*StorageResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	return l.UploadReader(ctx, src, key, contentTypeOf(file), file.Size)
}

// UploadReader saves content from a reader to local filesystem
func (l *LocalStorage) UploadReader(_ context.Context, reader io.Reader, key string, contentType string, _ int64) (*StorageResult, error) {
	fullPath, err := l.resolve(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, reader)
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StorageResult{Key: key, FileSize: written, MimeType: contentType}, nil
}

// Delete removes a file from local filesystem
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	fullPath, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", key, ErrFileNotFound)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Get opens a file from local filesystem
func (l *LocalStorage) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	fullPath, err := l.resolve(key)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%s: %w", key, ErrFileNotFound)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return file, MimeTypeForExtension(filepath.Ext(key)), nil
}

// resolve maps a key under baseDir, refusing keys that climb out of it
func (l *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(key))
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.baseDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func contentTypeOf(file *multipart.FileHeader) string {
	if contentType := file.Header.Get("Content-Type"); contentType != "" {
		return contentType
	}
	return MimeTypeForExtension(filepath.Ext(file.Filename))
}

// GenerateStorageKey creates a unique storage key: <prefix>/<uuid>_<unix><ext>
func GenerateStorageKey(prefix string, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	filename := fmt.Sprintf("%s_%d%s", uuid.New().String(), time.Now().Unix(), ext)
	return path.Join(prefix, filename)
}

// GenerateDocumentKey creates a storage key for an uploaded document
func GenerateDocumentKey(originalFilename string) string {
	return GenerateStorageKey(DocumentKeyPrefix, originalFilename)
}
