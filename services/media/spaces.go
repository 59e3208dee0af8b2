package media

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sahilchouksey/studynotion-api/config"
)

// ErrStorageNotConfigured is returned when object storage credentials are missing
var ErrStorageNotConfigured = errors.New("object storage not configured")

// UploadResult describes a stored media object
type UploadResult struct {
	URL      string
	Key      string
	Duration float64 // seconds; zero when the backend cannot measure it
}

// Uploader stores an uploaded file under folder
type Uploader interface {
	Upload(ctx context.Context, folder string, file *multipart.FileHeader) (*UploadResult, error)
}

// SpacesConfig holds configuration for the Spaces uploader
type SpacesConfig struct {
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	Endpoint       string
	CDNURL         string
	ForcePathStyle bool
}

// SpacesUploader uploads media to DigitalOcean Spaces through the S3 API
type SpacesUploader struct {
	s3Client *s3.S3
	bucket   string
	endpoint string
	cdnURL   string
}

// NewSpacesUploader creates a new Spaces uploader
func NewSpacesUploader(cfg SpacesConfig) (*SpacesUploader, error) {
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrStorageNotConfigured
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("%s.digitaloceanspaces.com", cfg.Region)
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &SpacesUploader{
		s3Client: s3.New(sess),
		bucket:   cfg.Bucket,
		endpoint: strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://"),
		cdnURL:   strings.TrimSuffix(cfg.CDNURL, "/"),
	}, nil
}

// NewUploaderFromConfig builds the Spaces uploader from environment
// configuration. When storage is not configured it returns an uploader that
// rejects every upload.
func NewUploaderFromConfig(cfg *config.EnviornmentVariable) Uploader {
	uploader, err := NewSpacesUploader(SpacesConfig{
		AccessKey: cfg.SPACES_ACCESS_KEY,
		SecretKey: cfg.SPACES_SECRET_KEY,
		Bucket:    cfg.SPACES_BUCKET,
		Region:    cfg.SPACES_REGION,
		Endpoint:  cfg.SPACES_ENDPOINT,
		CDNURL:    cfg.SPACES_CDN_URL,
	})
	if err != nil {
		log.Printf("⚠️  Media uploads disabled: %v", err)
		return disabledUploader{err: err}
	}
	return uploader
}

// Upload stores the file under folder with a public-read ACL
func (s *SpacesUploader) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (*UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	key := GenerateKey(folder, file.Filename)

	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = GetContentType(file.Filename)
	}

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        src,
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &UploadResult{
		URL: s.fileURL(key),
		Key: key,
	}, nil
}

func (s *SpacesUploader) fileURL(key string) string {
	if s.cdnURL != "" {
		return fmt.Sprintf("%s/%s", s.cdnURL, key)
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key)
}

type disabledUploader struct {
	err error
}

func (d disabledUploader) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (*UploadResult, error) {
	return nil, d.err
}

// GenerateKey generates a unique key for file storage
func GenerateKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	folder = strings.Trim(folder, "/")
	return fmt.Sprintf("%s/%d_%s%s", folder, time.Now().Unix(), uuid.New().String(), ext)
}

// GetContentType returns the content type for a filename
func GetContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	default:
		return "application/octet-stream"
	}
}
