// internal/services/storage_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/cardshop/internal/config"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileTypeInvalid = errors.New("file type not allowed")
)

// StorageService stores card images in S3, or on local disk when no AWS
// credentials are configured.
type StorageService struct {
	s3Client s3iface.S3API
	bucket   string
	baseURL  string
	localDir string
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
	IsPublic     bool
}

// CardImageOptions limits uploads to 10MB jpg, png, gif or webp files.
var CardImageOptions = UploadOptions{
	Folder:       "cards",
	MaxSize:      10 * 1024 * 1024,
	AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	IsPublic:     true,
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		return NewLocalStorage(cfg.AWS.LocalUploadDir, cfg.AWS.LocalUploadURL), nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	baseURL := cfg.AWS.CloudFrontURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.AWS.S3Bucket, cfg.AWS.Region)
	}
	return NewS3Storage(s3.New(sess), cfg.AWS.S3Bucket, baseURL), nil
}

func NewS3Storage(client s3iface.S3API, bucket, baseURL string) *StorageService {
	return &StorageService{
		s3Client: client,
		bucket:   bucket,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func NewLocalStorage(dir, baseURL string) *StorageService {
	return &StorageService{
		localDir: dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// IsLocal reports whether uploads land on local disk.
func (s *StorageService) IsLocal() bool { return s.s3Client == nil }

func (s *StorageService) UploadFile(file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	// Validate file size
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d bytes", ErrFileTooLarge, header.Size, options.MaxSize)
	}

	// Validate file type
	if len(options.AllowedTypes) > 0 {
		fileExt := strings.ToLower(filepath.Ext(header.Filename))
		allowed := false
		for _, allowedType := range options.AllowedTypes {
			if fileExt == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrFileTypeInvalid, fileExt)
		}
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !isValidImageType(fileBytes) {
		return nil, fmt.Errorf("%w: not an image", ErrFileTypeInvalid)
	}

	key := generateFileName(header.Filename, options.Folder, time.Now())
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(fileBytes)
	}

	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, key, contentType, options.IsPublic)
	}
	return s.uploadToLocal(fileBytes, key, contentType)
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string, isPublic bool) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	}

	if isPublic {
		params.ACL = aws.String("public-read")
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.baseURL + "/" + key,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	path := filepath.Join(s.localDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      s.baseURL + "/" + key,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(key string) error {
	if s.s3Client == nil {
		err := os.Remove(filepath.Join(s.localDir, filepath.FromSlash(key)))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		logrus.WithField("key", key).Debug("Deleted local upload")
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func generateFileName(originalName, folder string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := fmt.Sprintf("%s_%s%s", now.Format("20060102"), uuid.New().String()[:8], ext)

	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}

// isValidImageType checks the JPEG, PNG, GIF and WebP signatures.
func isValidImageType(buffer []byte) bool {
	switch {
	case len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF:
		return true
	case len(buffer) >= 8 && bytes.Equal(buffer[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return true
	case len(buffer) >= 6 && (string(buffer[:6]) == "GIF87a" || string(buffer[:6]) == "GIF89a"):
		return true
	case len(buffer) >= 12 && string(buffer[:4]) == "RIFF" && string(buffer[8:12]) == "WEBP":
		return true
	}
	return false
}
