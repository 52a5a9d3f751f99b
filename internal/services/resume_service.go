package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/kabadi/intake-service/internal/dtos"
	"github.com/kabadi/intake-service/internal/metrics"
	"github.com/kabadi/intake-service/internal/utils"
)

const (
	MaxResumeBytes      = 5 * 1024 * 1024
	ResumeKeyPrefix     = "resumes"
	resumeUploadTimeout = 30 * time.Second
)

var allowedResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// CheckResume enforces the upload constraints before anything is stored.
func CheckResume(contentType string, size int64) error {
	if !allowedResumeTypes[normalizeContentType(contentType)] {
		return utils.ErrUnsupportedFileType
	}
	if size > MaxResumeBytes {
		return utils.ErrFileTooLarge
	}
	return nil
}

func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// ResumeKey is resumes/YYYY/MM/DD/<id><ext> with the UTC date and the
// original extension lower-cased.
func ResumeKey(at time.Time, id uuid.UUID, fileName string) string {
	at = at.UTC()
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", ResumeKeyPrefix, at.Year(), int(at.Month()), at.Day(), id, ext)
}

// StoredResume is the reference recorded on the application.
type StoredResume struct {
	StoragePath string
	URL         *string
}

// ResumeStore persists accepted resume files.
type ResumeStore interface {
	Upload(ctx context.Context, f *dtos.ResumeFile) (*StoredResume, error)
}

// ObjectPutter is the part of *s3.Client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

func (c S3Config) Configured() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

type S3ResumeStore struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
	now           func() time.Time
	newID         func() uuid.UUID
}

// NewS3ResumeStore builds an S3 client for cfg. A custom endpoint switches to
// path-style addressing for S3-compatible providers.
func NewS3ResumeStore(ctx context.Context, cfg S3Config) (*S3ResumeStore, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3ResumeStore(client, cfg.Bucket, cfg.PublicBaseURL), nil
}

func newS3ResumeStore(client ObjectPutter, bucket, publicBaseURL string) *S3ResumeStore {
	return &S3ResumeStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
		newID:         uuid.New,
	}
}

func (s *S3ResumeStore) Upload(ctx context.Context, f *dtos.ResumeFile) (*StoredResume, error) {
	key := ResumeKey(s.now(), s.newID(), f.FileName)

	ctx, cancel := context.WithTimeout(ctx, resumeUploadTimeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(f.Data),
		ContentType:   aws.String(normalizeContentType(f.ContentType)),
		ContentLength: aws.Int64(int64(len(f.Data))),
	})
	if err != nil {
		metrics.RecordResumeUpload("failed")
		return nil, fmt.Errorf("put resume %s: %w", key, err)
	}
	metrics.RecordResumeUpload("stored")

	stored := &StoredResume{StoragePath: s.bucket + "/" + key}
	if s.publicBaseURL != "" {
		stored.URL = utils.Ptr(s.publicBaseURL + "/" + key)
	}
	return stored, nil
}
