package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sahilchouksey/shikshachain/config"
)

// PDFContentType is the content type of every degree document
const PDFContentType = "application/pdf"

// DocumentStorage stores degree certificate documents and returns their public URL
type DocumentStorage interface {
	UploadDegreePDF(ctx context.Context, degreeRecordID string, data []byte) (string, error)
}

// SpacesConfig holds configuration for the Spaces client
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
}

// ConfigFromEnv reads the Spaces settings out of the environment config
func ConfigFromEnv(env *config.EnvironmentVariable) SpacesConfig {
	return SpacesConfig{
		AccessKey: env.SpacesKey,
		SecretKey: env.SpacesSecret,
		Bucket:    env.SpacesBucket,
		Region:    env.SpacesRegion,
		Endpoint:  env.SpacesEndpoint,
		CDNURL:    env.SpacesCDNURL,
	}
}

// SpacesClient uploads degree documents to DigitalOcean Spaces
type SpacesClient struct {
	s3Client s3iface.S3API
	bucket   string
	endpoint string
	cdnURL   string
}

// NewSpacesClient creates a new Spaces client
func NewSpacesClient(cfg SpacesConfig) (*SpacesClient, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, errors.New("DO_SPACES_BUCKET and DO_SPACES_REGION must be configured")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("DO_SPACES_KEY and DO_SPACES_SECRET must be configured")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("%s.digitaloceanspaces.com", cfg.Region)
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(endpointURL(cfg.Endpoint)),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return NewSpacesClientWithAPI(s3.New(sess), cfg), nil
}

// NewSpacesClientWithAPI wraps an existing S3 API, used by tests
func NewSpacesClientWithAPI(api s3iface.S3API, cfg SpacesConfig) *SpacesClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("%s.digitaloceanspaces.com", cfg.Region)
	}
	return &SpacesClient{
		s3Client: api,
		bucket:   cfg.Bucket,
		endpoint: strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://"),
		cdnURL:   strings.TrimSuffix(cfg.CDNURL, "/"),
	}
}

// UploadFile uploads a file to Spaces and returns its public URL
func (s *SpacesClient) UploadFile(ctx context.Context, key string, data io.ReadSeeker, contentType string) (string, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.FileURL(key), nil
}

// UploadDegreePDF stores the certificate under degrees/{id}.pdf
func (s *SpacesClient) UploadDegreePDF(ctx context.Context, degreeRecordID string, data []byte) (string, error) {
	return s.UploadFile(ctx, DegreeKey(degreeRecordID), bytes.NewReader(data), PDFContentType)
}

// FileURL returns the public URL for a key, preferring the CDN
func (s *SpacesClient) FileURL(key string) string {
	if s.cdnURL != "" {
		return fmt.Sprintf("%s/%s", s.cdnURL, key)
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key)
}

// DegreeKey is the object key of a degree certificate
func DegreeKey(degreeRecordID string) string {
	return fmt.Sprintf("degrees/%s.pdf", degreeRecordID)
}

func endpointURL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return "https://" + endpoint
}
