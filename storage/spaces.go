package storage

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/coursekart/api/config"
)

// SpacesClient serves presigned URLs for course thumbnails stored in an
// S3-compatible Spaces bucket. A nil client is valid and means thumbnails are
// passed through verbatim (they are then expected to be public URLs).
type SpacesClient struct {
	s3Client *s3.S3
	bucket   string
}

// SpacesConfig holds configuration for the Spaces client
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

// NewSpacesClient creates a new Spaces client
func NewSpacesClient(cfg SpacesConfig) (*SpacesClient, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &SpacesClient{
		s3Client: s3.New(sess),
		bucket:   cfg.Bucket,
	}, nil
}

// FromEnv builds a client from configuration, or nil when Spaces is not
// configured.
func FromEnv(cfg *config.Config) *SpacesClient {
	if cfg.SPACES_ACCESS_KEY == "" || cfg.SPACES_SECRET_KEY == "" || cfg.SPACES_BUCKET == "" {
		log.Println("Spaces not configured, thumbnails served verbatim")
		return nil
	}

	client, err := NewSpacesClient(SpacesConfig{
		AccessKey: cfg.SPACES_ACCESS_KEY,
		SecretKey: cfg.SPACES_SECRET_KEY,
		Bucket:    cfg.SPACES_BUCKET,
		Region:    cfg.SPACES_REGION,
		Endpoint:  cfg.SPACES_ENDPOINT,
	})
	if err != nil {
		log.Println("Warning: failed to initialize Spaces client:", err)
		return nil
	}
	return client
}

// ResolveThumbnailURL turns a stored thumbnail reference into something the
// frontend can render. Absolute URLs pass through; bare object keys get a
// presigned GET URL. Presign failures fall back to the stored value rather
// than breaking checkout.
func (s *SpacesClient) ResolveThumbnailURL(thumbnail string) string {
	if thumbnail == "" {
		return thumbnail
	}
	if strings.HasPrefix(thumbnail, "http://") || strings.HasPrefix(thumbnail, "https://") {
		return thumbnail
	}
	if s == nil {
		return thumbnail
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(thumbnail),
	})

	url, err := req.Presign(15 * time.Minute)
	if err != nil {
		log.Println("Warning: failed to presign thumbnail URL:", err)
		return thumbnail
	}
	return url
}
