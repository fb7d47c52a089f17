// This file implements AttachmentService: evidence files uploaded in support
// of credential requests. Payloads go straight to object storage through
// presigned URLs; only metadata rows touch the database.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/server/config"
	"github.com/everscaleid/backend/internal/server/models"
	"github.com/everscaleid/backend/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Seams for tests; production code never reassigns these.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignValidity = 15 * time.Minute

type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: m,
		config:      cfg,
	}
}

// NewStorageKey produces a date-partitioned unique object key for an
// account's evidence file.
func NewStorageKey(accountID string) string {
	d := time.Now()
	return fmt.Sprintf("accounts/%s/%d/%d/%d/%v", accountID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// BeginUpload registers a new evidence attachment for the caller and returns
// the stored row plus a presigned PUT URL for the payload.
func (s *AttachmentService) BeginUpload(ctx context.Context, session *models.Session,
	t models.TemplateType, fileName string) (*models.Attachment, string, error) {
	if session == nil {
		return nil, "", common.ErrForbidden
	}
	if !models.ValidTemplateType(t) {
		return nil, "", common.ErrInvalidArgument
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, "", err
	}

	bucket := s.config.S3Bucket
	key := NewStorageKey(session.AccountID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return nil, "", err
	}

	att := &models.Attachment{
		OwnerID:      session.AccountID,
		TemplateType: t,
		StorageKey:   key,
		FileName:     fileName,
	}
	att, err = s.repomanager.Attachments(s.db).Create(ctx, att)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	return att, req.URL, nil
}

// DownloadURL returns a presigned GET URL for one of the caller's
// attachments.
func (s *AttachmentService) DownloadURL(ctx context.Context, session *models.Session, id string) (string, error) {
	if session == nil {
		return "", common.ErrForbidden
	}

	att, err := s.repomanager.Attachments(s.db).GetByID(ctx, session.AccountID, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		return "", common.ErrInternal
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &att.StorageKey,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// List returns the caller's attachments.
func (s *AttachmentService) List(ctx context.Context, session *models.Session) ([]*models.Attachment, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}
	list, err := s.repomanager.Attachments(s.db).ListByOwner(ctx, session.AccountID)
	if err != nil {
		return nil, common.ErrInternal
	}
	return list, nil
}

// Delete removes one of the caller's attachments and reports whether a row
// went away. The stored object is left for out-of-band cleanup.
func (s *AttachmentService) Delete(ctx context.Context, session *models.Session, id string) (bool, error) {
	if session == nil {
		return false, common.ErrForbidden
	}
	count, err := s.repomanager.Attachments(s.db).DeleteByID(ctx, session.AccountID, id)
	if err != nil {
		return false, common.ErrInternal
	}
	return count > 0, nil
}
