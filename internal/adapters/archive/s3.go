package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config locates the bucket. BaseEndpoint is set for S3-compatible servers such as MinIO.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

// S3API is the part of the S3 client the archive uses.
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Archive keeps backup documents as objects under prefix/scope/ in a bucket.
type S3Archive struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Client builds an S3 client from cfg. Static credentials are used when
// an access key is given; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	loadOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

// NewS3Archive stores documents in bucket under prefix.
func NewS3Archive(client S3API, bucket, prefix string) (*S3Archive, error) {
	if bucket == "" {
		return nil, errors.New("archive bucket cannot be empty")
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Archive{client: client, bucket: bucket, prefix: prefix}, nil
}

var _ portsrepo.BackupArchive = (*S3Archive)(nil)

func (a *S3Archive) Put(ctx context.Context, scope, name string, document []byte) error {
	key, err := a.key(scope, name)
	if err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(document),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return apperrors.Storage("archive "+name, err)
	}
	return nil
}

func (a *S3Archive) Get(ctx context.Context, scope, name string) ([]byte, error) {
	key, err := a.key(scope, name)
	if err != nil {
		return nil, err
	}
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("archive %s: %w", name, apperrors.ErrNotFound)
		}
		return nil, apperrors.Storage("read archive "+name, err)
	}
	defer out.Body.Close()

	document, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperrors.Storage("read archive "+name, err)
	}
	return document, nil
}

func (a *S3Archive) List(ctx context.Context, scope string) ([]portsrepo.ArchiveEntry, error) {
	if err := validSegment("archive scope", scope); err != nil {
		return nil, err
	}
	scopePrefix := a.prefix + scope + "/"
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(scopePrefix),
	})

	entries := []portsrepo.ArchiveEntry{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.Storage("list archive", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), scopePrefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			entries = append(entries, portsrepo.ArchiveEntry{
				Name:       name,
				Size:       aws.ToInt64(obj.Size),
				ModifiedAt: aws.ToTime(obj.LastModified).UTC(),
			})
		}
	}
	sortNewestFirst(entries)
	return entries, nil
}

func (a *S3Archive) key(scope, name string) (string, error) {
	if err := validSegment("archive scope", scope); err != nil {
		return "", err
	}
	if err := validSegment("archive name", name); err != nil {
		return "", err
	}
	return a.prefix + scope + "/" + name, nil
}
