package repository

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/shouni/tryon-view-kit/internal/config"
	"github.com/shouni/tryon-view-kit/pkg/domain"
)

// ViewStore は生成済みの画像を保存し、保存先のキーを返します。
type ViewStore interface {
	SaveView(ctx context.Context, key string, asset domain.ImageAsset) (string, error)
}

// S3API はリポジトリが利用する S3 クライアントの操作です。
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

type S3Repository struct {
	client S3API
	bucket string
	region string
	log    *zap.Logger
}

// NewS3Repository は設定から S3 互換ストレージ（MinIO 含む）のクライアントを作成します。
func NewS3Repository(ctx context.Context, cfg *config.S3Config, log *zap.Logger) (*S3Repository, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	repo := NewS3RepositoryWithClient(client, cfg.BucketName, cfg.Region, log)
	if err := repo.EnsureBucket(ctx); err != nil {
		repo.log.Warn("Failed to ensure bucket exists", zap.String("bucket", cfg.BucketName), zap.Error(err))
	}
	return repo, nil
}

// NewS3RepositoryWithClient は既存のクライアントを使ってリポジトリを作成します。
func NewS3RepositoryWithClient(client S3API, bucket, region string, log *zap.Logger) *S3Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &S3Repository{
		client: client,
		bucket: bucket,
		region: region,
		log:    log.With(zap.String("component", "s3_repository")),
	}
}

// EnsureBucket はバケットが無ければ作成します。
func (r *S3Repository) EnsureBucket(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err == nil {
		r.log.Info("Bucket already exists", zap.String("bucket", r.bucket))
		return nil
	}

	r.log.Info("Creating bucket", zap.String("bucket", r.bucket))

	input := &s3.CreateBucketInput{Bucket: aws.String(r.bucket)}
	// us-east-1 では LocationConstraint を指定するとエラーになる
	if r.region != "" && r.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(r.region),
		}
	}
	if _, err := r.client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
	}

	r.log.Info("Bucket created successfully", zap.String("bucket", r.bucket))
	return nil
}

// SaveView は画像を key に保存し、保存した key を返します。
func (r *S3Repository) SaveView(ctx context.Context, key string, asset domain.ImageAsset) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(asset.Data()),
		ContentType:   aws.String(asset.MIMEType()),
		ContentLength: aws.Int64(int64(asset.Size())),
	})
	if err != nil {
		r.log.Error("Failed to upload view to S3",
			zap.String("key", key),
			zap.Error(err))
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	r.log.Info("View uploaded to S3",
		zap.String("key", key),
		zap.Int("size", asset.Size()))
	return key, nil
}
