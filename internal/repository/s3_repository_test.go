package repository

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/tryon-view-kit/pkg/domain"
)

type mockS3 struct {
	headErr   error
	putErr    error
	created   *s3.CreateBucketInput
	putInputs []*s3.PutObjectInput
	putBodies [][]byte
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	body, _ := io.ReadAll(params.Body)
	m.putInputs = append(m.putInputs, params)
	m.putBodies = append(m.putBodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if m.headErr != nil {
		return nil, m.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (m *mockS3) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	m.created = params
	return &s3.CreateBucketOutput{}, nil
}

func TestS3Repository_SaveView(t *testing.T) {
	ctx := context.Background()
	asset := domain.NewImageAsset([]byte("png-bytes"), "image/png", "style-fusion-front.png")

	t.Run("Success/バケット・キー・Content-Typeを指定して保存する", func(t *testing.T) {
		client := &mockS3{}
		repo := NewS3RepositoryWithClient(client, "views", "us-east-1", nil)

		key, err := repo.SaveView(ctx, "tryon/abc/style-fusion-front.png", asset)
		require.NoError(t, err)
		assert.Equal(t, "tryon/abc/style-fusion-front.png", key)

		require.Len(t, client.putInputs, 1)
		in := client.putInputs[0]
		assert.Equal(t, "views", *in.Bucket)
		assert.Equal(t, "image/png", *in.ContentType)
		assert.Equal(t, int64(9), *in.ContentLength)
		assert.Equal(t, []byte("png-bytes"), client.putBodies[0])
	})

	t.Run("Failure/アップロード失敗はキーを含むエラー", func(t *testing.T) {
		client := &mockS3{putErr: errors.New("access denied")}
		repo := NewS3RepositoryWithClient(client, "views", "us-east-1", nil)

		_, err := repo.SaveView(ctx, "tryon/abc/front.png", asset)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tryon/abc/front.png")
	})
}

func TestS3Repository_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("既存バケットは作成しない", func(t *testing.T) {
		client := &mockS3{}
		require.NoError(t, NewS3RepositoryWithClient(client, "views", "eu-west-1", nil).EnsureBucket(ctx))
		assert.Nil(t, client.created)
	})

	t.Run("us-east-1 では LocationConstraint を付けない", func(t *testing.T) {
		client := &mockS3{headErr: errors.New("not found")}
		require.NoError(t, NewS3RepositoryWithClient(client, "views", "us-east-1", nil).EnsureBucket(ctx))
		require.NotNil(t, client.created)
		assert.Nil(t, client.created.CreateBucketConfiguration)
	})

	t.Run("他のリージョンでは LocationConstraint を付ける", func(t *testing.T) {
		client := &mockS3{headErr: errors.New("not found")}
		require.NoError(t, NewS3RepositoryWithClient(client, "views", "eu-west-1", nil).EnsureBucket(ctx))
		require.NotNil(t, client.created.CreateBucketConfiguration)
		assert.Equal(t, "eu-west-1", string(client.created.CreateBucketConfiguration.LocationConstraint))
	})
}
