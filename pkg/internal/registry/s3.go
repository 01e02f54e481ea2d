package registry

import (
	"bytes"
	"context"
	"fmt"

	minio "github.com/minio/minio-go/v7"

	"github.com/yeisme/mediavault/pkg/configs"
	s3c "github.com/yeisme/mediavault/pkg/internal/storage/s3"
)

// S3Backend 把预览资产上传到对象存储，句柄是有期限的预签名 URL.
// 对象键固定为 "previews/{id}"，重发布覆盖同一对象.
type S3Backend struct {
	client *s3c.Client
	cfg    configs.S3Config
}

// NewS3Backend 基于已连接的 S3 客户端创建后端.
func NewS3Backend(client *s3c.Client) *S3Backend {
	return &S3Backend{
		client: client,
		cfg:    client.GetConfig(),
	}
}

func (b *S3Backend) objectKey(id string) string {
	return "previews/" + id
}

// Publish 上传负载并返回预签名访问 URL.
func (b *S3Backend) Publish(ctx context.Context, id string, data []byte, contentType string) (string, error) {
	key := b.objectKey(id)

	_, err := b.client.PutObject(ctx, b.cfg.BucketName, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload preview %s: %w", id, err)
	}

	u, err := b.client.PresignedGetObject(ctx, b.cfg.BucketName, key, b.cfg.GetPreviewExpiry(), nil)
	if err != nil {
		return "", fmt.Errorf("presign preview %s: %w", id, err)
	}

	return u.String(), nil
}

// Revoke 删除预览对象；对象不存在时 MinIO 的删除是无害的.
func (b *S3Backend) Revoke(ctx context.Context, id string) error {
	err := b.client.RemoveObject(ctx, b.cfg.BucketName, b.objectKey(id), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove preview %s: %w", id, err)
	}

	return nil
}
