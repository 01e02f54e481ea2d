package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// S3Config MinIO S3存储配置，作为预览句柄（presigned URL）后端.
type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
	// PreviewExpiry 预签名预览 URL 的有效期（秒）
	PreviewExpiry int `mapstructure:"preview_expiry" rule:"min=1"`
}

const (
	DefaultS3Enabled         = false               // 默认禁用（内存后端即可运行）
	DefaultS3Endpoint        = "localhost:9000"    // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"        // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"        // 默认秘密访问密钥
	DefaultS3UseSSL          = false               // 默认是否使用SSL
	DefaultS3BucketName      = "mediavault-assets" // 默认存储桶名称
	DefaultS3Region          = "us-east-1"         // 默认区域
	DefaultS3PreviewExpiry   = 3600                // 默认预览 URL 有效期（秒）
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// GetPreviewExpiry 返回预览 URL 有效期作为 time.Duration.
func (c *S3Config) GetPreviewExpiry() time.Duration {
	return time.Duration(c.PreviewExpiry) * time.Second
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.enabled", DefaultS3Enabled)
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.preview_expiry", DefaultS3PreviewExpiry)
}
