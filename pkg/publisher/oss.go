package publisher

import (
	"context"
	"fmt"
	"path"

	"trilion/config"
	"trilion/log"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"go.uber.org/zap"
)

// OSS uploads clips to an Alibaba Cloud bucket and returns object URLs.
// Selected with publish.provider = "oss".
type OSS struct {
	client *oss.Client
	bucket string
	region string
	prefix string
}

func NewOSS(cfg config.OssConfig) *OSS {
	ossCfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyId, cfg.AccessKeySecret)).
		WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		ossCfg = ossCfg.WithEndpoint(cfg.Endpoint)
	}

	return &OSS{
		client: oss.NewClient(ossCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: cfg.Prefix,
	}
}

func (o *OSS) Publish(ctx context.Context, localPath, filename string) (*URLs, error) {
	key := path.Join(o.prefix, filename)
	_, err := o.client.PutObjectFromFile(ctx, &oss.PutObjectRequest{
		Bucket: oss.Ptr(o.bucket),
		Key:    oss.Ptr(key),
	}, localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to upload clip to oss: %w", err)
	}
	log.GetLogger().Info("clip uploaded to oss", zap.String("bucket", o.bucket), zap.String("key", key))

	objectUrl := fmt.Sprintf("https://%s.oss-%s.aliyuncs.com/%s", o.bucket, o.region, key)
	return &URLs{URL: objectUrl, DownloadURL: objectUrl}, nil
}
