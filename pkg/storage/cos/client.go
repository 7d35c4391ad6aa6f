package cos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/tencentyun/cos-go-sdk-v5"

	"github.com/shamsoul-ali/THE-VAULT/pkg/config"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage"
)

// Client is a Tencent COS backed object store. The SDK binds one client to
// one bucket, so clients are created per bucket on first use.
type Client struct {
	cfg           config.COSConfig
	defaultBucket string
	publicBase    string
	logg          *logger.Logger

	// bucketURL builds the SDK base URL for a bucket; swapped in tests.
	bucketURL func(bucket string) (*url.URL, error)

	mu      sync.Mutex
	buckets map[string]*cos.Client
}

var _ storage.ObjectStore = (*Client)(nil)

func NewClient(ctx context.Context, cfg config.StorageConfig, cosCfg config.COSConfig, logg *logger.Logger) (*Client, error) {
	if cosCfg.SecretID == "" || cosCfg.SecretKey == "" || cosCfg.AppID == "" || cosCfg.Region == "" {
		return nil, errors.New("cos config incomplete: secret id, secret key, app id and region are required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	c := &Client{
		cfg:           cosCfg,
		defaultBucket: cfg.Bucket,
		publicBase:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		logg:          logg,
		buckets:       map[string]*cos.Client{},
	}
	c.bucketURL = c.regionBucketURL

	if err := c.Ping(ctx); err != nil {
		return nil, fmt.Errorf("cos health check failed: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"bucket": cfg.Bucket, "region": cosCfg.Region}), "cos client initialized")
	}
	return c, nil
}

func (c *Client) regionBucketURL(bucket string) (*url.URL, error) {
	return url.Parse(fmt.Sprintf("https://%s-%s.cos.%s.myqcloud.com", bucket, c.cfg.AppID, c.cfg.Region))
}

func (c *Client) client(bucket string) (*cos.Client, error) {
	if bucket == "" {
		bucket = c.defaultBucket
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.buckets[bucket]; ok {
		return existing, nil
	}
	u, err := c.bucketURL(bucket)
	if err != nil {
		return nil, fmt.Errorf("cos bucket url: %w", err)
	}
	sdk := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  c.cfg.SecretID,
			SecretKey: c.cfg.SecretKey,
		},
	})
	c.buckets[bucket] = sdk
	return sdk, nil
}

func (c *Client) Put(ctx context.Context, bucket, objectPath string, obj storage.Object) (string, error) {
	sdk, err := c.client(bucket)
	if err != nil {
		return "", err
	}
	if !obj.Upsert {
		exists, err := sdk.Object.IsExist(ctx, objectPath)
		if err != nil {
			return "", fmt.Errorf("cos head %s: %w", objectPath, err)
		}
		if exists {
			return "", storage.ErrObjectExists
		}
	}

	opts := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   obj.ContentType,
			ContentLength: obj.Size,
		},
	}
	resp, err := sdk.Object.Put(ctx, objectPath, obj.Body, opts)
	if err != nil {
		return "", fmt.Errorf("cos put %s: %w", objectPath, err)
	}
	resp.Body.Close()
	return c.PublicURL(bucket, objectPath), nil
}

func (c *Client) Delete(ctx context.Context, bucket, objectPath string) error {
	sdk, err := c.client(bucket)
	if err != nil {
		return err
	}
	resp, err := sdk.Object.Delete(ctx, objectPath)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("cos delete %s: %w", objectPath, err)
	}
	resp.Body.Close()
	return nil
}

// PublicURL assumes a public-read bucket or a CDN configured as the public
// base.
func (c *Client) PublicURL(bucket, objectPath string) string {
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if c.publicBase != "" {
		return c.publicBase + "/" + strings.TrimPrefix(objectPath, "/")
	}
	u, err := c.bucketURL(bucket)
	if err != nil {
		return objectPath
	}
	u.Path = "/" + strings.TrimPrefix(objectPath, "/")
	return u.String()
}

func (c *Client) Ping(ctx context.Context) error {
	sdk, err := c.client(c.defaultBucket)
	if err != nil {
		return err
	}
	resp, err := sdk.Bucket.Head(ctx)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
