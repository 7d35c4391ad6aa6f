package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shamsoul-ali/THE-VAULT/pkg/config"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage"
)

const (
	defaultEndpoint = "https://storage.googleapis.com"
	tokenEndpoint   = "https://oauth2.googleapis.com/token"
	scope           = "https://www.googleapis.com/auth/devstorage.read_write"
	pingTimeout     = 5 * time.Second
	metadataToken   = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"
)

// Client talks to the Cloud Storage JSON API directly over HTTP.
type Client struct {
	httpClient    *http.Client
	endpoint      string
	publicBase    string
	defaultBucket string
	tokenSource   *tokenSource
	logg          *logger.Logger
}

var _ storage.ObjectStore = (*Client)(nil)

func closeBody(ctx context.Context, logg *logger.Logger, body io.Closer, msg string) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil && logg != nil {
		logg.Warn(ctx, msg)
	}
}

func NewClient(ctx context.Context, cfg config.StorageConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	// Uploads are bounded by the caller's context, not a client timeout.
	httpClient := &http.Client{}

	var ts *tokenSource
	var err error
	switch {
	case gcp.CredentialsJSON != "":
		ts, err = newServiceAccountTokenSource(httpClient, gcp.CredentialsJSON)
	case gcp.ApplicationCredentials != "":
		bytes, readErr := os.ReadFile(gcp.ApplicationCredentials)
		if readErr != nil {
			return nil, fmt.Errorf("reading credentials file: %w", readErr)
		}
		ts, err = newServiceAccountTokenSource(httpClient, string(bytes))
	default:
		ts = newMetadataTokenSource(httpClient)
	}
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:    httpClient,
		endpoint:      defaultEndpoint,
		publicBase:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		defaultBucket: cfg.Bucket,
		tokenSource:   ts,
		logg:          logg,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.Bucket), "gcs client initialized")
	}

	return client, nil
}

// Put uploads obj in a single request. Without Upsert the write is
// conditioned on the object not existing yet.
func (c *Client) Put(ctx context.Context, bucket, objectPath string, obj storage.Object) (string, error) {
	bucket = c.bucket(bucket)
	q := url.Values{}
	q.Set("uploadType", "media")
	q.Set("name", objectPath)
	if !obj.Upsert {
		q.Set("ifGenerationMatch", "0")
	}
	u := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?%s", c.endpoint, url.PathEscape(bucket), q.Encode())

	req, err := c.newRequest(ctx, http.MethodPost, u, obj.Body)
	if err != nil {
		return "", err
	}
	if obj.ContentType != "" {
		req.Header.Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		req.ContentLength = obj.Size
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer closeBody(ctx, c.logg, resp.Body, "gcs: closing upload response body failed")

	switch {
	case resp.StatusCode == http.StatusPreconditionFailed:
		return "", storage.ErrObjectExists
	case resp.StatusCode >= 300:
		return "", statusError("gcs upload", resp)
	}
	return c.PublicURL(bucket, objectPath), nil
}

// Delete removes an object. A missing object counts as deleted.
func (c *Client) Delete(ctx context.Context, bucket, objectPath string) error {
	u := fmt.Sprintf("%s/storage/v1/b/%s/o/%s", c.endpoint, url.PathEscape(c.bucket(bucket)), url.PathEscape(objectPath))
	req, err := c.newRequest(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(ctx, c.logg, resp.Body, "gcs: closing delete response body failed")

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode < 300 {
		return nil
	}
	return statusError("gcs delete", resp)
}

func (c *Client) PublicURL(bucket, objectPath string) string {
	base := c.publicBase
	if base == "" {
		base = c.endpoint
	}
	return fmt.Sprintf("%s/%s/%s", base, c.bucket(bucket), objectPath)
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if c.defaultBucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	// object-level check, needs storage.objects.list
	u := fmt.Sprintf("%s/storage/v1/b/%s/o?maxResults=1", c.endpoint, url.PathEscape(c.defaultBucket))
	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check", resp)
	}
	return nil
}

func (c *Client) bucket(name string) string {
	if name == "" {
		return c.defaultBucket
	}
	return name
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs token: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("%s failed: %s: %s", op, resp.Status, msg)
	}
	return fmt.Errorf("%s failed: %s", op, resp.Status)
}

type tokenSource struct {
	mu     sync.Mutex
	token  string
	expiry time.Time
	fetch  func(context.Context) (string, time.Time, error)
}

func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Until(t.expiry) > time.Minute {
		return t.token, nil
	}

	token, expiry, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}
	t.token = token
	t.expiry = expiry
	return token, nil
}

type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

func newServiceAccountTokenSource(client *http.Client, jsonCreds string) (*tokenSource, error) {
	var creds serviceAccount
	if err := json.Unmarshal([]byte(jsonCreds), &creds); err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, errors.New("invalid service account credentials")
	}
	if creds.TokenURI == "" {
		creds.TokenURI = tokenEndpoint
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}

	return &tokenSource{
		fetch: func(ctx context.Context) (string, time.Time, error) {
			now := time.Now()
			assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
				"iss":   creds.ClientEmail,
				"scope": scope,
				"aud":   creds.TokenURI,
				"iat":   now.Unix(),
				"exp":   now.Add(time.Hour).Unix(),
			}).SignedString(key)
			if err != nil {
				return "", time.Time{}, fmt.Errorf("signing token assertion: %w", err)
			}

			form := url.Values{}
			form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
			form.Set("assertion", assertion)
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.TokenURI, strings.NewReader(form.Encode()))
			if err != nil {
				return "", time.Time{}, err
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return doTokenRequest(ctx, client, req)
		},
	}, nil
}

func newMetadataTokenSource(client *http.Client) *tokenSource {
	return &tokenSource{
		fetch: func(ctx context.Context) (string, time.Time, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataToken, nil)
			if err != nil {
				return "", time.Time{}, err
			}
			req.Header.Set("Metadata-Flavor", "Google")
			return doTokenRequest(ctx, client, req)
		},
	}
}

func doTokenRequest(ctx context.Context, client *http.Client, req *http.Request) (string, time.Time, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}
	defer closeBody(ctx, nil, resp.Body, "gcs: closing token response body failed")

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("token request to %s returned %s", req.URL.Host, resp.Status)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", time.Time{}, err
	}
	return tokenResp.AccessToken, time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second), nil
}
