// Package deploy uploads the starter's static client assets to S3 or an
// S3-compatible store, so a CDN can serve them in front of the app.
package deploy

import (
	"bytes"
	"context"
	"log/slog"
	"mime"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/starter/internal/config"
	"github.com/vango-dev/starter/internal/errors"
)

// PutObjectAPI is the part of *s3.Client the uploader uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Asset is one file to upload. Name is relative to the key prefix.
type Asset struct {
	Name string
	Body []byte
}

// Result describes one uploaded object.
type Result struct {
	Key         string
	ContentType string
	Size        int
	ETag        string
}

// Uploader puts assets into a bucket.
type Uploader struct {
	client       PutObjectAPI
	bucket       string
	prefix       string
	cacheControl string
	logger       *slog.Logger
}

// NewUploader creates an Uploader for cfg. It returns E130 when no bucket
// is configured.
func NewUploader(client PutObjectAPI, cfg config.DeployConfig) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("E130").
			WithDetail("deploy.bucket is empty").
			WithSuggestion("Set deploy.bucket in starter.json or STARTER_DEPLOY_BUCKET")
	}
	return &Uploader{
		client:       client,
		bucket:       cfg.Bucket,
		prefix:       strings.Trim(cfg.Prefix, "/"),
		cacheControl: cfg.CacheControl,
		logger:       slog.Default().With("component", "deploy"),
	}, nil
}

// NewClient creates an S3 client for cfg. Credentials come from the
// standard AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// variables. A custom endpoint switches to path-style addressing.
func NewClient(cfg config.DeployConfig) (*s3.Client, error) {
	if cfg.Region == "" {
		return nil, errors.New("E130").
			WithDetail("deploy.region is empty").
			WithSuggestion("Set deploy.region in starter.json or STARTER_DEPLOY_REGION")
	}
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: aws.NewCredentialsCache(EnvCredentials(os.LookupEnv)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts), nil
}

// EnvCredentials reads static credentials through lookup.
func EnvCredentials(lookup func(string) (string, bool)) aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		id, _ := lookup("AWS_ACCESS_KEY_ID")
		secret, _ := lookup("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, errors.New("E130").
				WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		token, _ := lookup("AWS_SESSION_TOKEN")
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "StarterEnv",
		}, nil
	})
}

// Key returns the object key for an asset name.
func (u *Uploader) Key(name string) string {
	return strings.TrimPrefix(path.Join(u.prefix, name), "/")
}

// webTypes pins the types of web assets, which system MIME tables disagree
// on.
var webTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".map":  "application/json",
	".svg":  "image/svg+xml",
}

// ContentType guesses the content type from the file extension.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := webTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Upload puts every asset, in name order, and stops at the first failure
// with E131.
func (u *Uploader) Upload(ctx context.Context, assets []Asset) ([]Result, error) {
	sorted := make([]Asset, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	results := make([]Result, 0, len(sorted))
	for _, a := range sorted {
		key := u.Key(a.Name)
		ct := ContentType(a.Name)

		input := &s3.PutObjectInput{
			Bucket:        aws.String(u.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(a.Body),
			ContentLength: aws.Int64(int64(len(a.Body))),
			ContentType:   aws.String(ct),
		}
		if u.cacheControl != "" {
			input.CacheControl = aws.String(u.cacheControl)
		}

		out, err := u.client.PutObject(ctx, input)
		if err != nil {
			return results, errors.New("E131").
				WithDetail("s3://" + u.bucket + "/" + key).
				Wrap(err)
		}

		r := Result{Key: key, ContentType: ct, Size: len(a.Body)}
		if out != nil && out.ETag != nil {
			r.ETag = *out.ETag
		}
		u.logger.Info("uploaded", "bucket", u.bucket, "key", key, "bytes", r.Size)
		results = append(results, r)
	}
	return results, nil
}
