// Package publish uploads a generated site tree to an S3-compatible bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRegion      = "us-east-1"
	defaultConcurrency = 8
	htmlCacheControl   = "public, max-age=300"
	assetCacheControl  = "public, max-age=86400"
)

// Uploader is the subset of the S3 client used for publishing.
type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config selects the target bucket.
type Config struct {
	Bucket string
	// Prefix is prepended to every object key.
	Prefix string
	Region string
	// Endpoint targets an S3-compatible service instead of AWS.
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	// Concurrency bounds parallel uploads; zero uses a default.
	Concurrency int
}

// Publisher uploads a directory tree object by object.
type Publisher struct {
	client      Uploader
	bucket      string
	prefix      string
	concurrency int
}

// Result lists the uploaded object keys.
type Result struct {
	Bucket string
	Keys   []string
	Bytes  int64
}

// NewS3 builds a publisher backed by the AWS SDK. Static credentials are used
// when both keys are set; otherwise the default credential chain applies.
func NewS3(ctx context.Context, cfg Config) (*Publisher, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("publish bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return New(client, cfg)
}

// New returns a publisher that uploads through client.
func New(client Uploader, cfg Config) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("uploader is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("publish bucket is required")
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Publisher{
		client:      client,
		bucket:      bucket,
		prefix:      strings.Trim(cfg.Prefix, "/"),
		concurrency: concurrency,
	}, nil
}

// Key returns the object key of a path relative to the published root.
func (p *Publisher) Key(rel string) string {
	rel = strings.TrimLeft(filepath.ToSlash(rel), "/")
	if p.prefix == "" {
		return rel
	}
	return path.Join(p.prefix, rel)
}

// Publish uploads every regular file under dir. Uploads run concurrently; the
// first failure cancels the rest.
func (p *Publisher) Publish(ctx context.Context, dir string) (Result, error) {
	var files []string
	err := filepath.WalkDir(dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("walk %s: %w", dir, err)
	}

	result := Result{Bucket: p.bucket}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, file := range files {
		g.Go(func() error {
			rel, err := filepath.Rel(dir, file)
			if err != nil {
				return err
			}
			key := p.Key(rel)
			size, err := p.upload(ctx, file, key)
			if err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			mu.Lock()
			result.Keys = append(result.Keys, key)
			result.Bytes += size
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return result, nil
}

func (p *Publisher) upload(ctx context.Context, file, key string) (int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(ContentType(key)),
		CacheControl:  aws.String(CacheControl(key)),
	})
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ContentType guesses the MIME type from the key extension.
func ContentType(key string) string {
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// CacheControl keeps pages short-lived and assets cacheable.
func CacheControl(key string) string {
	switch path.Ext(key) {
	case ".html", ".json":
		return htmlCacheControl
	default:
		return assetCacheControl
	}
}
