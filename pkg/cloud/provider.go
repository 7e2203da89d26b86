package cloud

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
	"github.com/edouarda/rocksdb-cloud/pkg/logger"
	"github.com/edouarda/rocksdb-cloud/pkg/options"
	"github.com/edouarda/rocksdb-cloud/pkg/registry"
)

// ProviderFamilyName is the registry family for storage providers.
const ProviderFamilyName = "StorageProvider"

// StorageProvider moves objects between the local machine and a bucket.
type StorageProvider interface {
	options.Customizable

	// PutObject stores the contents of reader under bucket/key.
	PutObject(ctx context.Context, bucket, key string, reader io.Reader) error

	// GetObject retrieves bucket/key.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// ObjectExists checks bucket/key without retrieving it.
	ObjectExists(ctx context.Context, bucket, key string) (bool, error)
}

// S3Provider reaches an S3-compatible object store. The client is built in
// PrepareOptions, the only step allowed to touch the environment.
type S3Provider struct {
	options.BaseCustomizable

	opts   s3Options
	client *s3.Client
	log    *zap.Logger
}

type s3Options struct {
	Region       string
	Endpoint     string
	UsePathStyle bool
	MaxRetries   int
}

var s3Fields = options.FieldMap{
	"region": options.String(func(o *s3Options) *string {
		return &o.Region
	}),
	"endpoint": options.String(func(o *s3Options) *string {
		return &o.Endpoint
	}),
	"use_path_style": options.Bool(func(o *s3Options) *bool {
		return &o.UsePathStyle
	}),
	"max_retries": options.Int(func(o *s3Options) *int {
		return &o.MaxRetries
	}),
}

func NewS3Provider() *S3Provider {
	p := &S3Provider{
		opts: s3Options{MaxRetries: 3},
		log:  logger.Get().With(zap.String("component", "s3_provider")),
	}
	p.RegisterOptions(p, p.Name(), &p.opts, s3Fields)
	return p
}

func (p *S3Provider) Name() string { return "s3" }

// PrepareOptions resolves the AWS configuration and builds the client.
func (p *S3Provider) PrepareOptions(cfg *options.ConfigOptions) error {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryMaxAttempts(p.opts.MaxRetries),
	}
	if p.opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(p.opts.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeDependency, "loading aws configuration")
	}
	p.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = p.opts.UsePathStyle
		if p.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.opts.Endpoint)
		}
	})
	p.log.Debug("s3 client ready",
		zap.String("region", p.opts.Region),
		zap.String("endpoint", p.opts.Endpoint))
	return p.BaseCustomizable.PrepareOptions(cfg)
}

// Client exposes the prepared client, nil before PrepareOptions runs.
func (p *S3Provider) Client() *s3.Client { return p.client }

func (p *S3Provider) ready() error {
	if p.client == nil {
		return errors.New(errors.ErrorTypeConfig, "s3 provider is not prepared")
	}
	return nil
}

func (p *S3Provider) PutObject(ctx context.Context, bucket, key string, reader io.Reader) error {
	if err := p.ready(); err != nil {
		return err
	}
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeDependency, "putting object")
	}
	return nil
}

func (p *S3Provider) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeDependency, "getting object")
	}
	return out.Body, nil
}

func (p *S3Provider) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	if err := p.ready(); err != nil {
		return false, err
	}
	_, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, nil
	}
	return true, nil
}

// MemoryProvider keeps objects in process memory. It backs tests and local
// development where no object store is reachable.
type MemoryProvider struct {
	options.BaseCustomizable

	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	p := &MemoryProvider{objects: make(map[string][]byte)}
	p.RegisterOptions(p, p.Name(), p, nil)
	return p
}

func (p *MemoryProvider) Name() string { return "memory" }

func objectKey(bucket, key string) string { return bucket + "/" + key }

func (p *MemoryProvider) PutObject(_ context.Context, bucket, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[objectKey(bucket, key)] = data
	return nil
}

func (p *MemoryProvider) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.objects[objectKey(bucket, key)]
	if !ok {
		return nil, errors.NotFound("no such object", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (p *MemoryProvider) ObjectExists(_ context.Context, bucket, key string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.objects[objectKey(bucket, key)]
	return ok, nil
}

func init() {
	registry.MustRegister(ProviderFamilyName, "s3",
		func(string) (options.Customizable, error) { return NewS3Provider(), nil })
	registry.MustRegister(ProviderFamilyName, "memory",
		func(string) (options.Customizable, error) { return NewMemoryProvider(), nil })
}
