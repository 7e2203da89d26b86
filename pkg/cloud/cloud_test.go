package cloud

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
	"github.com/edouarda/rocksdb-cloud/pkg/options"
	"github.com/edouarda/rocksdb-cloud/pkg/registry"
)

func newCloudConfig() *options.ConfigOptions {
	cfg := options.DefaultConfigOptions()
	cfg.Registry = registry.Default()
	return cfg
}

func TestCloudEnvOptions_Buckets(t *testing.T) {
	cfg := newCloudConfig()
	env := NewCloudEnvOptions()

	require.NoError(t, env.ConfigureFromString(
		"bucket.source={bucket=src-data; region=us-west-2; prefix=rocksdb.}; "+
			"bucket.dest.bucket=dst-data; "+
			"storage_provider=memory", cfg))

	assert.Equal(t, "src-data", env.SrcBucket.Bucket)
	assert.Equal(t, "us-west-2", env.SrcBucket.Region)
	assert.Equal(t, "rocksdb.", env.SrcBucket.Prefix)
	assert.Equal(t, "dst-data", env.DestBucket.Bucket)
	assert.True(t, env.SrcBucket.IsValid())

	value, err := env.GetOption("bucket.source.region", cfg)
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", value)
}

func TestCloudEnvOptions_ValidateRequiresProvider(t *testing.T) {
	cfg := newCloudConfig()
	env := NewCloudEnvOptions()

	require.NoError(t, env.ConfigureFromString("bucket.dest.bucket=dst", cfg))
	err := env.ValidateOptions(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, "storage_provider", errors.Option(err))

	require.NoError(t, env.ConfigureFromString("storage_provider=memory", cfg))
	require.NoError(t, env.ValidateOptions(cfg))
}

func TestCloudEnvOptions_ObjectCodec(t *testing.T) {
	cfg := newCloudConfig()
	env := NewCloudEnvOptions()

	require.NoError(t, env.ConfigureFromString(
		"object_codec={id=zstd; level=5}", cfg))
	require.NotNil(t, env.ObjectCodec)

	payload := bytes.Repeat([]byte("cloud object payload "), 32)
	compressed, err := env.ObjectCodec.Compress(payload)
	require.NoError(t, err)
	restored, err := env.ObjectCodec.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, restored)

	require.NoError(t, env.ConfigureFromString("object_codec=nullptr", cfg))
	assert.Nil(t, env.ObjectCodec)
}

func TestMemoryProvider_RoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider()

	exists, err := p.ObjectExists(ctx, "b", "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, p.PutObject(ctx, "b", "k", bytes.NewReader([]byte("v"))))

	exists, err = p.ObjectExists(ctx, "b", "k")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := p.GetObject(ctx, "b", "k")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "v", string(data))

	_, err = p.GetObject(ctx, "b", "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestS3Provider_Prepare(t *testing.T) {
	cfg := newCloudConfig()
	p := NewS3Provider()

	require.NoError(t, p.ConfigureFromString(
		"region=us-east-1; endpoint=http://localhost:9000; use_path_style=true", cfg))
	require.NotNil(t, p.Client())

	value, err := p.GetOption("use_path_style", cfg)
	require.NoError(t, err)
	assert.Equal(t, "true", value)
}

func TestCloudEnvOptions_RoundTrip(t *testing.T) {
	cfg := newCloudConfig()
	source := NewCloudEnvOptions()
	require.NoError(t, source.ConfigureFromString(
		"bucket.source={bucket=a; region=eu-west-1}; "+
			"storage_provider=memory; "+
			"object_codec={id=lz4; level=4}; "+
			"keep_local_sst_files=true", cfg))

	text := source.ToString(cfg)
	clone := NewCloudEnvOptions()
	require.NoError(t, clone.ConfigureFromString(text, cfg))

	ok, mismatch := source.Matches(clone, cfg)
	assert.True(t, ok, mismatch)
}
