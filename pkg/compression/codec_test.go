package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edouarda/rocksdb-cloud/pkg/options"
	"github.com/edouarda/rocksdb-cloud/pkg/registry"
)

func newCodecConfig() *options.ConfigOptions {
	cfg := options.DefaultConfigOptions()
	cfg.Registry = registry.Default()
	return cfg
}

func testPayload() []byte {
	return bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 64)
}

func TestCodec_RoundTrip(t *testing.T) {
	codecs := []Codec{
		NewNoneCodec(),
		NewZstdCodec(),
		NewLZ4Codec(),
		NewGzipCodec(),
		NewS2Codec(),
		NewSnappyCodec(),
	}
	payload := testPayload()
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			if codec.Name() != "none" {
				assert.Less(t, len(compressed), len(payload))
			}
			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, restored)
		})
	}
}

func TestCodec_LoadFromRegistry(t *testing.T) {
	cfg := newCodecConfig()

	var codec Codec
	require.NoError(t, options.LoadObject(FamilyName,
		"{id=zstd; level=19; concurrency=2}", nil, cfg, &codec))
	require.NotNil(t, codec)
	assert.Equal(t, "zstd", codec.GetId())

	value, err := codec.GetOption("level", cfg)
	require.NoError(t, err)
	assert.Equal(t, "19", value)

	payload := testPayload()
	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	restored, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, restored)
}

func TestCodec_BareIdValue(t *testing.T) {
	cfg := newCodecConfig()

	var codec Codec
	require.NoError(t, options.LoadObject(FamilyName, "lz4", nil, cfg, &codec))
	assert.Equal(t, "lz4", codec.GetId())

	require.NoError(t, options.LoadObject(FamilyName, "nullptr", nil, cfg, &codec))
	assert.Nil(t, codec)
}

func TestGzipCodec_LevelValidation(t *testing.T) {
	cfg := newCodecConfig()

	codec := NewGzipCodec()
	err := codec.ConfigureFromString("level=42", cfg)
	require.Error(t, err)
}

func TestCodec_Matches(t *testing.T) {
	cfg := newCodecConfig()

	a := NewZstdCodec()
	b := NewZstdCodec()
	require.NoError(t, a.ConfigureFromString("level=10", cfg))
	require.NoError(t, b.ConfigureFromString("level=10", cfg))
	ok, _ := a.Matches(b, cfg)
	assert.True(t, ok)

	require.NoError(t, b.ConfigureFromString("level=3", cfg))
	ok, mismatch := a.Matches(b, cfg)
	assert.False(t, ok)
	assert.Equal(t, "level", mismatch)
}

func TestCodec_ToString(t *testing.T) {
	cfg := newCodecConfig()

	codec := NewSnappyCodec()
	assert.Equal(t, "snappy", codec.ToString(cfg))

	zstd := NewZstdCodec()
	require.NoError(t, zstd.ConfigureFromString("level=7", cfg))
	text := zstd.ToString(cfg)
	assert.Contains(t, text, "id=zstd")
	assert.Contains(t, text, "level=7")
}
