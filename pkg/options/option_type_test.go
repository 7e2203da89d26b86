package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
)

type endpoint struct {
	Host string
	Port int
}

var endpointFields = FieldMap{
	"host": String(func(e *endpoint) *string { return &e.Host }),
	"port": Int(func(e *endpoint) *int { return &e.Port }),
}

type compressionKind int

const (
	compressionNone compressionKind = iota
	compressionSnappy
	compressionZSTD
)

var compressionKindTable = map[string]compressionKind{
	"none":   compressionNone,
	"snappy": compressionSnappy,
	"zstd":   compressionZSTD,
}

type tuningOptions struct {
	Enabled   bool
	MaxSize   uint64
	Ratio     float64
	Label     string
	Levels    []int
	Kind      compressionKind
	Primary   endpoint
	Extractor SliceTransform
}

var tuningFields = FieldMap{
	"enabled":  Bool(func(o *tuningOptions) *bool { return &o.Enabled }),
	"max_size": SizeT(func(o *tuningOptions) *uint64 { return &o.MaxSize }).WithFlags(FlagMutable),
	"ratio":    Double(func(o *tuningOptions) *float64 { return &o.Ratio }),
	"label":    String(func(o *tuningOptions) *string { return &o.Label }).WithFlags(FlagCompareLoose),
	"levels":   Vector(':', Int(Self[int]), func(o *tuningOptions) *[]int { return &o.Levels }),
	"kind":     Enum(compressionKindTable, func(o *tuningOptions) *compressionKind { return &o.Kind }),
	"primary":  Struct("primary", endpointFields, func(o *tuningOptions) *endpoint { return &o.Primary }),
	"prefix_extractor": PrefixExtractor(
		func(o *tuningOptions) *SliceTransform { return &o.Extractor }),
	"old_setting": Deprecated(),
	"max_bytes":   Alias(SizeT(func(o *tuningOptions) *uint64 { return &o.MaxSize }).WithFlags(FlagMutable)),
}

type tuningConfig struct {
	BaseConfigurable
	opts tuningOptions
}

func newTuningConfig() *tuningConfig {
	c := &tuningConfig{}
	c.RegisterOptions(c, "tuning", &c.opts, tuningFields)
	return c
}

func TestFieldMap_Find(t *testing.T) {
	info, elem, ok := tuningFields.Find("enabled")
	require.True(t, ok)
	assert.Equal(t, "enabled", elem)
	assert.Equal(t, TypeBoolean, info.Kind())

	info, elem, ok = tuningFields.Find("primary.port")
	require.True(t, ok)
	assert.Equal(t, "port", elem)
	assert.True(t, info.IsStruct())

	// A bare inner name resolves through its struct.
	info, elem, ok = tuningFields.Find("host")
	require.True(t, ok)
	assert.Equal(t, "host", elem)
	assert.True(t, info.IsStruct())

	_, _, ok = tuningFields.Find("no_such_option")
	assert.False(t, ok)
}

func TestParse_Scalars(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()

	tests := []struct {
		field string
		value string
	}{
		{"enabled", "true"},
		{"max_size", "4k"},
		{"ratio", "0.75"},
		{"label", "hot"},
	}
	for _, tt := range tests {
		info := tuningFields[tt.field]
		require.NoError(t, info.Parse(tt.field, tt.value, cfg, &opts), tt.field)
	}
	assert.True(t, opts.Enabled)
	assert.Equal(t, uint64(4096), opts.MaxSize)
	assert.InDelta(t, 0.75, opts.Ratio, 1e-9)
	assert.Equal(t, "hot", opts.Label)
}

func TestParse_SizeSuffixes(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()
	info := tuningFields["max_size"]

	for value, expected := range map[string]uint64{
		"1024": 1024,
		"2K":   2048,
		"3m":   3 << 20,
		"1G":   1 << 30,
		"1t":   1 << 40,
	} {
		require.NoError(t, info.Parse("max_size", value, cfg, &opts), value)
		assert.Equal(t, expected, opts.MaxSize, value)
	}

	assert.Error(t, info.Parse("max_size", "lots", cfg, &opts))
}

func TestParse_InvalidScalar(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()

	enabled := tuningFields["enabled"]
	err := enabled.Parse("enabled", "yes please", cfg, &opts)
	assert.Error(t, err)

	ratio := tuningFields["ratio"]
	err = ratio.Parse("ratio", "fast", cfg, &opts)
	assert.Error(t, err)
}

func TestParse_Enum(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()
	info := tuningFields["kind"]

	require.NoError(t, info.Parse("kind", "zstd", cfg, &opts))
	assert.Equal(t, compressionZSTD, opts.Kind)

	err := info.Parse("kind", "brotli", cfg, &opts)
	assert.Error(t, err)

	text, err := info.Serialize("kind", &opts, cfg)
	require.NoError(t, err)
	assert.Equal(t, "zstd", text)
}

func TestParse_Deprecated(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()
	info := tuningFields["old_setting"]

	require.NoError(t, info.Parse("old_setting", "anything at all", cfg, &opts))

	text, err := info.Serialize("old_setting", &opts, cfg)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.False(t, info.ShouldSerialize())
}

func TestParse_Alias(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()
	info := tuningFields["max_bytes"]

	require.NoError(t, info.Parse("max_bytes", "8k", cfg, &opts))
	assert.Equal(t, uint64(8192), opts.MaxSize)
	assert.False(t, info.ShouldSerialize())
}

func TestVector_RoundTrip(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()
	info := tuningFields["levels"]

	require.NoError(t, info.Parse("levels", "1:2:3", cfg, &opts))
	assert.Equal(t, []int{1, 2, 3}, opts.Levels)

	text, err := info.Serialize("levels", &opts, cfg)
	require.NoError(t, err)
	assert.Equal(t, "1:2:3", text)

	require.NoError(t, info.Parse("levels", "", cfg, &opts))
	assert.Empty(t, opts.Levels)
}

func TestVector_Matches(t *testing.T) {
	cfg := DefaultConfigOptions()
	info := tuningFields["levels"]
	a := tuningOptions{Levels: []int{1, 2, 3}}
	b := tuningOptions{Levels: []int{1, 2, 3}}

	ok, _ := info.Matches("levels", &a, &b, cfg)
	assert.True(t, ok)

	b.Levels = []int{1, 2}
	ok, mismatch := info.Matches("levels", &a, &b, cfg)
	assert.False(t, ok)
	assert.Equal(t, "levels", mismatch)
}

func TestStruct_ParseForms(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()
	info := tuningFields["primary"]

	require.NoError(t, info.Parse("primary", "{host=db1;port=4242}", cfg, &opts))
	assert.Equal(t, endpoint{Host: "db1", Port: 4242}, opts.Primary)

	require.NoError(t, info.Parse("port", "9999", cfg, &opts))
	assert.Equal(t, 9999, opts.Primary.Port)

	err := info.Parse("primary", "{host=db1;nope=1}", cfg, &opts)
	assert.Error(t, err)

	loose := DefaultConfigOptions()
	loose.IgnoreUnknownOptions = true
	require.NoError(t, info.Parse("primary", "{host=db2;nope=1}", loose, &opts))
	assert.Equal(t, "db2", opts.Primary.Host)
}

func TestStruct_Serialize(t *testing.T) {
	opts := tuningOptions{Primary: endpoint{Host: "db1", Port: 4242}}
	cfg := DefaultConfigOptions()
	info := tuningFields["primary"]

	text, err := info.Serialize("primary", &opts, cfg)
	require.NoError(t, err)
	assert.Equal(t, "{host=db1;port=4242}", text)

	text, err = info.Serialize("primary.host", &opts, cfg)
	require.NoError(t, err)
	assert.Equal(t, "db1", text)
}

func TestMatches_DoubleTolerance(t *testing.T) {
	cfg := DefaultConfigOptions()
	info := tuningFields["ratio"]
	a := tuningOptions{Ratio: 0.5}
	b := tuningOptions{Ratio: 0.5 + 1e-7}

	ok, _ := info.Matches("ratio", &a, &b, cfg)
	assert.True(t, ok)

	b.Ratio = 0.5001
	ok, mismatch := info.Matches("ratio", &a, &b, cfg)
	assert.False(t, ok)
	assert.Equal(t, "ratio", mismatch)
}

func TestMatches_CompareNever(t *testing.T) {
	cfg := DefaultConfigOptions()
	info := String(func(o *tuningOptions) *string { return &o.Label }).
		WithFlags(FlagCompareNever)
	a := tuningOptions{Label: "x"}
	b := tuningOptions{Label: "y"}

	ok, _ := info.Matches("label", &a, &b, cfg)
	assert.True(t, ok)

	ok, mismatch := MatchesFieldMap(FieldMap{"label": info}, &a, &b, cfg)
	assert.True(t, ok, mismatch)
}

func TestSerialize_DontSerialize(t *testing.T) {
	info := String(func(o *tuningOptions) *string { return &o.Label }).
		WithFlags(FlagDontSerialize)
	opts := tuningOptions{Label: "x"}

	_, err := info.Serialize("label", &opts, DefaultConfigOptions())
	assert.True(t, errors.IsNotSupported(err))
	assert.False(t, info.ShouldSerialize())
}

func TestPrefixExtractor_Forms(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()
	info := tuningFields["prefix_extractor"]

	tests := []struct {
		value string
		name  string
	}{
		{"fixed:4", "rocksdb.FixedPrefix.4"},
		{"rocksdb.FixedPrefix.8", "rocksdb.FixedPrefix.8"},
		{"capped:16", "rocksdb.CappedPrefix.16"},
		{"rocksdb.CappedPrefix.2", "rocksdb.CappedPrefix.2"},
		{"rocksdb.Noop", "rocksdb.Noop"},
	}
	for _, tt := range tests {
		require.NoError(t, info.Parse("prefix_extractor", tt.value, cfg, &opts), tt.value)
		require.NotNil(t, opts.Extractor)
		assert.Equal(t, tt.name, opts.Extractor.Name())

		text, err := info.Serialize("prefix_extractor", &opts, cfg)
		require.NoError(t, err)
		assert.Equal(t, tt.name, text)
	}

	require.NoError(t, info.Parse("prefix_extractor", NullptrString, cfg, &opts))
	assert.Nil(t, opts.Extractor)

	text, err := info.Serialize("prefix_extractor", &opts, cfg)
	require.NoError(t, err)
	assert.Equal(t, NullptrString, text)

	assert.Error(t, info.Parse("prefix_extractor", "bloom:10", cfg, &opts))
	assert.Error(t, info.Parse("prefix_extractor", "fixed:many", cfg, &opts))
}

func TestFixedPrefixTransform(t *testing.T) {
	transform := NewFixedPrefixTransform(3)
	assert.True(t, transform.InDomain([]byte("abcdef")))
	assert.False(t, transform.InDomain([]byte("ab")))
	assert.Equal(t, []byte("abc"), transform.Transform([]byte("abcdef")))
}

func TestCappedPrefixTransform(t *testing.T) {
	transform := NewCappedPrefixTransform(3)
	assert.True(t, transform.InDomain([]byte("ab")))
	assert.Equal(t, []byte("abc"), transform.Transform([]byte("abcdef")))
	assert.Equal(t, []byte("ab"), transform.Transform([]byte("ab")))
}

func TestParse_MutableOnly(t *testing.T) {
	opts := tuningOptions{}
	cfg := DefaultConfigOptions()
	cfg.MutableOptionsOnly = true

	maxSize := tuningFields["max_size"]
	require.NoError(t, maxSize.Parse("max_size", "1024", cfg, &opts))

	enabled := tuningFields["enabled"]
	err := enabled.Parse("enabled", "true", cfg, &opts)
	assert.Error(t, err)
}
