package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
	"github.com/edouarda/rocksdb-cloud/pkg/options"
	"github.com/edouarda/rocksdb-cloud/pkg/registry"
)

func newEngineConfig() *options.ConfigOptions {
	cfg := options.DefaultConfigOptions()
	cfg.Registry = registry.Default()
	return cfg
}

func TestColumnFamilyOptions_ConfigureFromString(t *testing.T) {
	cfg := newEngineConfig()
	cf := NewColumnFamilyOptions()

	err := cf.ConfigureFromString(
		"write_buffer_size=128m; max_write_buffer_number=4; "+
			"compression=kZSTD; bottommost_compression=kLZ4Compression; "+
			"compression_per_level=kNoCompression:kSnappyCompression:kZSTD; "+
			"compaction_style=kCompactionStyleUniversal; "+
			"compaction_pri=kRoundRobin; "+
			"max_bytes_for_level_multiplier=8.5", cfg)
	require.NoError(t, err)

	assert.Equal(t, uint64(128<<20), cf.WriteBufferSize)
	assert.Equal(t, 4, cf.MaxWriteBufferNumber)
	assert.Equal(t, ZSTDCompression, cf.Compression)
	assert.Equal(t, LZ4Compression, cf.BottommostCompression)
	assert.Equal(t, []CompressionType{
		NoCompression, SnappyCompression, ZSTDCompression,
	}, cf.CompressionPerLevel)
	assert.Equal(t, CompactionStyleUniversal, cf.CompactionStyle)
	assert.Equal(t, RoundRobin, cf.CompactionPri)
	assert.InDelta(t, 8.5, cf.MaxBytesForLevelMultiplier, 1e-9)
}

func TestColumnFamilyOptions_DeprecatedAndAlias(t *testing.T) {
	cfg := newEngineConfig()
	cf := NewColumnFamilyOptions()

	require.NoError(t, cf.ConfigureFromString(
		"max_mem_compaction_level=3; purge_redundant_kvs_while_flush=true", cfg))

	require.NoError(t, cf.ConfigureFromString("disable_auto_compaction=true", cfg))
	assert.True(t, cf.DisableAutoCompactions)
}

func TestCompressionOptions_ColonForm(t *testing.T) {
	cfg := newEngineConfig()
	cf := NewColumnFamilyOptions()

	require.NoError(t, cf.ConfigureFromString("compression_opts=4:5:6:7", cfg))
	assert.Equal(t, CompressionOptions{
		WindowBits:      4,
		Level:           5,
		Strategy:        6,
		MaxDictBytes:    7,
		ParallelThreads: 1,
	}, cf.CompressionOpts)

	require.NoError(t, cf.ConfigureFromString(
		"compression_opts=4:5:6:7:8:9:true", cfg))
	assert.Equal(t, uint32(8), cf.CompressionOpts.ZstdMaxTrainBytes)
	assert.Equal(t, uint32(9), cf.CompressionOpts.ParallelThreads)
	assert.True(t, cf.CompressionOpts.Enabled)

	err := cf.ConfigureFromString("compression_opts=4:5:6", cfg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestCompressionOptions_StructForm(t *testing.T) {
	cfg := newEngineConfig()
	cf := NewColumnFamilyOptions()

	require.NoError(t, cf.ConfigureFromString(
		"bottommost_compression_opts={level=3; enabled=true}", cfg))
	assert.Equal(t, 3, cf.BottommostCompressionOpts.Level)
	assert.True(t, cf.BottommostCompressionOpts.Enabled)

	// Dotted form addresses a single struct member.
	require.NoError(t, cf.ConfigureFromString(
		"compression_opts.zstd_max_train_bytes=1024", cfg))
	assert.Equal(t, uint32(1024), cf.CompressionOpts.ZstdMaxTrainBytes)
}

func TestColumnFamilyOptions_PrefixExtractor(t *testing.T) {
	cfg := newEngineConfig()
	cf := NewColumnFamilyOptions()

	require.NoError(t, cf.ConfigureFromString("prefix_extractor=fixed:8", cfg))
	require.NotNil(t, cf.PrefixExtractor)
	assert.Equal(t, "rocksdb.FixedPrefix.8", cf.PrefixExtractor.Name())

	require.NoError(t, cf.ConfigureFromString("prefix_extractor=nullptr", cfg))
	assert.Nil(t, cf.PrefixExtractor)
}

func TestColumnFamilyOptions_TableFactory(t *testing.T) {
	cfg := newEngineConfig()
	cf := NewColumnFamilyOptions()
	require.NotNil(t, cf.TableFactory)
	assert.Equal(t, "BlockBasedTable", cf.TableFactory.GetId())

	require.NoError(t, cf.ConfigureFromString(
		"table_factory={id=BlockBasedTable; block_size=64k}", cfg))
	value, err := cf.GetOption("table_factory.block_size", cfg)
	require.NoError(t, err)
	assert.Equal(t, "65536", value)

	// Fully qualified addressing reaches into the nested object.
	require.NoError(t, cf.ConfigureFromString(
		"table_factory.BlockBasedTable.block_size=32768", cfg))
	value, err = cf.GetOption("table_factory.block_size", cfg)
	require.NoError(t, err)
	assert.Equal(t, "32768", value)

	require.NoError(t, cf.ConfigureFromString("table_factory=PlainTable", cfg))
	assert.Equal(t, "PlainTable", cf.TableFactory.GetId())
}

func TestColumnFamilyOptions_MergeOperator(t *testing.T) {
	cfg := newEngineConfig()
	cf := NewColumnFamilyOptions()
	assert.Nil(t, cf.MergeOperator)

	require.NoError(t, cf.ConfigureFromString(
		"merge_operator={id=stringappend; delimiter=|}", cfg))
	require.NotNil(t, cf.MergeOperator)

	merged, ok := cf.MergeOperator.FullMerge([]byte("k"), []byte("a"),
		[][]byte{[]byte("b"), []byte("c")})
	require.True(t, ok)
	assert.Equal(t, "a|b|c", string(merged))

	require.NoError(t, cf.ConfigureFromString("merge_operator=nullptr", cfg))
	assert.Nil(t, cf.MergeOperator)
}

func TestMergeOperators(t *testing.T) {
	put := NewPutOperator()
	v, ok := put.FullMerge(nil, []byte("old"), [][]byte{[]byte("a"), []byte("b")})
	require.True(t, ok)
	assert.Equal(t, "b", string(v))

	max := NewMaxOperator()
	v, ok = max.FullMerge(nil, []byte("m"), [][]byte{[]byte("z"), []byte("a")})
	require.True(t, ok)
	assert.Equal(t, "z", string(v))
}

func TestColumnFamilyOptions_RoundTrip(t *testing.T) {
	cfg := newEngineConfig()
	source := NewColumnFamilyOptions()
	require.NoError(t, source.ConfigureFromString(
		"write_buffer_size=32m; compression=kZSTD; "+
			"prefix_extractor=capped:16; "+
			"merge_operator=max; "+
			"compression_per_level=kNoCompression:kZSTD; "+
			"table_factory={id=BlockBasedTable; block_size=16384}", cfg))

	text := source.ToString(cfg)
	clone, err := GetColumnFamilyOptionsFromString(nil, text, cfg)
	require.NoError(t, err)

	ok, mismatch := source.Matches(clone, cfg)
	assert.True(t, ok, mismatch)
}

func TestGetColumnFamilyOptionsFromString_BaseUntouched(t *testing.T) {
	cfg := newEngineConfig()
	base := NewColumnFamilyOptions()
	require.NoError(t, base.ConfigureFromString("write_buffer_size=32m", cfg))

	derived, err := GetColumnFamilyOptionsFromString(base,
		"write_buffer_size=8m; num_levels=3", cfg)
	require.NoError(t, err)

	assert.Equal(t, uint64(8<<20), derived.WriteBufferSize)
	assert.Equal(t, 3, derived.NumLevels)
	assert.Equal(t, uint64(32<<20), base.WriteBufferSize)
	assert.Equal(t, 7, base.NumLevels)
}

func TestDBOptions_ConfigureAndRoundTrip(t *testing.T) {
	cfg := newEngineConfig()
	db := NewDBOptions()

	require.NoError(t, db.ConfigureFromString(
		"create_if_missing=true; max_open_files=5000; "+
			"WAL_ttl_seconds=3600; wal_recovery_mode=kAbsoluteConsistency; "+
			"bytes_per_sync=1m; skip_log_error_on_recovery=false", cfg))

	assert.True(t, db.CreateIfMissing)
	assert.Equal(t, 5000, db.MaxOpenFiles)
	assert.Equal(t, uint64(3600), db.WALTTLSeconds)
	assert.Equal(t, AbsoluteConsistency, db.WALRecoveryMode)
	assert.Equal(t, uint64(1<<20), db.BytesPerSync)

	text := db.ToString(cfg)
	clone, err := GetDBOptionsFromString(nil, text, cfg)
	require.NoError(t, err)
	ok, mismatch := db.Matches(clone, cfg)
	assert.True(t, ok, mismatch)
}

func TestGetDBOptionsFromMap(t *testing.T) {
	cfg := newEngineConfig()
	db, err := GetDBOptionsFromMap(nil, map[string]string{
		"max_background_jobs": "8",
		"atomic_flush":        "true",
	}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 8, db.MaxBackgroundJobs)
	assert.True(t, db.AtomicFlush)
}

func TestUpdateMutableOptions(t *testing.T) {
	cfg := newEngineConfig()
	cf := NewColumnFamilyOptions()

	require.NoError(t, UpdateMutableOptions(cf, map[string]string{
		"write_buffer_size": "16m",
		"compression":       "kNoCompression",
	}, cfg))
	assert.Equal(t, uint64(16<<20), cf.WriteBufferSize)
	assert.Equal(t, NoCompression, cf.Compression)

	err := UpdateMutableOptions(cf, map[string]string{"num_levels": "3"}, cfg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestMutableOptionString(t *testing.T) {
	cfg := newEngineConfig()
	cf := NewColumnFamilyOptions()

	text, err := MutableOptionString(cf, cfg)
	require.NoError(t, err)
	assert.Contains(t, text, "write_buffer_size=")
	assert.NotContains(t, text, "num_levels=")
}
