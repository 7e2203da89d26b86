package engine

import (
	"github.com/edouarda/rocksdb-cloud/pkg/options"
	"github.com/edouarda/rocksdb-cloud/pkg/table"
)

// ColumnFamilyOptions configures one column family. Fields marked mutable can
// be changed on a live database through UpdateColumnFamilyOptions.
type ColumnFamilyOptions struct {
	options.BaseConfigurable

	WriteBufferSize                uint64
	MaxWriteBufferNumber           int
	MinWriteBufferNumberToMerge    int
	NumLevels                      int
	Level0FileNumCompactionTrigger int
	Level0SlowdownWritesTrigger    int
	Level0StopWritesTrigger        int
	TargetFileSizeBase             uint64
	TargetFileSizeMultiplier       int
	MaxBytesForLevelBase           uint64
	MaxBytesForLevelMultiplier     float64
	MaxCompactionBytes             uint64
	Compression                    CompressionType
	BottommostCompression          CompressionType
	CompressionPerLevel            []CompressionType
	CompressionOpts                CompressionOptions
	BottommostCompressionOpts      CompressionOptions
	CompactionStyle                CompactionStyle
	CompactionPri                  CompactionPri
	DisableAutoCompactions         bool
	OptimizeFiltersForHits         bool
	ReportBGIOStats                bool
	TTL                            uint64
	PeriodicCompactionSeconds      uint64
	MemtablePrefixBloomSizeRatio   float64
	MemtableWholeKeyFiltering      bool
	PrefixExtractor                options.SliceTransform
	TableFactory                   table.TableFactory
	MergeOperator                  MergeOperator
}

var columnFamilyFields = options.FieldMap{
	"write_buffer_size": options.SizeT(func(o *ColumnFamilyOptions) *uint64 {
		return &o.WriteBufferSize
	}).WithFlags(options.FlagMutable),
	"max_write_buffer_number": options.Int(func(o *ColumnFamilyOptions) *int {
		return &o.MaxWriteBufferNumber
	}).WithFlags(options.FlagMutable),
	"min_write_buffer_number_to_merge": options.Int(func(o *ColumnFamilyOptions) *int {
		return &o.MinWriteBufferNumberToMerge
	}),
	"num_levels": options.Int(func(o *ColumnFamilyOptions) *int {
		return &o.NumLevels
	}),
	"level0_file_num_compaction_trigger": options.Int(func(o *ColumnFamilyOptions) *int {
		return &o.Level0FileNumCompactionTrigger
	}).WithFlags(options.FlagMutable),
	"level0_slowdown_writes_trigger": options.Int(func(o *ColumnFamilyOptions) *int {
		return &o.Level0SlowdownWritesTrigger
	}).WithFlags(options.FlagMutable),
	"level0_stop_writes_trigger": options.Int(func(o *ColumnFamilyOptions) *int {
		return &o.Level0StopWritesTrigger
	}).WithFlags(options.FlagMutable),
	"target_file_size_base": options.SizeT(func(o *ColumnFamilyOptions) *uint64 {
		return &o.TargetFileSizeBase
	}).WithFlags(options.FlagMutable),
	"target_file_size_multiplier": options.Int(func(o *ColumnFamilyOptions) *int {
		return &o.TargetFileSizeMultiplier
	}).WithFlags(options.FlagMutable),
	"max_bytes_for_level_base": options.SizeT(func(o *ColumnFamilyOptions) *uint64 {
		return &o.MaxBytesForLevelBase
	}).WithFlags(options.FlagMutable),
	"max_bytes_for_level_multiplier": options.Double(func(o *ColumnFamilyOptions) *float64 {
		return &o.MaxBytesForLevelMultiplier
	}).WithFlags(options.FlagMutable),
	"max_compaction_bytes": options.SizeT(func(o *ColumnFamilyOptions) *uint64 {
		return &o.MaxCompactionBytes
	}).WithFlags(options.FlagMutable),
	"compression": options.Enum(CompressionTypeTable,
		func(o *ColumnFamilyOptions) *CompressionType {
			return &o.Compression
		}).WithFlags(options.FlagMutable),
	"bottommost_compression": options.Enum(CompressionTypeTable,
		func(o *ColumnFamilyOptions) *CompressionType {
			return &o.BottommostCompression
		}).WithFlags(options.FlagMutable),
	"compression_per_level": options.Vector(':',
		options.Enum(CompressionTypeTable, options.Self[CompressionType]),
		func(o *ColumnFamilyOptions) *[]CompressionType {
			return &o.CompressionPerLevel
		}),
	"compression_opts": compressionOptionsField("compression_opts",
		func(o *ColumnFamilyOptions) *CompressionOptions {
			return &o.CompressionOpts
		}).WithFlags(options.FlagMutable),
	"bottommost_compression_opts": compressionOptionsField("bottommost_compression_opts",
		func(o *ColumnFamilyOptions) *CompressionOptions {
			return &o.BottommostCompressionOpts
		}).WithFlags(options.FlagMutable),
	"compaction_style": options.Enum(CompactionStyleTable,
		func(o *ColumnFamilyOptions) *CompactionStyle {
			return &o.CompactionStyle
		}),
	"compaction_pri": options.Enum(CompactionPriTable,
		func(o *ColumnFamilyOptions) *CompactionPri {
			return &o.CompactionPri
		}),
	"disable_auto_compactions": options.Bool(func(o *ColumnFamilyOptions) *bool {
		return &o.DisableAutoCompactions
	}).WithFlags(options.FlagMutable),
	// Historical singular spelling.
	"disable_auto_compaction": options.Alias(
		options.Bool(func(o *ColumnFamilyOptions) *bool {
			return &o.DisableAutoCompactions
		}).WithFlags(options.FlagMutable)),
	"optimize_filters_for_hits": options.Bool(func(o *ColumnFamilyOptions) *bool {
		return &o.OptimizeFiltersForHits
	}),
	"report_bg_io_stats": options.Bool(func(o *ColumnFamilyOptions) *bool {
		return &o.ReportBGIOStats
	}).WithFlags(options.FlagMutable),
	"ttl": options.UInt64(func(o *ColumnFamilyOptions) *uint64 {
		return &o.TTL
	}).WithFlags(options.FlagMutable),
	"periodic_compaction_seconds": options.UInt64(func(o *ColumnFamilyOptions) *uint64 {
		return &o.PeriodicCompactionSeconds
	}).WithFlags(options.FlagMutable),
	"memtable_prefix_bloom_size_ratio": options.Double(func(o *ColumnFamilyOptions) *float64 {
		return &o.MemtablePrefixBloomSizeRatio
	}).WithFlags(options.FlagMutable),
	"memtable_whole_key_filtering": options.Bool(func(o *ColumnFamilyOptions) *bool {
		return &o.MemtableWholeKeyFiltering
	}).WithFlags(options.FlagMutable),
	"prefix_extractor": options.PrefixExtractor(
		func(o *ColumnFamilyOptions) *options.SliceTransform {
			return &o.PrefixExtractor
		}).WithFlags(options.FlagMutable | options.FlagAllowNull),
	"table_factory": options.CustomizableOption[ColumnFamilyOptions, table.TableFactory](
		table.FamilyName, options.VerifyByName, 0,
		func(o *ColumnFamilyOptions) *table.TableFactory {
			return &o.TableFactory
		}, nil),
	"merge_operator": options.CustomizableOption[ColumnFamilyOptions, MergeOperator](
		MergeOperatorFamilyName, options.VerifyByNameAllowNull, options.FlagAllowNull,
		func(o *ColumnFamilyOptions) *MergeOperator {
			return &o.MergeOperator
		}, nil),

	// Removed options kept parseable.
	"max_mem_compaction_level":          options.Deprecated(),
	"purge_redundant_kvs_while_flush":   options.Deprecated(),
	"soft_rate_limit":                   options.Deprecated(),
	"hard_rate_limit":                   options.Deprecated(),
	"rate_limit_delay_max_milliseconds": options.Deprecated(),
}

// NewColumnFamilyOptions returns column family options with the stock
// defaults and a block based table factory.
func NewColumnFamilyOptions() *ColumnFamilyOptions {
	cf := &ColumnFamilyOptions{
		WriteBufferSize:                64 << 20,
		MaxWriteBufferNumber:           2,
		MinWriteBufferNumberToMerge:    1,
		NumLevels:                      7,
		Level0FileNumCompactionTrigger: 4,
		Level0SlowdownWritesTrigger:    20,
		Level0StopWritesTrigger:        36,
		TargetFileSizeBase:             64 << 20,
		TargetFileSizeMultiplier:       1,
		MaxBytesForLevelBase:           256 << 20,
		MaxBytesForLevelMultiplier:     10,
		MaxCompactionBytes:             64 << 20 * 25,
		Compression:                    SnappyCompression,
		BottommostCompression:          DisableCompressionOption,
		CompressionOpts:                defaultCompressionOptions(),
		BottommostCompressionOpts:      defaultCompressionOptions(),
		CompactionStyle:                CompactionStyleLevel,
		CompactionPri:                  MinOverlappingRatio,
		TableFactory:                   table.NewBlockBasedTableFactory(),
	}
	cf.RegisterOptions(cf, "ColumnFamilyOptions", cf, columnFamilyFields)
	return cf
}
