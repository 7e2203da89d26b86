// Package table defines the table-factory component family: pluggable
// on-disk format builders selected by type id through the object registry.
package table

import (
	"github.com/edouarda/rocksdb-cloud/pkg/options"
	"github.com/edouarda/rocksdb-cloud/pkg/registry"
)

// FamilyName is the registry family for table factories.
const FamilyName = "TableFactory"

// TableFactory is a configurable builder for one table format.
type TableFactory interface {
	options.Customizable
}

// ChecksumType selects the block checksum function.
type ChecksumType int

const (
	NoChecksum ChecksumType = iota
	CRC32c
	XXHash
	XXHash64
	XXH3
)

// ChecksumTypeTable maps the textual checksum names.
var ChecksumTypeTable = map[string]ChecksumType{
	"kNoChecksum": NoChecksum,
	"kCRC32c":     CRC32c,
	"kxxHash":     XXHash,
	"kxxHash64":   XXHash64,
	"kXXH3":       XXH3,
}

// IndexType selects the block index layout of the block-based format.
type IndexType int

const (
	BinarySearchIndex IndexType = iota
	HashSearchIndex
	TwoLevelIndex
	BinarySearchWithFirstKeyIndex
)

var indexTypeTable = map[string]IndexType{
	"kBinarySearch":             BinarySearchIndex,
	"kHashSearch":               HashSearchIndex,
	"kTwoLevelIndexSearch":      TwoLevelIndex,
	"kBinarySearchWithFirstKey": BinarySearchWithFirstKeyIndex,
}

// BlockBasedTableOptions configures the default block-based format.
type BlockBasedTableOptions struct {
	BlockSize                 uint64
	BlockSizeDeviation        int
	BlockRestartInterval      int
	IndexBlockRestartInterval int
	IndexType                 IndexType
	Checksum                  ChecksumType
	CacheIndexAndFilterBlocks bool
	PinL0FilterAndIndexBlocks bool
	WholeKeyFiltering         bool
	FormatVersion             uint32
}

var blockBasedFields = options.FieldMap{
	"block_size": options.SizeT(
		func(o *BlockBasedTableOptions) *uint64 { return &o.BlockSize }).
		WithFlags(options.FlagMutable),
	"block_size_deviation": options.Int(
		func(o *BlockBasedTableOptions) *int { return &o.BlockSizeDeviation }),
	"block_restart_interval": options.Int(
		func(o *BlockBasedTableOptions) *int { return &o.BlockRestartInterval }).
		WithFlags(options.FlagMutable),
	"index_block_restart_interval": options.Int(
		func(o *BlockBasedTableOptions) *int { return &o.IndexBlockRestartInterval }),
	"index_type": options.Enum(indexTypeTable,
		func(o *BlockBasedTableOptions) *IndexType { return &o.IndexType }),
	"checksum": options.Enum(ChecksumTypeTable,
		func(o *BlockBasedTableOptions) *ChecksumType { return &o.Checksum }),
	"cache_index_and_filter_blocks": options.Bool(
		func(o *BlockBasedTableOptions) *bool { return &o.CacheIndexAndFilterBlocks }),
	"pin_l0_filter_and_index_blocks_in_cache": options.Bool(
		func(o *BlockBasedTableOptions) *bool { return &o.PinL0FilterAndIndexBlocks }),
	"whole_key_filtering": options.Bool(
		func(o *BlockBasedTableOptions) *bool { return &o.WholeKeyFiltering }),
	"format_version": options.UInt32(
		func(o *BlockBasedTableOptions) *uint32 { return &o.FormatVersion }),
	// Retired block cache tunables still accepted from old option strings.
	"block_cache":                options.Deprecated(),
	"block_cache_compressed":     options.Deprecated(),
	"hash_index_allow_collision": options.Deprecated(),
}

// BlockBasedTableFactory builds block-based tables.
type BlockBasedTableFactory struct {
	options.BaseCustomizable
	opts BlockBasedTableOptions
}

// NewBlockBasedTableFactory returns a factory with default options.
func NewBlockBasedTableFactory() *BlockBasedTableFactory {
	f := &BlockBasedTableFactory{
		opts: BlockBasedTableOptions{
			BlockSize:                 4 * 1024,
			BlockSizeDeviation:        10,
			BlockRestartInterval:      16,
			IndexBlockRestartInterval: 1,
			Checksum:                  CRC32c,
			WholeKeyFiltering:         true,
			FormatVersion:             5,
		},
	}
	f.RegisterOptions(f, "BlockBasedTableOptions", &f.opts, blockBasedFields)
	return f
}

// Name implements Customizable.
func (f *BlockBasedTableFactory) Name() string { return "BlockBasedTable" }

// Options exposes the configured options.
func (f *BlockBasedTableFactory) Options() *BlockBasedTableOptions { return &f.opts }

// EncodingType selects the plain-table key encoding.
type EncodingType int

const (
	PlainEncoding EncodingType = iota
	PrefixEncoding
)

var encodingTypeTable = map[string]EncodingType{
	"kPlain":  PlainEncoding,
	"kPrefix": PrefixEncoding,
}

// PlainTableOptions configures the memory-mapped plain format.
type PlainTableOptions struct {
	UserKeyLen       uint32
	BloomBitsPerKey  int
	HashTableRatio   float64
	IndexSparseness  uint64
	Encoding         EncodingType
	FullScanMode     bool
	StoreIndexInFile bool
}

var plainTableFields = options.FieldMap{
	"user_key_len": options.UInt32(
		func(o *PlainTableOptions) *uint32 { return &o.UserKeyLen }),
	"bloom_bits_per_key": options.Int(
		func(o *PlainTableOptions) *int { return &o.BloomBitsPerKey }),
	"hash_table_ratio": options.Double(
		func(o *PlainTableOptions) *float64 { return &o.HashTableRatio }),
	"index_sparseness": options.SizeT(
		func(o *PlainTableOptions) *uint64 { return &o.IndexSparseness }),
	"encoding_type": options.Enum(encodingTypeTable,
		func(o *PlainTableOptions) *EncodingType { return &o.Encoding }),
	"full_scan_mode": options.Bool(
		func(o *PlainTableOptions) *bool { return &o.FullScanMode }),
	"store_index_in_file": options.Bool(
		func(o *PlainTableOptions) *bool { return &o.StoreIndexInFile }),
}

// PlainTableFactory builds plain tables.
type PlainTableFactory struct {
	options.BaseCustomizable
	opts PlainTableOptions
}

// NewPlainTableFactory returns a factory with default options.
func NewPlainTableFactory() *PlainTableFactory {
	f := &PlainTableFactory{
		opts: PlainTableOptions{
			BloomBitsPerKey: 10,
			HashTableRatio:  0.75,
			IndexSparseness: 16,
		},
	}
	f.RegisterOptions(f, "PlainTableOptions", &f.opts, plainTableFields)
	return f
}

// Name implements Customizable.
func (f *PlainTableFactory) Name() string { return "PlainTable" }

// Options exposes the configured options.
func (f *PlainTableFactory) Options() *PlainTableOptions { return &f.opts }

func init() {
	registry.MustRegister(FamilyName, "BlockBasedTable",
		func(string) (options.Customizable, error) {
			return NewBlockBasedTableFactory(), nil
		})
	registry.MustRegister(FamilyName, "PlainTable",
		func(string) (options.Customizable, error) {
			return NewPlainTableFactory(), nil
		})
}
