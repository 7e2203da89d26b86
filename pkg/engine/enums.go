package engine

// CompressionType selects the block compression algorithm.
type CompressionType int

const (
	NoCompression CompressionType = iota
	SnappyCompression
	ZlibCompression
	BZip2Compression
	LZ4Compression
	LZ4HCCompression
	XpressCompression
	ZSTDCompression
	// DisableCompressionOption marks "not set" in per-level overrides.
	DisableCompressionOption CompressionType = -1
)

// CompressionTypeTable maps configuration names to compression types. The
// names follow the historical k-prefixed spelling so old option strings stay
// readable.
var CompressionTypeTable = map[string]CompressionType{
	"kNoCompression":            NoCompression,
	"kSnappyCompression":        SnappyCompression,
	"kZlibCompression":          ZlibCompression,
	"kBZip2Compression":         BZip2Compression,
	"kLZ4Compression":           LZ4Compression,
	"kLZ4HCCompression":         LZ4HCCompression,
	"kXpressCompression":        XpressCompression,
	"kZSTD":                     ZSTDCompression,
	"kDisableCompressionOption": DisableCompressionOption,
}

// CompactionStyle selects how files are picked for compaction.
type CompactionStyle int

const (
	CompactionStyleLevel CompactionStyle = iota
	CompactionStyleUniversal
	CompactionStyleFIFO
	CompactionStyleNone
)

var CompactionStyleTable = map[string]CompactionStyle{
	"kCompactionStyleLevel":     CompactionStyleLevel,
	"kCompactionStyleUniversal": CompactionStyleUniversal,
	"kCompactionStyleFIFO":      CompactionStyleFIFO,
	"kCompactionStyleNone":      CompactionStyleNone,
}

// CompactionPri orders files within a level compaction.
type CompactionPri int

const (
	ByCompensatedSize CompactionPri = iota
	OldestLargestSeqFirst
	OldestSmallestSeqFirst
	MinOverlappingRatio
	RoundRobin
)

var CompactionPriTable = map[string]CompactionPri{
	"kByCompensatedSize":      ByCompensatedSize,
	"kOldestLargestSeqFirst":  OldestLargestSeqFirst,
	"kOldestSmallestSeqFirst": OldestSmallestSeqFirst,
	"kMinOverlappingRatio":    MinOverlappingRatio,
	"kRoundRobin":             RoundRobin,
}

// WALRecoveryMode controls how corrupted log tails are handled on open.
type WALRecoveryMode int

const (
	TolerateCorruptedTailRecords WALRecoveryMode = iota
	AbsoluteConsistency
	PointInTimeRecovery
	SkipAnyCorruptedRecords
)

var WALRecoveryModeTable = map[string]WALRecoveryMode{
	"kTolerateCorruptedTailRecords": TolerateCorruptedTailRecords,
	"kAbsoluteConsistency":          AbsoluteConsistency,
	"kPointInTimeRecovery":          PointInTimeRecovery,
	"kSkipAnyCorruptedRecords":      SkipAnyCorruptedRecords,
}
