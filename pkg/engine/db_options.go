package engine

import (
	"github.com/edouarda/rocksdb-cloud/pkg/options"
)

// DBOptions configures behavior shared by all column families of a database.
type DBOptions struct {
	options.BaseConfigurable

	CreateIfMissing                  bool
	CreateMissingColumnFamilies      bool
	ErrorIfExists                    bool
	ParanoidChecks                   bool
	MaxOpenFiles                     int
	MaxFileOpeningThreads            int
	MaxTotalWALSize                  uint64
	UseFsync                         bool
	DBLogDir                         string
	WALDir                           string
	DeleteObsoleteFilesPeriodMicros  uint64
	MaxBackgroundJobs                int
	MaxBackgroundCompactions         int
	MaxBackgroundFlushes             int
	MaxLogFileSize                   uint64
	LogFileTimeToRoll                uint64
	KeepLogFileNum                   uint64
	RecycleLogFileNum                uint64
	MaxManifestFileSize              uint64
	TableCacheNumshardbits           int
	WALTTLSeconds                    uint64
	WALSizeLimitMB                   uint64
	ManifestPreallocationSize        uint64
	AllowMmapReads                   bool
	AllowMmapWrites                  bool
	UseDirectReads                   bool
	UseDirectIOForFlushAndCompaction bool
	IsFdCloseOnExec                  bool
	StatsDumpPeriodSec               uint
	AdviseRandomOnOpen               bool
	DBWriteBufferSize                uint64
	CompactionReadaheadSize          uint64
	WritableFileMaxBufferSize        uint64
	UseAdaptiveMutex                 bool
	BytesPerSync                     uint64
	WALBytesPerSync                  uint64
	EnablePipelinedWrite             bool
	UnorderedWrite                   bool
	AllowConcurrentMemtableWrite     bool
	EnableWriteThreadAdaptiveYield   bool
	MaxSubcompactions                uint32
	WALRecoveryMode                  WALRecoveryMode
	AllowIngestBehind                bool
	TwoWriteQueues                   bool
	ManualWALFlush                   bool
	AtomicFlush                      bool
	AvoidUnnecessaryBlockingIO       bool
}

var dbFields = options.FieldMap{
	"create_if_missing": options.Bool(func(o *DBOptions) *bool {
		return &o.CreateIfMissing
	}),
	"create_missing_column_families": options.Bool(func(o *DBOptions) *bool {
		return &o.CreateMissingColumnFamilies
	}),
	"error_if_exists": options.Bool(func(o *DBOptions) *bool {
		return &o.ErrorIfExists
	}),
	"paranoid_checks": options.Bool(func(o *DBOptions) *bool {
		return &o.ParanoidChecks
	}),
	"max_open_files": options.Int(func(o *DBOptions) *int {
		return &o.MaxOpenFiles
	}).WithFlags(options.FlagMutable),
	"max_file_opening_threads": options.Int(func(o *DBOptions) *int {
		return &o.MaxFileOpeningThreads
	}),
	"max_total_wal_size": options.UInt64(func(o *DBOptions) *uint64 {
		return &o.MaxTotalWALSize
	}).WithFlags(options.FlagMutable),
	"use_fsync": options.Bool(func(o *DBOptions) *bool {
		return &o.UseFsync
	}),
	"db_log_dir": options.String(func(o *DBOptions) *string {
		return &o.DBLogDir
	}),
	"wal_dir": options.String(func(o *DBOptions) *string {
		return &o.WALDir
	}),
	"delete_obsolete_files_period_micros": options.UInt64(func(o *DBOptions) *uint64 {
		return &o.DeleteObsoleteFilesPeriodMicros
	}).WithFlags(options.FlagMutable),
	"max_background_jobs": options.Int(func(o *DBOptions) *int {
		return &o.MaxBackgroundJobs
	}).WithFlags(options.FlagMutable),
	"max_background_compactions": options.Int(func(o *DBOptions) *int {
		return &o.MaxBackgroundCompactions
	}).WithFlags(options.FlagMutable),
	"max_background_flushes": options.Int(func(o *DBOptions) *int {
		return &o.MaxBackgroundFlushes
	}).WithFlags(options.FlagMutable),
	"max_log_file_size": options.SizeT(func(o *DBOptions) *uint64 {
		return &o.MaxLogFileSize
	}),
	"log_file_time_to_roll": options.SizeT(func(o *DBOptions) *uint64 {
		return &o.LogFileTimeToRoll
	}),
	"keep_log_file_num": options.SizeT(func(o *DBOptions) *uint64 {
		return &o.KeepLogFileNum
	}),
	"recycle_log_file_num": options.SizeT(func(o *DBOptions) *uint64 {
		return &o.RecycleLogFileNum
	}),
	"max_manifest_file_size": options.UInt64(func(o *DBOptions) *uint64 {
		return &o.MaxManifestFileSize
	}),
	"table_cache_numshardbits": options.Int(func(o *DBOptions) *int {
		return &o.TableCacheNumshardbits
	}),
	"WAL_ttl_seconds": options.UInt64(func(o *DBOptions) *uint64 {
		return &o.WALTTLSeconds
	}).WithFlags(options.FlagMutable),
	"WAL_size_limit_MB": options.UInt64(func(o *DBOptions) *uint64 {
		return &o.WALSizeLimitMB
	}).WithFlags(options.FlagMutable),
	"manifest_preallocation_size": options.SizeT(func(o *DBOptions) *uint64 {
		return &o.ManifestPreallocationSize
	}),
	"allow_mmap_reads": options.Bool(func(o *DBOptions) *bool {
		return &o.AllowMmapReads
	}),
	"allow_mmap_writes": options.Bool(func(o *DBOptions) *bool {
		return &o.AllowMmapWrites
	}),
	"use_direct_reads": options.Bool(func(o *DBOptions) *bool {
		return &o.UseDirectReads
	}),
	"use_direct_io_for_flush_and_compaction": options.Bool(func(o *DBOptions) *bool {
		return &o.UseDirectIOForFlushAndCompaction
	}),
	"is_fd_close_on_exec": options.Bool(func(o *DBOptions) *bool {
		return &o.IsFdCloseOnExec
	}),
	"stats_dump_period_sec": options.UInt(func(o *DBOptions) *uint {
		return &o.StatsDumpPeriodSec
	}).WithFlags(options.FlagMutable),
	"advise_random_on_open": options.Bool(func(o *DBOptions) *bool {
		return &o.AdviseRandomOnOpen
	}),
	"db_write_buffer_size": options.SizeT(func(o *DBOptions) *uint64 {
		return &o.DBWriteBufferSize
	}),
	"compaction_readahead_size": options.SizeT(func(o *DBOptions) *uint64 {
		return &o.CompactionReadaheadSize
	}).WithFlags(options.FlagMutable),
	"writable_file_max_buffer_size": options.SizeT(func(o *DBOptions) *uint64 {
		return &o.WritableFileMaxBufferSize
	}).WithFlags(options.FlagMutable),
	"use_adaptive_mutex": options.Bool(func(o *DBOptions) *bool {
		return &o.UseAdaptiveMutex
	}),
	"bytes_per_sync": options.UInt64(func(o *DBOptions) *uint64 {
		return &o.BytesPerSync
	}).WithFlags(options.FlagMutable),
	"wal_bytes_per_sync": options.UInt64(func(o *DBOptions) *uint64 {
		return &o.WALBytesPerSync
	}).WithFlags(options.FlagMutable),
	"enable_pipelined_write": options.Bool(func(o *DBOptions) *bool {
		return &o.EnablePipelinedWrite
	}),
	"unordered_write": options.Bool(func(o *DBOptions) *bool {
		return &o.UnorderedWrite
	}),
	"allow_concurrent_memtable_write": options.Bool(func(o *DBOptions) *bool {
		return &o.AllowConcurrentMemtableWrite
	}),
	"enable_write_thread_adaptive_yield": options.Bool(func(o *DBOptions) *bool {
		return &o.EnableWriteThreadAdaptiveYield
	}),
	"max_subcompactions": options.UInt32(func(o *DBOptions) *uint32 {
		return &o.MaxSubcompactions
	}).WithFlags(options.FlagMutable),
	"wal_recovery_mode": options.Enum(WALRecoveryModeTable,
		func(o *DBOptions) *WALRecoveryMode {
			return &o.WALRecoveryMode
		}),
	"allow_ingest_behind": options.Bool(func(o *DBOptions) *bool {
		return &o.AllowIngestBehind
	}),
	"two_write_queues": options.Bool(func(o *DBOptions) *bool {
		return &o.TwoWriteQueues
	}),
	"manual_wal_flush": options.Bool(func(o *DBOptions) *bool {
		return &o.ManualWALFlush
	}),
	"atomic_flush": options.Bool(func(o *DBOptions) *bool {
		return &o.AtomicFlush
	}),
	"avoid_unnecessary_blocking_io": options.Bool(func(o *DBOptions) *bool {
		return &o.AvoidUnnecessaryBlockingIO
	}),

	// Removed options kept parseable.
	"skip_log_error_on_recovery":  options.Deprecated(),
	"base_background_compactions": options.Deprecated(),
	"db_paths":                    options.Deprecated(),
}

// NewDBOptions returns database options with the stock defaults.
func NewDBOptions() *DBOptions {
	db := &DBOptions{
		ParanoidChecks:                  true,
		MaxOpenFiles:                    -1,
		MaxFileOpeningThreads:           16,
		DeleteObsoleteFilesPeriodMicros: 6 * 60 * 60 * 1000000,
		MaxBackgroundJobs:               2,
		MaxBackgroundCompactions:        -1,
		MaxBackgroundFlushes:            -1,
		MaxLogFileSize:                  0,
		KeepLogFileNum:                  1000,
		MaxManifestFileSize:             1 << 30,
		TableCacheNumshardbits:          6,
		ManifestPreallocationSize:       4 << 20,
		IsFdCloseOnExec:                 true,
		StatsDumpPeriodSec:              600,
		AdviseRandomOnOpen:              true,
		WritableFileMaxBufferSize:       1 << 20,
		AllowConcurrentMemtableWrite:    true,
		EnableWriteThreadAdaptiveYield:  true,
		MaxSubcompactions:               1,
		WALRecoveryMode:                 PointInTimeRecovery,
	}
	db.RegisterOptions(db, "DBOptions", db, dbFields)
	return db
}
