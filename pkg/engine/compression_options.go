package engine

import (
	"strconv"
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
	"github.com/edouarda/rocksdb-cloud/pkg/options"
)

// CompressionOptions tunes the compression algorithm selected for a column
// family. Zero values defer to the algorithm defaults.
type CompressionOptions struct {
	WindowBits        int
	Level             int
	Strategy          int
	MaxDictBytes      uint32
	ZstdMaxTrainBytes uint32
	ParallelThreads   uint32
	Enabled           bool
}

// DefaultCompressionLevel leaves the per-algorithm default in place.
const DefaultCompressionLevel = 32767

func defaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		WindowBits:      -14,
		Level:           DefaultCompressionLevel,
		ParallelThreads: 1,
	}
}

var compressionOptionsFields = options.FieldMap{
	"window_bits": options.Int(func(o *CompressionOptions) *int {
		return &o.WindowBits
	}).WithFlags(options.FlagMutable),
	"level": options.Int(func(o *CompressionOptions) *int {
		return &o.Level
	}).WithFlags(options.FlagMutable),
	"strategy": options.Int(func(o *CompressionOptions) *int {
		return &o.Strategy
	}).WithFlags(options.FlagMutable),
	"max_dict_bytes": options.UInt32(func(o *CompressionOptions) *uint32 {
		return &o.MaxDictBytes
	}).WithFlags(options.FlagMutable),
	"zstd_max_train_bytes": options.UInt32(func(o *CompressionOptions) *uint32 {
		return &o.ZstdMaxTrainBytes
	}).WithFlags(options.FlagMutable),
	"parallel_threads": options.UInt32(func(o *CompressionOptions) *uint32 {
		return &o.ParallelThreads
	}).WithFlags(options.FlagMutable),
	"enabled": options.Bool(func(o *CompressionOptions) *bool {
		return &o.Enabled
	}).WithFlags(options.FlagMutable),
}

// compressionOptionsField builds the descriptor for a CompressionOptions
// field. Besides the usual name=value struct form it accepts the legacy
// positional form window_bits:level:strategy:max_dict_bytes with up to three
// optional trailing fields.
func compressionOptionsField[O any](structName string,
	access func(*O) *CompressionOptions) options.OptionTypeInfo {
	info := options.Struct(structName, compressionOptionsFields, access)
	return info.WithParse(func(name, value string, cfg *options.ConfigOptions,
		target any) error {
		owner, ok := target.(*O)
		if !ok {
			return errors.InvalidArgument("unexpected option target", name)
		}
		opts := access(owner)
		// The positional form only ever assigns the whole struct. Member
		// assignments such as "compression_opts.level=3" arrive with the
		// member name and go through the struct engine.
		if name == structName && !strings.Contains(value, "=") {
			return parseCompressionColonForm(name, value, opts)
		}
		return options.ParseStruct(structName, compressionOptionsFields,
			name, value, cfg, opts)
	})
}

func parseCompressionColonForm(name, value string, opts *CompressionOptions) error {
	fields := strings.Split(value, ":")
	if len(fields) < 4 || len(fields) > 7 {
		return errors.InvalidArgument(
			"compression options require 4 to 7 colon-separated fields", name)
	}
	parsed := *opts
	ints := []*int{&parsed.WindowBits, &parsed.Level, &parsed.Strategy}
	for i, dst := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return errors.InvalidArgument("invalid compression option value", name)
		}
		*dst = v
	}
	uints := []*uint32{&parsed.MaxDictBytes, &parsed.ZstdMaxTrainBytes,
		&parsed.ParallelThreads}
	for i, dst := range uints {
		if 3+i >= len(fields) {
			break
		}
		v, err := strconv.ParseUint(strings.TrimSpace(fields[3+i]), 10, 32)
		if err != nil {
			return errors.InvalidArgument("invalid compression option value", name)
		}
		*dst = uint32(v)
	}
	if len(fields) == 7 {
		v, err := strconv.ParseBool(strings.TrimSpace(fields[6]))
		if err != nil {
			return errors.InvalidArgument("invalid compression option value", name)
		}
		parsed.Enabled = v
	}
	*opts = parsed
	return nil
}
