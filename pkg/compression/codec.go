// Package compression provides block compression codecs selectable at
// runtime by type id. Codecs are Customizable objects: a configuration
// string such as "{id=zstd; level=19}" resolves through the object registry
// and yields a ready-to-use codec.
//
// Speed (fastest to slowest): lz4 > snappy/s2 > zstd > gzip.
// Compression ratio (best to worst): zstd > gzip > snappy/s2 > lz4.
package compression

import (
	"bytes"
	"compress/gzip"
	"io"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
	"github.com/edouarda/rocksdb-cloud/pkg/options"
	"github.com/edouarda/rocksdb-cloud/pkg/registry"
)

// FamilyName is the registry family for codecs.
const FamilyName = "Codec"

// Codec compresses and decompresses byte blocks. Implementations are safe
// for concurrent use once prepared.
type Codec interface {
	options.Customizable

	// Compress returns the compressed form of data. data is not modified.
	Compress(data []byte) ([]byte, error)

	// Decompress returns the original form of data. data is not modified.
	Decompress(data []byte) ([]byte, error)
}

// NoneCodec passes data through untouched.
type NoneCodec struct {
	options.BaseCustomizable
}

func NewNoneCodec() *NoneCodec {
	c := &NoneCodec{}
	c.RegisterOptions(c, c.Name(), c, nil)
	return c
}

func (c *NoneCodec) Name() string { return "none" }

func (c *NoneCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (c *NoneCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

// ZstdCodec wraps klauspost zstd. EncodeAll/DecodeAll are concurrency safe,
// so a single encoder/decoder pair serves all callers.
type ZstdCodec struct {
	options.BaseCustomizable

	opts zstdOptions
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

type zstdOptions struct {
	Level       int
	Concurrency int
}

var zstdFields = options.FieldMap{
	"level": options.Int(func(o *zstdOptions) *int {
		return &o.Level
	}),
	"concurrency": options.Int(func(o *zstdOptions) *int {
		return &o.Concurrency
	}),
}

func NewZstdCodec() *ZstdCodec {
	c := &ZstdCodec{opts: zstdOptions{Level: 3}}
	c.RegisterOptions(c, c.Name(), &c.opts, zstdFields)
	return c
}

func (c *ZstdCodec) Name() string { return "zstd" }

// PrepareOptions builds the encoder and decoder for the configured level.
func (c *ZstdCodec) PrepareOptions(cfg *options.ConfigOptions) error {
	encOpts := []zstd.EOption{
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(c.opts.Level)),
	}
	var decOpts []zstd.DOption
	if c.opts.Concurrency > 0 {
		encOpts = append(encOpts, zstd.WithEncoderConcurrency(c.opts.Concurrency))
		decOpts = append(decOpts, zstd.WithDecoderConcurrency(c.opts.Concurrency))
	}
	enc, err := zstd.NewWriter(nil, encOpts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "building zstd encoder")
	}
	dec, err := zstd.NewReader(nil, decOpts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "building zstd decoder")
	}
	c.enc, c.dec = enc, dec
	return c.BaseCustomizable.PrepareOptions(cfg)
}

func (c *ZstdCodec) ensure() error {
	if c.enc == nil || c.dec == nil {
		return c.PrepareOptions(options.DefaultConfigOptions())
	}
	return nil
}

func (c *ZstdCodec) Compress(data []byte) ([]byte, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(data, nil), nil
}

func (c *ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	return c.dec.DecodeAll(data, nil)
}

// LZ4Codec wraps pierrec lz4 block framing.
type LZ4Codec struct {
	options.BaseCustomizable

	opts lz4Options
}

type lz4Options struct {
	Level int
}

var lz4Fields = options.FieldMap{
	"level": options.Int(func(o *lz4Options) *int {
		return &o.Level
	}),
}

func NewLZ4Codec() *LZ4Codec {
	c := &LZ4Codec{}
	c.RegisterOptions(c, c.Name(), &c.opts, lz4Fields)
	return c
}

func (c *LZ4Codec) Name() string { return "lz4" }

func (c *LZ4Codec) compressionLevel() lz4.CompressionLevel {
	switch {
	case c.opts.Level <= 0:
		return lz4.Fast
	case c.opts.Level >= 9:
		return lz4.Level9
	default:
		// Levels 1..9 are successive bit values starting at Level1.
		return lz4.CompressionLevel(1 << (8 + c.opts.Level))
	}
}

func (c *LZ4Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(c.compressionLevel())); err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *LZ4Codec) Decompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	r := lz4.NewReader(bytes.NewReader(data))
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GzipCodec wraps compress/gzip with pooled writers and readers.
type GzipCodec struct {
	options.BaseCustomizable

	opts       gzipOptions
	writerPool *sync.Pool
	readerPool *sync.Pool
}

type gzipOptions struct {
	Level int
}

var gzipFields = options.FieldMap{
	"level": options.Int(func(o *gzipOptions) *int {
		return &o.Level
	}),
}

func NewGzipCodec() *GzipCodec {
	c := &GzipCodec{opts: gzipOptions{Level: gzip.DefaultCompression}}
	c.RegisterOptions(c, c.Name(), &c.opts, gzipFields)
	c.readerPool = &sync.Pool{New: func() interface{} {
		return new(gzip.Reader)
	}}
	return c
}

func (c *GzipCodec) Name() string { return "gzip" }

// PrepareOptions rebuilds the writer pool for the configured level.
func (c *GzipCodec) PrepareOptions(cfg *options.ConfigOptions) error {
	level := c.opts.Level
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return errors.InvalidArgument("gzip level out of range", "level")
	}
	c.writerPool = &sync.Pool{New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, level)
		return w
	}}
	return c.BaseCustomizable.PrepareOptions(cfg)
}

func (c *GzipCodec) Compress(data []byte) ([]byte, error) {
	if c.writerPool == nil {
		if err := c.PrepareOptions(options.DefaultConfigOptions()); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	w := c.writerPool.Get().(*gzip.Writer)
	defer c.writerPool.Put(w)

	w.Reset(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *GzipCodec) Decompress(data []byte) ([]byte, error) {
	r := c.readerPool.Get().(*gzip.Reader)
	defer c.readerPool.Put(r)

	if err := r.Reset(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// S2Codec wraps klauspost s2, a snappy-compatible format with better ratios.
type S2Codec struct {
	options.BaseCustomizable
}

func NewS2Codec() *S2Codec {
	c := &S2Codec{}
	c.RegisterOptions(c, c.Name(), c, nil)
	return c
}

func (c *S2Codec) Name() string { return "s2" }

func (c *S2Codec) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (c *S2Codec) Decompress(data []byte) ([]byte, error) {
	return s2.Decode(nil, data)
}

// SnappyCodec wraps klauspost snappy.
type SnappyCodec struct {
	options.BaseCustomizable
}

func NewSnappyCodec() *SnappyCodec {
	c := &SnappyCodec{}
	c.RegisterOptions(c, c.Name(), c, nil)
	return c
}

func (c *SnappyCodec) Name() string { return "snappy" }

func (c *SnappyCodec) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (c *SnappyCodec) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

func init() {
	registry.MustRegister(FamilyName, "none",
		func(string) (options.Customizable, error) { return NewNoneCodec(), nil })
	registry.MustRegister(FamilyName, "zstd",
		func(string) (options.Customizable, error) { return NewZstdCodec(), nil })
	registry.MustRegister(FamilyName, "lz4",
		func(string) (options.Customizable, error) { return NewLZ4Codec(), nil })
	registry.MustRegister(FamilyName, "gzip",
		func(string) (options.Customizable, error) { return NewGzipCodec(), nil })
	registry.MustRegister(FamilyName, "s2",
		func(string) (options.Customizable, error) { return NewS2Codec(), nil })
	registry.MustRegister(FamilyName, "snappy",
		func(string) (options.Customizable, error) { return NewSnappyCodec(), nil })
}
