// Package cloud configures storage-backed environments: bucket addressing,
// the storage provider talking to the object store, and the codec applied to
// transferred objects.
package cloud

import (
	"github.com/edouarda/rocksdb-cloud/pkg/compression"
	"github.com/edouarda/rocksdb-cloud/pkg/errors"
	"github.com/edouarda/rocksdb-cloud/pkg/options"
)

// BucketOptions addresses one cloud bucket. Object names are composed as
// Prefix + Bucket for the bucket itself and ObjectPath inside it.
type BucketOptions struct {
	Bucket     string
	ObjectPath string
	Prefix     string
	Region     string
}

// IsValid reports whether the bucket is usable as a source or destination.
func (b *BucketOptions) IsValid() bool {
	return b.Bucket != ""
}

var bucketFields = options.FieldMap{
	"bucket": options.String(func(o *BucketOptions) *string {
		return &o.Bucket
	}),
	"object": options.String(func(o *BucketOptions) *string {
		return &o.ObjectPath
	}),
	"prefix": options.String(func(o *BucketOptions) *string {
		return &o.Prefix
	}),
	"region": options.String(func(o *BucketOptions) *string {
		return &o.Region
	}),
}

func bucketField(structName string,
	access func(*CloudEnvOptions) *BucketOptions) options.OptionTypeInfo {
	return options.Struct(structName, bucketFields, access)
}

// CloudEnvOptions configures a cloud-backed environment: the source and
// destination buckets, the provider used to reach them, and local caching
// behavior.
type CloudEnvOptions struct {
	options.BaseConfigurable

	SrcBucket  BucketOptions
	DestBucket BucketOptions

	Provider    StorageProvider
	ObjectCodec compression.Codec

	KeepLocalSSTFiles     bool
	KeepLocalLogFiles     bool
	CreateBucketIfMissing bool
	ServerSideEncryption  bool
	RequestTimeoutMS      uint64
}

var cloudEnvFields = options.FieldMap{
	"bucket.source": bucketField("bucket.source",
		func(o *CloudEnvOptions) *BucketOptions {
			return &o.SrcBucket
		}),
	"bucket.dest": bucketField("bucket.dest",
		func(o *CloudEnvOptions) *BucketOptions {
			return &o.DestBucket
		}),
	"storage_provider": options.CustomizableOption[CloudEnvOptions, StorageProvider](
		ProviderFamilyName, options.VerifyByName, 0,
		func(o *CloudEnvOptions) *StorageProvider {
			return &o.Provider
		}, nil),
	"object_codec": options.CustomizableOption[CloudEnvOptions, compression.Codec](
		compression.FamilyName, options.VerifyByNameAllowNull, options.FlagAllowNull,
		func(o *CloudEnvOptions) *compression.Codec {
			return &o.ObjectCodec
		}, nil),
	"keep_local_sst_files": options.Bool(func(o *CloudEnvOptions) *bool {
		return &o.KeepLocalSSTFiles
	}),
	"keep_local_log_files": options.Bool(func(o *CloudEnvOptions) *bool {
		return &o.KeepLocalLogFiles
	}),
	"create_bucket_if_missing": options.Bool(func(o *CloudEnvOptions) *bool {
		return &o.CreateBucketIfMissing
	}),
	"server_side_encryption": options.Bool(func(o *CloudEnvOptions) *bool {
		return &o.ServerSideEncryption
	}),
	"request_timeout_ms": options.UInt64(func(o *CloudEnvOptions) *uint64 {
		return &o.RequestTimeoutMS
	}).WithFlags(options.FlagMutable),
}

// NewCloudEnvOptions returns cloud environment options with the stock
// defaults. No provider is attached until one is configured.
func NewCloudEnvOptions() *CloudEnvOptions {
	env := &CloudEnvOptions{
		KeepLocalSSTFiles:     false,
		KeepLocalLogFiles:     true,
		CreateBucketIfMissing: true,
		RequestTimeoutMS:      600000,
	}
	env.RegisterOptions(env, "CloudEnvOptions", env, cloudEnvFields)
	return env
}

// ValidateOptions additionally requires a provider when any bucket is set.
func (o *CloudEnvOptions) ValidateOptions(cfg *options.ConfigOptions) error {
	if (o.SrcBucket.IsValid() || o.DestBucket.IsValid()) && o.Provider == nil {
		return errors.InvalidArgument("bucket configured without a storage provider",
			"storage_provider")
	}
	return o.BaseConfigurable.ValidateOptions(cfg)
}
