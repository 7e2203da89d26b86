package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
	"github.com/edouarda/rocksdb-cloud/pkg/options"
)

type fakeObject struct {
	options.BaseCustomizable
	name string
}

func newFakeObject(name string) *fakeObject {
	o := &fakeObject{name: name}
	o.RegisterOptions(o, "fake", &struct{}{}, options.FieldMap{})
	return o
}

func (o *fakeObject) Name() string { return o.name }

func fakeFactory(id string) (options.Customizable, error) {
	return newFakeObject(id), nil
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Codec", "zstd", fakeFactory))

	object, err := r.NewObject("Codec", "zstd")
	require.NoError(t, err)
	assert.Equal(t, "zstd", object.GetId())
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Codec", "zstd", fakeFactory))
	assert.Error(t, r.Register("Codec", "zstd", fakeFactory))
}

func TestRegistry_UnknownIdIsNotSupported(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Codec", "zstd", fakeFactory))

	_, err := r.NewObject("Codec", "brotli")
	assert.True(t, errors.IsNotSupported(err))

	_, err = r.NewObject("Other", "zstd")
	assert.True(t, errors.IsNotSupported(err))
}

func TestRegistry_ExactMatchOnly(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Codec", "zstd", fakeFactory))

	_, err := r.NewObject("Codec", "ZSTD")
	assert.Error(t, err)
}

func TestRegistry_ListAndHas(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Codec", "zstd", fakeFactory))
	require.NoError(t, r.Register("Codec", "snappy", fakeFactory))
	require.NoError(t, r.Register("Table", "plain", fakeFactory))

	assert.Equal(t, []string{"snappy", "zstd"}, r.List("Codec"))
	assert.Equal(t, []string{"Codec", "Table"}, r.Types())
	assert.True(t, r.Has("Table", "plain"))
	assert.False(t, r.Has("Table", "block"))
}

func TestRegistry_AsObjectFactory(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Codec", "zstd", fakeFactory))

	// The registry plugs into a configuration session directly.
	cfg := options.DefaultConfigOptions()
	cfg.Registry = r

	object, err := cfg.Registry.NewObject("Codec", "zstd")
	require.NoError(t, err)
	assert.Equal(t, "zstd", object.GetId())
}
