package options

import (
	"strconv"
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
)

// SliceTransform extracts a prefix from a key. Instances are identified by
// name; the built-in forms encode their length in the name.
type SliceTransform interface {
	// Name identifies the transform, including any parameters.
	Name() string

	// Transform returns the prefix of key.
	Transform(key []byte) []byte

	// InDomain reports whether key is long enough to have a prefix.
	InDomain(key []byte) bool
}

const (
	fixedPrefixName   = "rocksdb.FixedPrefix"
	cappedPrefixName  = "rocksdb.CappedPrefix"
	noopTransformName = "rocksdb.Noop"
)

type fixedPrefixTransform struct {
	length int
	name   string
}

// NewFixedPrefixTransform returns a transform whose prefix is exactly the
// first length bytes. Shorter keys are out of domain.
func NewFixedPrefixTransform(length int) SliceTransform {
	return &fixedPrefixTransform{
		length: length,
		name:   fixedPrefixName + "." + strconv.Itoa(length),
	}
}

func (t *fixedPrefixTransform) Name() string { return t.name }

func (t *fixedPrefixTransform) Transform(key []byte) []byte { return key[:t.length] }

func (t *fixedPrefixTransform) InDomain(key []byte) bool { return len(key) >= t.length }

type cappedPrefixTransform struct {
	length int
	name   string
}

// NewCappedPrefixTransform returns a transform whose prefix is at most the
// first length bytes, shorter keys passing through whole.
func NewCappedPrefixTransform(length int) SliceTransform {
	return &cappedPrefixTransform{
		length: length,
		name:   cappedPrefixName + "." + strconv.Itoa(length),
	}
}

func (t *cappedPrefixTransform) Name() string { return t.name }

func (t *cappedPrefixTransform) Transform(key []byte) []byte {
	if len(key) <= t.length {
		return key
	}
	return key[:t.length]
}

func (t *cappedPrefixTransform) InDomain([]byte) bool { return true }

type noopTransform struct{}

// NewNoopTransform returns the identity transform.
func NewNoopTransform() SliceTransform { return noopTransform{} }

func (noopTransform) Name() string { return noopTransformName }

func (noopTransform) Transform(key []byte) []byte { return key }

func (noopTransform) InDomain([]byte) bool { return true }

// PrefixExtractor describes a SliceTransform field. Its textual forms are
// "fixed:N" and "capped:N", the corresponding full names, the no-op name,
// and the null sentinel. Two transforms of the same name serialize alike, so
// the field is compared by name.
func PrefixExtractor[O any](access func(*O) *SliceTransform) OptionTypeInfo {
	return OptionTypeInfo{
		typ:          TypeSliceTransform,
		verification: VerifyByNameAllowNull,
		access:       wrapAccess(access),
	}
}

func parseSliceTransformOption(o *OptionTypeInfo, name, value string, addr any) error {
	result, ok := addr.(*SliceTransform)
	if !ok {
		return notFoundForField(name)
	}
	value = strings.TrimSpace(value)
	if value == NullptrString || value == "" {
		if value == NullptrString && !o.CanBeNull() {
			return errors.InvalidArgument("option cannot be null", name)
		}
		*result = nil
		return nil
	}
	if value == noopTransformName {
		*result = NewNoopTransform()
		return nil
	}
	for _, form := range []struct {
		prefix string
		create func(int) SliceTransform
	}{
		{"fixed:", NewFixedPrefixTransform},
		{fixedPrefixName + ".", NewFixedPrefixTransform},
		{"capped:", NewCappedPrefixTransform},
		{cappedPrefixName + ".", NewCappedPrefixTransform},
	} {
		if strings.HasPrefix(value, form.prefix) {
			length, err := strconv.Atoi(strings.TrimSpace(value[len(form.prefix):]))
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeInvalidArgument,
					"invalid prefix length").WithOption(name)
			}
			*result = form.create(length)
			return nil
		}
	}
	return errors.InvalidArgument("unknown prefix extractor", name)
}

func serializeSliceTransform(addr any, name string) (string, error) {
	result, ok := addr.(*SliceTransform)
	if !ok {
		return "", notFoundForField(name)
	}
	if *result == nil {
		return NullptrString, nil
	}
	return (*result).Name(), nil
}
