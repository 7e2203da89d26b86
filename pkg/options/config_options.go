package options

import (
	"sort"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
)

// NullptrString is the textual form of an absent object.
const NullptrString = "nullptr"

// ObjectFactory creates customizable objects by family and type id. The
// registry package provides the standard implementation; the indirection
// keeps this package free of a dependency on it.
type ObjectFactory interface {
	// NewObject returns a fresh, unconfigured object of the given family
	// whose id matches id. A not-supported error means the id is unknown.
	NewObject(objType, id string) (Customizable, error)
}

// ConfigOptions carries the per-session settings for one parse, serialize,
// or compare operation. The zero value is not useful; use
// DefaultConfigOptions.
type ConfigOptions struct {
	// IgnoreUnknownOptions makes the parser skip unrecognized field names
	// instead of failing.
	IgnoreUnknownOptions bool

	// IgnoreUnknownObjects makes the parser tolerate a type id the registry
	// does not know, leaving the field unchanged.
	IgnoreUnknownObjects bool

	// InputStringsEscaped marks incoming string values as escaped with
	// EscapeOptionString; the parser unescapes them. Serialization always
	// escapes, so this must be on for serialized output to parse back.
	InputStringsEscaped bool

	// InvokePrepareOptions runs preparation on an object after it has been
	// configured.
	InvokePrepareOptions bool

	// MutableOptionsOnly restricts parsing and comparison to fields marked
	// mutable.
	MutableOptionsOnly bool

	// SanityLevel selects which fields comparison examines.
	SanityLevel SanityLevel

	// Delimiter separates key=value pairs in serialized output.
	Delimiter string

	// Depth tracks serialization nesting; it selects the shallow form for
	// embedded objects.
	Depth int

	// Registry resolves type ids to object factories.
	Registry ObjectFactory
}

// DefaultConfigOptions returns the settings used when none are supplied:
// strict parsing, exact comparison, preparation on.
func DefaultConfigOptions() *ConfigOptions {
	return &ConfigOptions{
		InputStringsEscaped:  true,
		InvokePrepareOptions: true,
		SanityLevel:          SanityLevelExactMatch,
		Delimiter:            "; ",
	}
}

// Embedded returns a copy of cfg for serializing a nested object: one level
// deeper, compact delimiter, preparation off.
func (c *ConfigOptions) Embedded() *ConfigOptions {
	embedded := *c
	embedded.Delimiter = ";"
	embedded.Depth = c.Depth + 1
	embedded.InvokePrepareOptions = false
	return &embedded
}

// Shallow returns a copy of cfg that serializes objects by id only.
func (c *ConfigOptions) Shallow() *ConfigOptions {
	shallow := *c
	shallow.Depth = depthShallow
	return &shallow
}

const depthShallow = -1

// IsShallow reports whether object serialization should emit only the id.
func (c *ConfigOptions) IsShallow() bool { return c.Depth == depthShallow }

// IsCheckDisabled reports whether comparison is off entirely.
func (c *ConfigOptions) IsCheckDisabled() bool { return c.SanityLevel == SanityLevelNone }

// IsCheckEnabled reports whether fields at the given level participate in
// comparison under this session. Level-None fields never do.
func (c *ConfigOptions) IsCheckEnabled(level SanityLevel) bool {
	return level > SanityLevelNone && level <= c.SanityLevel
}

func notFoundForField(name string) error {
	return errors.NotFound("could not find option", name)
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m FieldMap) sortedNames() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
