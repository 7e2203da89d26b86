package options

import (
	"sort"
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
)

// OptionType identifies the value kind a descriptor handles. Scalar kinds are
// converted by the built-in parser and serializer; composite kinds recurse.
type OptionType int

const (
	TypeUnknown OptionType = iota
	TypeBoolean
	TypeInt
	TypeInt32
	TypeInt64
	TypeUInt
	TypeUInt32
	TypeUInt64
	TypeSizeT
	TypeDouble
	TypeString
	TypeEnum
	TypeStruct
	TypeVector
	TypeConfigurable
	TypeCustomizable
	TypeSliceTransform
)

// VerificationType controls how the comparator treats a field.
type VerificationType int

const (
	// VerifyNormal compares values through the field's equality rule.
	VerifyNormal VerificationType = iota
	// VerifyByName falls back to comparing serialized text when the values
	// do not compare equal directly.
	VerifyByName
	// VerifyByNameAllowNull is VerifyByName, additionally treating the pair
	// as equal when either side serializes to the null sentinel.
	VerifyByNameAllowNull
	// VerifyByNameAllowFromNull is VerifyByName, additionally treating the
	// pair as equal when the reference side serializes to the null sentinel.
	VerifyByNameAllowFromNull
	// VerifyDeprecated marks a field that parses as a silent no-op and is
	// never serialized or compared.
	VerifyDeprecated
	// VerifyAlias marks an alternate spelling of another field. It parses
	// like the field it shadows but is never serialized or compared.
	VerifyAlias
)

// SanityLevel orders comparison strictness. A field participates in a
// comparison when its own level is at or above the session's level.
type SanityLevel uint32

const (
	// SanityLevelNone fields are never checked.
	SanityLevelNone SanityLevel = 0x01
	// SanityLevelLooselyCompatible fields are checked in loose and exact
	// sessions.
	SanityLevelLooselyCompatible SanityLevel = 0x02
	// SanityLevelExactMatch fields are checked only in exact sessions.
	SanityLevelExactMatch SanityLevel = 0xFF
)

// OptionTypeFlags carries per-field behavior bits. The low byte doubles as
// the field's SanityLevel; a zero low byte means exact.
type OptionTypeFlags uint32

const (
	FlagNone OptionTypeFlags = 0x00

	// FlagCompareNever excludes the field from comparison.
	FlagCompareNever = OptionTypeFlags(SanityLevelNone)
	// FlagCompareLoose includes the field in loose comparisons.
	FlagCompareLoose = OptionTypeFlags(SanityLevelLooselyCompatible)
	// FlagCompareExact includes the field only in exact comparisons.
	FlagCompareExact = OptionTypeFlags(SanityLevelExactMatch)

	// FlagMutable marks the field as changeable on a live object.
	FlagMutable OptionTypeFlags = 0x0100
	// FlagAllowNull lets the parser accept the null sentinel for the field.
	FlagAllowNull OptionTypeFlags = 0x1000
	// FlagDontSerialize excludes the field from serialization.
	FlagDontSerialize OptionTypeFlags = 0x2000
	// FlagStringShallow serializes a nested object by its id only.
	FlagStringShallow OptionTypeFlags = 0x4000
	// FlagDontPrepare skips automatic preparation of a nested object after
	// it is parsed.
	FlagDontPrepare OptionTypeFlags = 0x8000
)

// Ownership states how an object-valued field relates to the object it
// refers to. It replaces flag bits with an explicit enumeration so the
// intent is visible at the registration site.
type Ownership int

const (
	// OwnershipInline values are embedded in the parent.
	OwnershipInline Ownership = iota
	// OwnershipBorrowed fields reference an object owned elsewhere.
	OwnershipBorrowed
	// OwnershipShared fields share the referenced object with other owners.
	OwnershipShared
	// OwnershipExclusive fields solely own the referenced object.
	OwnershipExclusive
)

// AccessFunc resolves a field address within a target structure. It returns
// nil when the target has the wrong type or the field is unreachable; the
// engines turn that into a not-found error.
type AccessFunc func(target any) any

// ParseFunc overrides parsing for a field. target is the owning structure.
type ParseFunc func(name, value string, cfg *ConfigOptions, target any) error

// SerializeFunc overrides serialization for a field.
type SerializeFunc func(name string, target any, cfg *ConfigOptions) (string, error)

// EqualsFunc overrides equality for a field. On mismatch it returns false
// and the name of the offending option.
type EqualsFunc func(name string, this, that any, cfg *ConfigOptions) (bool, string)

// OptionTypeInfo describes one named field of a configurable structure: its
// kind, how strictly it is compared, its behavior flags, and the closures
// that access and optionally parse, serialize, or compare it.
type OptionTypeInfo struct {
	typ          OptionType
	verification VerificationType
	flags        OptionTypeFlags
	ownership    Ownership

	access    AccessFunc
	parse     ParseFunc
	serialize SerializeFunc
	equals    EqualsFunc

	// asConfig projects an object-valued field to its Configurable
	// interface, for recursion by the engines.
	asConfig func(target any) Configurable

	// enum table projections, set for TypeEnum fields.
	enumSerialize func(addr any) (string, bool)
	enumEquals    func(this, that any) bool

	// struct recursion, set for TypeStruct fields.
	structName   string
	structFields FieldMap
}

// FieldMap is the descriptor table for one structure shape, keyed by field
// name. Tables are built once at registration and never mutated afterwards.
type FieldMap map[string]OptionTypeInfo

// Find resolves name against the table, handling the dotted forms a nested
// field produces. It returns the matched descriptor, the element name to
// pass down when recursing, and whether a match was found.
//
// Resolution order: exact match; then for a dotted name, a prefix match on
// the portion before the first dot when the matched field can consume the
// remainder (structs always can, objects can when the remainder names one of
// their options); finally, for struct fields, a match of the name inside the
// struct's own table.
func (m FieldMap) Find(name string) (OptionTypeInfo, string, bool) {
	if info, ok := m[name]; ok {
		return info, name, true
	}
	if strings.IndexByte(name, '.') > 0 {
		// The longest field key that is a dotted prefix of name wins. Keys
		// may themselves contain dots ("bucket.source").
		best := ""
		for _, key := range m.sortedNames() {
			if len(key) <= len(best) || !strings.HasPrefix(name, key+".") {
				continue
			}
			info := m[key]
			if info.IsStruct() || info.typ == TypeConfigurable ||
				info.typ == TypeCustomizable {
				best = key
			}
		}
		if best != "" {
			return m[best], name[len(best)+1:], true
		}
	}
	for _, field := range m.sortedNames() {
		if info := m[field]; info.IsStruct() {
			if _, _, ok := info.structFields.Find(name); ok {
				return info, name, true
			}
		}
	}
	return OptionTypeInfo{}, "", false
}

// Kind returns the descriptor's option type.
func (o *OptionTypeInfo) Kind() OptionType { return o.typ }

// Verification returns how the comparator treats this field.
func (o *OptionTypeInfo) Verification() VerificationType { return o.verification }

// FieldOwnership reports how an object field relates to its referent.
func (o *OptionTypeInfo) FieldOwnership() Ownership { return o.ownership }

// IsDeprecated reports whether parsing the field is a silent no-op.
func (o *OptionTypeInfo) IsDeprecated() bool { return o.verification == VerifyDeprecated }

// IsAlias reports whether the field is an alternate spelling of another.
func (o *OptionTypeInfo) IsAlias() bool { return o.verification == VerifyAlias }

// IsMutable reports whether the field may change on a live object.
func (o *OptionTypeInfo) IsMutable() bool { return o.flags&FlagMutable != 0 }

// CanBeNull reports whether the parser accepts the null sentinel.
func (o *OptionTypeInfo) CanBeNull() bool {
	return o.flags&FlagAllowNull != 0 ||
		o.verification == VerifyByNameAllowNull ||
		o.verification == VerifyByNameAllowFromNull
}

// IsStruct reports whether the field recurses into a nested flat table.
func (o *OptionTypeInfo) IsStruct() bool { return o.typ == TypeStruct }

// IsConfigurable reports whether the field holds a configurable object.
func (o *OptionTypeInfo) IsConfigurable() bool {
	return o.typ == TypeConfigurable || o.typ == TypeCustomizable
}

// IsCustomizable reports whether the field holds a registry-resolved object.
func (o *OptionTypeInfo) IsCustomizable() bool { return o.typ == TypeCustomizable }

// ShouldSerialize reports whether serialization includes the field.
func (o *OptionTypeInfo) ShouldSerialize() bool {
	if o.flags&FlagDontSerialize != 0 {
		return false
	}
	return o.verification != VerifyDeprecated && o.verification != VerifyAlias
}

// ShouldPrepare reports whether a parsed nested object is prepared
// automatically.
func (o *OptionTypeInfo) ShouldPrepare() bool { return o.flags&FlagDontPrepare == 0 }

// Level returns the field's comparison strictness, taken from the low byte
// of the flags. A zero low byte means exact.
func (o *OptionTypeInfo) Level() SanityLevel {
	level := SanityLevel(o.flags & 0xFF)
	if level == 0 {
		return SanityLevelExactMatch
	}
	return level
}

// IsEnabled reports whether any of the given flag bits are set.
func (o *OptionTypeInfo) IsEnabled(flags OptionTypeFlags) bool { return o.flags&flags != 0 }

// WithFlags returns a copy of the descriptor with the given flags merged in.
func (o OptionTypeInfo) WithFlags(flags OptionTypeFlags) OptionTypeInfo {
	o.flags |= flags
	return o
}

// WithVerification returns a copy with the given verification mode.
func (o OptionTypeInfo) WithVerification(v VerificationType) OptionTypeInfo {
	o.verification = v
	return o
}

// WithOwnership returns a copy with the given ownership.
func (o OptionTypeInfo) WithOwnership(ow Ownership) OptionTypeInfo {
	o.ownership = ow
	return o
}

// WithParse returns a copy whose parsing is handled by fn.
func (o OptionTypeInfo) WithParse(fn ParseFunc) OptionTypeInfo {
	o.parse = fn
	return o
}

// WithSerialize returns a copy whose serialization is handled by fn.
func (o OptionTypeInfo) WithSerialize(fn SerializeFunc) OptionTypeInfo {
	o.serialize = fn
	return o
}

// WithEquals returns a copy whose equality is decided by fn.
func (o OptionTypeInfo) WithEquals(fn EqualsFunc) OptionTypeInfo {
	o.equals = fn
	return o
}

// wrapAccess adapts a typed accessor to the untyped AccessFunc the engines
// use. A wrong-typed or nil target resolves to nil.
func wrapAccess[O any, F any](access func(*O) *F) AccessFunc {
	return func(target any) any {
		owner, ok := target.(*O)
		if !ok || owner == nil {
			return nil
		}
		field := access(owner)
		if field == nil {
			return nil
		}
		return field
	}
}

func scalar[O any, F any](typ OptionType, access func(*O) *F) OptionTypeInfo {
	return OptionTypeInfo{typ: typ, access: wrapAccess(access)}
}

// Bool describes a boolean field of structures of type O.
func Bool[O any](access func(*O) *bool) OptionTypeInfo { return scalar(TypeBoolean, access) }

// Int describes an int field.
func Int[O any](access func(*O) *int) OptionTypeInfo { return scalar(TypeInt, access) }

// Int32 describes an int32 field.
func Int32[O any](access func(*O) *int32) OptionTypeInfo { return scalar(TypeInt32, access) }

// Int64 describes an int64 field.
func Int64[O any](access func(*O) *int64) OptionTypeInfo { return scalar(TypeInt64, access) }

// UInt describes a uint field.
func UInt[O any](access func(*O) *uint) OptionTypeInfo { return scalar(TypeUInt, access) }

// UInt32 describes a uint32 field.
func UInt32[O any](access func(*O) *uint32) OptionTypeInfo { return scalar(TypeUInt32, access) }

// UInt64 describes a uint64 field.
func UInt64[O any](access func(*O) *uint64) OptionTypeInfo { return scalar(TypeUInt64, access) }

// SizeT describes a size-valued field, stored as uint64.
func SizeT[O any](access func(*O) *uint64) OptionTypeInfo { return scalar(TypeSizeT, access) }

// Double describes a float64 field. Doubles compare equal within a small
// absolute tolerance.
func Double[O any](access func(*O) *float64) OptionTypeInfo { return scalar(TypeDouble, access) }

// String describes a string field.
func String[O any](access func(*O) *string) OptionTypeInfo { return scalar(TypeString, access) }

// Deprecated describes a field that is accepted and ignored. It keeps old
// configuration strings parseable after the option is removed.
func Deprecated() OptionTypeInfo {
	return OptionTypeInfo{typ: TypeUnknown, verification: VerifyDeprecated}
}

// Alias describes an alternate spelling that parses exactly like info but is
// never serialized or compared.
func Alias(info OptionTypeInfo) OptionTypeInfo {
	info.verification = VerifyAlias
	return info
}

// Enum describes a field whose textual form is defined by a name-to-value
// table. Serialization scans the table for the stored value; an unmapped
// name or value on either path is an error.
func Enum[O any, T comparable](table map[string]T, access func(*O) *T) OptionTypeInfo {
	typedAccess := wrapAccess(access)
	info := OptionTypeInfo{typ: TypeEnum, access: typedAccess}
	info.parse = func(name, value string, _ *ConfigOptions, target any) error {
		addr, ok := typedAccess(target).(*T)
		if !ok {
			return notFoundForField(name)
		}
		v, ok := table[value]
		if !ok {
			return errors.InvalidArgument("no mapping for enum", name)
		}
		*addr = v
		return nil
	}
	info.enumSerialize = func(addr any) (string, bool) {
		p, ok := addr.(*T)
		if !ok {
			return "", false
		}
		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if table[name] == *p {
				return name, true
			}
		}
		return "", false
	}
	info.enumEquals = func(this, that any) bool {
		a, aok := this.(*T)
		b, bok := that.(*T)
		return aok && bok && *a == *b
	}
	return info
}

// Struct describes a field that is itself a flat structure with its own
// descriptor table. Its serialized form is a braced key=value list, and its
// options are addressable as "structName.field".
func Struct[O any, S any](structName string, fields FieldMap, access func(*O) *S) OptionTypeInfo {
	info := OptionTypeInfo{
		typ:          TypeStruct,
		access:       wrapAccess(access),
		structName:   structName,
		structFields: fields,
	}
	info.parse = func(name, value string, cfg *ConfigOptions, target any) error {
		return ParseStruct(structName, fields, name, value, cfg, info.access(target))
	}
	info.serialize = func(name string, target any, cfg *ConfigOptions) (string, error) {
		return SerializeStruct(structName, fields, name, info.access(target), cfg)
	}
	info.equals = func(name string, this, that any, cfg *ConfigOptions) (bool, string) {
		return MatchesStruct(structName, fields, name, info.access(this), info.access(that), cfg)
	}
	return info
}

// Vector describes a slice field whose elements are parsed, serialized, and
// compared through elem. Elements are joined by separator; an element whose
// text contains the separator is wrapped in braces.
func Vector[O any, E any](separator byte, elem OptionTypeInfo, access func(*O) *[]E) OptionTypeInfo {
	typedAccess := wrapAccess(access)
	info := OptionTypeInfo{typ: TypeVector, access: typedAccess}
	info.parse = func(name, value string, cfg *ConfigOptions, target any) error {
		addr, ok := typedAccess(target).(*[]E)
		if !ok {
			return notFoundForField(name)
		}
		return ParseVector(&elem, separator, name, value, cfg, addr)
	}
	info.serialize = func(name string, target any, cfg *ConfigOptions) (string, error) {
		addr, ok := typedAccess(target).(*[]E)
		if !ok {
			return "", notFoundForField(name)
		}
		return SerializeVector(&elem, separator, name, *addr, cfg)
	}
	info.equals = func(name string, this, that any, cfg *ConfigOptions) (bool, string) {
		a, aok := typedAccess(this).(*[]E)
		b, bok := typedAccess(that).(*[]E)
		if !aok || !bok {
			return false, name
		}
		return MatchesVector(&elem, name, *a, *b, cfg)
	}
	return info
}

// Self is the identity accessor, for describing vector elements.
func Self[E any](e *E) *E { return e }

// ConfigurableOption describes a field holding a nested configurable object
// that is configured in place rather than replaced.
func ConfigurableOption[O any, T Configurable](access func(*O) *T) OptionTypeInfo {
	typedAccess := wrapAccess(access)
	info := OptionTypeInfo{typ: TypeConfigurable, access: typedAccess, ownership: OwnershipInline}
	info.asConfig = func(target any) Configurable {
		addr, ok := typedAccess(target).(*T)
		if !ok {
			return nil
		}
		return asConfigurable(*addr)
	}
	return info
}

// CustomizableOption describes a polymorphic field whose concrete implementation
// is selected by a type-id string. Parsing replaces the field's object: the
// id is resolved through factory when given one, then through the registry
// carried by the session. objType names the object family in the registry.
func CustomizableOption[O any, T Customizable](
	objType string,
	verification VerificationType,
	flags OptionTypeFlags,
	access func(*O) *T,
	factory func(id string) (T, bool),
) OptionTypeInfo {
	typedAccess := wrapAccess(access)
	info := OptionTypeInfo{
		typ:          TypeCustomizable,
		verification: verification,
		flags:        flags,
		access:       typedAccess,
		ownership:    OwnershipShared,
	}
	info.asConfig = func(target any) Configurable {
		addr, ok := typedAccess(target).(*T)
		if !ok {
			return nil
		}
		return asConfigurable(*addr)
	}
	info.parse = func(name, value string, cfg *ConfigOptions, target any) error {
		addr, ok := typedAccess(target).(*T)
		if !ok {
			return notFoundForField(name)
		}
		err := LoadObject(objType, value, factory, cfg, addr)
		if err != nil {
			return errors.WithOption(err, name)
		}
		return nil
	}
	return info
}
