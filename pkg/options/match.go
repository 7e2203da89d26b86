package options

import (
	"math"
	"strings"
)

// doubleTolerance is the absolute difference under which two doubles are
// considered equal.
const doubleTolerance = 1e-5

// Matches compares the field this descriptor addresses in two targets.
// Fields below the session's sanity level, deprecated fields, and aliases
// always match. On mismatch the second result names the offending option.
func (o *OptionTypeInfo) Matches(name string, this, that any, cfg *ConfigOptions) (bool, string) {
	if o.IsDeprecated() || o.IsAlias() {
		return true, ""
	}
	if !cfg.IsCheckEnabled(o.Level()) {
		return true, ""
	}
	if o.equals != nil {
		return o.equals(name, this, that, cfg)
	}
	thisAddr := o.access(this)
	thatAddr := o.access(that)
	if thisAddr == nil || thatAddr == nil {
		if thisAddr == nil && thatAddr == nil {
			return true, ""
		}
		return false, name
	}
	switch o.typ {
	case TypeBoolean, TypeInt, TypeInt32, TypeInt64,
		TypeUInt, TypeUInt32, TypeUInt64, TypeSizeT,
		TypeString:
		if serializeScalar(o.typ, thisAddr) == serializeScalar(o.typ, thatAddr) {
			return true, ""
		}
		return false, name
	case TypeDouble:
		if math.Abs(*thisAddr.(*float64)-*thatAddr.(*float64)) < doubleTolerance {
			return true, ""
		}
		return false, name
	case TypeEnum:
		if o.enumEquals != nil && o.enumEquals(thisAddr, thatAddr) {
			return true, ""
		}
		return false, name
	case TypeConfigurable, TypeCustomizable:
		return o.matchesConfigurable(name, this, that, cfg)
	default:
		// No equality rule; the caller may still fall back to a textual
		// comparison for by-name fields.
		return false, name
	}
}

func (o *OptionTypeInfo) matchesConfigurable(name string, this, that any, cfg *ConfigOptions) (bool, string) {
	thisConfig := o.asConfig(this)
	thatConfig := o.asConfig(that)
	switch {
	case thisConfig == nil && thatConfig == nil:
		return true, ""
	case thisConfig == nil || thatConfig == nil:
		return false, name
	}
	// A loosely compared field never holds its object to a stricter
	// standard than its own level.
	if level := o.Level(); level < cfg.SanityLevel {
		copied := *cfg
		copied.SanityLevel = level
		cfg = &copied
	}
	if ok, mismatch := thisConfig.Matches(thatConfig, cfg); !ok {
		if mismatch == "" {
			mismatch = name
		} else {
			mismatch = name + "." + mismatch
		}
		return false, mismatch
	}
	return true, ""
}

// CheckByName reports whether the field's serialized texts agree, applying
// the null allowances of the field's verification mode. It only applies to
// by-name fields; others never match this way. that is the reference side
// for the from-null allowance.
func (o *OptionTypeInfo) CheckByName(name string, this, that any, cfg *ConfigOptions) bool {
	switch o.verification {
	case VerifyByName, VerifyByNameAllowNull, VerifyByNameAllowFromNull:
	default:
		return false
	}
	thisValue, thisErr := o.Serialize(name, this, cfg)
	thatValue, thatErr := o.Serialize(name, that, cfg)
	if thisErr != nil || thatErr != nil {
		return false
	}
	switch o.verification {
	case VerifyByNameAllowNull:
		if thisValue == NullptrString || thatValue == NullptrString {
			return true
		}
	case VerifyByNameAllowFromNull:
		if thatValue == NullptrString {
			return true
		}
	}
	return thisValue == thatValue
}

// MatchesStruct compares a nested struct field. The whole-struct form
// compares every inner field; the dotted and bare forms compare one.
func MatchesStruct(structName string, fields FieldMap, name string,
	this, that any, cfg *ConfigOptions) (bool, string) {
	if this == nil || that == nil {
		if this == nil && that == nil {
			return true, ""
		}
		return false, name
	}
	if name == structName || strings.HasSuffix(name, "."+structName) {
		for _, field := range fields.sortedNames() {
			info := fields[field]
			if ok, mismatch := info.Matches(field, this, that, cfg); !ok {
				if mismatch == "" {
					mismatch = field
				}
				return false, structName + "." + mismatch
			}
		}
		return true, ""
	}
	fieldName := strings.TrimPrefix(name, structName+".")
	info, elem, ok := fields.Find(fieldName)
	if !ok {
		return false, structName + "." + fieldName
	}
	if ok, mismatch := info.Matches(elem, this, that, cfg); !ok {
		if mismatch == "" {
			mismatch = fieldName
		}
		return false, structName + "." + mismatch
	}
	return true, ""
}

// MatchesVector compares two slices element by element. Lengths must agree.
func MatchesVector[E any](elem *OptionTypeInfo, name string,
	this, that []E, cfg *ConfigOptions) (bool, string) {
	if len(this) != len(that) {
		return false, name
	}
	for i := range this {
		if ok, mismatch := elem.Matches(name, &this[i], &that[i], cfg); !ok {
			return false, mismatch
		}
	}
	return true, ""
}

// MatchesFieldMap compares every field of one descriptor table between two
// targets, falling back to a textual comparison for by-name fields whose
// values do not compare equal directly.
func MatchesFieldMap(fields FieldMap, this, that any, cfg *ConfigOptions) (bool, string) {
	for _, name := range fields.sortedNames() {
		info := fields[name]
		if cfg.MutableOptionsOnly && !info.IsMutable() {
			continue
		}
		ok, mismatch := info.Matches(name, this, that, cfg)
		if ok {
			continue
		}
		if info.CheckByName(name, this, that, cfg) {
			continue
		}
		if mismatch == "" {
			mismatch = name
		}
		return false, mismatch
	}
	return true, ""
}
