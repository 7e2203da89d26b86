package options

import (
	"strconv"
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
)

// Serialize renders the field this descriptor addresses within target as
// text. Deprecated fields and aliases render as the empty string; fields
// flagged FlagDontSerialize fail as not supported, so callers iterating a
// whole table consult ShouldSerialize first.
func (o *OptionTypeInfo) Serialize(name string, target any, cfg *ConfigOptions) (string, error) {
	if o.IsDeprecated() || o.IsAlias() {
		return "", nil
	}
	if o.IsEnabled(FlagDontSerialize) {
		return "", errors.NotSupported("cannot serialize option", name)
	}
	if o.serialize != nil {
		return o.serialize(name, target, cfg)
	}
	addr := o.access(target)
	if addr == nil {
		return "", notFoundForField(name)
	}
	switch o.typ {
	case TypeBoolean, TypeInt, TypeInt32, TypeInt64,
		TypeUInt, TypeUInt32, TypeUInt64, TypeSizeT,
		TypeDouble, TypeString:
		return serializeScalar(o.typ, addr), nil
	case TypeEnum:
		if o.enumSerialize != nil {
			if text, ok := o.enumSerialize(addr); ok {
				return text, nil
			}
		}
		return "", errors.InvalidArgument("no mapping for enum", name)
	case TypeConfigurable, TypeCustomizable:
		return serializeConfigurable(o, target, cfg), nil
	case TypeSliceTransform:
		return serializeSliceTransform(addr, name)
	default:
		return "", errors.InvalidArgument("cannot serialize option", name)
	}
}

func serializeScalar(typ OptionType, addr any) string {
	switch typ {
	case TypeBoolean:
		return strconv.FormatBool(*addr.(*bool))
	case TypeInt:
		return strconv.Itoa(*addr.(*int))
	case TypeInt32:
		return strconv.FormatInt(int64(*addr.(*int32)), 10)
	case TypeInt64:
		return strconv.FormatInt(*addr.(*int64), 10)
	case TypeUInt:
		return strconv.FormatUint(uint64(*addr.(*uint)), 10)
	case TypeUInt32:
		return strconv.FormatUint(uint64(*addr.(*uint32)), 10)
	case TypeUInt64, TypeSizeT:
		return strconv.FormatUint(*addr.(*uint64), 10)
	case TypeDouble:
		return strconv.FormatFloat(*addr.(*float64), 'f', -1, 64)
	case TypeString:
		return EscapeOptionString(*addr.(*string))
	}
	return ""
}

// serializeConfigurable renders an object field: the null sentinel when
// absent, the id alone in shallow mode, otherwise the full nested form.
func serializeConfigurable(o *OptionTypeInfo, target any, cfg *ConfigOptions) string {
	config := o.asConfig(target)
	if config == nil {
		return NullptrString
	}
	if custom, ok := config.(Customizable); ok {
		if o.IsEnabled(FlagStringShallow) || cfg.IsShallow() {
			return custom.GetId()
		}
	}
	return config.ToString(cfg.Embedded())
}

// serializeFields renders every serializable field of one descriptor table
// as "name=value" pairs joined by the session delimiter, in sorted field
// order.
func serializeFields(fields FieldMap, target any, cfg *ConfigOptions) (string, error) {
	var b strings.Builder
	for _, name := range fields.sortedNames() {
		info := fields[name]
		if !info.ShouldSerialize() {
			continue
		}
		value, err := info.Serialize(name, target, cfg)
		if err != nil {
			return "", errors.WithOption(err, name)
		}
		if b.Len() > 0 {
			b.WriteString(cfg.Delimiter)
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(value)
	}
	return b.String(), nil
}

// SerializeStruct handles the addressing forms of a nested struct field. The
// whole-struct form is always brace wrapped.
func SerializeStruct(structName string, fields FieldMap, name string,
	target any, cfg *ConfigOptions) (string, error) {
	if target == nil {
		return "", notFoundForField(name)
	}
	if name == structName || strings.HasSuffix(name, "."+structName) {
		body, err := serializeFields(fields, target, cfg.Embedded())
		if err != nil {
			return "", err
		}
		return "{" + body + "}", nil
	}
	fieldName := strings.TrimPrefix(name, structName+".")
	info, elem, ok := fields.Find(fieldName)
	if !ok {
		return "", errors.NotFound("could not find option", structName+"."+fieldName)
	}
	return info.Serialize(elem, target, cfg)
}

// SerializeVector joins element texts with separator. An element containing
// the separator is brace wrapped, and the whole result is brace wrapped when
// it contains '=' so that it re-tokenizes as a single value.
func SerializeVector[E any](elem *OptionTypeInfo, separator byte, name string,
	vec []E, cfg *ConfigOptions) (string, error) {
	var b strings.Builder
	for i := range vec {
		text, err := elem.Serialize(name, &vec[i], cfg)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteByte(separator)
		}
		if strings.IndexByte(text, separator) >= 0 {
			b.WriteString("{" + text + "}")
		} else {
			b.WriteString(text)
		}
	}
	result := b.String()
	if strings.Contains(result, "=") {
		return "{" + result + "}", nil
	}
	return result, nil
}
