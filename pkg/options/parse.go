package options

import (
	"strconv"
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
)

// Parse converts value into the field this descriptor addresses within
// target. Deprecated fields succeed without effect. A custom parse closure,
// when present, takes over entirely (struct, vector, and customizable
// descriptors install one).
func (o *OptionTypeInfo) Parse(name, value string, cfg *ConfigOptions, target any) error {
	if o.IsDeprecated() {
		return nil
	}
	if cfg.MutableOptionsOnly && !o.IsMutable() {
		return errors.InvalidArgument("option not changeable", name)
	}
	if o.parse != nil {
		parseCfg := cfg
		if !o.ShouldPrepare() {
			copied := *cfg
			copied.InvokePrepareOptions = false
			parseCfg = &copied
		}
		return o.parse(name, value, parseCfg, target)
	}
	addr := o.access(target)
	if addr == nil {
		return notFoundForField(name)
	}
	switch o.typ {
	case TypeBoolean, TypeInt, TypeInt32, TypeInt64,
		TypeUInt, TypeUInt32, TypeUInt64, TypeSizeT,
		TypeDouble, TypeString:
		if cfg.InputStringsEscaped {
			value = UnescapeOptionString(value)
		}
		return parseScalar(o.typ, name, value, addr)
	case TypeEnum:
		// Enum descriptors install a parse closure; one without a table
		// cannot be parsed.
		return errors.NotSupported("no enum mapping", name)
	case TypeConfigurable, TypeCustomizable:
		config := o.asConfig(target)
		if config == nil {
			return notFoundForField(name)
		}
		return errors.WithOption(config.ConfigureFromString(value, cfg), name)
	case TypeSliceTransform:
		return parseSliceTransformOption(o, name, value, addr)
	default:
		return errors.InvalidArgument("cannot parse option", name)
	}
}

func parseScalar(typ OptionType, name, value string, addr any) error {
	if typ != TypeString {
		value = strings.TrimSpace(value)
	}
	var err error
	switch typ {
	case TypeBoolean:
		var v bool
		if v, err = strconv.ParseBool(value); err == nil {
			*addr.(*bool) = v
		}
	case TypeInt:
		var v int64
		if v, err = strconv.ParseInt(value, 10, 0); err == nil {
			*addr.(*int) = int(v)
		}
	case TypeInt32:
		var v int64
		if v, err = strconv.ParseInt(value, 10, 32); err == nil {
			*addr.(*int32) = int32(v)
		}
	case TypeInt64:
		var v int64
		if v, err = strconv.ParseInt(value, 10, 64); err == nil {
			*addr.(*int64) = v
		}
	case TypeUInt:
		var v uint64
		if v, err = strconv.ParseUint(value, 10, 0); err == nil {
			*addr.(*uint) = uint(v)
		}
	case TypeUInt32:
		var v uint64
		if v, err = strconv.ParseUint(value, 10, 32); err == nil {
			*addr.(*uint32) = uint32(v)
		}
	case TypeUInt64, TypeSizeT:
		var v uint64
		if v, err = parseSizeSuffixed(value); err == nil {
			*addr.(*uint64) = v
		}
	case TypeDouble:
		var v float64
		if v, err = strconv.ParseFloat(value, 64); err == nil {
			*addr.(*float64) = v
		}
	case TypeString:
		*addr.(*string) = value
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInvalidArgument,
			"cannot convert value").WithOption(name)
	}
	return nil
}

// parseSizeSuffixed parses an unsigned size with an optional binary
// magnitude suffix (k, m, g, t, p), as in "4k" or "16M".
func parseSizeSuffixed(value string) (uint64, error) {
	if value == "" {
		return 0, strconv.ErrSyntax
	}
	shift := 0
	switch value[len(value)-1] {
	case 'k', 'K':
		shift = 10
	case 'm', 'M':
		shift = 20
	case 'g', 'G':
		shift = 30
	case 't', 'T':
		shift = 40
	case 'p', 'P':
		shift = 50
	}
	if shift > 0 {
		value = value[:len(value)-1]
	}
	v, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	return v << shift, nil
}

// ParseStruct handles the three addressing forms of a nested struct field:
// the struct name with a braced map value, a "structName.field" form, and a
// bare inner field name.
func ParseStruct(structName string, fields FieldMap, name, value string,
	cfg *ConfigOptions, target any) error {
	if target == nil {
		return notFoundForField(name)
	}
	if name == structName || strings.HasSuffix(name, "."+structName) {
		pairs, err := StringToMap(value)
		if err != nil {
			return errors.WithOption(err, structName)
		}
		for _, kv := range pairs {
			info, elem, ok := fields.Find(kv.Key)
			if !ok {
				if cfg.IgnoreUnknownOptions {
					continue
				}
				return errors.InvalidArgument("unrecognized option",
					structName+"."+kv.Key)
			}
			if err := info.Parse(elem, kv.Value, cfg, target); err != nil {
				return errors.WithOption(err, structName+"."+kv.Key)
			}
		}
		return nil
	}
	fieldName := strings.TrimPrefix(name, structName+".")
	info, elem, ok := fields.Find(fieldName)
	if !ok {
		return errors.NotFound("could not find option", structName+"."+fieldName)
	}
	return info.Parse(elem, value, cfg, target)
}

// ParseVector rebuilds the whole slice from a separator-joined list. An
// empty value yields an empty slice. With IgnoreUnknownObjects set, elements
// that fail as unsupported are dropped rather than failing the whole vector.
func ParseVector[E any](elem *OptionTypeInfo, separator byte, name, value string,
	cfg *ConfigOptions, result *[]E) error {
	elemCfg := cfg
	if cfg.IgnoreUnknownObjects {
		copied := *cfg
		copied.IgnoreUnknownObjects = false
		elemCfg = &copied
	}
	parsed := make([]E, 0)
	for pos := 0; pos >= 0 && pos < len(value); {
		token, next, err := NextToken(value, separator, pos)
		if err != nil {
			return errors.WithOption(err, name)
		}
		var element E
		if err := elem.Parse(name, token, elemCfg, &element); err != nil {
			if cfg.IgnoreUnknownObjects && errors.IsNotSupported(err) {
				pos = next
				continue
			}
			return err
		}
		parsed = append(parsed, element)
		pos = next
	}
	*result = parsed
	return nil
}
