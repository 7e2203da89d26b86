package options

import (
	"reflect"
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
)

// IdPropName is the reserved option naming an object's type id.
const IdPropName = "id"

// IdPropSuffix addresses the id of a nested object, as in "codec.id".
const IdPropSuffix = "." + IdPropName

// Customizable is a Configurable selected at runtime by a type id. Concrete
// implementations embed BaseCustomizable and provide Name; instances whose
// identity carries arguments (a sized prefix, a leveled codec) override
// GetId as well.
type Customizable interface {
	Configurable

	// Name returns the implementation's registered type name.
	Name() string

	// GetId returns the instance identity used for matching and shallow
	// serialization. Defaults to Name.
	GetId() string
}

// BaseCustomizable supplies the id-aware behavior on top of
// BaseConfigurable: id-first matching, id-prefixed serialization, and
// "Name.option" addressing.
type BaseCustomizable struct {
	BaseConfigurable
}

func (c *BaseCustomizable) dispatchCustom() Customizable {
	custom, _ := c.dispatch().(Customizable)
	return custom
}

// GetId returns the type name unless the concrete type overrides it.
func (c *BaseCustomizable) GetId() string {
	if custom := c.dispatchCustom(); custom != nil {
		return custom.Name()
	}
	return ""
}

// optionName strips the "Name." prefix so an object's options can be
// addressed through its owner.
func (c *BaseCustomizable) optionName(name string) string {
	custom := c.dispatchCustom()
	if custom == nil {
		return name
	}
	prefix := custom.Name() + "."
	if len(name) > len(prefix) && strings.HasPrefix(name, prefix) {
		return name[len(prefix):]
	}
	return name
}

// ToString renders the object as its id alone when it has no configured
// options or the session is shallow, otherwise as an id-prefixed braced
// list.
func (c *BaseCustomizable) ToString(cfg *ConfigOptions) string {
	var id string
	if custom := c.dispatchCustom(); custom != nil {
		id = custom.GetId()
	}
	var parent string
	if !cfg.IsShallow() {
		parent, _ = c.GetOptionString(cfg)
	}
	if parent == "" {
		return id
	}
	return wrapEmbedded(IdPropName + "=" + id + cfg.Delimiter + parent)
}

// GetOption adds the reserved id option to the base lookup.
func (c *BaseCustomizable) GetOption(name string, cfg *ConfigOptions) (string, error) {
	if c.optionName(name) == IdPropName {
		if custom := c.dispatchCustom(); custom != nil {
			return custom.GetId(), nil
		}
	}
	return c.BaseConfigurable.GetOption(name, cfg)
}

// Matches compares ids first. Two objects of different ids never match; at
// loose levels a matching id is sufficient, at exact levels the registered
// options are compared as well.
func (c *BaseCustomizable) Matches(other Configurable, cfg *ConfigOptions) (bool, string) {
	if cfg.IsCheckDisabled() || c.dispatch() == other {
		return true, ""
	}
	otherCustom := asCustomizable(other)
	if otherCustom == nil {
		return false, IdPropName
	}
	var id string
	if custom := c.dispatchCustom(); custom != nil {
		id = custom.GetId()
	}
	if id != otherCustom.GetId() {
		return false, IdPropName
	}
	if cfg.SanityLevel > SanityLevelLooselyCompatible {
		return c.matchesRegistered(other, cfg)
	}
	return true, ""
}

// GetOptionsMap splits a customizable's textual value into its type id and
// the remaining assignments. A bare word is an id; a key=value list may name
// the id explicitly, falling back to defaultID (the id of an object being
// reconfigured in place). The null sentinel and the empty string mean no
// object.
func GetOptionsMap(value, defaultID string) (string, []KeyValue, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == NullptrString {
		return "", nil, nil
	}
	if !strings.Contains(value, "=") {
		return value, nil, nil
	}
	pairs, err := StringToMap(value)
	if err != nil {
		return "", nil, err
	}
	id := defaultID
	for i, kv := range pairs {
		if kv.Key == IdPropName {
			id = kv.Value
			pairs = append(pairs[:i], pairs[i+1:]...)
			break
		}
	}
	if id == "" {
		return "", nil, errors.InvalidArgument("id property is missing", IdPropName)
	}
	return id, pairs, nil
}

// ConfigureNewObject applies inherited then explicit settings to a freshly
// created object. baseOpts carries the serialized state of the object being
// replaced when the replacement has the same id; props are the explicit
// assignments. Preparation runs once, after everything is applied.
func ConfigureNewObject(object Customizable, baseOpts string, props []KeyValue, cfg *ConfigOptions) error {
	if customizableIsNil(object) {
		if len(props) > 0 {
			return errors.InvalidArgument("cannot configure null object", props[0].Key)
		}
		return nil
	}
	if baseOpts != "" {
		noPrepare := *cfg
		noPrepare.InvokePrepareOptions = false
		if err := object.ConfigureFromString(baseOpts, &noPrepare); err != nil {
			return err
		}
	}
	if len(props) > 0 {
		return object.ConfigureFromMap(pairsToMap(props), cfg)
	}
	if cfg.InvokePrepareOptions {
		return object.PrepareOptions(cfg)
	}
	return nil
}

// LoadObject resolves value into *result: it extracts the type id, creates
// the object through factory or the session registry, carries over the old
// object's settings when the id is unchanged, and configures the result.
// An empty value resets *result. With IgnoreUnknownObjects set, an id the
// registry does not know leaves *result untouched.
func LoadObject[T Customizable](objType, value string,
	factory func(id string) (T, bool), cfg *ConfigOptions, result *T) error {
	var defaultID string
	if !customizableIsNil(*result) {
		defaultID = (*result).GetId()
	}
	id, props, err := GetOptionsMap(value, defaultID)
	if err != nil {
		return err
	}

	var baseOpts string
	if !customizableIsNil(*result) && (*result).GetId() == id {
		embedded := *cfg
		embedded.Delimiter = ";"
		baseOpts, _ = (*result).GetOptionString(&embedded)
	}

	created := false
	if factory != nil {
		if object, ok := factory(id); ok {
			*result = object
			created = true
		}
	}
	if !created {
		var zero T
		switch {
		case id == "" && len(props) == 0:
			*result = zero
			return nil
		case id == "":
			return errors.NotSupported("cannot reset object", objType)
		case cfg.Registry == nil:
			return errors.NotSupported("no object registry", id)
		default:
			object, err := cfg.Registry.NewObject(objType, id)
			if err != nil {
				if cfg.IgnoreUnknownObjects && errors.IsNotSupported(err) {
					return nil
				}
				return err
			}
			typed, ok := object.(T)
			if !ok {
				return errors.InvalidArgument("unexpected object type", id)
			}
			*result = typed
		}
	}
	return ConfigureNewObject(*result, baseOpts, props, cfg)
}

// customizableIsNil reports whether the interface is nil or wraps a nil
// pointer.
func customizableIsNil(c Customizable) bool {
	if c == nil {
		return true
	}
	rv := reflect.ValueOf(c)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
