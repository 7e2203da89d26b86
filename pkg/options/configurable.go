package options

import (
	"reflect"
	"sort"
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
)

// Configurable is an object whose options are described by registered
// descriptor tables and driven through the textual form. Implementations
// embed BaseConfigurable, which provides every method; the unexported
// methods keep the contract within this package.
type Configurable interface {
	// ConfigureFromMap applies the assignments in opts. Applied in sorted
	// key order; unresolvable cross-references between fields are retried
	// until no progress is made.
	ConfigureFromMap(opts map[string]string, cfg *ConfigOptions) error

	// ConfigureFromString parses opts as a delimited key=value list and
	// applies it.
	ConfigureFromString(opts string, cfg *ConfigOptions) error

	// ConfigureOption applies a single assignment.
	ConfigureOption(name, value string, cfg *ConfigOptions) error

	// GetOptionString serializes every registered option as a key=value
	// list.
	GetOptionString(cfg *ConfigOptions) (string, error)

	// ToString is GetOptionString wrapped for embedding: the result
	// re-tokenizes as a single value.
	ToString(cfg *ConfigOptions) string

	// GetOption serializes one option by name, including dotted access to
	// nested fields.
	GetOption(name string, cfg *ConfigOptions) (string, error)

	// GetOptionNames lists the addressable options, excluding deprecated
	// fields and aliases.
	GetOptionNames(cfg *ConfigOptions) []string

	// Matches reports whether other is semantically equivalent under the
	// session's sanity level. On mismatch the second result names the
	// offending option.
	Matches(other Configurable, cfg *ConfigOptions) (bool, string)

	// PrepareOptions finalizes the object after configuration, recursing
	// into nested objects. An object that fails preparation is unusable.
	PrepareOptions(cfg *ConfigOptions) error

	// ValidateOptions checks cross-field consistency, recursing into
	// nested objects.
	ValidateOptions(cfg *ConfigOptions) error

	// optionName maps an incoming option name to the name the descriptor
	// tables know it by.
	optionName(name string) string

	// optionsTarget returns the registered target structure for the given
	// registration name, or nil.
	optionsTarget(name string) any
}

type registeredOptions struct {
	name   string
	target any
	fields FieldMap
}

// BaseConfigurable supplies the standard Configurable behavior. Embed it and
// call RegisterOptions from the constructor, passing the outer object so
// overridden methods dispatch dynamically.
type BaseConfigurable struct {
	self       Configurable
	registered []*registeredOptions
}

// RegisterOptions attaches a descriptor table for target under name. self is
// the outermost object; pass the embedding struct.
func (c *BaseConfigurable) RegisterOptions(self Configurable, name string, target any, fields FieldMap) {
	if c.self == nil {
		c.self = self
	}
	c.registered = append(c.registered, &registeredOptions{
		name:   name,
		target: target,
		fields: fields,
	})
}

// dispatch returns the outermost object so overridden methods are honored.
func (c *BaseConfigurable) dispatch() Configurable {
	if c.self != nil {
		return c.self
	}
	return c
}

func (c *BaseConfigurable) optionName(name string) string { return name }

func (c *BaseConfigurable) dispatchName(name string) string {
	return c.dispatch().optionName(name)
}

func (c *BaseConfigurable) optionsTarget(name string) any {
	for _, o := range c.registered {
		if o.name == name {
			return o.target
		}
	}
	return nil
}

// ConfigureFromMap applies opts in sorted key order.
func (c *BaseConfigurable) ConfigureFromMap(opts map[string]string, cfg *ConfigOptions) error {
	return c.configure(mapToPairs(opts), cfg)
}

// ConfigureFromString parses and applies a delimited key=value list. An
// empty string is a no-op; a non-empty string without structure is an error.
func (c *BaseConfigurable) ConfigureFromString(opts string, cfg *ConfigOptions) error {
	opts = strings.TrimSpace(opts)
	if opts == "" {
		return nil
	}
	if !strings.ContainsAny(opts, ";=") {
		return errors.InvalidArgument("cannot parse option string", opts)
	}
	pairs, err := StringToMap(opts)
	if err != nil {
		return err
	}
	return c.configure(pairs, cfg)
}

// configure is the shared application path. In strict sessions the current
// state is snapshotted first and restored if anything fails, so a failed
// configure leaves the object as it was.
func (c *BaseConfigurable) configure(pairs []KeyValue, cfg *ConfigOptions) error {
	var snapshot string
	if !cfg.IgnoreUnknownOptions {
		snapshot, _ = c.GetOptionString(cfg)
	}
	var err error
	if len(pairs) > 0 {
		_, err = c.configurePairs(pairs, cfg)
	}
	if err == nil && cfg.InvokePrepareOptions {
		err = c.dispatch().PrepareOptions(cfg)
	}
	if err != nil && snapshot != "" {
		reset := *cfg
		reset.IgnoreUnknownOptions = true
		reset.InvokePrepareOptions = true
		_ = c.dispatch().ConfigureFromString(snapshot, &reset)
	}
	return err
}

// configurePairs feeds the assignments through each registered table in
// turn. Names one table does not know are offered to the next; whatever is
// left over is unknown.
func (c *BaseConfigurable) configurePairs(pairs []KeyValue, cfg *ConfigOptions) ([]KeyValue, error) {
	remaining := append([]KeyValue(nil), pairs...)
	var firstErr error
	for _, o := range c.registered {
		if len(remaining) == 0 {
			break
		}
		var err error
		remaining, err = c.configureSection(o, remaining, cfg)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return remaining, firstErr
	}
	if len(remaining) > 0 && !cfg.IgnoreUnknownOptions {
		return remaining, errors.NotFound("could not find option", remaining[0].Key)
	}
	return remaining, nil
}

// configureSection applies as many assignments as possible against one
// descriptor table, sweeping repeatedly while progress is made so that
// options whose parse depends on another option in the same map (an object's
// id before its nested settings, for instance) settle regardless of order.
func (c *BaseConfigurable) configureSection(o *registeredOptions,
	pairs []KeyValue, cfg *ConfigOptions) ([]KeyValue, error) {
	remaining := pairs
	var invalid, notSupported error
	progress := true
	for progress && len(remaining) > 0 {
		progress = false
		next := make([]KeyValue, 0, len(remaining))
		for _, kv := range remaining {
			name := c.dispatchName(kv.Key)
			info, elem, ok := o.fields.Find(name)
			var err error
			if !ok {
				err = errors.NotFound("could not find option", name)
			} else {
				err = c.doConfigureOption(&info, name, elem, kv.Value, cfg, o.target)
			}
			switch {
			case err == nil:
				progress = true
			case errors.IsNotFound(err):
				next = append(next, kv)
			case errors.IsNotSupported(err):
				if !cfg.IgnoreUnknownObjects {
					notSupported = err
				}
				progress = true
			default:
				if !cfg.IgnoreUnknownOptions {
					invalid = err
				}
				progress = true
			}
		}
		remaining = next
	}
	if invalid != nil {
		return remaining, invalid
	}
	return remaining, notSupported
}

// doConfigureOption routes one assignment to a matched descriptor. The
// dotted forms of nested objects either recurse through the descriptor or,
// for a configured object addressed by its id, forward to the object itself.
func (c *BaseConfigurable) doConfigureOption(info *OptionTypeInfo,
	fullName, elemName, value string, cfg *ConfigOptions, target any) error {
	switch {
	case fullName == elemName:
		return info.Parse(elemName, value, cfg, target)
	case info.IsCustomizable() && strings.HasSuffix(fullName, IdPropSuffix):
		return info.Parse(elemName, value, cfg, target)
	case info.IsStruct():
		return info.Parse(elemName, value, cfg, target)
	case info.IsCustomizable():
		custom := asCustomizable(info.asConfig(target))
		if value == "" {
			return nil
		}
		if custom == nil || !strings.HasPrefix(elemName, custom.GetId()+".") {
			return errors.NotFound("could not find customizable option", fullName)
		}
		if strings.Contains(value, "=") {
			return custom.ConfigureFromString(value, cfg)
		}
		return custom.ConfigureOption(elemName, value, cfg)
	case info.IsConfigurable():
		return info.Parse(elemName, value, cfg, target)
	default:
		return errors.NotFound("could not find option", fullName)
	}
}

// ConfigureOption applies a single assignment by name.
func (c *BaseConfigurable) ConfigureOption(name, value string, cfg *ConfigOptions) error {
	short := c.dispatchName(name)
	for _, o := range c.registered {
		if info, elem, ok := o.fields.Find(short); ok {
			return c.doConfigureOption(&info, short, elem, value, cfg, o.target)
		}
	}
	return errors.NotFound("could not find option", name)
}

// GetOptionString serializes every registered table.
func (c *BaseConfigurable) GetOptionString(cfg *ConfigOptions) (string, error) {
	var b strings.Builder
	for _, o := range c.registered {
		text, err := serializeFields(o.fields, o.target, cfg)
		if err != nil {
			return "", err
		}
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(cfg.Delimiter)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

// ToString renders the object for embedding in a larger option string.
func (c *BaseConfigurable) ToString(cfg *ConfigOptions) string {
	text, err := c.GetOptionString(cfg)
	if err != nil {
		return ""
	}
	return wrapEmbedded(text)
}

func wrapEmbedded(text string) string {
	if strings.ContainsAny(text, "={}") {
		return "{" + text + "}"
	}
	return text
}

// GetOption serializes one option by name, supporting dotted access into
// nested objects.
func (c *BaseConfigurable) GetOption(name string, cfg *ConfigOptions) (string, error) {
	short := c.dispatchName(name)
	embedded := *cfg
	embedded.Delimiter = ";"
	for _, o := range c.registered {
		info, elem, ok := o.fields.Find(short)
		if !ok {
			continue
		}
		if elem != short && info.IsConfigurable() && !info.IsStruct() {
			config := info.asConfig(o.target)
			if config == nil {
				return "", errors.NotFound("could not find option", name)
			}
			return config.GetOption(elem, cfg)
		}
		return info.Serialize(elem, o.target, &embedded)
	}
	return "", errors.NotFound("could not find option", name)
}

// GetOptionNames lists the addressable options. With MutableOptionsOnly set
// only mutable fields are listed.
func (c *BaseConfigurable) GetOptionNames(cfg *ConfigOptions) []string {
	var names []string
	for _, o := range c.registered {
		for name, info := range o.fields {
			if info.IsDeprecated() || info.IsAlias() {
				continue
			}
			if cfg.MutableOptionsOnly && !info.IsMutable() {
				continue
			}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Matches compares every registered table against other's table of the same
// registration name.
func (c *BaseConfigurable) Matches(other Configurable, cfg *ConfigOptions) (bool, string) {
	if other == nil {
		return false, ""
	}
	if cfg.IsCheckDisabled() || c.dispatch() == other {
		return true, ""
	}
	return c.matchesRegistered(other, cfg)
}

func (c *BaseConfigurable) matchesRegistered(other Configurable, cfg *ConfigOptions) (bool, string) {
	for _, o := range c.registered {
		that := other.optionsTarget(o.name)
		if o.target == nil || that == nil || o.target == that {
			continue
		}
		if ok, mismatch := MatchesFieldMap(o.fields, o.target, that, cfg); !ok {
			return false, mismatch
		}
	}
	return true, ""
}

// PrepareOptions prepares every nested object not marked for manual
// preparation.
func (c *BaseConfigurable) PrepareOptions(cfg *ConfigOptions) error {
	for _, o := range c.registered {
		for _, name := range o.fields.sortedNames() {
			info := o.fields[name]
			if !info.IsConfigurable() || !info.ShouldPrepare() {
				continue
			}
			config := info.asConfig(o.target)
			if config == nil {
				continue
			}
			if err := config.PrepareOptions(cfg); err != nil {
				return errors.WithOption(err, name)
			}
		}
	}
	return nil
}

// ValidateOptions checks that required nested objects are present and valid.
func (c *BaseConfigurable) ValidateOptions(cfg *ConfigOptions) error {
	for _, o := range c.registered {
		for _, name := range o.fields.sortedNames() {
			info := o.fields[name]
			if !info.IsConfigurable() {
				continue
			}
			config := info.asConfig(o.target)
			if config == nil {
				if info.CanBeNull() {
					continue
				}
				return errors.InvalidArgument("missing configurable object", name)
			}
			if err := config.ValidateOptions(cfg); err != nil {
				return errors.WithOption(err, name)
			}
		}
	}
	return nil
}

// asConfigurable converts a typed object to the Configurable interface,
// mapping a typed nil pointer to a nil interface.
func asConfigurable[T Configurable](v T) Configurable {
	var config Configurable = v
	if config == nil {
		return nil
	}
	if rv := reflect.ValueOf(config); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	return config
}

// asCustomizable narrows a Configurable to Customizable, or nil.
func asCustomizable(config Configurable) Customizable {
	if config == nil {
		return nil
	}
	custom, ok := config.(Customizable)
	if !ok {
		return nil
	}
	return custom
}
